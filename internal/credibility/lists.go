// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package credibility

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Lists holds the curated domain and keyword lists the scorer rates
// against. The lists are configuration data, loaded once at startup and
// immutable afterwards.
type Lists struct {
	// High lists high-trust publishers: major news outlets, encyclopedic
	// references, and the .gov/.edu/.org suffixes.
	High []string `yaml:"high"`

	// Medium lists mid-trust publishers: trade press and review
	// aggregators.
	Medium []string `yaml:"medium"`

	// Commercial lists commercial-intent substrings that mark sales
	// pages; a match in the domain or URL lowers the score.
	Commercial []string `yaml:"commercial"`
}

// IsZero reports whether no list has any entries.
func (l Lists) IsZero() bool {
	return len(l.High) == 0 && len(l.Medium) == 0 && len(l.Commercial) == 0
}

// DefaultLists returns the compiled-in trust lists.
func DefaultLists() Lists {
	return Lists{
		High: []string{
			"wikipedia.org", "britannica.com", "reuters.com", "bbc.com",
			"npr.org", "nytimes.com", "wsj.com", "theguardian.com",
			"forbes.com", "bloomberg.com", "cnn.com", "nbcnews.com",
			"cbsnews.com", ".gov", ".edu", ".org",
		},
		Medium: []string{
			"techcrunch.com", "wired.com", "arstechnica.com", "engadget.com",
			"motortrend.com", "caranddriver.com", "consumerreports.org",
			"trustpilot.com", "glassdoor.com", "yelp.com",
		},
		Commercial: []string{
			"buy", "sale", "shop", "store", "purchase", "deal", "discount",
			"cheap", "best-price", "for-sale", "wheels", "parts",
		},
	}
}

// LoadLists reads trust lists from a YAML file. Sections omitted from
// the file keep their compiled-in defaults, so an override file may tune
// a single list.
func LoadLists(path string) (Lists, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lists{}, fmt.Errorf("reading trust lists %s: %w", path, err)
	}

	var loaded Lists
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Lists{}, fmt.Errorf("parsing trust lists %s: %w", path, err)
	}

	defaults := DefaultLists()
	if len(loaded.High) == 0 {
		loaded.High = defaults.High
	}
	if len(loaded.Medium) == 0 {
		loaded.Medium = defaults.Medium
	}
	if len(loaded.Commercial) == 0 {
		loaded.Commercial = defaults.Commercial
	}
	return loaded, nil
}
