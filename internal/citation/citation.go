// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation renders sources into academic citation styles and
// builds the URL-to-citation lookup for a run. Formatting is pure:
// identical inputs, including the access time, yield identical output.
package citation

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/report-engine/pkg/types"
)

// accessDateLayout renders dates like "January 2, 2026".
const accessDateLayout = "January 2, 2006"

// tldSuffixes are stripped from the domain when deriving the publisher
// name. Longer suffixes are listed first so ".co.uk" wins over ".uk".
var tldSuffixes = []string{".co.uk", ".com", ".org", ".edu", ".gov", ".net", ".io", ".uk"}

// Format renders one source into the requested style. The publication
// year in APA-style and short citations is the access year; no original
// publication date is reliably available for web sources.
func Format(title, rawURL, domain string, style types.CitationStyle, accessed time.Time) string {
	publisher := PublisherFromDomain(domain)
	accessDate := accessed.Format(accessDateLayout)

	switch style {
	case types.StyleMLA:
		// "Title." Publisher, Date, URL.
		return fmt.Sprintf("\"%s.\" %s, %s, %s.", title, publisher, accessDate, rawURL)
	case types.StyleSimple:
		return fmt.Sprintf("%s. %s. Retrieved %s. %s", title, publisher, accessDate, rawURL)
	default:
		// APA: Organization. (Year). Title. Retrieved date, from URL
		return fmt.Sprintf("%s. (%d). %s. Retrieved %s, from %s", publisher, accessed.Year(), title, accessDate, rawURL)
	}
}

// BuildSourceMap builds the URL-to-citation lookup for a run's results.
// Short keys are Publisher_N with N the 1-based ordinal of the result
// within the run, so multiple sources from one publisher stay distinct.
func BuildSourceMap(results []types.SearchResult, style types.CitationStyle, accessed time.Time) map[string]types.SourceCitation {
	sourceMap := make(map[string]types.SourceCitation, len(results))
	for i, r := range results {
		publisher := PublisherFromDomain(r.Credibility.Domain)
		sourceMap[r.URL] = types.SourceCitation{
			Key:          fmt.Sprintf("%s_%d", publisher, i+1),
			ShortCite:    fmt.Sprintf("(%s, %d)", publisher, accessed.Year()),
			FullCitation: Format(r.Title, r.URL, r.Credibility.Domain, style, accessed),
			Level:        r.Credibility.Level,
		}
	}
	return sourceMap
}

// PublisherFromDomain derives a display name from a domain: strip a
// leading "www.", strip common top-level suffixes, then title-case the
// leftmost remaining label.
func PublisherFromDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, "www.")
	for _, suffix := range tldSuffixes {
		if strings.HasSuffix(d, suffix) {
			d = strings.TrimSuffix(d, suffix)
			break
		}
	}
	if i := strings.IndexByte(d, '.'); i >= 0 {
		d = d[:i]
	}
	if d == "" {
		return "Unknown"
	}
	return titleCase(d)
}

// titleCase upper-cases the first letter of every word, where words are
// separated by non-letter runes (hyphens stay in place).
func titleCase(s string) string {
	var b strings.Builder
	startOfWord := true
	for _, r := range s {
		if !unicode.IsLetter(r) {
			b.WriteRune(r)
			startOfWord = true
			continue
		}
		if startOfWord {
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
