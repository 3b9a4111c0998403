// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package credibility assigns heuristic trust ratings to retrieved web
// sources. Scoring is a pure function of the URL, title, and content
// given the scorer's trust lists: no network or model calls.
package credibility

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/report-engine/pkg/types"
)

// baselineScore is the neutral starting score before adjustments.
const baselineScore = 50

// Score thresholds for the trust tiers. Boundaries are inclusive on the
// lower edge: 70 is High, 45 is Medium, 44 is Low.
const (
	highThreshold   = 70
	mediumThreshold = 45
)

// yearRe matches a 4-digit number, a cheap signal that the content
// carries dates or figures.
var yearRe = regexp.MustCompile(`\d{4}`)

// commercialTLDs are the generic commercial suffixes that make a domain
// eligible for the official-site adjustment.
var commercialTLDs = []string{".com", ".co.uk"}

// LevelFromScore derives the trust tier from a final score. The score is
// the single source of truth; levels are never assigned independently.
func LevelFromScore(score int) types.CredibilityLevel {
	switch {
	case score >= highThreshold:
		return types.LevelHigh
	case score >= mediumThreshold:
		return types.LevelMedium
	default:
		return types.LevelLow
	}
}

// Scorer rates sources against a set of curated trust lists.
type Scorer struct {
	lists Lists
}

// NewScorer returns a Scorer using the given trust lists. Zero-valued
// lists fall back to the compiled-in defaults.
func NewScorer(lists Lists) *Scorer {
	if lists.IsZero() {
		lists = DefaultLists()
	}
	return &Scorer{lists: lists}
}

// Assess scores a single source. Adjustments, applied in order to the
// baseline of 50:
//
//   - high-trust domain match: +30, else mid-trust match: +15, else a
//     commercial-intent substring in the domain or URL: -25
//   - commercial TLD with an "official"/"company" title and a clean
//     domain: +10
//   - content longer than 200 characters: +5
//   - content containing a 4-digit number: +5
func (s *Scorer) Assess(rawURL, title, content string) types.CredibilityAssessment {
	domain := extractDomain(rawURL)
	lowerURL := strings.ToLower(rawURL)
	lowerTitle := strings.ToLower(title)

	score := baselineScore

	switch {
	case matchAny(domain, s.lists.High):
		score += 30
	case matchAny(domain, s.lists.Medium):
		score += 15
	case containsAny(domain, s.lists.Commercial) || containsAny(lowerURL, s.lists.Commercial):
		score -= 25
	}

	if hasCommercialTLD(domain) && !containsAny(domain, s.lists.Commercial) {
		if strings.Contains(lowerTitle, "official") || strings.Contains(lowerTitle, "company") {
			score += 10
		}
	}

	if len(content) > 200 {
		score += 5
	}
	if yearRe.MatchString(content) {
		score += 5
	}

	return types.CredibilityAssessment{
		Score:  score,
		Level:  LevelFromScore(score),
		Domain: domain,
	}
}

// extractDomain returns the lower-cased host portion of a URL, without
// port. Unparseable URLs yield an empty domain, which matches nothing.
func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// matchAny reports whether the domain matches any trust-list entry.
// Entries beginning with "." match as domain suffixes (".gov", ".edu");
// all other entries match by substring containment.
func matchAny(domain string, entries []string) bool {
	if domain == "" {
		return false
	}
	for _, e := range entries {
		if strings.HasPrefix(e, ".") {
			if strings.HasSuffix(domain, e) || domain == e[1:] {
				return true
			}
			continue
		}
		if strings.Contains(domain, e) {
			return true
		}
	}
	return false
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, substrings []string) bool {
	if s == "" {
		return false
	}
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// hasCommercialTLD reports whether the domain ends in a generic
// commercial suffix.
func hasCommercialTLD(domain string) bool {
	for _, tld := range commercialTLDs {
		if strings.HasSuffix(domain, tld) {
			return true
		}
	}
	return false
}
