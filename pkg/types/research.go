// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the report-engine pipeline.
package types

import (
	"fmt"
	"time"
)

// CredibilityLevel is the trust tier assigned to a retrieved source.
type CredibilityLevel string

const (
	LevelHigh   CredibilityLevel = "High"
	LevelMedium CredibilityLevel = "Medium"
	LevelLow    CredibilityLevel = "Low"
)

// CitationStyle selects the citation template used for source formatting.
type CitationStyle string

const (
	StyleAPA    CitationStyle = "APA"
	StyleMLA    CitationStyle = "MLA"
	StyleSimple CitationStyle = "Simple"
)

// ParseCitationStyle validates a user-supplied style string. Matching is
// case-insensitive on the common spellings; an empty string selects APA.
func ParseCitationStyle(s string) (CitationStyle, error) {
	switch s {
	case "", "APA", "apa":
		return StyleAPA, nil
	case "MLA", "mla":
		return StyleMLA, nil
	case "Simple", "simple":
		return StyleSimple, nil
	}
	return "", fmt.Errorf("unknown citation style %q (expected APA, MLA, or Simple)", s)
}

// CredibilityAssessment is the trust rating attached to exactly one
// SearchResult. Level is always derived from Score; the two are never
// set independently.
type CredibilityAssessment struct {
	// Score is the heuristic trust score, centered at a neutral baseline
	// of 50 and adjusted by signed deltas from domain and content signals.
	Score int `json:"score" yaml:"score"`

	// Level is the trust tier derived from Score: High >= 70,
	// Medium 45-69, Low < 45.
	Level CredibilityLevel `json:"level" yaml:"level"`

	// Domain is the lower-cased host portion of the source URL.
	Domain string `json:"domain" yaml:"domain"`
}

// SearchResult is one retrieved web document. Within a run's aggregated
// result set, URL is unique: the first occurrence wins and later
// duplicates are dropped.
type SearchResult struct {
	// URL is the document location and the dedup key within a run.
	URL string `json:"url" yaml:"url"`

	// Title is the document title as returned by the search provider.
	Title string `json:"title" yaml:"title"`

	// Content is the raw snippet or body text from the provider.
	Content string `json:"content" yaml:"content"`

	// SourceQuery is the expanded query that produced this result. It is
	// recorded at retrieval time, before any sorting, so the report's
	// sources-by-perspective grouping reflects true provenance.
	SourceQuery string `json:"source_query" yaml:"source_query"`

	// Credibility is the trust assessment for this source.
	Credibility CredibilityAssessment `json:"credibility" yaml:"credibility"`
}

// SourceCitation is one entry in a run's URL-to-citation lookup.
type SourceCitation struct {
	// Key is the short in-text reference key, Publisher_N, where N is the
	// source's ordinal within the run. The ordinal disambiguates multiple
	// sources from the same publisher.
	Key string `json:"key" yaml:"key"`

	// ShortCite is the parenthetical in-text form, "(Publisher, year)".
	ShortCite string `json:"short_cite" yaml:"short_cite"`

	// FullCitation is the complete formatted citation in the run's style.
	FullCitation string `json:"full_citation" yaml:"full_citation"`

	// Level is the credibility level of the cited source.
	Level CredibilityLevel `json:"credibility" yaml:"credibility"`
}

// ResearchRun is the unit of work for one end-to-end invocation. It is
// constructed fresh per call and nothing in it persists past the call
// that produced it.
type ResearchRun struct {
	// ID is a random identifier for correlating log lines of one run.
	ID string `json:"id" yaml:"id"`

	// OriginalQuery is the user's topic as typed.
	OriginalQuery string `json:"original_query" yaml:"original_query"`

	// Style is the citation style for this run.
	Style CitationStyle `json:"citation_style" yaml:"citation_style"`

	// ExpandedQueries are the derived search queries, in generation order,
	// at most four.
	ExpandedQueries []string `json:"expanded_queries" yaml:"expanded_queries"`

	// Results are the deduplicated sources, sorted by credibility score
	// descending with retrieval order breaking ties.
	Results []SearchResult `json:"results" yaml:"results"`

	// FactConsistency is the analyzer's free-text consistency report, or
	// its fallback text when the analysis was unavailable.
	FactConsistency string `json:"fact_consistency" yaml:"fact_consistency"`

	// SourceMap maps each result URL to its formatted citation.
	SourceMap map[string]SourceCitation `json:"source_map" yaml:"source_map"`

	// Report is the assembled report: model prose first, then the
	// deterministic sources section.
	Report string `json:"report" yaml:"report"`

	// StartedAt and CompletedAt bound the run's wall-clock duration.
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
}
