// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch queries web-search providers and returns raw hits.
// Each provider (Tavily, Brave) implements the Searcher interface per
// the Strategy pattern; the aggregator stays provider-agnostic.
package websearch

import (
	"context"
	"fmt"
)

// Result is one raw hit from a web-search provider, before credibility
// scoring or deduplication.
type Result struct {
	URL     string `json:"url" yaml:"url"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// Searcher issues a single capped-count web search. Implementations may
// return fewer results than maxResults.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// APIError is a non-2xx response from a search provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d: %s", e.Provider, e.StatusCode, e.Body)
}
