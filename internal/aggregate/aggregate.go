// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate fans expanded queries out to a web-search provider,
// deduplicates the hits, and attaches credibility assessments.
package aggregate

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/report-engine/internal/credibility"
	"github.com/pdiddy/report-engine/internal/websearch"
	"github.com/pdiddy/report-engine/pkg/types"
)

// maxConcurrentQueries bounds the search fan-out. Expanded queries are
// capped at four, so the pool never grows past that.
const maxConcurrentQueries = 4

// Aggregate issues one capped-count search per expanded query, merges
// the hits in query-submission order, deduplicates by URL (first
// occurrence wins, source-query provenance retained), scores each
// surviving result, and stable-sorts descending by score.
//
// A single query's failure is logged and skipped; the run continues
// with the remaining queries. When every query fails, Aggregate returns
// an empty slice and no error so downstream stages can degrade
// gracefully. Only context cancellation is reported as an error.
func Aggregate(ctx context.Context, searcher websearch.Searcher, scorer *credibility.Scorer, queries []string, resultsPerQuery int, logger *zap.Logger) ([]types.SearchResult, error) {
	if resultsPerQuery <= 0 {
		resultsPerQuery = 3
	}

	// Fan out, collecting per-query slices into indexed slots so the
	// merge order matches query-submission order regardless of which
	// search returns first.
	perQuery := make([][]websearch.Result, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQueries)
	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			hits, err := searcher.Search(gctx, query, resultsPerQuery)
			if err != nil {
				logger.Warn("search failed, skipping query",
					zap.String("provider", searcher.Name()),
					zap.String("query", query),
					zap.Error(err))
				return nil
			}
			perQuery[i] = hits
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var results []types.SearchResult
	for i, hits := range perQuery {
		for _, hit := range hits {
			if seen[hit.URL] {
				continue
			}
			seen[hit.URL] = true
			results = append(results, types.SearchResult{
				URL:         hit.URL,
				Title:       hit.Title,
				Content:     hit.Content,
				SourceQuery: queries[i],
				Credibility: scorer.Assess(hit.URL, hit.Title, hit.Content),
			})
		}
	}

	// Stable: equal scores keep their retrieval order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Credibility.Score > results[j].Credibility.Score
	})

	return results, nil
}
