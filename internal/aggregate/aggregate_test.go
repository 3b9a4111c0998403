// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/pdiddy/report-engine/internal/credibility"
	"github.com/pdiddy/report-engine/internal/websearch"
	"github.com/pdiddy/report-engine/pkg/types"
)

// mapSearcher serves canned results per query and can fail selectively.
type mapSearcher struct {
	results map[string][]websearch.Result
	fail    map[string]bool
}

func (m *mapSearcher) Name() string { return "map" }

func (m *mapSearcher) Search(_ context.Context, query string, _ int) ([]websearch.Result, error) {
	if m.fail[query] {
		return nil, errors.New("provider unavailable")
	}
	return m.results[query], nil
}

func testScorer() *credibility.Scorer {
	return credibility.NewScorer(credibility.Lists{})
}

func TestAggregateDeduplicatesByURL(t *testing.T) {
	s := &mapSearcher{results: map[string][]websearch.Result{
		"q1": {
			{URL: "https://a.example.net/1", Title: "First title", Content: "alpha"},
			{URL: "https://b.example.net/2", Title: "B", Content: "beta"},
		},
		"q2": {
			{URL: "https://a.example.net/1", Title: "Duplicate title", Content: "gamma"},
			{URL: "https://c.example.net/3", Title: "C", Content: "delta"},
		},
	}}

	results, err := Aggregate(context.Background(), s, testScorer(), []string{"q1", "q2"}, 3, zap.NewNop())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	var dup *types.SearchResult
	for i := range results {
		if results[i].URL == "https://a.example.net/1" {
			dup = &results[i]
		}
	}
	if dup == nil {
		t.Fatal("deduplicated result missing")
	}
	// First occurrence wins: title, content, and provenance come from q1.
	if dup.Title != "First title" {
		t.Errorf("Title = %q, want first-seen title", dup.Title)
	}
	if dup.Content != "alpha" {
		t.Errorf("Content = %q, want first-seen content", dup.Content)
	}
	if dup.SourceQuery != "q1" {
		t.Errorf("SourceQuery = %q, want q1", dup.SourceQuery)
	}
}

func TestAggregateSortsByScoreStable(t *testing.T) {
	// wikipedia.org outranks the unknown domains; the two unknown
	// domains tie at the baseline score and must keep retrieval order.
	s := &mapSearcher{results: map[string][]websearch.Result{
		"q1": {
			{URL: "https://zeta.example.net/a", Title: "Zeta", Content: ""},
			{URL: "https://alpha.example.net/b", Title: "Alpha", Content: ""},
		},
		"q2": {
			{URL: "https://en.wikipedia.org/wiki/Topic", Title: "Topic", Content: ""},
		},
	}}

	results, err := Aggregate(context.Background(), s, testScorer(), []string{"q1", "q2"}, 3, zap.NewNop())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results[0].URL != "https://en.wikipedia.org/wiki/Topic" {
		t.Errorf("results[0] = %q, want the high-trust source first", results[0].URL)
	}
	if results[1].URL != "https://zeta.example.net/a" || results[2].URL != "https://alpha.example.net/b" {
		t.Errorf("tied results reordered: %q then %q", results[1].URL, results[2].URL)
	}
}

func TestAggregateSkipsFailedQueries(t *testing.T) {
	s := &mapSearcher{
		results: map[string][]websearch.Result{
			"ok": {{URL: "https://a.example.net/1", Title: "A", Content: ""}},
		},
		fail: map[string]bool{"broken": true},
	}

	results, err := Aggregate(context.Background(), s, testScorer(), []string{"broken", "ok"}, 3, zap.NewNop())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].SourceQuery != "ok" {
		t.Errorf("SourceQuery = %q, want ok", results[0].SourceQuery)
	}
}

func TestAggregateAllQueriesFail(t *testing.T) {
	s := &mapSearcher{fail: map[string]bool{"a": true, "b": true}}

	results, err := Aggregate(context.Background(), s, testScorer(), []string{"a", "b"}, 3, zap.NewNop())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestAggregateMergeOrderDeterministic(t *testing.T) {
	// All results tie at the baseline score, so the final order is the
	// query-submission merge order, not the provider completion order.
	s := &mapSearcher{results: map[string][]websearch.Result{
		"q1": {{URL: "https://one.example.net", Title: "1", Content: ""}},
		"q2": {{URL: "https://two.example.net", Title: "2", Content: ""}},
		"q3": {{URL: "https://three.example.net", Title: "3", Content: ""}},
		"q4": {{URL: "https://four.example.net", Title: "4", Content: ""}},
	}}

	for i := 0; i < 10; i++ {
		results, err := Aggregate(context.Background(), s, testScorer(), []string{"q1", "q2", "q3", "q4"}, 3, zap.NewNop())
		if err != nil {
			t.Fatalf("Aggregate: %v", err)
		}
		want := []string{"https://one.example.net", "https://two.example.net", "https://three.example.net", "https://four.example.net"}
		for i, u := range want {
			if results[i].URL != u {
				t.Fatalf("results[%d] = %q, want %q", i, results[i].URL, u)
			}
		}
	}
}

func TestAggregateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &mapSearcher{fail: map[string]bool{"q": true}}
	_, err := Aggregate(ctx, s, testScorer(), []string{"q"}, 3, zap.NewNop())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
