// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/report-engine/internal/websearch"
)

type countingSearcher struct {
	calls   int
	results []websearch.Result
	err     error
}

func (c *countingSearcher) Name() string { return "counting" }

func (c *countingSearcher) Search(_ context.Context, _ string, _ int) ([]websearch.Result, error) {
	c.calls++
	return c.results, c.err
}

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "cache", "search.db"), ttl)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	want := []websearch.Result{
		{URL: "https://example.org/a", Title: "A", Content: "first"},
		{URL: "https://example.org/b", Title: "B", Content: "second"},
	}
	if err := store.Put(ctx, "tavily", "tesla", 3, want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := store.Get(ctx, "tavily", "tesla", 3)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get: expected a hit")
	}
	if len(got) != 2 || got[0].URL != want[0].URL || got[1].Content != want[1].Content {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestStoreMissOnDifferentKey(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	if err := store.Put(ctx, "tavily", "tesla", 3, nil); err != nil {
		t.Fatalf("Put: %v", err)
	}

	tests := []struct {
		name       string
		provider   string
		query      string
		maxResults int
	}{
		{"different provider", "brave", "tesla", 3},
		{"different query", "tavily", "rivian", 3},
		{"different max results", "tavily", "tesla", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := store.Get(ctx, tt.provider, tt.query, tt.maxResults)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if ok {
				t.Error("Get: expected a miss")
			}
		})
	}
}

func TestStoreExpiry(t *testing.T) {
	store := newTestStore(t, time.Nanosecond)
	ctx := context.Background()

	if err := store.Put(ctx, "tavily", "tesla", 3, []websearch.Result{{URL: "https://example.org"}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	_, ok, err := store.Get(ctx, "tavily", "tesla", 3)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expired entry must read as a miss")
	}
}

func TestCachingSearcherReadThrough(t *testing.T) {
	store := newTestStore(t, time.Hour)
	inner := &countingSearcher{results: []websearch.Result{{URL: "https://example.org", Title: "T"}}}
	cs := NewCachingSearcher(inner, store, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := cs.Search(ctx, "tesla", 3)
		if err != nil {
			t.Fatalf("Search %d: %v", i, err)
		}
		if len(got) != 1 || got[0].URL != "https://example.org" {
			t.Errorf("Search %d = %+v", i, got)
		}
	}
	if inner.calls != 1 {
		t.Errorf("provider called %d times, want 1", inner.calls)
	}
}

func TestCachingSearcherProviderErrorNotCached(t *testing.T) {
	store := newTestStore(t, time.Hour)
	inner := &countingSearcher{err: errors.New("provider down")}
	cs := NewCachingSearcher(inner, store, nil)
	ctx := context.Background()

	if _, err := cs.Search(ctx, "tesla", 3); err == nil {
		t.Fatal("expected provider error")
	}
	if _, err := cs.Search(ctx, "tesla", 3); err == nil {
		t.Fatal("expected provider error on second call")
	}
	if inner.calls != 2 {
		t.Errorf("provider called %d times, want 2 (errors never cached)", inner.calls)
	}
}
