// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache provides an optional SQLite-backed cache for raw web
// search responses. It wraps any websearch.Searcher; cached entries are
// keyed by (provider, query, max_results) and expire after a TTL, so a
// re-run of the same topic within the window never touches the search
// API.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/report-engine/internal/websearch"
)

// Store manages the search-response SQLite database.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// NewStore opens or creates the cache database at path, creating parent
// directories as needed. Entries older than ttl are treated as misses;
// ttl <= 0 disables expiry.
func NewStore(path string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db, ttl: ttl}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	const stmt = `CREATE TABLE IF NOT EXISTS search_cache (
		provider TEXT NOT NULL,
		query TEXT NOT NULL,
		max_results INTEGER NOT NULL,
		payload TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (provider, query, max_results)
	)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Get returns the cached results for a lookup, or ok=false on a miss or
// an expired entry.
func (s *Store) Get(ctx context.Context, provider, query string, maxResults int) ([]websearch.Result, bool, error) {
	var payload, fetchedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM search_cache
		 WHERE provider = ? AND query = ? AND max_results = ?`,
		provider, query, maxResults).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying cache: %w", err)
	}

	if s.ttl > 0 {
		fetched, err := time.Parse(time.RFC3339, fetchedAt)
		if err != nil || time.Since(fetched) > s.ttl {
			return nil, false, nil
		}
	}

	var results []websearch.Result
	if err := yaml.Unmarshal([]byte(payload), &results); err != nil {
		return nil, false, fmt.Errorf("decoding cached payload: %w", err)
	}
	return results, true, nil
}

// Put stores the results for a lookup, replacing any previous entry.
func (s *Store) Put(ctx context.Context, provider, query string, maxResults int, results []websearch.Result) error {
	payload, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO search_cache
		 (provider, query, max_results, payload, fetched_at)
		 VALUES (?, ?, ?, ?, ?)`,
		provider, query, maxResults, string(payload),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// CachingSearcher decorates a Searcher with read-through caching. Cache
// failures are logged and degrade to a direct provider call; they never
// fail the search.
type CachingSearcher struct {
	inner  websearch.Searcher
	store  *Store
	logger *zap.Logger
}

// NewCachingSearcher wraps inner with the given store.
func NewCachingSearcher(inner websearch.Searcher, store *Store, logger *zap.Logger) *CachingSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingSearcher{inner: inner, store: store, logger: logger}
}

// Name reports the wrapped provider's name.
func (c *CachingSearcher) Name() string { return c.inner.Name() }

// Search checks the cache before consulting the wrapped provider and
// stores fresh responses on a miss.
func (c *CachingSearcher) Search(ctx context.Context, query string, maxResults int) ([]websearch.Result, error) {
	provider := c.inner.Name()

	cached, ok, err := c.store.Get(ctx, provider, query, maxResults)
	if err != nil {
		c.logger.Warn("cache lookup failed", zap.String("query", query), zap.Error(err))
	} else if ok {
		c.logger.Debug("cache hit", zap.String("provider", provider), zap.String("query", query))
		return cached, nil
	}

	results, err := c.inner.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	if err := c.store.Put(ctx, provider, query, maxResults, results); err != nil {
		c.logger.Warn("cache write failed", zap.String("query", query), zap.Error(err))
	}
	return results, nil
}
