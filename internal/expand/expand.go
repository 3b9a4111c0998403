// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package expand turns one research topic into complementary search
// queries covering distinct analytical angles.
package expand

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/report-engine/internal/llm"
)

// MaxQueries caps how many expanded queries a run may use.
const MaxQueries = 4

// expansionPromptTmpl instructs the model to produce four queries, one
// per analytical angle, with the first steered away from commercial
// pages.
var expansionPromptTmpl = template.Must(template.New("expansion").Parse(`Generate 4 related search queries for comprehensive research on: "{{.Topic}}"

Include:
1. An informational query about the brand/topic (add "brand overview history" or "company information" to avoid commercial results)
2. A query about problems/criticisms/disadvantages/issues
3. A query about benefits/advantages/features/positive aspects
4. A comparative query (vs competitors or alternatives)

Make sure the first query focuses on getting informational content, not commercial/sales pages.

Return only the queries, one per line, no numbering or formatting.
`))

// Expand asks the model for search queries and parses its output: split
// on line breaks, trim, drop blanks, keep at most MaxQueries entries.
// A model failure propagates to the caller; without queries there is
// nothing to search, so the whole run aborts.
func Expand(ctx context.Context, c llm.Completer, topic string, maxRetries int) ([]string, error) {
	var buf bytes.Buffer
	if err := expansionPromptTmpl.Execute(&buf, struct{ Topic string }{Topic: topic}); err != nil {
		return nil, fmt.Errorf("rendering expansion prompt: %w", err)
	}

	text, err := llm.CompleteWithRetry(ctx, c, buf.String(), maxRetries)
	if err != nil {
		return nil, fmt.Errorf("generating search queries: %w", err)
	}

	return ParseQueries(text), nil
}

// ParseQueries extracts the query list from raw model output.
func ParseQueries(text string) []string {
	var queries []string
	for _, line := range strings.Split(text, "\n") {
		q := strings.TrimSpace(line)
		if q == "" {
			continue
		}
		queries = append(queries, q)
		if len(queries) == MaxQueries {
			break
		}
	}
	return queries
}
