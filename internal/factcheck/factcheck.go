// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package factcheck cross-examines aggregated sources for factual
// consistency, classifying claims as consistent, contradictory, or
// single-source.
package factcheck

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/report-engine/internal/llm"
	"github.com/pdiddy/report-engine/pkg/types"
)

// excerptLen caps how much of each source's content enters the prompt.
const excerptLen = 200

// FallbackReport is returned when the analysis could not run. The
// pipeline proceeds with it; fact-checking is an enhancement, not a
// correctness-critical stage.
const FallbackReport = "Fact-checking analysis unavailable: the model call failed. Treat all findings below as unverified."

// factCheckPromptTmpl asks the model to bucket claims across sources.
var factCheckPromptTmpl = template.Must(template.New("factcheck").Parse(`Analyze the following sources for factual consistency and potential contradictions:

Sources:
{{.Digest}}

Identify:
1. Claims that appear in multiple sources (consistent facts)
2. Contradictory information between sources
3. Claims that appear in only one source (needs verification)

Format as:
CONSISTENT: [fact] (appears in X sources)
CONTRADICTORY: [conflicting claims]
SINGLE-SOURCE: [unverified claims]
`))

// Analyze runs one model call over a digest of at most digestSize
// top-ranked results and returns the free-text consistency report.
// Lower-ranked results are excluded to bound prompt size. On failure it
// returns FallbackReport, never an error: the report must still be
// produced without the analysis.
func Analyze(ctx context.Context, c llm.Completer, results []types.SearchResult, digestSize, maxRetries int, logger *zap.Logger) string {
	if digestSize <= 0 {
		digestSize = 8
	}
	if len(results) == 0 {
		return "Fact-checking analysis skipped: no sources were retrieved."
	}

	var buf bytes.Buffer
	err := factCheckPromptTmpl.Execute(&buf, struct{ Digest string }{Digest: digest(results, digestSize)})
	if err != nil {
		logger.Warn("fact-check prompt rendering failed", zap.Error(err))
		return FallbackReport
	}

	report, err := llm.CompleteWithRetry(ctx, c, buf.String(), maxRetries)
	if err != nil {
		logger.Warn("fact-check analysis unavailable", zap.Error(err))
		return FallbackReport
	}
	return report
}

// digest renders one line per source: title plus a leading content
// excerpt.
func digest(results []types.SearchResult, digestSize int) string {
	if len(results) > digestSize {
		results = results[:digestSize]
	}

	var b strings.Builder
	for _, r := range results {
		excerpt := r.Content
		if len(excerpt) > excerptLen {
			excerpt = excerpt[:excerptLen] + "..."
		}
		fmt.Fprintf(&b, "- %s: %s\n", r.Title, excerpt)
	}
	return b.String()
}
