// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report orchestrates the research pipeline and assembles the
// final report: query expansion, multi-query retrieval, fact-consistency
// analysis, citation formatting, and synthesis.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/report-engine/internal/aggregate"
	"github.com/pdiddy/report-engine/internal/citation"
	"github.com/pdiddy/report-engine/internal/credibility"
	"github.com/pdiddy/report-engine/internal/expand"
	"github.com/pdiddy/report-engine/internal/factcheck"
	"github.com/pdiddy/report-engine/internal/llm"
	"github.com/pdiddy/report-engine/internal/websearch"
	"github.com/pdiddy/report-engine/pkg/types"
)

// Fatal stage failures. Expansion and synthesis are the only stages
// allowed to terminate a run; everything else degrades.
var (
	ErrExpansion = errors.New("query expansion failed")
	ErrSynthesis = errors.New("report synthesis failed")
)

// sourcesHeader opens the deterministic sources section appended after
// the model's prose.
const sourcesHeader = "\n\n**SOURCES BY SEARCH PERSPECTIVE:**\n"

// levelIcons mark each cited source's credibility tier.
var levelIcons = map[types.CredibilityLevel]string{
	types.LevelHigh:   "🟢",
	types.LevelMedium: "🟡",
	types.LevelLow:    "🔴",
}

// Pipeline wires the stages to their external providers. Providers are
// injected so tests can substitute fakes; the pipeline holds no global
// client state and no state across runs.
type Pipeline struct {
	Searcher  websearch.Searcher
	Completer llm.Completer
	Scorer    *credibility.Scorer
	Config    types.PipelineConfig
	Logger    *zap.Logger

	// now stamps citation access dates. Tests override it for
	// deterministic output.
	now func() time.Time
}

// New constructs a Pipeline. A nil logger is replaced with a no-op one.
func New(searcher websearch.Searcher, completer llm.Completer, scorer *credibility.Scorer, cfg types.PipelineConfig, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scorer == nil {
		scorer = credibility.NewScorer(credibility.Lists{})
	}
	cfg.ApplyDefaults()
	return &Pipeline{
		Searcher:  searcher,
		Completer: completer,
		Scorer:    scorer,
		Config:    cfg,
		Logger:    logger,
		now:       time.Now,
	}
}

// Research runs the full pipeline for one topic and returns the report
// text. It is the sole interface front ends consume.
func (p *Pipeline) Research(ctx context.Context, topic string, style types.CitationStyle) (string, error) {
	run, err := p.Run(ctx, topic, style)
	if err != nil {
		return "", err
	}
	return run.Report, nil
}

// Run executes the pipeline and returns the full run record, including
// intermediate state, for callers that want more than the report text.
func (p *Pipeline) Run(ctx context.Context, topic string, style types.CitationStyle) (*types.ResearchRun, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("research topic is empty")
	}
	if style == "" {
		style = p.Config.Report.Style
	}

	run := &types.ResearchRun{
		ID:            uuid.NewString(),
		OriginalQuery: topic,
		Style:         style,
		StartedAt:     p.now(),
	}

	logger := p.Logger.With(zap.String("run_id", run.ID))
	logger.Info("research run started",
		zap.String("topic", topic),
		zap.String("style", string(style)))

	// Stage 1: query expansion. Fatal on failure; without queries there
	// is nothing to search.
	queries, err := p.expandWithTimeout(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExpansion, err)
	}
	run.ExpandedQueries = queries
	logger.Info("queries expanded", zap.Strings("queries", queries))

	// Stage 2: retrieval, dedup, scoring, ranking.
	results, err := aggregate.Aggregate(ctx, p.Searcher, p.Scorer, queries, p.Config.Search.ResultsPerQuery, logger)
	if err != nil {
		return nil, err
	}
	run.Results = results
	logger.Info("results aggregated", zap.Int("count", len(results)))

	accessed := p.now()

	// Stage 3: fact-consistency analysis and citation formatting have
	// no data dependency on each other; run them concurrently. Both
	// must complete before synthesis.
	var sourceMap map[string]types.SourceCitation
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fcCtx, cancel := context.WithTimeout(gctx, p.Config.AI.Timeout)
		defer cancel()
		run.FactConsistency = factcheck.Analyze(fcCtx, p.Completer, results, p.Config.Report.FactCheckDigest, p.Config.AI.MaxRetries, logger)
		return nil
	})
	g.Go(func() error {
		sourceMap = citation.BuildSourceMap(results, style, accessed)
		return nil
	})
	g.Wait()
	run.SourceMap = sourceMap

	sourcesSection := sourcesByPerspective(queries, results, style, accessed)

	// Stage 4: synthesis. Fatal on failure; no partial report is
	// returned.
	if len(results) == 0 {
		// Nothing retrieved: produce the degraded report directly. A
		// model call with no evidence could only fabricate findings.
		logger.Warn("no results retrieved, producing degraded report")
		run.Report = degradedReport(topic) + sourcesSection
		run.CompletedAt = p.now()
		return run, nil
	}

	prompt, err := renderSynthesisPrompt(run, p.Config.Report.SynthesisDigest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	prose, err := llm.CompleteWithRetry(ctx, p.Completer, prompt, p.Config.AI.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	// Narrative first, deterministic sources last.
	run.Report = prose + sourcesSection
	run.CompletedAt = p.now()
	logger.Info("research run completed",
		zap.Duration("elapsed", run.CompletedAt.Sub(run.StartedAt)))
	return run, nil
}

// expandWithTimeout bounds the expansion model call.
func (p *Pipeline) expandWithTimeout(ctx context.Context, topic string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Config.AI.Timeout)
	defer cancel()
	return expand.Expand(ctx, p.Completer, topic, p.Config.AI.MaxRetries)
}

// sourcesByPerspective renders the deterministic sources section,
// grouped by the expanded query that produced each result. Grouping
// uses the provenance recorded at retrieval time, so sorting by score
// never misattributes a source to the wrong perspective. Within each
// group, sources appear in ranked order.
func sourcesByPerspective(queries []string, results []types.SearchResult, style types.CitationStyle, accessed time.Time) string {
	var b strings.Builder
	b.WriteString(sourcesHeader)

	for i, query := range queries {
		fmt.Fprintf(&b, "\nSearch Perspective %d: %s\n", i+1, query)
		found := false
		for _, r := range results {
			if r.SourceQuery != query {
				continue
			}
			found = true
			cite := citation.Format(r.Title, r.URL, r.Credibility.Domain, style, accessed)
			fmt.Fprintf(&b, "- %s %s\n", levelIcons[r.Credibility.Level], cite)
		}
		if !found {
			b.WriteString("- (no sources retrieved for this perspective)\n")
		}
	}
	return b.String()
}

// degradedReport is returned when every search failed or came back
// empty. It states the insufficiency instead of fabricating findings.
func degradedReport(topic string) string {
	return fmt.Sprintf(`## Research Report: %s

**Insufficient evidence.** No web sources could be retrieved for this topic:
every search query failed or returned no results. No findings are reported,
because any narrative produced without sources would be unverifiable.

Try again later, or rephrase the topic.`, topic)
}
