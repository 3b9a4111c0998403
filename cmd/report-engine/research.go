// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/report-engine/internal/cache"
	"github.com/pdiddy/report-engine/internal/credibility"
	"github.com/pdiddy/report-engine/internal/llm"
	"github.com/pdiddy/report-engine/internal/report"
	"github.com/pdiddy/report-engine/internal/websearch"
	"github.com/pdiddy/report-engine/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research <topic>",
	Short: "Generate a cited research report for a topic",
	Long: `Research expands the topic into four search perspectives, retrieves web
sources for each, deduplicates and ranks them by credibility, checks
factual consistency across sources, and synthesizes a report with a
citation appendix grouped by search perspective.

Citation style is one of apa, mla, or simple.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResearch(cmd, args[0])
	},
}

func init() {
	researchCmd.Flags().String("style", "", "citation style: apa, mla, or simple (default apa)")
	researchCmd.Flags().String("provider", "", "search provider: tavily or brave")
	researchCmd.Flags().String("ai", "", "model provider: groq or gemini")
	researchCmd.Flags().String("model", "", "model name for the AI provider")
	researchCmd.Flags().Int("results-per-query", 0, "web results to request per expanded query")
	researchCmd.Flags().String("trust-lists", "", "YAML file overriding the built-in credibility trust lists")
	researchCmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	researchCmd.Flags().Bool("json", false, "emit the full run record (queries, sources, scores) as JSON")
	researchCmd.Flags().Bool("no-cache", false, "bypass the search response cache")

	rootCmd.AddCommand(researchCmd)
}

// buildConfig assembles the pipeline configuration from defaults, the
// config file / environment (viper), and command-line flags, in that
// order of increasing precedence.
func buildConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	cfg.ApplyDefaults()
	cfg.Search.CacheEnabled = true

	if v := viper.GetString("search.provider"); v != "" {
		cfg.Search.Provider = types.SearchProvider(v)
	}
	if v := viper.GetInt("search.results_per_query"); v > 0 {
		cfg.Search.ResultsPerQuery = v
	}
	if viper.IsSet("search.cache.enabled") {
		cfg.Search.CacheEnabled = viper.GetBool("search.cache.enabled")
	}
	if v := viper.GetString("search.cache.path"); v != "" {
		cfg.Search.CachePath = v
	}
	if v := viper.GetDuration("search.cache.ttl"); v > 0 {
		cfg.Search.CacheTTL = v
	}
	if v := viper.GetString("ai.provider"); v != "" {
		cfg.AI.Provider = types.AIProvider(v)
	}
	if v := viper.GetString("ai.model"); v != "" {
		cfg.AI.Model = v
	}
	if v := viper.GetString("report.style"); v != "" {
		style, err := types.ParseCitationStyle(v)
		if err != nil {
			return cfg, err
		}
		cfg.Report.Style = style
	}
	if v := viper.GetString("report.trust_lists"); v != "" {
		cfg.Report.TrustListsFile = v
	}

	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		cfg.Search.Provider = types.SearchProvider(strings.ToLower(v))
	}
	if v, _ := cmd.Flags().GetInt("results-per-query"); v > 0 {
		cfg.Search.ResultsPerQuery = v
	}
	if v, _ := cmd.Flags().GetString("ai"); v != "" {
		cfg.AI.Provider = types.AIProvider(strings.ToLower(v))
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.AI.Model = v
	}
	if v, _ := cmd.Flags().GetString("style"); v != "" {
		style, err := types.ParseCitationStyle(v)
		if err != nil {
			return cfg, err
		}
		cfg.Report.Style = style
	}
	if v, _ := cmd.Flags().GetString("trust-lists"); v != "" {
		cfg.Report.TrustListsFile = v
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Search.CacheEnabled = false
	}

	cfg.Search.APIKey = secretDefault(string(cfg.Search.Provider)+"-api-key",
		viper.GetString(strings.ToUpper(string(cfg.Search.Provider))+"_API_KEY"))
	cfg.AI.APIKey = secretDefault(string(cfg.AI.Provider)+"-api-key",
		viper.GetString(strings.ToUpper(string(cfg.AI.Provider))+"_API_KEY"))

	return cfg, nil
}

// buildSearcher constructs the configured search backend, optionally
// wrapped in the SQLite response cache.
func buildSearcher(cfg types.PipelineConfig, logger *zap.Logger) (websearch.Searcher, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Search.APIKey == "" {
		return nil, nil, fmt.Errorf("no API key for search provider %q (expected .secrets/%s-api-key)",
			cfg.Search.Provider, cfg.Search.Provider)
	}

	client := &http.Client{Timeout: cfg.Search.Timeout}
	var inner websearch.Searcher
	switch cfg.Search.Provider {
	case types.ProviderTavily:
		inner = &websearch.TavilyClient{APIKey: cfg.Search.APIKey, UserAgent: cfg.Search.UserAgent, Client: client}
	case types.ProviderBrave:
		inner = &websearch.BraveClient{APIKey: cfg.Search.APIKey, UserAgent: cfg.Search.UserAgent, Client: client}
	default:
		return nil, nil, fmt.Errorf("unknown search provider %q", cfg.Search.Provider)
	}

	if !cfg.Search.CacheEnabled {
		return inner, func() error { return nil }, nil
	}

	store, err := cache.NewStore(cfg.Search.CachePath, cfg.Search.CacheTTL)
	if err != nil {
		logger.Warn("search cache unavailable, continuing without it", zap.Error(err))
		return inner, func() error { return nil }, nil
	}
	return cache.NewCachingSearcher(inner, store, logger), store.Close, nil
}

// buildCompleter constructs the configured model backend.
func buildCompleter(cmd *cobra.Command, cfg types.PipelineConfig) (llm.Completer, func() error, error) {
	if cfg.AI.APIKey == "" {
		return nil, nil, fmt.Errorf("no API key for model provider %q (expected .secrets/%s-api-key)",
			cfg.AI.Provider, cfg.AI.Provider)
	}

	switch cfg.AI.Provider {
	case types.ProviderGroq:
		b := &llm.GroqBackend{
			APIKey: cfg.AI.APIKey,
			Model:  cfg.AI.Model,
			Client: &http.Client{Timeout: cfg.AI.Timeout},
		}
		return b, func() error { return nil }, nil
	case types.ProviderGemini:
		b, err := llm.NewGeminiBackend(cmd.Context(), cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing gemini backend: %w", err)
		}
		return b, b.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown model provider %q", cfg.AI.Provider)
	}
}

func buildScorer(cfg types.PipelineConfig) (*credibility.Scorer, error) {
	if cfg.Report.TrustListsFile == "" {
		return credibility.NewScorer(credibility.Lists{}), nil
	}
	lists, err := credibility.LoadLists(cfg.Report.TrustListsFile)
	if err != nil {
		return nil, fmt.Errorf("loading trust lists: %w", err)
	}
	return credibility.NewScorer(lists), nil
}

func runResearch(cmd *cobra.Command, topic string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	searcher, closeSearcher, err := buildSearcher(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSearcher()

	completer, closeCompleter, err := buildCompleter(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeCompleter()

	scorer, err := buildScorer(cfg)
	if err != nil {
		return err
	}

	pipeline := report.New(searcher, completer, scorer, cfg, logger)

	fmt.Fprintf(os.Stderr, "Researching %q via %s + %s...\n",
		topic, searcher.Name(), completer.Name())
	started := time.Now()

	run, err := pipeline.Run(cmd.Context(), topic, cfg.Report.Style)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Done: %d sources across %d queries in %s\n",
		len(run.Results), len(run.ExpandedQueries), time.Since(started).Round(time.Millisecond))

	var out []byte
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		out, err = json.MarshalIndent(run, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding run record: %w", err)
		}
		out = append(out, '\n')
	} else {
		out = []byte(run.Report + "\n")
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", path)
		return nil
	}
	_, err = os.Stdout.Write(out)
	return err
}

// newLogger builds the CLI logger. Logs go to stderr so the report on
// stdout stays pipeable.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
