package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "report-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchProvider identifies the web-search backend.
type SearchProvider string

const (
	ProviderTavily SearchProvider = "tavily"
	ProviderBrave  SearchProvider = "brave"
)

// SearchConfig holds settings for web retrieval.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the web-search backend: tavily or brave.
	Provider SearchProvider `json:"provider" yaml:"provider"`

	// APIKey authenticates against the selected provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// ResultsPerQuery caps how many results each expanded query may
	// contribute (default 3). The cap bounds total volume across the
	// at-most-four expanded queries.
	ResultsPerQuery int `json:"results_per_query" yaml:"results_per_query"`

	// CacheEnabled turns on the sqlite cache of raw provider responses.
	CacheEnabled bool `json:"cache_enabled" yaml:"cache_enabled"`

	// CachePath is the sqlite cache file (default "cache/search.db").
	CachePath string `json:"cache_path" yaml:"cache_path"`

	// CacheTTL is how long a cached provider response stays valid
	// (default 24h).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
}

// AIProvider identifies the language-model backend.
type AIProvider string

const (
	ProviderGroq   AIProvider = "groq"
	ProviderGemini AIProvider = "gemini"
)

// AIConfig holds settings for stages that call a language-model API.
type AIConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the model backend: groq or gemini.
	Provider AIProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "llama-3.1-8b-instant").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed model calls
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ReportConfig holds settings for analysis and synthesis.
type ReportConfig struct {
	// Style is the default citation style when the caller does not
	// choose one.
	Style CitationStyle `json:"citation_style" yaml:"citation_style"`

	// FactCheckDigest is how many top-ranked results feed the
	// fact-consistency analysis (default 8). Lower-ranked results are
	// excluded to bound prompt size.
	FactCheckDigest int `json:"fact_check_digest" yaml:"fact_check_digest"`

	// SynthesisDigest is how many top-ranked results feed the final
	// synthesis prompt (default 12).
	SynthesisDigest int `json:"synthesis_digest" yaml:"synthesis_digest"`

	// TrustListsFile optionally overrides the compiled-in domain trust
	// lists with a YAML file.
	TrustListsFile string `json:"trust_lists_file,omitempty" yaml:"trust_lists_file,omitempty"`
}

// PipelineConfig groups all stage configurations for one pipeline.
type PipelineConfig struct {
	Search SearchConfig `json:"search" yaml:"search"`
	AI     AIConfig     `json:"ai" yaml:"ai"`
	Report ReportConfig `json:"report" yaml:"report"`
}

// ApplyDefaults fills zero-valued fields with the documented defaults.
func (c *PipelineConfig) ApplyDefaults() {
	if c.Search.Timeout <= 0 {
		c.Search.Timeout = 20 * time.Second
	}
	if c.Search.UserAgent == "" {
		c.Search.UserAgent = "report-engine/0.1"
	}
	if c.Search.Provider == "" {
		c.Search.Provider = ProviderTavily
	}
	if c.Search.ResultsPerQuery <= 0 {
		c.Search.ResultsPerQuery = 3
	}
	if c.Search.CachePath == "" {
		c.Search.CachePath = "cache/search.db"
	}
	if c.Search.CacheTTL <= 0 {
		c.Search.CacheTTL = 24 * time.Hour
	}
	if c.AI.Timeout <= 0 {
		c.AI.Timeout = 60 * time.Second
	}
	if c.AI.Provider == "" {
		c.AI.Provider = ProviderGroq
	}
	if c.AI.Model == "" {
		c.AI.Model = "llama-3.1-8b-instant"
	}
	if c.AI.MaxRetries <= 0 {
		c.AI.MaxRetries = 3
	}
	if c.Report.Style == "" {
		c.Report.Style = StyleAPA
	}
	if c.Report.FactCheckDigest <= 0 {
		c.Report.FactCheckDigest = 8
	}
	if c.Report.SynthesisDigest <= 0 {
		c.Report.SynthesisDigest = 12
	}
}
