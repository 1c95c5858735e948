package model

import "time"

// Config is the complete runtime configuration.
// Hierarchy (highest to lowest priority): CLI flags, LEMMA_* environment
// variables, ~/.lemma/config.yaml, defaults.
type Config struct {
	Verify      VerifyConfig      `json:"verify" yaml:"verify"`
	Concurrency ConcurrencyConfig `json:"concurrency" yaml:"concurrency"`
	Cache       CacheConfig       `json:"cache" yaml:"cache"`
	Output      OutputConfig      `json:"output" yaml:"output"`
	LLM         LLMConfig         `json:"llm" yaml:"llm"`
}

// VerifyConfig controls strategy execution
type VerifyConfig struct {
	// Seed offsets the per-claim generator seed derived from the claim id.
	// The same seed and claims file always reproduce the same verdicts.
	Seed int64 `json:"seed" yaml:"seed"`

	// ClaimTimeout bounds a single claim's evaluation; expiry yields an
	// inconclusive result with a timeout detail.
	ClaimTimeout time.Duration `json:"claim_timeout" yaml:"claim_timeout"`

	// TrialsOverride, when > 0, replaces every strategy's sample count
	TrialsOverride int `json:"trials_override" yaml:"trials_override"`

	// KeepTrials retains per-sample trial records in details (large)
	KeepTrials bool `json:"keep_trials" yaml:"keep_trials"`
}

// ConcurrencyConfig controls the worker pool
type ConcurrencyConfig struct {
	Workers int `json:"workers" yaml:"workers"`
}

// CacheConfig controls result caching
type CacheConfig struct {
	Enabled   bool          `json:"enabled" yaml:"enabled"`
	Dir       string        `json:"dir" yaml:"dir"`
	MemoryTTL time.Duration `json:"memory_ttl" yaml:"memory_ttl"`
	DiskTTL   time.Duration `json:"disk_ttl" yaml:"disk_ttl"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `json:"verbose" yaml:"verbose"`
	IncludeFooter bool `json:"include_footer" yaml:"include_footer"`
}

// LLMConfig configures the optional advisory helper
type LLMConfig struct {
	Provider  string `json:"provider" yaml:"provider"` // "openai", "anthropic", "ollama", "" (disabled)
	Model     string `json:"model" yaml:"model"`
	APIKey    string `json:"-" yaml:"-"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Timeout   int    `json:"timeout" yaml:"timeout"` // seconds
	MaxTokens int    `json:"max_tokens" yaml:"max_tokens"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Verify: VerifyConfig{
			Seed:         0,
			ClaimTimeout: 30 * time.Second,
			KeepTrials:   false,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Provider:  "", // Disabled by default
			Timeout:   30,
			MaxTokens: 800,
		},
	}
}
