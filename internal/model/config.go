package model

import "time"

// DefaultQuestion is the guiding-question sentinel used when the caller
// provides none. It is an ordinary input value: the disambiguation stage
// embeds it in the user prompt exactly like a caller-supplied question.
const DefaultQuestion = "The user did not provide a question."

// Config holds the complete claimify configuration
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Prompts  PromptConfig   `yaml:"prompts"`
	Cache    CacheConfig    `yaml:"cache"`
	Batch    BatchConfig    `yaml:"batch"`
	Output   OutputConfig   `yaml:"output"`
}

// LLMConfig configures the model-calling collaborator
type LLMConfig struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string `yaml:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model"`

	// APIKey for OpenAI/Anthropic (prefer env vars over config file)
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string `yaml:"base_url,omitempty"`

	// Timeout for API requests, in seconds
	Timeout int `yaml:"timeout"`

	// MaxTokens for response generation
	MaxTokens int `yaml:"max_tokens"`

	// RequestsPerSecond throttles outbound requests (0 = unlimited)
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst for the rate limiter
	Burst int `yaml:"burst"`

	// Proxy settings (Ollama only)
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
}

// PipelineConfig configures the extraction pipeline
type PipelineConfig struct {
	// SentencesBefore is the number of preceding sentences in each context window
	SentencesBefore int `yaml:"sentences_before"`

	// SentencesAfter is the number of following sentences in each context window
	SentencesAfter int `yaml:"sentences_after"`
}

// PromptConfig points at optional stage prompt overrides.
// Empty paths keep the compiled-in templates.
type PromptConfig struct {
	SelectionFile      string `yaml:"selection_file,omitempty"`
	DisambiguationFile string `yaml:"disambiguation_file,omitempty"`
	DecompositionFile  string `yaml:"decomposition_file,omitempty"`
}

// CacheConfig configures LLM response caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir,omitempty"` // Empty = memory only
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// BatchConfig configures concurrent batch extraction
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// OutputConfig configures output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:          "openai",
			Model:             "",
			Timeout:           30,
			MaxTokens:         2048,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Pipeline: PipelineConfig{
			SentencesBefore: 5,
			SentencesAfter:  5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Batch: BatchConfig{
			Workers: 2,
		},
	}
}
