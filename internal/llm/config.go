package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names.
const (
	ProviderNone       = "none"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the backend. "none" disables the LLM entirely.
	Provider string `mapstructure:"provider" validate:"omitempty,oneof=none anthropic openai gemini openrouter mock"`

	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Retry      RetryConfig      `mapstructure:"retry"`

	// Timeout bounds a single request including retries.
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OpenAIConfig holds OpenAI-specific configuration. BaseURL points the
// client at any OpenAI-compatible API.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"gte=0"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// DefaultConfig returns a disabled Config with each provider's default
// model filled in.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderNone,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// Discover fills in the first provider whose standard API key variable is
// set (Gemini, OpenAI, Anthropic, OpenRouter). It leaves c alone when the
// provider is already chosen or no key is found.
func (c Config) Discover() (Config, bool) {
	if c.Enabled() {
		return c, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		c.Provider, c.Gemini.APIKey = ProviderGemini, k
		return c, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		c.Provider, c.OpenAI.APIKey = ProviderOpenAI, k
		return c, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		c.Provider, c.Anthropic.APIKey = ProviderAnthropic, k
		return c, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		c.Provider, c.OpenRouter.APIKey = ProviderOpenRouter, k
		return c, true
	}
	return c, false
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	key := ""
	switch c.Provider {
	case "", ProviderNone, ProviderMock:
		return nil
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("llm.%s.api_key is required for the %s provider", c.Provider, c.Provider)
	}
	return nil
}
