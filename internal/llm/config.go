package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries. Zero
	// disables the bound.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Any OpenAI-compatible endpoint.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-001"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults. Bank generation
// asks for a whole question list at once, so the timeout is generous.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderAnthropic,
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-001",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 90 * time.Second,
	}
}

// ConfigFromEnv builds a Config from QUIZZY_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	setString(&cfg.Provider, "QUIZZY_LLM_PROVIDER")

	setString(&cfg.Anthropic.APIKey, "QUIZZY_ANTHROPIC_API_KEY")
	setString(&cfg.Anthropic.Model, "QUIZZY_ANTHROPIC_MODEL")

	setString(&cfg.OpenAI.APIKey, "QUIZZY_OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "QUIZZY_OPENAI_MODEL")
	setString(&cfg.OpenAI.BaseURL, "QUIZZY_OPENAI_BASE_URL")

	setString(&cfg.Gemini.APIKey, "QUIZZY_GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "QUIZZY_GEMINI_MODEL")

	setString(&cfg.OpenRouter.APIKey, "QUIZZY_OPENROUTER_API_KEY")
	setString(&cfg.OpenRouter.Model, "QUIZZY_OPENROUTER_MODEL")
	setString(&cfg.OpenRouter.BaseURL, "QUIZZY_OPENROUTER_BASE_URL")

	if v := os.Getenv("QUIZZY_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("QUIZZY_LLM_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Retry.MaxAttempts = n
		}
	}

	return cfg
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DiscoverConfig probes standard API key env vars in priority order
// (Anthropic → OpenAI → Gemini → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Resolve returns the env config when its provider has a key, otherwise
// the first discovered vendor key. The bool is false when no usable
// provider is configured.
func Resolve() (Config, bool) {
	cfg := ConfigFromEnv()
	if cfg.Validate() == nil {
		return cfg, true
	}
	return DiscoverConfig()
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("QUIZZY_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("QUIZZY_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("QUIZZY_GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("QUIZZY_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case ProviderMock:
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
