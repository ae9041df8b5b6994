package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider is the default provider for callers that do not pick one.
	// Values: "openai", "gemini", "anthropic", "mock"
	Provider string

	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Anthropic AnthropicConfig
	Retry     RetryConfig
	RateLimit RateLimitConfig

	// Timeout is the maximum duration for a single LLM request
	// (including retries). Default: 60s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional. Override for proxies and tests.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4.1-nano"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-2.0-flash"
	BaseURL string // Optional.
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// RateLimitConfig caps outgoing requests per provider. A zero
// RequestsPerMinute disables limiting.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderOpenAI,
		OpenAI: OpenAIConfig{
			Model: "gpt-4.1-nano",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 30,
			Burst:             3,
		},
		Timeout: 60 * time.Second,
	}
}

// Credential environment variables, in lookup order per provider.
var credentialEnv = map[string][]string{
	ProviderOpenAI:    {"OPENAI_KEY", "OPENAI_API_KEY"},
	ProviderGemini:    {"GEMINI_API_KEY"},
	ProviderAnthropic: {"ANTHROPIC_API_KEY"},
}

// CredentialEnvVar returns the primary environment variable that holds the
// API key for provider.
func CredentialEnvVar(provider string) string {
	if vars := credentialEnv[provider]; len(vars) > 0 {
		return vars[0]
	}
	return ""
}

// ConfigFromEnv builds a Config from the standard provider key variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = lookupEnv(credentialEnv[ProviderOpenAI]...)
	cfg.Gemini.APIKey = lookupEnv(credentialEnv[ProviderGemini]...)
	cfg.Anthropic.APIKey = lookupEnv(credentialEnv[ProviderAnthropic]...)
	return cfg
}

func lookupEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// APIKey returns the configured key for provider.
func (c Config) APIKey(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	case ProviderGemini:
		return c.Gemini.APIKey
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	}
	return ""
}

// Configured returns the catalog providers that have an API key, in
// display order.
func (c Config) Configured() []string {
	var out []string
	for _, p := range providerOrder {
		if c.APIKey(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that the default provider is known and has its API key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderAnthropic:
		if c.APIKey(c.Provider) == "" {
			return &ErrMissingCredentials{EnvVar: CredentialEnvVar(c.Provider)}
		}
	case ProviderMock:
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
