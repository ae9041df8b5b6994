// Package config loads coursewiz settings with Viper.
//
// Precedence, highest first: environment (COURSEWIZ_*), project file
// ./coursewiz.yml, global file ~/.config/coursewiz/config.yml, defaults.
// A .env file in the working directory is loaded into the environment
// before anything is read.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/coursewiz/internal/llm"
)

// Config holds all configuration values for coursewiz.
type Config struct {
	Provider string `mapstructure:"provider" yaml:"provider"`
	// Model is the wizard's default model. Empty uses the provider default.
	Model string `mapstructure:"model" yaml:"model"`

	// GatewayURL points the wizard at a remote gateway. Empty runs
	// generation in-process.
	GatewayURL   string   `mapstructure:"gateway_url" yaml:"gateway_url"`
	ServerAddr   string   `mapstructure:"server_addr" yaml:"server_addr"`
	AllowOrigins []string `mapstructure:"allow_origins" yaml:"allow_origins"`

	DBPath   string `mapstructure:"db_path" yaml:"db_path"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`

	OpenAIAPIKey    string `mapstructure:"openai_api_key" yaml:"openai_api_key,omitempty"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key" yaml:"gemini_api_key,omitempty"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key" yaml:"anthropic_api_key,omitempty"`

	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RetryAttempts  int           `mapstructure:"retry_attempts" yaml:"retry_attempts"`
	RateLimitRPM   int           `mapstructure:"rate_limit_rpm" yaml:"rate_limit_rpm"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst" yaml:"rate_limit_burst"`
}

// Default returns the built-in configuration.
func Default() *Config {
	def := llm.DefaultConfig()
	return &Config{
		Provider:       def.Provider,
		ServerAddr:     ":8080",
		LogLevel:       "info",
		Timeout:        def.Timeout,
		RetryAttempts:  def.Retry.MaxAttempts,
		RateLimitRPM:   def.RateLimit.RequestsPerMinute,
		RateLimitBurst: def.RateLimit.Burst,
	}
}

// Load reads configuration. A non-empty path replaces the global and
// project files.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")

	def := Default()
	v.SetDefault("provider", def.Provider)
	v.SetDefault("model", "")
	v.SetDefault("gateway_url", "")
	v.SetDefault("server_addr", def.ServerAddr)
	v.SetDefault("allow_origins", []string{})
	v.SetDefault("db_path", "")
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("retry_attempts", def.RetryAttempts)
	v.SetDefault("rate_limit_rpm", def.RateLimitRPM)
	v.SetDefault("rate_limit_burst", def.RateLimitBurst)

	v.SetEnvPrefix("COURSEWIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The database path keeps its short variable name.
	if err := v.BindEnv("db_path", "COURSEWIZ_DB", "COURSEWIZ_DB_PATH"); err != nil {
		return nil, fmt.Errorf("binding db_path env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		if globalPath := GlobalPath(); fileExists(globalPath) {
			v.SetConfigFile(globalPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading global config: %w", err)
			}
		}
		if projectPath := ProjectPath(); fileExists(projectPath) {
			v.SetConfigFile(projectPath)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// LLM projects the settings into an llm.Config. Keys missing from the
// configuration fall back to the providers' standard variables.
func (c *Config) LLM() llm.Config {
	out := llm.ConfigFromEnv()
	if c.Provider != "" {
		out.Provider = c.Provider
	}
	if c.OpenAIAPIKey != "" {
		out.OpenAI.APIKey = c.OpenAIAPIKey
	}
	if c.GeminiAPIKey != "" {
		out.Gemini.APIKey = c.GeminiAPIKey
	}
	if c.AnthropicAPIKey != "" {
		out.Anthropic.APIKey = c.AnthropicAPIKey
	}
	if c.Model != "" {
		switch out.Provider {
		case llm.ProviderOpenAI:
			out.OpenAI.Model = c.Model
		case llm.ProviderGemini:
			out.Gemini.Model = c.Model
		case llm.ProviderAnthropic:
			out.Anthropic.Model = c.Model
		}
	}
	if c.Timeout > 0 {
		out.Timeout = c.Timeout
	}
	out.Retry.MaxAttempts = c.RetryAttempts
	out.RateLimit.RequestsPerMinute = c.RateLimitRPM
	out.RateLimit.Burst = c.RateLimitBurst
	return out
}

// Exists reports whether a global or project config file exists.
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns ~/.config/coursewiz/config.yml, honoring
// XDG_CONFIG_HOME.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "coursewiz", "config.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "coursewiz", "config.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "coursewiz.yml"
}

// Write persists cfg as YAML at path, creating parent directories.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Keys may be stored here.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Redacted returns a copy with API keys masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	out.AllowOrigins = append([]string(nil), c.AllowOrigins...)
	for _, key := range []*string{&out.OpenAIAPIKey, &out.GeminiAPIKey, &out.AnthropicAPIKey} {
		if *key != "" {
			*key = "[REDACTED]"
		}
	}
	return &out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DefaultModel returns the model the wizard preselects for Provider.
func (c *Config) DefaultModel() string {
	if c.Model != "" {
		return c.Model
	}
	def := llm.DefaultConfig()
	for _, id := range []string{def.OpenAI.Model, def.Gemini.Model, def.Anthropic.Model} {
		if llm.ModelAvailable(c.Provider, id) {
			return id
		}
	}
	if m, ok := llm.FirstAvailableModel(c.Provider); ok {
		return m.ID
	}
	return ""
}
