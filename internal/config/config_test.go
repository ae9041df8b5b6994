package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/coursewiz/internal/llm"
)

// isolate points config lookups at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, k := range []string{
		"OPENAI_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY",
		"COURSEWIZ_PROVIDER", "COURSEWIZ_MODEL", "COURSEWIZ_DB", "COURSEWIZ_DB_PATH",
		"COURSEWIZ_TIMEOUT", "COURSEWIZ_GATEWAY_URL",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(dir)
	return dir
}

func TestGlobalPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := GlobalPath(), "/custom/config/coursewiz/config.yml"; got != want {
		t.Errorf("GlobalPath() = %v, want %v", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	got := GlobalPath()
	if !filepath.IsAbs(got) || filepath.Base(got) != "config.yml" {
		t.Errorf("GlobalPath() = %v", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != llm.ProviderOpenAI {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.ServerAddr != ":8080" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.DefaultModel() != "gpt-4.1-nano" {
		t.Errorf("DefaultModel() = %q", cfg.DefaultModel())
	}
	if Exists() {
		t.Error("Exists() = true with no files")
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)

	global := Default()
	global.Provider = llm.ProviderGemini
	global.LogLevel = "debug"
	global.ServerAddr = ":9000"
	if err := Write(GlobalPath(), global); err != nil {
		t.Fatalf("Write global: %v", err)
	}

	project := []byte("server_addr: \":9100\"\n")
	if err := os.WriteFile(filepath.Join(dir, ProjectPath()), project, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COURSEWIZ_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != llm.ProviderGemini {
		t.Errorf("Provider = %q, want global value", cfg.Provider)
	}
	if cfg.ServerAddr != ":9100" {
		t.Errorf("ServerAddr = %q, want project value", cfg.ServerAddr)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want env value", cfg.LogLevel)
	}
	if cfg.DefaultModel() != "gemini-2.0-flash" {
		t.Errorf("DefaultModel() = %q", cfg.DefaultModel())
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yml")
	if err := os.WriteFile(path, []byte("provider: anthropic\ntimeout: 30s\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != llm.ProviderAnthropic || cfg.Timeout != 30*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := Load(filepath.Join(dir, "missing.yml")); err == nil {
		t.Error("Load(missing) should fail")
	}
}

func TestLoad_DBEnv(t *testing.T) {
	isolate(t)
	t.Setenv("COURSEWIZ_DB", "/tmp/wiz.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/wiz.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
}

func TestLLM(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg := Default()
	cfg.GeminiAPIKey = "g-file"
	cfg.Provider = llm.ProviderGemini
	cfg.Model = "gemini-2.0-flash-lite"
	cfg.RateLimitRPM = 0

	got := cfg.LLM()
	if got.Provider != llm.ProviderGemini {
		t.Errorf("Provider = %q", got.Provider)
	}
	if got.OpenAI.APIKey != "sk-env" {
		t.Errorf("OpenAI key = %q, want env fallback", got.OpenAI.APIKey)
	}
	if got.Gemini.APIKey != "g-file" || got.Gemini.Model != "gemini-2.0-flash-lite" {
		t.Errorf("Gemini = %+v", got.Gemini)
	}
	if got.RateLimit.RequestsPerMinute != 0 {
		t.Errorf("RateLimit = %+v", got.RateLimit)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.OpenAIAPIKey = "sk-secret"

	r := cfg.Redacted()
	if r.OpenAIAPIKey != "[REDACTED]" || r.GeminiAPIKey != "" {
		t.Errorf("Redacted = %+v", r)
	}
	if cfg.OpenAIAPIKey != "sk-secret" {
		t.Error("Redacted modified the original")
	}
}
