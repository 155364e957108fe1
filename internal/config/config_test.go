package config

import (
	"os"
	"path/filepath"
	"testing"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	// Unset any env vars that would interfere
	for _, e := range []string{"NEWSLENS_LLM_GEMINI_KEY", "NEWSLENS_LLM_OPENAI_KEY"} {
		os.Unsetenv(e)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.LLM.Primary != "gemini" {
		t.Errorf("LLM.Primary: got %q, want %q", cfg.LLM.Primary, "gemini")
	}
	if cfg.LLM.Model != "gemini-2.0-flash" {
		t.Errorf("LLM.Model: got %q, want %q", cfg.LLM.Model, "gemini-2.0-flash")
	}
	if cfg.LLM.Temperature != 0.5 {
		t.Errorf("LLM.Temperature: got %f, want 0.5", cfg.LLM.Temperature)
	}
	if cfg.LLM.MaxTokens != 4096 {
		t.Errorf("LLM.MaxTokens: got %d, want 4096", cfg.LLM.MaxTokens)
	}

	if cfg.Loader.TimeoutSec != 30 {
		t.Errorf("Loader.TimeoutSec: got %d, want 30", cfg.Loader.TimeoutSec)
	}
	if cfg.Loader.ConcurrentFetches != 5 {
		t.Errorf("Loader.ConcurrentFetches: got %d, want 5", cfg.Loader.ConcurrentFetches)
	}
	if cfg.Loader.MaxDocumentChars != 6000 {
		t.Errorf("Loader.MaxDocumentChars: got %d, want 6000", cfg.Loader.MaxDocumentChars)
	}

	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
llm:
  primary: openai
  model: gpt-4o-mini
  temperature: 0.2
loader:
  timeout_sec: 10
  concurrent_fetches: 2
api:
  port: 9090
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}

	if cfg.LLM.Primary != "openai" {
		t.Errorf("LLM.Primary: got %q, want %q", cfg.LLM.Primary, "openai")
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("LLM.Model: got %q", cfg.LLM.Model)
	}
	if cfg.Loader.TimeoutSec != 10 {
		t.Errorf("Loader.TimeoutSec: got %d, want 10", cfg.Loader.TimeoutSec)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	// Values not in the file keep their defaults.
	if cfg.Loader.MaxDocumentChars != 6000 {
		t.Errorf("Loader.MaxDocumentChars default lost: got %d", cfg.Loader.MaxDocumentChars)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// ── Env Overrides ──

func TestEnvOverridesKeys(t *testing.T) {
	t.Setenv("NEWSLENS_LLM_GEMINI_KEY", "env-gemini-key")
	t.Setenv("NEWSLENS_LLM_OPENAI_KEY", "env-openai-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LLM.GeminiKey != "env-gemini-key" {
		t.Errorf("GeminiKey: got %q", cfg.LLM.GeminiKey)
	}
	if cfg.LLM.OpenAIKey != "env-openai-key" {
		t.Errorf("OpenAIKey: got %q", cfg.LLM.OpenAIKey)
	}
}

// ── Key Status ──

func TestCheckAPIKeys(t *testing.T) {
	for _, e := range []string{"NEWSLENS_LLM_GEMINI_KEY", "NEWSLENS_LLM_OPENAI_KEY"} {
		os.Unsetenv(e)
	}

	cfg := &Config{}
	cfg.LLM.GeminiKey = "AIzaSyExampleKey12345"

	statuses := CheckAPIKeys(cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 key statuses, got %d", len(statuses))
	}

	gemini := statuses[0]
	if !gemini.IsSet || gemini.Source != KeySourceConfig {
		t.Errorf("gemini key status: %+v", gemini)
	}
	if gemini.Masked == "" || gemini.Masked == cfg.LLM.GeminiKey {
		t.Errorf("gemini key should be masked, got %q", gemini.Masked)
	}

	openai := statuses[1]
	if openai.IsSet || openai.Source != KeySourceNone {
		t.Errorf("openai key status: %+v", openai)
	}
}

func TestMaskKey(t *testing.T) {
	if got := maskKey("short"); got != "***" {
		t.Errorf("short key: got %q", got)
	}
	if got := maskKey("AIzaSyExampleKey12345"); got != "AIz...345" {
		t.Errorf("long key: got %q", got)
	}
}
