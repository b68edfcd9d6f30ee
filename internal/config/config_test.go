package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Gurpartap/reactagent/internal/config"
)

// Tests here use t.Setenv and therefore cannot run in parallel.

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "REACTAGENT_") || name == "OPENAI_API_KEY" {
			t.Setenv(name, "")
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxIterations != 15 || cfg.PerCallTimeout != 30*time.Second || cfg.ModelAttempts != 3 {
		t.Fatalf("unexpected loop defaults: %+v", cfg)
	}
	if cfg.ModelMode != config.ModelModeMock {
		t.Fatalf("unexpected model mode %q", cfg.ModelMode)
	}
	if cfg.LogFormat != config.LogFormatText || cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("unexpected log defaults: %+v", cfg)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "agent.yaml", `
max_iterations: 5
per_call_timeout: 10s
model_mode: ollama
ollama:
  model: qwen2.5
log:
  level: debug
  format: json
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxIterations != 5 || cfg.PerCallTimeout != 10*time.Second {
		t.Fatalf("unexpected loop settings: %+v", cfg)
	}
	if cfg.ModelMode != config.ModelModeOllama || cfg.OllamaModel != "qwen2.5" {
		t.Fatalf("unexpected model settings: %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != config.LogFormatJSON {
		t.Fatalf("unexpected log settings: %+v", cfg)
	}
}

func TestLoadTOMLFile(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "agent.toml", `
model_mode = "openai"
concurrency = 8

[openai]
api_key = "file-key"
model = "gpt-4.1-mini"
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ModelMode != config.ModelModeOpenAI || cfg.OpenAIAPIKey != "file-key" || cfg.OpenAIModel != "gpt-4.1-mini" {
		t.Fatalf("unexpected openai settings: %+v", cfg)
	}
	if cfg.Concurrency != 8 {
		t.Fatalf("unexpected concurrency %d", cfg.Concurrency)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "agent.yml", "max_iterations: 5\n")
	t.Setenv("REACTAGENT_MAX_ITERATIONS", "7")
	t.Setenv("REACTAGENT_TIMEOUT", "2s")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxIterations != 7 || cfg.PerCallTimeout != 2*time.Second {
		t.Fatalf("env did not override file: %+v", cfg)
	}
}

func TestLoadFallsBackToOpenAIAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("REACTAGENT_MODEL_MODE", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-fallback")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OpenAIAPIKey != "sk-fallback" {
		t.Fatalf("expected fallback api key, got %q", cfg.OpenAIAPIKey)
	}
}

func TestLoadRejectsOpenAIModeWithoutKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("REACTAGENT_MODEL_MODE", "openai")

	_, err := config.Load("")
	if err == nil || !strings.Contains(err.Error(), "openai mode requires") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("REACTAGENT_MAX_ITERATIONS", "0")

	if _, err := config.Load(""); err == nil || !strings.Contains(err.Error(), "value must be > 0") {
		t.Fatalf("expected max iterations error, got %v", err)
	}

	t.Setenv("REACTAGENT_MAX_ITERATIONS", "")
	t.Setenv("REACTAGENT_MODEL_MODE", "anthropic")
	if _, err := config.Load(""); err == nil || !strings.Contains(err.Error(), "unsupported REACTAGENT_MODEL_MODE") {
		t.Fatalf("expected model mode error, got %v", err)
	}
}

func TestLoadRejectsUnknownFileExtension(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "agent.json", "{}")
	if _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "unsupported extension") {
		t.Fatalf("expected extension error, got %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	level, err := config.ParseLogLevel("WARNING")
	if err != nil || level != slog.LevelWarn {
		t.Fatalf("unexpected level %v, %v", level, err)
	}
	if _, err := config.ParseLogLevel("trace"); err == nil {
		t.Fatalf("expected unsupported level error")
	}
}

func TestLoadLayersSkipsValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("REACTAGENT_MODEL_MODE", "openai")

	cfg, err := config.LoadLayers("")
	if err != nil {
		t.Fatalf("load layers: %v", err)
	}
	if cfg.ModelMode != config.ModelModeOpenAI {
		t.Fatalf("unexpected model mode %q", cfg.ModelMode)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected layered config to fail validation")
	}

	cfg.ModelMode = config.ModelModeMock
	if err := cfg.Validate(); err != nil {
		t.Fatalf("override should validate: %v", err)
	}
}
