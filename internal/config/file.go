package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for YAML and TOML files. Durations are strings
// ("30s") and unset keys keep the lower-precedence value.
type fileConfig struct {
	MaxIterations  int    `yaml:"max_iterations" toml:"max_iterations"`
	PerCallTimeout string `yaml:"per_call_timeout" toml:"per_call_timeout"`
	ModelAttempts  int    `yaml:"model_attempts" toml:"model_attempts"`
	ModelBackoff   string `yaml:"model_backoff" toml:"model_backoff"`
	ModelMode      string `yaml:"model_mode" toml:"model_mode"`
	Concurrency    int    `yaml:"concurrency" toml:"concurrency"`

	OpenAI struct {
		APIKey  string `yaml:"api_key" toml:"api_key"`
		Model   string `yaml:"model" toml:"model"`
		BaseURL string `yaml:"base_url" toml:"base_url"`
	} `yaml:"openai" toml:"openai"`

	Ollama struct {
		BaseURL string `yaml:"base_url" toml:"base_url"`
		Model   string `yaml:"model" toml:"model"`
	} `yaml:"ollama" toml:"ollama"`

	Log struct {
		Level  string `yaml:"level" toml:"level"`
		Format string `yaml:"format" toml:"format"`
	} `yaml:"log" toml:"log"`
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var file fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("parse config file %s: unsupported extension %q (allowed: .yaml, .yml, .toml)", path, ext)
	}

	return file.apply(cfg, path)
}

func (f fileConfig) apply(cfg *Config, path string) error {
	if f.MaxIterations != 0 {
		cfg.MaxIterations = f.MaxIterations
	}
	if f.PerCallTimeout != "" {
		parsed, err := time.ParseDuration(f.PerCallTimeout)
		if err != nil {
			return fmt.Errorf("parse config file %s: per_call_timeout: %w", path, err)
		}
		cfg.PerCallTimeout = parsed
	}
	if f.ModelAttempts != 0 {
		cfg.ModelAttempts = f.ModelAttempts
	}
	if f.ModelBackoff != "" {
		parsed, err := time.ParseDuration(f.ModelBackoff)
		if err != nil {
			return fmt.Errorf("parse config file %s: model_backoff: %w", path, err)
		}
		cfg.ModelBackoff = parsed
	}
	if f.ModelMode != "" {
		cfg.ModelMode = ModelMode(strings.ToLower(strings.TrimSpace(f.ModelMode)))
	}
	if f.Concurrency != 0 {
		cfg.Concurrency = f.Concurrency
	}

	if f.OpenAI.APIKey != "" {
		cfg.OpenAIAPIKey = strings.TrimSpace(f.OpenAI.APIKey)
	}
	if f.OpenAI.Model != "" {
		cfg.OpenAIModel = strings.TrimSpace(f.OpenAI.Model)
	}
	if f.OpenAI.BaseURL != "" {
		cfg.OpenAIBaseURL = strings.TrimSpace(f.OpenAI.BaseURL)
	}
	if f.Ollama.BaseURL != "" {
		cfg.OllamaBaseURL = strings.TrimSpace(f.Ollama.BaseURL)
	}
	if f.Ollama.Model != "" {
		cfg.OllamaModel = strings.TrimSpace(f.Ollama.Model)
	}

	if f.Log.Level != "" {
		parsed, err := ParseLogLevel(f.Log.Level)
		if err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
		cfg.LogLevel = parsed
	}
	if f.Log.Format != "" {
		parsed, err := ParseLogFormat(f.Log.Format)
		if err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}
		cfg.LogFormat = parsed
	}
	return nil
}
