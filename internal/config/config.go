package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultMaxIterations  = 15
	defaultPerCallTimeout = 30 * time.Second
	defaultModelAttempts  = 3
	defaultModelBackoff   = 500 * time.Millisecond
	defaultModelMode      = ModelModeMock
	defaultOpenAIBaseURL  = "https://api.openai.com/v1"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultOllamaBaseURL  = "http://localhost:11434"
	defaultOllamaModel    = "llama3"
	defaultConcurrency    = 4
	defaultLogFormat      = LogFormatText
	defaultLogLevel       = slog.LevelInfo

	envPrefix = "REACTAGENT_"
)

type ModelMode string

const (
	ModelModeMock   ModelMode = "mock"
	ModelModeOpenAI ModelMode = "openai"
	ModelModeOllama ModelMode = "ollama"
)

type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Config controls the reasoning loop, model selection, and CLI output.
type Config struct {
	MaxIterations  int
	PerCallTimeout time.Duration
	ModelAttempts  int
	ModelBackoff   time.Duration
	ModelMode      ModelMode
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string
	OllamaBaseURL  string
	OllamaModel    string
	Concurrency    int
	LogFormat      LogFormat
	LogLevel       slog.Level
}

func Default() Config {
	return Config{
		MaxIterations:  defaultMaxIterations,
		PerCallTimeout: defaultPerCallTimeout,
		ModelAttempts:  defaultModelAttempts,
		ModelBackoff:   defaultModelBackoff,
		ModelMode:      defaultModelMode,
		OpenAIModel:    defaultOpenAIModel,
		OpenAIBaseURL:  defaultOpenAIBaseURL,
		OllamaBaseURL:  defaultOllamaBaseURL,
		OllamaModel:    defaultOllamaModel,
		Concurrency:    defaultConcurrency,
		LogFormat:      defaultLogFormat,
		LogLevel:       defaultLogLevel,
	}
}

// Load layers defaults, the optional config file at path (falling back to
// REACTAGENT_CONFIG), and REACTAGENT_* environment variables, then validates.
func Load(path string) (Config, error) {
	cfg, err := LoadLayers(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadLayers is Load without the final Validate, for callers that apply
// further overrides first.
func LoadLayers(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv(envPrefix + "CONFIG"))
	}
	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if value := env("MAX_ITERATIONS"); value != "" {
		parsed, err := parseCount("MAX_ITERATIONS", value)
		if err != nil {
			return err
		}
		cfg.MaxIterations = parsed
	}
	if value := env("TIMEOUT"); value != "" {
		parsed, err := parseTimeout("TIMEOUT", value)
		if err != nil {
			return err
		}
		cfg.PerCallTimeout = parsed
	}
	if value := env("MODEL_ATTEMPTS"); value != "" {
		parsed, err := parseCount("MODEL_ATTEMPTS", value)
		if err != nil {
			return err
		}
		cfg.ModelAttempts = parsed
	}
	if value := env("MODEL_BACKOFF"); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("parse %sMODEL_BACKOFF: %w", envPrefix, err)
		}
		cfg.ModelBackoff = parsed
	}
	if value := env("MODEL_MODE"); value != "" {
		cfg.ModelMode = ModelMode(strings.ToLower(value))
	}

	if key := env("OPENAI_API_KEY"); key != "" {
		cfg.OpenAIAPIKey = key
	} else if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" && cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = key
	}
	if value := env("OPENAI_MODEL"); value != "" {
		cfg.OpenAIModel = value
	}
	if value := env("OPENAI_BASE_URL"); value != "" {
		cfg.OpenAIBaseURL = value
	}
	if value := env("OLLAMA_BASE_URL"); value != "" {
		cfg.OllamaBaseURL = value
	}
	if value := env("OLLAMA_MODEL"); value != "" {
		cfg.OllamaModel = value
	}

	if value := env("CONCURRENCY"); value != "" {
		parsed, err := parseCount("CONCURRENCY", value)
		if err != nil {
			return err
		}
		cfg.Concurrency = parsed
	}
	if value := env("LOG_LEVEL"); value != "" {
		parsed, err := ParseLogLevel(value)
		if err != nil {
			return err
		}
		cfg.LogLevel = parsed
	}
	if value := env("LOG_FORMAT"); value != "" {
		parsed, err := ParseLogFormat(value)
		if err != nil {
			return err
		}
		cfg.LogFormat = parsed
	}
	return nil
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + name))
}

func parseCount(name, value string) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s%s: %w", envPrefix, name, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("parse %s%s: value must be > 0", envPrefix, name)
	}
	return parsed, nil
}

func parseTimeout(name, value string) (time.Duration, error) {
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s%s: %w", envPrefix, name, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("parse %s%s: value must be > 0", envPrefix, name)
	}
	return parsed, nil
}

func (c Config) Validate() error {
	if c.MaxIterations <= 0 {
		return errors.New("validate config: max iterations must be > 0")
	}
	if c.PerCallTimeout <= 0 {
		return errors.New("validate config: per-call timeout must be > 0")
	}
	if c.ModelAttempts <= 0 {
		return errors.New("validate config: model attempts must be > 0")
	}
	if c.ModelBackoff < 0 {
		return errors.New("validate config: model backoff must be >= 0")
	}
	if c.Concurrency <= 0 {
		return errors.New("validate config: concurrency must be > 0")
	}

	switch c.ModelMode {
	case ModelModeMock:
	case ModelModeOpenAI:
		if strings.TrimSpace(c.OpenAIAPIKey) == "" {
			return errors.New("validate config: openai mode requires REACTAGENT_OPENAI_API_KEY or OPENAI_API_KEY")
		}
		if strings.TrimSpace(c.OpenAIModel) == "" {
			return errors.New("validate config: openai mode requires REACTAGENT_OPENAI_MODEL")
		}
	case ModelModeOllama:
		if strings.TrimSpace(c.OllamaModel) == "" {
			return errors.New("validate config: ollama mode requires REACTAGENT_OLLAMA_MODEL")
		}
	default:
		return fmt.Errorf(
			"validate config: unsupported %sMODEL_MODE %q (allowed: %q, %q, %q)",
			envPrefix,
			c.ModelMode,
			ModelModeMock,
			ModelModeOpenAI,
			ModelModeOllama,
		)
	}

	switch c.LogLevel {
	case slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError:
	default:
		return fmt.Errorf(
			"validate config: unsupported %sLOG_LEVEL %q (allowed: %q, %q, %q, %q)",
			envPrefix,
			c.LogLevel.String(),
			slog.LevelDebug.String(),
			slog.LevelInfo.String(),
			slog.LevelWarn.String(),
			slog.LevelError.String(),
		)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf(
			"validate config: unsupported %sLOG_FORMAT %q (allowed: %q, %q)",
			envPrefix,
			c.LogFormat,
			LogFormatText,
			LogFormatJSON,
		)
	}

	return nil
}

func ParseLogLevel(input string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf(
			"parse log level: unsupported value %q (allowed: %q, %q, %q, %q)",
			input,
			slog.LevelDebug.String(),
			slog.LevelInfo.String(),
			slog.LevelWarn.String(),
			slog.LevelError.String(),
		)
	}
}

func ParseLogFormat(input string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case string(LogFormatText):
		return LogFormatText, nil
	case string(LogFormatJSON):
		return LogFormatJSON, nil
	default:
		return "", fmt.Errorf(
			"parse log format: unsupported value %q (allowed: %q, %q)",
			input,
			LogFormatText,
			LogFormatJSON,
		)
	}
}
