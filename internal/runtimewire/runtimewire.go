// Package runtimewire assembles a reasoning runtime from configuration: the
// model client for the selected mode, the tool registry and the event sinks.
// Finished runs are not retained unless the caller supplies a store.
package runtimewire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Gurpartap/reactagent/adapters/modelollama"
	"github.com/Gurpartap/reactagent/adapters/modelopenai"
	"github.com/Gurpartap/reactagent/adapters/uuidgen"
	"github.com/Gurpartap/reactagent/agent"
	"github.com/Gurpartap/reactagent/agentreact"
	"github.com/Gurpartap/reactagent/internal/config"
	"github.com/Gurpartap/reactagent/internal/runtimewire/mocks"
	toolingregistry "github.com/Gurpartap/reactagent/tooling/registry"
	"github.com/Gurpartap/reactagent/toolset"
)

// Options overrides parts of the wiring. Zero values select the configured
// model and the demo toolset. Store is opt-in; the caller owns its retention.
type Options struct {
	Logger *slog.Logger
	Model  agent.ModelClient
	Tools  []agent.Tool
	Events agent.EventSink
	Store  agent.RunStore
}

type Runtime struct {
	Runner *agentreact.Runner
	Tools  *toolingregistry.Registry
	Store  agent.RunStore
	Config config.Config
}

func New(cfg config.Config, opts Options) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model := opts.Model
	if model == nil {
		built, err := newModel(cfg)
		if err != nil {
			return nil, err
		}
		model = built
	}

	tools := opts.Tools
	if len(tools) == 0 {
		tools = toolset.Demo()
	}
	registry, err := toolingregistry.New(tools...)
	if err != nil {
		return nil, fmt.Errorf("new runtime: %w", err)
	}

	runner, err := agentreact.New(agentreact.Config{
		MaxIterations:  cfg.MaxIterations,
		PerCallTimeout: cfg.PerCallTimeout,
		ModelAttempts:  cfg.ModelAttempts,
		ModelBackoff:   cfg.ModelBackoff,
		Model:          model,
		Tools:          registry,
		Events:         fanout(newRuntimeEventLogSink(opts.Logger, cfg.LogFormat), opts.Events),
		Store:          opts.Store,
		IDs:            uuidgen.New("run"),
	})
	if err != nil {
		return nil, fmt.Errorf("new runtime: %w", err)
	}

	return &Runtime{
		Runner: runner,
		Tools:  registry,
		Store:  opts.Store,
		Config: cfg,
	}, nil
}

func newModel(cfg config.Config) (agent.ModelClient, error) {
	switch cfg.ModelMode {
	case config.ModelModeMock:
		return mocks.NewModel(), nil
	case config.ModelModeOpenAI:
		adapter, err := modelopenai.New(modelopenai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("new runtime: %w", err)
		}
		return adapter, nil
	case config.ModelModeOllama:
		client, err := modelollama.New(modelollama.Config{
			BaseURL: cfg.OllamaBaseURL,
			Model:   cfg.OllamaModel,
		})
		if err != nil {
			return nil, fmt.Errorf("new runtime: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("new runtime: unsupported model mode %q", cfg.ModelMode)
	}
}

type multiSink []agent.EventSink

func fanout(sinks ...agent.EventSink) agent.EventSink {
	var out multiSink
	for _, sink := range sinks {
		if sink != nil {
			out = append(out, sink)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return out
	}
}

func (m multiSink) Publish(ctx context.Context, event agent.Event) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
