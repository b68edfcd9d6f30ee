package agentreact

import (
	"fmt"
	"time"

	"github.com/Gurpartap/reactagent/adapters/inmem"
	"github.com/Gurpartap/reactagent/agent"
	"github.com/Gurpartap/reactagent/parser"
	"github.com/Gurpartap/reactagent/prompt"
)

const (
	DefaultMaxIterations  = 15
	DefaultPerCallTimeout = 30 * time.Second
	DefaultModelAttempts  = 3
)

// DefaultStopSequences cut a completion before the model invents its own observation.
var DefaultStopSequences = []string{"\n" + agent.MarkerObservation, "\n\t" + agent.MarkerObservation}

// Config wires one Runner. Model and Tools are required; zero values elsewhere
// select the defaults.
type Config struct {
	MaxIterations  int
	PerCallTimeout time.Duration
	ModelAttempts  int
	ModelBackoff   time.Duration
	StopSequences  []string

	Model  agent.ModelClient
	Tools  ToolRegistry
	Prompt PromptBuilder
	Parser DecisionParser
	Events agent.EventSink
	Store  agent.RunStore
	IDs    agent.IDGenerator
}

func (c Config) normalized() (Config, error) {
	if c.Model == nil {
		return Config{}, fmt.Errorf("new runner: %w", ErrMissingModel)
	}
	if c.Tools == nil {
		return Config{}, fmt.Errorf("new runner: %w", ErrMissingToolRegistry)
	}
	if c.MaxIterations < 0 {
		return Config{}, fmt.Errorf("new runner: %w: max iterations must be > 0, got %d", agent.ErrInvalidConfig, c.MaxIterations)
	}
	if c.PerCallTimeout < 0 {
		return Config{}, fmt.Errorf("new runner: %w: per-call timeout must be > 0, got %s", agent.ErrInvalidConfig, c.PerCallTimeout)
	}
	if c.ModelAttempts < 0 {
		return Config{}, fmt.Errorf("new runner: %w: model attempts must be > 0, got %d", agent.ErrInvalidConfig, c.ModelAttempts)
	}

	if c.MaxIterations == 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.PerCallTimeout == 0 {
		c.PerCallTimeout = DefaultPerCallTimeout
	}
	if c.ModelAttempts == 0 {
		c.ModelAttempts = DefaultModelAttempts
	}
	if c.StopSequences == nil {
		c.StopSequences = DefaultStopSequences
	}
	c.StopSequences = append([]string(nil), c.StopSequences...)
	if c.Prompt == nil {
		c.Prompt = prompt.Default()
	}
	if c.Parser == nil {
		c.Parser = parser.Parser{}
	}
	if c.Events == nil {
		c.Events = agent.NoopEventSink{}
	}
	if c.IDs == nil {
		c.IDs = inmem.NewSequence("run")
	}
	return c, nil
}
