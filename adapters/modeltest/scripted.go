package modeltest

import (
	"context"
	"fmt"
	"sync"

	"github.com/Gurpartap/reactagent/agent"
)

// Response configures one model turn in a scripted sequence.
type Response struct {
	Completion string
	Err        error
}

// ScriptedModel is a deterministic model client for runtime tests.
type ScriptedModel struct {
	mu        sync.Mutex
	index     int
	responses []Response
	prompts   []string
	stops     [][]string
}

func NewScriptedModel(responses ...Response) *ScriptedModel {
	cloned := make([]Response, len(responses))
	copy(cloned, responses)
	return &ScriptedModel{
		responses: cloned,
	}
}

// Completions scripts plain successful completions.
func Completions(completions ...string) *ScriptedModel {
	responses := make([]Response, len(completions))
	for i := range completions {
		responses[i] = Response{Completion: completions[i]}
	}
	return NewScriptedModel(responses...)
}

var _ agent.ModelClient = (*ScriptedModel)(nil)

func (m *ScriptedModel) Complete(_ context.Context, prompt string, stop []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	m.stops = append(m.stops, append([]string(nil), stop...))
	if m.index >= len(m.responses) {
		return "", fmt.Errorf("script exhausted at call %d", m.index+1)
	}
	current := m.responses[m.index]
	m.index++
	if current.Err != nil {
		return "", current.Err
	}
	return current.Completion, nil
}

// Calls reports how many times Complete was invoked.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns every prompt received, in order.
func (m *ScriptedModel) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// StopSequences returns the stop sequences received on each call.
func (m *ScriptedModel) StopSequences() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.stops))
	for i := range m.stops {
		out[i] = append([]string(nil), m.stops[i]...)
	}
	return out
}

// Func adapts a function to agent.ModelClient.
type Func func(ctx context.Context, prompt string, stop []string) (string, error)

func (f Func) Complete(ctx context.Context, prompt string, stop []string) (string, error) {
	return f(ctx, prompt, stop)
}

// ActCompletion renders a completion asking for tool with input.
func ActCompletion(thought, tool, input string) string {
	return fmt.Sprintf(" %s\n%s %s\n%s %s", thought, agent.MarkerAction, tool, agent.MarkerActionInput, input)
}

// FinishCompletion renders a completion carrying a final answer.
func FinishCompletion(answer string) string {
	return fmt.Sprintf(" I now know the final answer\n%s %s", agent.MarkerFinalAnswer, answer)
}
