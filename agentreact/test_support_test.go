package agentreact_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Gurpartap/reactagent/agent"
	toolingregistry "github.com/Gurpartap/reactagent/tooling/registry"
)

func echoTool() agent.Tool {
	return agent.Tool{
		Name:        "Echo",
		Description: "returns its input unchanged",
		Invoker: agent.InvokerFunc(func(_ context.Context, input string) (string, error) {
			return input, nil
		}),
	}
}

func newEchoRegistry(t *testing.T, extra ...agent.Tool) *toolingregistry.Registry {
	t.Helper()
	registry, err := toolingregistry.New(append([]agent.Tool{echoTool()}, extra...)...)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return registry
}

func requireRunError(t *testing.T, err error, reason agent.FailureReason, sentinel error) *agent.RunError {
	t.Helper()
	var runErr *agent.RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("expected *agent.RunError, got %T (%v)", err, err)
	}
	if runErr.Reason != reason {
		t.Fatalf("unexpected failure reason: got=%s want=%s (%v)", runErr.Reason, reason, err)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected %v in error chain, got %v", sentinel, err)
	}
	return runErr
}

// countingTool counts invocations and delegates to fn.
type countingTool struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, input string) (string, error)
}

func (c *countingTool) Invoke(ctx context.Context, input string) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.fn(ctx, input)
}

func (c *countingTool) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
