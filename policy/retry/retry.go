package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gurpartap/reactagent/agent"
	"github.com/Gurpartap/reactagent/policy/timeout"
)

// Config controls retry behavior for wrapped model calls.
type Config struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	Backoff        time.Duration
	ShouldRetry    func(error) bool
}

// WrapModel wraps a model client with bounded retries. Every attempt runs
// under AttemptTimeout. Failures are classified so callers can tell timeouts
// (agent.ErrTimeout) from other infrastructure faults (agent.ErrModelUnavailable);
// caller cancellation is returned as ctx.Err(). Without ShouldRetry only
// timeouts are retried and unavailability is returned after one attempt.
func WrapModel(model agent.ModelClient, cfg Config) agent.ModelClient {
	if model == nil {
		return nil
	}
	return &modelWrapper{
		next: model,
		cfg:  cfg,
	}
}

type modelWrapper struct {
	next agent.ModelClient
	cfg  Config
}

func (w *modelWrapper) Complete(ctx context.Context, prompt string, stop []string) (string, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	attempts := normalizedAttempts(w.cfg.MaxAttempts)
	var (
		lastErr error
		made    int
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		made = attempt
		completion, err := timeout.Call(ctx, w.cfg.AttemptTimeout, func(attemptCtx context.Context) (string, error) {
			return w.next.Complete(attemptCtx, prompt, stop)
		})
		if err == nil {
			return completion, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		lastErr = classify(err)
		if attempt == attempts || !shouldRetry(ctx, w.cfg, lastErr) {
			break
		}
		if err := sleep(ctx, w.cfg.Backoff); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("after %d attempt(s): %w", made, lastErr)
}

func classify(err error) error {
	switch {
	case errors.Is(err, agent.ErrTimeout), errors.Is(err, agent.ErrModelUnavailable):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", agent.ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %w", agent.ErrModelUnavailable, err)
	}
}

func normalizedAttempts(maxAttempts int) int {
	if maxAttempts < 1 {
		return 1
	}
	return maxAttempts
}

func shouldRetry(ctx context.Context, cfg Config, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if cfg.ShouldRetry == nil {
		return errors.Is(err, agent.ErrTimeout)
	}
	return cfg.ShouldRetry(err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
