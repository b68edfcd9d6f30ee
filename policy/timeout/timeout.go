// Package timeout bounds a blocking call by a per-call deadline, even when the
// callee ignores its context.
package timeout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gurpartap/reactagent/agent"
)

// Call runs fn with a context limited to d. When d elapses before fn returns,
// Call returns an error wrapping agent.ErrTimeout and abandons fn; its result
// is discarded once it finishes. A non-positive d disables the limit.
//
// Cancellation of ctx itself is reported as ctx.Err(), not as a timeout.
func Call[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if d <= 0 {
		return fn(ctx)
	}

	callCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		value, err := fn(callCtx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w after %s: %v", agent.ErrTimeout, d, out.err)
		}
		return out.value, out.err
	case <-callCtx.Done():
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		return zero, fmt.Errorf("%w after %s", agent.ErrTimeout, d)
	}
}
