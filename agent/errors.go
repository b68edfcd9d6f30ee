package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateTool is returned when a registry already holds a tool with the same name.
	ErrDuplicateTool = errors.New("duplicate tool")
	// ErrUnknownTool is returned when a tool name cannot be resolved.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrToolNameEmpty is returned when a tool is registered or resolved without a name.
	ErrToolNameEmpty = errors.New("tool name is empty")
	// ErrNilInvoker is returned when a tool is registered without an invoker.
	ErrNilInvoker = errors.New("tool invoker is nil")
	// ErrMalformedCompletion is returned when a completion carries neither an action nor a final answer.
	ErrMalformedCompletion = errors.New("malformed completion")
	// ErrToolExecution wraps failures raised by a tool's own logic.
	ErrToolExecution = errors.New("tool execution failed")
	// ErrModelUnavailable is returned when the model client cannot produce a completion.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrTimeout is returned when a model or tool call exceeds the per-call timeout.
	ErrTimeout = errors.New("call timed out")
	// ErrIterationLimitExceeded is returned when the loop reaches its iteration budget.
	ErrIterationLimitExceeded = errors.New("iteration limit exceeded")
	// ErrInvalidConfig is returned when a runner is configured with out-of-range values.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidRunTransition is returned when a run status transition is not allowed.
	ErrInvalidRunTransition = errors.New("invalid run status transition")
	// ErrRunInvalid is returned when a run snapshot breaks a structural invariant.
	ErrRunInvalid = errors.New("run is invalid")
	// ErrRunNotFound is returned by run stores when a run ID is unknown.
	ErrRunNotFound = errors.New("run not found")
	// ErrInvalidRunID is returned by run stores for snapshots without an ID.
	ErrInvalidRunID = errors.New("invalid run id")
	// ErrRunVersionConflict is returned by run stores when optimistic versions disagree.
	ErrRunVersionConflict = errors.New("run version conflict")
	// ErrContextNil is returned by boundaries that require a non-nil context.
	ErrContextNil = errors.New("context is nil")
)

// ToolExecutionError is the failure a tool returns to describe what went wrong
// in a form the model can read and react to.
type ToolExecutionError struct {
	Tool    string
	Message string
}

func NewToolExecutionError(tool, message string) *ToolExecutionError {
	return &ToolExecutionError{Tool: tool, Message: message}
}

func (e *ToolExecutionError) Error() string {
	if e.Tool == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Tool, e.Message)
}

func (e *ToolExecutionError) Unwrap() error {
	return ErrToolExecution
}

// RunError is the typed failure surfaced to callers when a run ends without an answer.
type RunError struct {
	RunID      RunID
	Reason     FailureReason
	Iterations int
	Err        error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %s failed after %d iteration(s): %s: %v", e.RunID, e.Iterations, e.Reason, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
