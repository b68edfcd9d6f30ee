package agent

import "fmt"

// IsTerminalRunStatus reports whether no further transition is possible.
func IsTerminalRunStatus(status RunStatus) bool {
	switch status {
	case RunStatusSucceeded, RunStatusFailed:
		return true
	default:
		return false
	}
}

func validateRunStatusTransition(from, to RunStatus) error {
	if from == to {
		return nil
	}

	allowed, ok := allowedRunStatusTransitions[from]
	if !ok {
		return fmt.Errorf("%w: unknown source status %q", ErrInvalidRunTransition, from)
	}
	if _, ok := allowed[to]; !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidRunTransition, from, to)
	}
	return nil
}

// TransitionRunStatus moves run to the target status when the lifecycle allows it.
func TransitionRunStatus(run *Run, to RunStatus) error {
	if err := validateRunStatusTransition(run.Status, to); err != nil {
		return err
	}
	run.Status = to
	return nil
}

var allowedRunStatusTransitions = map[RunStatus]map[RunStatus]struct{}{
	"": {
		RunStatusRunning: {},
	},
	RunStatusRunning: {
		RunStatusSucceeded: {},
		RunStatusFailed:    {},
	},
	RunStatusSucceeded: {},
	RunStatusFailed:    {},
}
