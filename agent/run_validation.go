package agent

import (
	"errors"
	"fmt"
)

// ValidateRun checks structural run invariants before persistence boundaries.
func ValidateRun(run Run) error {
	if run.ID == "" {
		return errors.Join(
			ErrRunInvalid,
			fmt.Errorf("%w: field=id reason=empty", ErrInvalidRunID),
		)
	}
	if run.Iterations < 0 {
		return fmt.Errorf(
			"%w: field=iterations reason=negative value=%d run_id=%q",
			ErrRunInvalid,
			run.Iterations,
			run.ID,
		)
	}
	if run.Version < 0 {
		return fmt.Errorf(
			"%w: field=version reason=negative value=%d run_id=%q",
			ErrRunInvalid,
			run.Version,
			run.ID,
		)
	}
	if !isKnownRunStatus(run.Status) {
		return fmt.Errorf(
			"%w: field=status reason=unknown value=%q run_id=%q",
			ErrRunInvalid,
			run.Status,
			run.ID,
		)
	}
	for i, step := range run.Transcript {
		if step.Action != nil && step.FinalAnswer != "" {
			return fmt.Errorf(
				"%w: field=transcript[%d] reason=action_with_final_answer run_id=%q",
				ErrRunInvalid,
				i,
				run.ID,
			)
		}
	}

	switch run.Status {
	case RunStatusFailed:
		if run.Failure == "" {
			return fmt.Errorf("%w: field=failure reason=missing run_id=%q", ErrRunInvalid, run.ID)
		}
	case RunStatusSucceeded:
		if len(run.Transcript) == 0 || !run.Transcript[len(run.Transcript)-1].IsTerminal() {
			return fmt.Errorf("%w: field=transcript reason=no_final_step run_id=%q", ErrRunInvalid, run.ID)
		}
		fallthrough
	default:
		if run.Failure != "" {
			return fmt.Errorf(
				"%w: field=failure reason=unexpected value=%q status=%s run_id=%q",
				ErrRunInvalid,
				run.Failure,
				run.Status,
				run.ID,
			)
		}
	}
	return nil
}

func isKnownRunStatus(status RunStatus) bool {
	switch status {
	case RunStatusRunning,
		RunStatusSucceeded,
		RunStatusFailed:
		return true
	default:
		return false
	}
}
