package agent

import (
	"errors"
	"fmt"
)

// ErrEventInvalid is returned when an event violates payload invariants.
var ErrEventInvalid = errors.New("event is invalid")

// ValidateEvent checks event payload invariants before publish boundaries.
func ValidateEvent(event Event) error {
	if event.Type == "" {
		return fmt.Errorf("%w: field=type reason=empty", ErrEventInvalid)
	}
	if event.RunID == "" {
		return fmt.Errorf("%w: field=run_id reason=empty type=%s", ErrEventInvalid, event.Type)
	}
	if event.Iteration < 0 {
		return fmt.Errorf(
			"%w: field=iteration reason=negative value=%d type=%s run_id=%q",
			ErrEventInvalid,
			event.Iteration,
			event.Type,
			event.RunID,
		)
	}

	switch event.Type {
	case EventTypeObservation:
		if event.Step == nil {
			return fmt.Errorf(
				"%w: field=step reason=nil type=%s run_id=%q iteration=%d",
				ErrEventInvalid,
				event.Type,
				event.RunID,
				event.Iteration,
			)
		}
		if event.Step.IsTerminal() {
			return fmt.Errorf(
				"%w: field=step reason=terminal type=%s run_id=%q iteration=%d",
				ErrEventInvalid,
				event.Type,
				event.RunID,
				event.Iteration,
			)
		}
	case EventTypeRunSucceeded:
		if event.Step == nil || !event.Step.IsTerminal() {
			return fmt.Errorf(
				"%w: field=step reason=not_terminal type=%s run_id=%q iteration=%d",
				ErrEventInvalid,
				event.Type,
				event.RunID,
				event.Iteration,
			)
		}
	case EventTypeRunFailed:
		if event.Description == "" {
			return fmt.Errorf(
				"%w: field=description reason=empty type=%s run_id=%q iteration=%d",
				ErrEventInvalid,
				event.Type,
				event.RunID,
				event.Iteration,
			)
		}
	}
	return nil
}
