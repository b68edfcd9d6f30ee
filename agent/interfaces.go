package agent

import "context"

// ModelClient turns a prompt into a completion. Stop sequences let the loop
// cut the completion at an observation boundary.
type ModelClient interface {
	Complete(ctx context.Context, prompt string, stop []string) (string, error)
}

// RunStore keeps run snapshots for observability within one process.
// Save uses optimistic concurrency based on Run.Version and bumps it by one on success.
type RunStore interface {
	Save(ctx context.Context, run Run) error
	Load(ctx context.Context, runID RunID) (Run, error)
}

// EventSink receives normalized runtime events.
type EventSink interface {
	Publish(ctx context.Context, event Event) error
}

// IDGenerator creates run IDs at the runtime boundary.
type IDGenerator interface {
	NewRunID(ctx context.Context) (RunID, error)
}
