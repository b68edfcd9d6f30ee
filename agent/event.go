package agent

// EventType is emitted by the loop for observability.
type EventType string

const (
	EventTypeRunStarted      EventType = "run_started"
	EventTypeModelCompletion EventType = "model_completion"
	EventTypeObservation     EventType = "observation"
	EventTypeRunSucceeded    EventType = "run_succeeded"
	EventTypeRunFailed       EventType = "run_failed"
)

// Event is intentionally compact so adapters can map it to logs, metrics, or streams.
type Event struct {
	RunID       RunID     `json:"run_id"`
	Iteration   int       `json:"iteration"`
	Type        EventType `json:"type"`
	Completion  string    `json:"completion,omitempty"`
	Step        *Step     `json:"step,omitempty"`
	Description string    `json:"description,omitempty"`
}

// CloneEvent returns a deep copy of an event.
func CloneEvent(in Event) Event {
	out := in
	if in.Step != nil {
		step := CloneStep(*in.Step)
		out.Step = &step
	}
	return out
}
