package agent

// RunID is the stable identifier for one reasoning run.
type RunID string

// RunStatus captures coarse execution state.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// FailureReason says which limit or infrastructure fault ended a failed run.
type FailureReason string

const (
	FailureReasonIterationLimit   FailureReason = "iteration_limit_exceeded"
	FailureReasonModelUnavailable FailureReason = "model_unavailable"
	FailureReasonTimeout          FailureReason = "timeout"
	FailureReasonCancelled        FailureReason = "cancelled"
)

// Action is the tool invocation a step performed.
type Action struct {
	Tool  string `json:"tool"`
	Input string `json:"input"`
}

// Step is one entry of the transcript.
//
// A step holds an action with its observation, a synthetic observation
// describing a recoverable failure, or the final answer. Never an action and
// a final answer together.
type Step struct {
	Thought     string  `json:"thought,omitempty"`
	Action      *Action `json:"action,omitempty"`
	Observation string  `json:"observation,omitempty"`
	Synthetic   bool    `json:"synthetic,omitempty"`
	FinalAnswer string  `json:"final_answer,omitempty"`
}

// IsTerminal reports whether the step carries the final answer.
func (s Step) IsTerminal() bool {
	return s.Action == nil && !s.Synthetic && s.Observation == ""
}

// CloneStep returns a deep copy of a step.
func CloneStep(in Step) Step {
	out := in
	if in.Action != nil {
		action := *in.Action
		out.Action = &action
	}
	return out
}

// CloneSteps returns deep copies of all steps.
func CloneSteps(in []Step) []Step {
	if in == nil {
		return nil
	}
	out := make([]Step, len(in))
	for i := range in {
		out[i] = CloneStep(in[i])
	}
	return out
}

// Run is the state of one goal being worked on. It is owned by a single
// loop invocation and discarded once the answer or failure is returned.
type Run struct {
	ID         RunID         `json:"id"`
	Version    int64         `json:"version"`
	Goal       string        `json:"goal"`
	Status     RunStatus     `json:"status"`
	Iterations int           `json:"iterations"`
	Transcript []Step        `json:"transcript,omitempty"`
	Answer     string        `json:"answer,omitempty"`
	Failure    FailureReason `json:"failure,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// CloneRun returns a deep copy safe for in-memory stores.
func CloneRun(in Run) Run {
	out := in
	out.Transcript = CloneSteps(in.Transcript)
	return out
}
