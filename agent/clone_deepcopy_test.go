package agent_test

import (
	"testing"

	"github.com/Gurpartap/reactagent/agent"
)

func TestCloneRun_DeepCopiesTranscriptActions(t *testing.T) {
	t.Parallel()

	original := agent.Run{
		ID:     "run-1",
		Goal:   "find rates",
		Status: agent.RunStatusRunning,
		Transcript: []agent.Step{
			{Thought: "look", Action: &agent.Action{Tool: "GetFundingRates", Input: "all"}, Observation: "BTC-USDT: 0.031%"},
		},
	}

	cloned := agent.CloneRun(original)
	cloned.Transcript[0].Action.Input = "mutated"
	cloned.Transcript[0].Observation = "changed"
	cloned.Transcript = append(cloned.Transcript, agent.Step{FinalAnswer: "clone-only"})

	if original.Transcript[0].Action.Input != "all" {
		t.Fatalf("clone mutation leaked into original action: %+v", original.Transcript[0].Action)
	}
	if original.Transcript[0].Observation != "BTC-USDT: 0.031%" {
		t.Fatalf("clone mutation leaked into original observation")
	}
	if len(original.Transcript) != 1 {
		t.Fatalf("clone append leaked into original transcript")
	}

	original.Transcript[0].Action.Tool = "Other"
	if cloned.Transcript[0].Action.Tool != "GetFundingRates" {
		t.Fatalf("original mutation leaked into clone")
	}
}

func TestCloneEvent_DeepCopiesStep(t *testing.T) {
	t.Parallel()

	original := agent.Event{
		RunID: "run-1",
		Type:  agent.EventTypeObservation,
		Step:  &agent.Step{Action: &agent.Action{Tool: "Echo", Input: "hi"}, Observation: "hi"},
	}

	cloned := agent.CloneEvent(original)
	cloned.Step.Action.Input = "mutated"
	cloned.Step.Observation = "changed"

	if original.Step.Action.Input != "hi" || original.Step.Observation != "hi" {
		t.Fatalf("clone mutation leaked into original event: %+v", original.Step)
	}
}

func TestCloneSteps_NilStaysNil(t *testing.T) {
	t.Parallel()

	if got := agent.CloneSteps(nil); got != nil {
		t.Fatalf("expected nil clone, got %+v", got)
	}
}
