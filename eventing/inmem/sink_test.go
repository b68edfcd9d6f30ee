package inmem_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Gurpartap/reactagent/agent"
	eventinginmem "github.com/Gurpartap/reactagent/eventing/inmem"
)

func TestSink_EventsReturnsDeepClonedSnapshot(t *testing.T) {
	t.Parallel()

	sink := eventinginmem.New()
	step := agent.Step{
		Action:      &agent.Action{Tool: "lookup", Input: "weather"},
		Observation: "sunny",
	}

	input := agent.Event{
		RunID:     "run-1",
		Iteration: 1,
		Type:      agent.EventTypeObservation,
		Step:      &step,
	}
	if err := sink.Publish(context.Background(), input); err != nil {
		t.Fatalf("publish event: %v", err)
	}

	input.Step.Observation = "mutated"
	input.Step.Action.Input = "mutated"

	snapshot := sink.Events()
	if len(snapshot) != 1 {
		t.Fatalf("unexpected snapshot length: %d", len(snapshot))
	}
	if snapshot[0].Step == nil || snapshot[0].Step.Observation != "sunny" || snapshot[0].Step.Action.Input != "weather" {
		t.Fatalf("unexpected step snapshot: %+v", snapshot[0].Step)
	}

	snapshot[0].Step.Observation = "changed"

	next := sink.Events()
	if next[0].Step.Observation != "sunny" {
		t.Fatalf("snapshot mutation leaked into sink: %+v", next[0].Step)
	}
}

func TestSink_RejectsInvalidEvent(t *testing.T) {
	t.Parallel()

	sink := eventinginmem.New()
	err := sink.Publish(context.Background(), agent.Event{Type: agent.EventTypeRunStarted})
	if !errors.Is(err, agent.ErrEventInvalid) {
		t.Fatalf("expected ErrEventInvalid, got %v", err)
	}
	if len(sink.Events()) != 0 {
		t.Fatalf("invalid event must not be stored")
	}
}

func TestSink_RejectsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := eventinginmem.New()
	if err := sink.Publish(ctx, agent.Event{RunID: "run-1", Type: agent.EventTypeRunStarted}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSink_EventsForFiltersByRun(t *testing.T) {
	t.Parallel()

	sink := eventinginmem.New()
	for _, id := range []agent.RunID{"run-1", "run-2", "run-1"} {
		if err := sink.Publish(context.Background(), agent.Event{RunID: id, Type: agent.EventTypeRunStarted}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	if got := len(sink.EventsFor("run-1")); got != 2 {
		t.Fatalf("unexpected run-1 event count: %d", got)
	}
	if got := len(sink.EventsFor("run-3")); got != 0 {
		t.Fatalf("unexpected run-3 event count: %d", got)
	}
}
