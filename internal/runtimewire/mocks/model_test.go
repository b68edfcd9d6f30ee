package mocks

import (
	"context"
	"strings"
	"testing"

	"github.com/Gurpartap/reactagent/agent"
	"github.com/Gurpartap/reactagent/prompt"
	"github.com/Gurpartap/reactagent/toolset"
)

func demoCatalog() []agent.ToolDescription {
	tools := toolset.Demo()
	out := make([]agent.ToolDescription, len(tools))
	for i := range tools {
		out[i] = tools[i].Describe()
	}
	return out
}

func TestReadPrompt_ExtractsGoalAndObservations(t *testing.T) {
	t.Parallel()

	transcript := []agent.Step{
		{Thought: "rates", Action: &agent.Action{Tool: "GetFundingRates", Input: "all"}, Observation: "BTC-USDT: 0.031%\nETH-USDT: -0.015%"},
		{Thought: "bad", Synthetic: true, Observation: "Invalid Format: missing markers"},
	}
	goal, observations := readPrompt(prompt.Build("find funding arbitrage", demoCatalog(), transcript))
	if goal != "find funding arbitrage" {
		t.Fatalf("unexpected goal %q", goal)
	}
	if len(observations) != 2 {
		t.Fatalf("expected 2 observations, got %q", observations)
	}
	if observations[0] != "BTC-USDT: 0.031%\nETH-USDT: -0.015%" {
		t.Fatalf("unexpected first observation %q", observations[0])
	}
	if observations[1] != "Invalid Format: missing markers" {
		t.Fatalf("unexpected second observation %q", observations[1])
	}
}

func TestModel_FundingFlow(t *testing.T) {
	t.Parallel()

	model := NewModel()
	ctx := context.Background()
	goal := "Is there a funding arbitrage today?"

	first, err := model.Complete(ctx, prompt.Build(goal, demoCatalog(), nil), nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !strings.Contains(first, "Action: "+toolset.GetFundingRatesName) {
		t.Fatalf("expected funding rates action, got %q", first)
	}

	transcript := []agent.Step{
		{Action: &agent.Action{Tool: toolset.GetFundingRatesName, Input: "all"}, Observation: "rates"},
		{Action: &agent.Action{Tool: toolset.EvaluateArbitrageName, Input: "x"}, Observation: "🟢 found"},
	}
	last, err := model.Complete(ctx, prompt.Build(goal, demoCatalog(), transcript), nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !strings.HasSuffix(last, "Final Answer: 🟢 found") {
		t.Fatalf("expected final answer from last observation, got %q", last)
	}
}

func TestModel_SlowHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewModel().Complete(ctx, prompt.Build("[slow] hi", demoCatalog(), nil), nil); err == nil {
		t.Fatalf("expected context error")
	}
}
