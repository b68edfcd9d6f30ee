package mocks

import (
	"context"
	"strings"
	"time"

	"github.com/Gurpartap/reactagent/adapters/modeltest"
	"github.com/Gurpartap/reactagent/agent"
	"github.com/Gurpartap/reactagent/toolset"
)

const questionMarker = "\nQuestion: "

// Model is a deterministic offline model. It reads the goal and the
// observations already in the prompt and answers with the next completion, so
// one instance can serve concurrent runs.
type Model struct{}

var _ agent.ModelClient = (*Model)(nil)

func NewModel() *Model {
	return &Model{}
}

func (m *Model) Complete(ctx context.Context, prompt string, _ []string) (string, error) {
	goal, observations := readPrompt(prompt)
	goalLower := strings.ToLower(goal)

	if strings.Contains(goalLower, "[slow]") {
		timer := time.NewTimer(150 * time.Millisecond)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	switch {
	case strings.Contains(goalLower, "[loop]"):
		return modeltest.ActCompletion("I should check again", toolset.EchoName, "again"), nil
	case strings.Contains(goalLower, "[malformed]"):
		if len(observations) == 0 {
			return " I am not sure what to do next.", nil
		}
		return modeltest.FinishCompletion("recovered"), nil
	case strings.Contains(goalLower, "[unknown-tool]"):
		if len(observations) == 0 {
			return modeltest.ActCompletion("I should teleport", "Teleport", "moon"), nil
		}
		return modeltest.FinishCompletion("no such tool"), nil
	case strings.Contains(goalLower, "funding"), strings.Contains(goalLower, "arbitrage"):
		return fundingCompletion(observations), nil
	}

	if len(observations) == 0 {
		return modeltest.ActCompletion("I should repeat the question", toolset.EchoName, goal), nil
	}
	return modeltest.FinishCompletion(observations[len(observations)-1]), nil
}

func fundingCompletion(observations []string) string {
	switch len(observations) {
	case 0:
		return modeltest.ActCompletion("I need the current funding rates", toolset.GetFundingRatesName, "all")
	case 1:
		return modeltest.ActCompletion("Now I should check for arbitrage", toolset.EvaluateArbitrageName, "funding rates")
	default:
		return modeltest.FinishCompletion(observations[len(observations)-1])
	}
}

// readPrompt extracts the goal and every observation recorded after it.
func readPrompt(prompt string) (string, []string) {
	idx := strings.LastIndex(prompt, questionMarker)
	if idx < 0 {
		return "", nil
	}
	rest := prompt[idx+len(questionMarker):]
	goal, transcript, _ := strings.Cut(rest, "\n")
	transcript = strings.TrimSuffix("\n"+transcript, agent.MarkerThought)

	var observations []string
	marker := "\n" + agent.MarkerObservation
	for {
		start := strings.Index(transcript, marker)
		if start < 0 {
			break
		}
		transcript = transcript[start+len(marker):]
		end := nextLineMarker(transcript)
		observations = append(observations, strings.TrimSpace(transcript[:end]))
		transcript = transcript[end:]
	}
	return strings.TrimSpace(goal), observations
}

func nextLineMarker(text string) int {
	end := len(text)
	for _, marker := range []string{agent.MarkerThought, agent.MarkerAction, agent.MarkerObservation, agent.MarkerFinalAnswer} {
		if i := strings.Index(text, "\n"+marker); i >= 0 && i < end {
			end = i
		}
	}
	return end
}
