// Package parser turns raw model completions into agent decisions by scanning
// for the text protocol's markers.
package parser

import (
	"fmt"
	"strings"

	"github.com/Gurpartap/reactagent/agent"
)

var markers = []string{
	agent.MarkerThought,
	agent.MarkerAction,
	agent.MarkerActionInput,
	agent.MarkerObservation,
	agent.MarkerFinalAnswer,
}

// Parser is the marker-scanning decision parser. The zero value is ready to use.
type Parser struct{}

func (Parser) Parse(completion string) (agent.Decision, error) {
	return Parse(completion)
}

// Parse extracts a decision from completion. A final answer marker anywhere in
// the text wins over any action markers.
func Parse(completion string) (agent.Decision, error) {
	if idx := strings.Index(completion, agent.MarkerFinalAnswer); idx >= 0 {
		return agent.Finish{
			Thought: thoughtBefore(completion[:idx]),
			Answer:  strings.TrimSpace(completion[idx+len(agent.MarkerFinalAnswer):]),
		}, nil
	}

	actionIdx := strings.Index(completion, agent.MarkerAction)
	if actionIdx < 0 {
		if strings.Contains(completion, agent.MarkerActionInput) {
			return nil, fmt.Errorf("%w: missing %q before %q", agent.ErrMalformedCompletion, agent.MarkerAction, agent.MarkerActionInput)
		}
		return nil, fmt.Errorf("%w: missing %q or %q", agent.ErrMalformedCompletion, agent.MarkerAction, agent.MarkerFinalAnswer)
	}

	nameStart := actionIdx + len(agent.MarkerAction)
	toolName := strings.TrimSpace(completion[nameStart:nextMarker(completion, nameStart)])

	inputRel := strings.Index(completion[nameStart:], agent.MarkerActionInput)
	if inputRel < 0 {
		return nil, fmt.Errorf("%w: missing %q after %q", agent.ErrMalformedCompletion, agent.MarkerActionInput, agent.MarkerAction)
	}
	if toolName == "" {
		return nil, fmt.Errorf("%w: empty tool name after %q", agent.ErrMalformedCompletion, agent.MarkerAction)
	}

	inputStart := nameStart + inputRel + len(agent.MarkerActionInput)
	input := strings.TrimSpace(completion[inputStart:nextLineMarker(completion, inputStart)])

	return agent.Act{
		Thought: thoughtBefore(completion[:actionIdx]),
		Tool:    toolName,
		Input:   unquote(input),
	}, nil
}

// nextMarker returns the offset of the first marker at or after from, or len(text).
func nextMarker(text string, from int) int {
	end := len(text)
	for _, marker := range markers {
		if idx := strings.Index(text[from:], marker); idx >= 0 && from+idx < end {
			end = from + idx
		}
	}
	return end
}

// nextLineMarker returns the offset of the first line break after from that
// opens a marker line, or len(text). Markers inside a line stay part of it.
func nextLineMarker(text string, from int) int {
	for offset := from; offset < len(text); {
		idx := strings.IndexByte(text[offset:], '\n')
		if idx < 0 {
			break
		}
		lineBreak := offset + idx
		line := strings.TrimLeft(text[lineBreak+1:], " \t")
		for _, marker := range markers {
			if strings.HasPrefix(line, marker) {
				return lineBreak
			}
		}
		offset = lineBreak + 1
	}
	return len(text)
}

func thoughtBefore(text string) string {
	thought := strings.TrimSpace(text)
	thought = strings.TrimPrefix(thought, agent.MarkerThought)
	return strings.TrimSpace(thought)
}

// unquote drops one pair of surrounding double quotes.
func unquote(input string) string {
	if len(input) >= 2 && strings.HasPrefix(input, `"`) && strings.HasSuffix(input, `"`) {
		return input[1 : len(input)-1]
	}
	return input
}
