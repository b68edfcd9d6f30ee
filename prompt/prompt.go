// Package prompt renders the zero-shot ReAct prompt: the goal, the tool
// catalog, the format instructions and the transcript so far.
package prompt

import (
	"strings"

	"github.com/Gurpartap/reactagent/agent"
)

const (
	defaultPrefix = "Answer the following questions as best you can. You have access to the following tools:"
	defaultSuffix = "Begin!"
)

// Builder holds the fixed wording around the catalog and transcript.
type Builder struct {
	Prefix string
	Suffix string
}

func Default() Builder {
	return Builder{Prefix: defaultPrefix, Suffix: defaultSuffix}
}

// Build renders the prompt with the default wording.
func Build(goal string, tools []agent.ToolDescription, transcript []agent.Step) string {
	return Default().Build(goal, tools, transcript)
}

// Build is a pure function of its inputs.
func (b Builder) Build(goal string, tools []agent.ToolDescription, transcript []agent.Step) string {
	prefix := b.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	suffix := b.Suffix
	if suffix == "" {
		suffix = defaultSuffix
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString("\n\n")
	for _, tool := range tools {
		sb.WriteString(tool.Name)
		sb.WriteString(": ")
		sb.WriteString(tool.Description)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	writeFormatInstructions(&sb, tools)
	sb.WriteString("\n")
	sb.WriteString(suffix)
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(goal)
	sb.WriteString("\n")
	for _, step := range transcript {
		writeStep(&sb, step)
	}
	sb.WriteString(agent.MarkerThought)
	return sb.String()
}

func writeFormatInstructions(sb *strings.Builder, tools []agent.ToolDescription) {
	names := make([]string, len(tools))
	for i := range tools {
		names[i] = tools[i].Name
	}

	sb.WriteString("Use the following format:\n\n")
	sb.WriteString("Question: the input question you must answer\n")
	sb.WriteString(agent.MarkerThought + " you should always think about what to do\n")
	sb.WriteString(agent.MarkerAction + " the action to take, should be one of [" + strings.Join(names, ", ") + "]\n")
	sb.WriteString(agent.MarkerActionInput + " the input to the action\n")
	sb.WriteString(agent.MarkerObservation + " the result of the action\n")
	sb.WriteString("... (this Thought/Action/Action Input/Observation can repeat N times)\n")
	sb.WriteString(agent.MarkerThought + " I now know the final answer\n")
	sb.WriteString(agent.MarkerFinalAnswer + " the final answer to the original input question\n")
	sb.WriteString("\nYou must always finish with a line starting with \"" + agent.MarkerFinalAnswer + "\".\n")
}

func writeStep(sb *strings.Builder, step agent.Step) {
	if thought := strings.TrimSpace(step.Thought); thought != "" {
		writeLine(sb, agent.MarkerThought, thought)
	}
	if step.Action != nil {
		writeLine(sb, agent.MarkerAction, step.Action.Tool)
		writeLine(sb, agent.MarkerActionInput, step.Action.Input)
	}
	if step.Action != nil || step.Synthetic {
		writeLine(sb, agent.MarkerObservation, step.Observation)
		return
	}
	writeLine(sb, agent.MarkerFinalAnswer, step.FinalAnswer)
}

func writeLine(sb *strings.Builder, marker, value string) {
	sb.WriteString(marker)
	if value != "" {
		sb.WriteString(" ")
		sb.WriteString(value)
	}
	sb.WriteString("\n")
}
