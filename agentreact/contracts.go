package agentreact

import "github.com/Gurpartap/reactagent/agent"

// ToolRegistry resolves tool names and renders the catalog for prompts.
type ToolRegistry interface {
	Resolve(name string) (agent.Tool, error)
	Describe() []agent.ToolDescription
	Names() []string
}

// PromptBuilder renders the text sent to the model for the current transcript.
type PromptBuilder interface {
	Build(goal string, tools []agent.ToolDescription, transcript []agent.Step) string
}

// DecisionParser turns one completion into a decision.
type DecisionParser interface {
	Parse(completion string) (agent.Decision, error)
}
