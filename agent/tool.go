package agent

import "context"

// Invoker is the single capability a tool exposes to the loop.
type Invoker interface {
	Invoke(ctx context.Context, input string) (string, error)
}

// InvokerFunc adapts a plain function to Invoker.
type InvokerFunc func(ctx context.Context, input string) (string, error)

func (f InvokerFunc) Invoke(ctx context.Context, input string) (string, error) {
	return f(ctx, input)
}

// Tool is a named, described text-in/text-out callable.
type Tool struct {
	Name        string
	Description string
	Invoker     Invoker
}

// Describe returns the catalog entry rendered into prompts.
func (t Tool) Describe() ToolDescription {
	return ToolDescription{Name: t.Name, Description: t.Description}
}

// ToolDescription is the part of a tool the model is allowed to see.
type ToolDescription struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// CloneToolDescriptions returns a copy safe to hand across component boundaries.
func CloneToolDescriptions(in []ToolDescription) []ToolDescription {
	out := make([]ToolDescription, len(in))
	copy(out, in)
	return out
}
