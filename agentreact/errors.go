package agentreact

import "errors"

var (
	// ErrMissingModel is returned when New is called without a model client.
	ErrMissingModel = errors.New("missing model client")
	// ErrMissingToolRegistry is returned when New is called without a tool registry.
	ErrMissingToolRegistry = errors.New("missing tool registry")
)
