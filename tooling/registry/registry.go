package registry

import (
	"fmt"
	"sync"

	"github.com/Gurpartap/reactagent/agent"
)

// Registry maps tool names to tools and remembers registration order so
// catalogs render identically for a fixed setup.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]agent.Tool
	order []string
}

// New registers tools in the given order and fails fast on the first invalid
// or duplicate entry.
func New(tools ...agent.Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]agent.Tool, len(tools))}
	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNew is New for static setups where a failure is a programming error.
func MustNew(tools ...agent.Tool) *Registry {
	r, err := New(tools...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Register(tool agent.Tool) error {
	if tool.Name == "" {
		return agent.ErrToolNameEmpty
	}
	if tool.Invoker == nil {
		return fmt.Errorf("%w: %q", agent.ErrNilInvoker, tool.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %q", agent.ErrDuplicateTool, tool.Name)
	}
	r.tools[tool.Name] = tool
	r.order = append(r.order, tool.Name)
	return nil
}

func (r *Registry) Resolve(name string) (agent.Tool, error) {
	if name == "" {
		return agent.Tool{}, agent.ErrToolNameEmpty
	}

	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return agent.Tool{}, fmt.Errorf("%w: %q", agent.ErrUnknownTool, name)
	}
	return tool, nil
}

// Describe returns the catalog in registration order.
func (r *Registry) Describe() []agent.ToolDescription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]agent.ToolDescription, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Describe())
	}
	return out
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
