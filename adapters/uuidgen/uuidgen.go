// Package uuidgen issues globally unique run IDs for processes that serve
// many runs, such as the MCP server and batch mode.
package uuidgen

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Gurpartap/reactagent/agent"
)

type Generator struct {
	prefix string
}

var _ agent.IDGenerator = Generator{}

func New(prefix string) Generator {
	return Generator{prefix: prefix}
}

func (g Generator) NewRunID(_ context.Context) (agent.RunID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	if g.prefix == "" {
		return agent.RunID(id.String()), nil
	}
	return agent.RunID(g.prefix + "-" + id.String()), nil
}
