package inmem

import (
	"context"
	"fmt"
	"sync"

	"github.com/Gurpartap/reactagent/agent"
)

// Store keeps run snapshots in memory with optimistic version checks. It lives
// only as long as the process.
type Store struct {
	mu   sync.RWMutex
	runs map[agent.RunID]agent.Run
}

var _ agent.RunStore = (*Store)(nil)

func New() *Store {
	return &Store{runs: map[agent.RunID]agent.Run{}}
}

func (s *Store) Save(_ context.Context, run agent.Run) error {
	if err := agent.ValidateRun(run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.runs[run.ID]
	switch {
	case !exists:
		if run.Version != 0 {
			return fmt.Errorf(
				"%w: run %q expected version 0 on create, got %d",
				agent.ErrRunVersionConflict,
				run.ID,
				run.Version,
			)
		}
		next := agent.CloneRun(run)
		next.Version = 1
		s.runs[run.ID] = next
		return nil
	case run.Version != current.Version:
		return fmt.Errorf(
			"%w: run %q expected version %d, got %d",
			agent.ErrRunVersionConflict,
			run.ID,
			current.Version,
			run.Version,
		)
	default:
		next := agent.CloneRun(run)
		next.Version = current.Version + 1
		s.runs[run.ID] = next
		return nil
	}
}

func (s *Store) Load(_ context.Context, runID agent.RunID) (agent.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return agent.Run{}, agent.ErrRunNotFound
	}
	return agent.CloneRun(run), nil
}
