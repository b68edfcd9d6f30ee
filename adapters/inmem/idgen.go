// Package inmem issues run IDs from in-process counters.
package inmem

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/Gurpartap/reactagent/agent"
)

var sequences atomic.Uint64

// Sequence numbers the runs of one Runner. Each Sequence takes a process-wide
// ordinal, so runners publishing to a shared sink never reuse a RunID.
type Sequence struct {
	prefix  string
	ordinal uint64
	issued  atomic.Uint64
}

var _ agent.IDGenerator = (*Sequence)(nil)

func NewSequence(prefix string) *Sequence {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "run"
	}
	return &Sequence{
		prefix:  prefix,
		ordinal: sequences.Add(1),
	}
}

// NewRunID returns IDs shaped <prefix>-<ordinal>.<n>, with n starting at 1.
func (s *Sequence) NewRunID(_ context.Context) (agent.RunID, error) {
	n := s.issued.Add(1)
	return agent.RunID(s.prefix + "-" + strconv.FormatUint(s.ordinal, 10) + "." + strconv.FormatUint(n, 10)), nil
}

// Issued reports how many IDs the sequence has handed out.
func (s *Sequence) Issued() uint64 {
	return s.issued.Load()
}
