package taskstate

import (
	"slices"
	"time"
)

// Kind names an operation type
type Kind string

const (
	KindLoad   Kind = "load"
	KindCreate Kind = "create"
	KindUpdate Kind = "update"
	KindToggle Kind = "toggle"
	KindDelete Kind = "delete"
)

// Operation is the tracked status of one request, keyed by its correlation id
type Operation struct {
	ID       string
	Kind     Kind
	TaskID   int64
	Pending  bool
	Success  bool
	Error    string
	Started  time.Time
	Finished time.Time
}

// Operation returns the status of the operation with id
func (s *Store) Operation(id string) (Operation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.ops[id]
	if !ok {
		return Operation{}, false
	}
	return *op, true
}

// Pending returns the operations still in flight, oldest first
func (s *Store) Pending() []Operation {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Operation
	for _, op := range s.ops {
		if op.Pending {
			out = append(out, *op)
		}
	}
	slices.SortFunc(out, func(a, b Operation) int { return a.Started.Compare(b.Started) })
	return out
}

// Loading reports whether any operation is in flight
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range s.ops {
		if op.Pending {
			return true
		}
	}
	return false
}

// remember marks id finished and evicts the oldest finished operations past
// historyLimit. Expects s.mu to be held.
func (s *Store) remember(id string) {
	s.finished = append(s.finished, id)
	for len(s.finished) > historyLimit {
		delete(s.ops, s.finished[0])
		s.finished = s.finished[1:]
	}
}
