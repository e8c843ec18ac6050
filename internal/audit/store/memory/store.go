// Package memory provides the in-memory audit store used by unit tests and
// local development.
package memory

import (
	"context"
	"sort"
	"sync"

	"caseflow/internal/audit"
	id "caseflow/pkg/domain"
)

// Store keeps entries in insertion order under a mutex.
type Store struct {
	mu      sync.Mutex
	entries []audit.Entry
	nextSeq int64
}

func New() *Store {
	return &Store{}
}

// Append stores a copy of the entry and assigns its insertion sequence.
func (s *Store) Append(_ context.Context, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	entry.Seq = s.nextSeq
	s.entries = append(s.entries, entry)
	return nil
}

// All returns every entry in insertion order.
func (s *Store) All() []audit.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Entry(nil), s.entries...)
}

// ListByCase returns the case's entries newest-first; equal timestamps break
// by insertion order.
func (s *Store) ListByCase(_ context.Context, caseID id.CaseID) ([]audit.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []audit.Entry
	for _, e := range s.entries {
		if e.CaseID == caseID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Seq > out[j].Seq
	})
	return out, nil
}
