// Package casestore persists the Case aggregate. Both implementations honor
// the same contract: soft-deleted cases are invisible to reads, and writes
// are conditional on the version observed by the caller.
package casestore

import (
	"context"
	"sort"
	"sync"

	"caseflow/internal/cases/models"
	id "caseflow/pkg/domain"
	"caseflow/pkg/platform/sentinel"
)

// ListFilter narrows List results. Zero values mean "no constraint".
// The visibility filter still re-validates whatever the store returns; the
// filter here only keeps result sets small.
type ListFilter struct {
	Court string
	IDs   []id.CaseID
}

// InMemory is the mutex-guarded map store used by unit tests and local
// development. UpdateWithVersion performs the compare-and-swap under the
// store lock, making it a faithful stand-in for the SQL conditional update.
type InMemory struct {
	mu    sync.RWMutex
	cases map[id.CaseID]*models.Case
}

func NewInMemory() *InMemory {
	return &InMemory{cases: make(map[id.CaseID]*models.Case)}
}

// Create stores a new case. Fails with ErrAlreadyExists on a duplicate ID.
func (s *InMemory) Create(_ context.Context, c *models.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cases[c.ID]; exists {
		return sentinel.ErrAlreadyExists
	}
	s.cases[c.ID] = cloneCase(c)
	return nil
}

// FindByID returns a live case. Soft-deleted and absent cases are both
// ErrNotFound; callers cannot distinguish them.
func (s *InMemory) FindByID(_ context.Context, caseID id.CaseID) (*models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[caseID]
	if !ok || c.IsDeleted() {
		return nil, sentinel.ErrNotFound
	}
	return cloneCase(c), nil
}

// List returns live cases matching the filter, newest-first by creation.
func (s *InMemory) List(_ context.Context, filter ListFilter) ([]*models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[id.CaseID]bool, len(filter.IDs))
	for _, caseID := range filter.IDs {
		wanted[caseID] = true
	}

	var out []*models.Case
	for _, c := range s.cases {
		if c.IsDeleted() {
			continue
		}
		if filter.Court != "" && c.AssignedCourt != filter.Court {
			continue
		}
		if len(filter.IDs) > 0 && !wanted[c.ID] {
			continue
		}
		out = append(out, cloneCase(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// UpdateWithVersion writes the mutated case iff the stored version still
// equals expectedVersion and the case is not soft-deleted. This is the
// serialization point: no lock is held across the caller's read-check-write
// sequence, so a losing writer surfaces ErrVersionConflict here.
func (s *InMemory) UpdateWithVersion(_ context.Context, c *models.Case, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.cases[c.ID]
	if !ok || stored.IsDeleted() {
		return sentinel.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return sentinel.ErrVersionConflict
	}
	s.cases[c.ID] = cloneCase(c)
	return nil
}

func cloneCase(c *models.Case) *models.Case {
	clone := *c
	if c.DeletedAt != nil {
		deletedAt := *c.DeletedAt
		clone.DeletedAt = &deletedAt
	}
	if len(c.ApplicantIDs) > 0 {
		clone.ApplicantIDs = append([]id.UserID(nil), c.ApplicantIDs...)
	}
	return &clone
}
