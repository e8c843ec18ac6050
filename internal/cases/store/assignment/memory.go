// Package assignment persists case assignments. Records are immutable:
// created or removed, never updated.
package assignment

import (
	"context"
	"sync"

	"caseflow/internal/cases/models"
	id "caseflow/pkg/domain"
	"caseflow/pkg/platform/sentinel"
)

// InMemory is the mutex-guarded store used by unit tests and local
// development.
type InMemory struct {
	mu          sync.RWMutex
	assignments map[id.AssignmentID]*models.CaseAssignment
}

func NewInMemory() *InMemory {
	return &InMemory{assignments: make(map[id.AssignmentID]*models.CaseAssignment)}
}

// Create stores an assignment. A second assignment of the same type for the
// same user and case is ErrAlreadyExists.
func (s *InMemory) Create(_ context.Context, a *models.CaseAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.assignments {
		if existing.CaseID == a.CaseID && existing.UserID == a.UserID && existing.Type == a.Type {
			return sentinel.ErrAlreadyExists
		}
	}
	clone := *a
	s.assignments[a.ID] = &clone
	return nil
}

// Remove deletes an assignment record.
func (s *InMemory) Remove(_ context.Context, assignmentID id.AssignmentID) (*models.CaseAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[assignmentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	delete(s.assignments, assignmentID)
	clone := *a
	return &clone, nil
}

// ListByCase returns all assignments on a case.
func (s *InMemory) ListByCase(_ context.Context, caseID id.CaseID) ([]*models.CaseAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.CaseAssignment
	for _, a := range s.assignments {
		if a.CaseID == caseID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ListByUser returns all assignments held by a user.
func (s *InMemory) ListByUser(_ context.Context, userID id.UserID) ([]*models.CaseAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.CaseAssignment
	for _, a := range s.assignments {
		if a.UserID == userID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}
