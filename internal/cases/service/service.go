// Package service orchestrates the case lifecycle: authorization, status
// transitions, optimistic-concurrency writes, audit pairing, and role-scoped
// reads. It is the only mutation path for cases.
package service

import (
	"context"

	"go.uber.org/zap"

	"caseflow/internal/audit"
	"caseflow/internal/cases/access"
	"caseflow/internal/cases/metrics"
	"caseflow/internal/cases/models"
	"caseflow/internal/cases/store/casestore"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
)

// CaseStore persists the case aggregate. UpdateWithVersion must be a
// storage-level compare-and-swap on the version column: it is the
// serialization point for concurrent writers.
type CaseStore interface {
	Create(ctx context.Context, c *models.Case) error
	FindByID(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	List(ctx context.Context, filter casestore.ListFilter) ([]*models.Case, error)
	UpdateWithVersion(ctx context.Context, c *models.Case, expectedVersion int64) error
}

// AssignmentStore persists case assignments.
type AssignmentStore interface {
	Create(ctx context.Context, a *models.CaseAssignment) error
	Remove(ctx context.Context, assignmentID id.AssignmentID) (*models.CaseAssignment, error)
	ListByCase(ctx context.Context, caseID id.CaseID) ([]*models.CaseAssignment, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.CaseAssignment, error)
}

// AuditRecorder appends trail entries for committed mutations. A failed
// append fails the whole operation so that every committed mutation has a
// corresponding trail entry.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
	ListByCase(ctx context.Context, caseID id.CaseID) ([]audit.Entry, error)
}

// NumberGenerator issues case numbers for new cases.
type NumberGenerator interface {
	Next(ctx context.Context, courtName string) (string, error)
}

// Service is the case lifecycle service.
type Service struct {
	cases       CaseStore
	assignments AssignmentStore
	numbers     NumberGenerator
	auditRec    AuditRecorder
	metrics     *metrics.Metrics
	log         *zap.Logger
}

// Option configures optional collaborators.
type Option func(*Service)

// WithMetrics attaches prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger attaches a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

func New(cases CaseStore, assignments AssignmentStore, numbers NumberGenerator, auditRec AuditRecorder, opts ...Option) *Service {
	s := &Service{
		cases:       cases,
		assignments: assignments,
		numbers:     numbers,
		auditRec:    auditRec,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// actorAssignments resolves the actor's assignment set when their role is
// scoped by per-case assignments; other roles never consult it.
func (s *Service) actorAssignments(ctx context.Context, actor id.Actor) (access.AssignmentSet, error) {
	switch actor.Role {
	case id.RoleJudge, id.RoleAdopter:
		records, err := s.assignments.ListByUser(ctx, actor.UserID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load actor assignments")
		}
		return access.NewAssignmentSet(records), nil
	default:
		return access.AssignmentSet{}, nil
	}
}

func requireActor(actor id.Actor) error {
	if actor.IsZero() || actor.UserID.IsNil() {
		return dErrors.New(dErrors.CodeForbidden, "no authenticated actor")
	}
	return nil
}
