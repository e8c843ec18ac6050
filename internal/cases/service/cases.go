package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"caseflow/internal/audit"
	"caseflow/internal/cases/access"
	"caseflow/internal/cases/models"
	"caseflow/internal/cases/policy"
	"caseflow/internal/cases/store/casestore"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/sentinel"
	"caseflow/pkg/requestcontext"
)

// CreateCase opens a new case at StatusApplication, version 1, with a
// freshly issued case number. Case-officer only.
func (s *Service) CreateCase(ctx context.Context, caseType, assignedCourt string, actor id.Actor) (*models.Case, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !policy.CanCreateCase(actor.Role) {
		return nil, dErrors.New(dErrors.CodeForbidden, "role may not create cases")
	}
	parsedType, err := models.ParseCaseType(caseType)
	if err != nil {
		return nil, err
	}
	assignedCourt = strings.TrimSpace(assignedCourt)
	if assignedCourt == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "assigned court is required")
	}

	issueStart := time.Now()
	number, err := s.numbers.Next(ctx, assignedCourt)
	if s.metrics != nil {
		s.metrics.ObserveCaseNumber(issueStart)
	}
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "issue case number")
	}

	now := requestcontext.Now(ctx)
	c, err := models.NewCase(id.NewCaseID(), number, parsedType, assignedCourt, actor.UserID, now)
	if err != nil {
		return nil, err
	}
	if err := s.cases.Create(ctx, c); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create case")
	}

	if err := s.auditRec.Record(ctx, audit.Entry{
		CaseID:    c.ID,
		Action:    audit.ActionCaseCreated,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Changes:   &audit.Changes{NewValue: string(c.Status)},
	}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "case created but audit append failed")
	}

	if s.metrics != nil {
		s.metrics.CasesCreated.Inc()
	}
	s.log.Info("case created",
		zap.String("case_id", c.ID.String()),
		zap.String("case_number", c.CaseNumber),
		zap.String("court", c.AssignedCourt))
	return c, nil
}

// GetCase returns the role-redacted view of a case. Detail access
// re-validates the same scoping rules as ListCases so direct-by-id access
// cannot bypass list scoping, and FORBIDDEN conceals existence: an actor
// outside the case's scope gets the same answer whether the id exists or not.
func (s *Service) GetCase(ctx context.Context, caseID id.CaseID, actor id.Actor) (*access.View, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	c, err := s.loadCaseScoped(ctx, caseID, actor)
	if err != nil {
		return nil, err
	}
	return access.Redact(actor, c), nil
}

// ListCases returns the cases visible to the actor, redacted per role.
func (s *Service) ListCases(ctx context.Context, actor id.Actor) ([]*access.View, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	assignments, err := s.actorAssignments(ctx, actor)
	if err != nil {
		return nil, err
	}

	var filter casestore.ListFilter
	switch actor.Role {
	case id.RoleCaseOfficer:
		if actor.CourtAssignment == "" {
			return []*access.View{}, nil
		}
		filter.Court = actor.CourtAssignment
	case id.RoleJudge, id.RoleAdopter:
		if len(assignments) == 0 {
			return []*access.View{}, nil
		}
		for caseID := range assignments {
			filter.IDs = append(filter.IDs, caseID)
		}
	}

	all, err := s.cases.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list cases")
	}
	// The store filter narrows the result set; the access filter is the
	// authority and re-checks every row.
	visible := access.FilterList(actor, all, assignments)
	return access.RedactList(actor, visible), nil
}

// DeleteCase soft-deletes a case. Case-officer only; the record remains for
// the audit trail but disappears from all reads and further mutation.
func (s *Service) DeleteCase(ctx context.Context, caseID id.CaseID, actor id.Actor) (bool, error) {
	if err := requireActor(actor); err != nil {
		return false, err
	}
	if !policy.CanDeleteCase(actor.Role) {
		return false, dErrors.New(dErrors.CodeForbidden, "role may not delete cases")
	}
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return false, err
	}

	expected := c.Version
	c.ApplyDeletion(requestcontext.Now(ctx))
	if err := s.cases.UpdateWithVersion(ctx, c, expected); err != nil {
		return false, s.translateWriteErr(ctx, caseID, err)
	}

	if err := s.auditRec.Record(ctx, audit.Entry{
		CaseID:    c.ID,
		Action:    audit.ActionCaseDeleted,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Changes:   &audit.Changes{PreviousValue: string(c.Status)},
	}); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "case deleted but audit append failed")
	}

	s.log.Info("case deleted", zap.String("case_id", c.ID.String()))
	return true, nil
}

// GetAuditLog returns the case's trail, newest-first. Gated by the same
// case-access rules as GetCase; FORBIDDEN responses carry no hint of whether
// the case exists.
func (s *Service) GetAuditLog(ctx context.Context, caseID id.CaseID, actor id.Actor) ([]audit.Entry, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if _, err := s.loadCaseScoped(ctx, caseID, actor); err != nil {
		return nil, err
	}
	entries, err := s.auditRec.ListByCase(ctx, caseID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list audit entries")
	}
	return entries, nil
}

// loadCase translates store sentinels for a read of one live case.
func (s *Service) loadCase(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	if caseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "case id is required")
	}
	c, err := s.cases.FindByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "case not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load case")
	}
	return c, nil
}

// loadCaseScoped loads one live case and enforces the actor's read scope.
// An absent id reads as FORBIDDEN unless the actor's scope covers it without
// the record (CouldView); NOT_FOUND is reserved for actors who could have
// seen the case had it existed.
func (s *Service) loadCaseScoped(ctx context.Context, caseID id.CaseID, actor id.Actor) (*models.Case, error) {
	if caseID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "case id is required")
	}
	assignments, err := s.actorAssignments(ctx, actor)
	if err != nil {
		return nil, err
	}
	c, err := s.cases.FindByID(ctx, caseID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load case")
		}
		if access.CouldView(actor, caseID, assignments) {
			return nil, dErrors.New(dErrors.CodeNotFound, "case not found")
		}
		return nil, dErrors.New(dErrors.CodeForbidden, "access denied")
	}
	if !access.CanView(actor, c, assignments) {
		return nil, dErrors.New(dErrors.CodeForbidden, "access denied")
	}
	return c, nil
}
