package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"caseflow/internal/audit"
	"caseflow/internal/cases/models"
	"caseflow/internal/cases/policy"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/sentinel"
	"caseflow/pkg/requestcontext"
)

// CreateAssignment attaches a user to a case. Case-officer only. Applicant
// assignments also add the user to the case's applicant set via the same
// version-checked write path as every other case mutation.
func (s *Service) CreateAssignment(ctx context.Context, caseID id.CaseID, userID id.UserID, assignmentType models.AssignmentType, actor id.Actor) (*models.CaseAssignment, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !policy.CanManageAssignments(actor.Role) {
		return nil, dErrors.New(dErrors.CodeForbidden, "role may not manage assignments")
	}
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "user id is required")
	}
	if _, err := models.ParseAssignmentType(string(assignmentType)); err != nil {
		return nil, err
	}
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	a := models.NewCaseAssignment(caseID, userID, assignmentType, actor.UserID, requestcontext.Now(ctx))
	if err := s.assignments.Create(ctx, a); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return nil, dErrors.New(dErrors.CodeConflict, "assignment already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create assignment")
	}

	if assignmentType == models.AssignmentApplicant {
		if err := s.addApplicant(ctx, c, userID); err != nil {
			// The assignment row is already committed; remove it so a
			// CAS loss leaves no partial, unaudited state and the caller
			// can retry cleanly.
			if _, rbErr := s.assignments.Remove(ctx, a.ID); rbErr != nil {
				s.log.Error("assignment rollback failed",
					zap.String("assignment_id", a.ID.String()),
					zap.String("case_id", caseID.String()),
					zap.Error(rbErr))
			}
			return nil, err
		}
	}

	if err := s.auditRec.Record(ctx, audit.Entry{
		CaseID:    caseID,
		Action:    audit.ActionAssignmentCreated,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Changes:   &audit.Changes{NewValue: string(assignmentType) + ":" + userID.String()},
	}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "assignment created but audit append failed")
	}

	s.log.Info("assignment created",
		zap.String("case_id", caseID.String()),
		zap.String("user_id", userID.String()),
		zap.String("type", string(assignmentType)))
	return a, nil
}

// RemoveAssignment detaches a user from a case. Case-officer only.
func (s *Service) RemoveAssignment(ctx context.Context, assignmentID id.AssignmentID, actor id.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !policy.CanManageAssignments(actor.Role) {
		return dErrors.New(dErrors.CodeForbidden, "role may not manage assignments")
	}

	removed, err := s.assignments.Remove(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "assignment not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "remove assignment")
	}

	if removed.Type == models.AssignmentApplicant {
		if c, loadErr := s.loadCase(ctx, removed.CaseID); loadErr == nil {
			if err := s.removeApplicant(ctx, c, removed.UserID); err != nil {
				return err
			}
		}
	}

	if err := s.auditRec.Record(ctx, audit.Entry{
		CaseID:    removed.CaseID,
		Action:    audit.ActionAssignmentRemoved,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Changes:   &audit.Changes{PreviousValue: string(removed.Type) + ":" + removed.UserID.String()},
	}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "assignment removed but audit append failed")
	}

	s.log.Info("assignment removed",
		zap.String("case_id", removed.CaseID.String()),
		zap.String("user_id", removed.UserID.String()))
	return nil
}

func (s *Service) addApplicant(ctx context.Context, c *models.Case, userID id.UserID) error {
	for _, existing := range c.ApplicantIDs {
		if existing == userID {
			return nil
		}
	}
	expected := c.Version
	c.ApplicantIDs = append(c.ApplicantIDs, userID)
	c.Version++
	c.UpdatedAt = requestcontext.Now(ctx)
	if err := s.cases.UpdateWithVersion(ctx, c, expected); err != nil {
		return s.translateWriteErr(ctx, c.ID, err)
	}
	return nil
}

func (s *Service) removeApplicant(ctx context.Context, c *models.Case, userID id.UserID) error {
	kept := c.ApplicantIDs[:0]
	found := false
	for _, existing := range c.ApplicantIDs {
		if existing == userID {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		return nil
	}
	expected := c.Version
	c.ApplicantIDs = kept
	c.Version++
	c.UpdatedAt = requestcontext.Now(ctx)
	if err := s.cases.UpdateWithVersion(ctx, c, expected); err != nil {
		return s.translateWriteErr(ctx, c.ID, err)
	}
	return nil
}
