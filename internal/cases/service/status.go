package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"caseflow/internal/audit"
	"caseflow/internal/cases/models"
	"caseflow/internal/cases/policy"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/sentinel"
	"caseflow/pkg/requestcontext"
)

// StatusChange is the result of a successful UpdateStatus call.
type StatusChange struct {
	Case           *models.Case
	PreviousStatus models.CaseStatus
}

// UpdateStatus executes one status-change request as an atomic, race-safe
// unit.
//
// Pre-flight checks (stale expectedVersion, terminal status, illegal
// transition, authorization, missing reason) short-circuit before any write.
// The write itself is conditional on the version read here; a CAS loss means
// another writer won between our read and write and surfaces as CONFLICT
// carrying the now-current version. The service never retries — retry policy
// and re-validation against the new state belong to the caller, whose intent
// may be stale.
func (s *Service) UpdateStatus(ctx context.Context, caseID id.CaseID, newStatus models.CaseStatus, actor id.Actor, reason string, expectedVersion *int64) (*StatusChange, error) {
	start := time.Now()
	change, err := s.updateStatus(ctx, caseID, newStatus, actor, reason, expectedVersion)
	if s.metrics != nil {
		s.metrics.ObserveUpdateStatus(start)
		switch {
		case err == nil:
			s.metrics.RecordStatusChange("success")
		case dErrors.HasCode(err, dErrors.CodeConflict):
			s.metrics.RecordStatusChange("conflict")
			s.metrics.VersionConflicts.Inc()
		default:
			s.metrics.RecordStatusChange("rejected")
		}
	}
	return change, err
}

func (s *Service) updateStatus(ctx context.Context, caseID id.CaseID, newStatus models.CaseStatus, actor id.Actor, reason string, expectedVersion *int64) (*StatusChange, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if _, err := models.ParseCaseStatus(string(newStatus)); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)

	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	// Early stale-write rejection: the caller proves which version it last
	// observed. This is an optimization; the storage CAS below is the
	// correctness boundary.
	if expectedVersion != nil && *expectedVersion != c.Version {
		return nil, conflictErr(c.Version)
	}
	if models.IsTerminal(c.Status) {
		return nil, dErrors.New(dErrors.CodeTerminalStatus, "case status is terminal")
	}
	if !models.IsValidTransition(c.Status, newStatus) {
		return nil, dErrors.New(dErrors.CodeInvalidTransition,
			"transition from "+string(c.Status)+" to "+string(newStatus)+" is not allowed")
	}
	if !policy.CanSetStatus(actor.Role, newStatus) {
		return nil, dErrors.New(dErrors.CodeForbidden, "role may not set this status")
	}
	if models.RequiresReason(newStatus) && reason == "" {
		return nil, dErrors.New(dErrors.CodeReasonRequired,
			"a reason is required when moving to "+string(newStatus))
	}

	previous := c.Status
	observedVersion := c.Version
	c.ApplyStatusChange(newStatus, reason, requestcontext.Now(ctx))
	if err := s.cases.UpdateWithVersion(ctx, c, observedVersion); err != nil {
		return nil, s.translateWriteErr(ctx, caseID, err)
	}

	if err := s.auditRec.Record(ctx, audit.Entry{
		CaseID:    c.ID,
		Action:    audit.ActionStatusChanged,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Changes: &audit.Changes{
			PreviousValue: string(previous),
			NewValue:      string(newStatus),
			Reason:        reason,
		},
	}); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "status changed but audit append failed")
	}

	s.log.Info("case status changed",
		zap.String("case_id", c.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(newStatus)),
		zap.Int64("version", c.Version))
	return &StatusChange{Case: c, PreviousStatus: previous}, nil
}

// translateWriteErr maps conditional-write sentinels to domain errors. On a
// CAS loss it re-reads the row so the CONFLICT can report the version the
// winner produced.
func (s *Service) translateWriteErr(ctx context.Context, caseID id.CaseID, err error) error {
	switch {
	case errors.Is(err, sentinel.ErrVersionConflict):
		if current, readErr := s.cases.FindByID(ctx, caseID); readErr == nil {
			return conflictErr(current.Version)
		}
		return dErrors.New(dErrors.CodeConflict, "case was modified concurrently")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "case not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "write case")
	}
}

func conflictErr(currentVersion int64) error {
	return dErrors.New(dErrors.CodeConflict, "case was modified concurrently").
		WithDetail(dErrors.DetailCurrentVersion, currentVersion)
}
