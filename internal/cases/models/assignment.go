package models

import (
	"time"

	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
)

// AssignmentType classifies how a user is attached to a case. The access
// filter resolves per-user visibility through these for roles that are not
// scoped by court or organisation.
type AssignmentType string

const (
	AssignmentJudge        AssignmentType = "judge"
	AssignmentSocialWorker AssignmentType = "social_worker"
	AssignmentCafcass      AssignmentType = "cafcass"
	AssignmentApplicant    AssignmentType = "applicant"
)

// ParseAssignmentType validates an assignment type from an external source.
func ParseAssignmentType(raw string) (AssignmentType, error) {
	switch AssignmentType(raw) {
	case AssignmentJudge, AssignmentSocialWorker, AssignmentCafcass, AssignmentApplicant:
		return AssignmentType(raw), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "unknown assignment type")
	}
}

// CaseAssignment links a user to a case. Assignments are immutable: they are
// created or removed, never updated. They reference the case by ID and may
// outlive a soft-deleted case for audit purposes.
type CaseAssignment struct {
	ID        id.AssignmentID `json:"id"`
	CaseID    id.CaseID       `json:"case_id"`
	UserID    id.UserID       `json:"user_id"`
	Type      AssignmentType  `json:"type"`
	CreatedBy id.UserID       `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewCaseAssignment constructs an assignment record.
func NewCaseAssignment(caseID id.CaseID, userID id.UserID, assignmentType AssignmentType, createdBy id.UserID, now time.Time) *CaseAssignment {
	return &CaseAssignment{
		ID:        id.NewAssignmentID(),
		CaseID:    caseID,
		UserID:    userID,
		Type:      assignmentType,
		CreatedBy: createdBy,
		CreatedAt: now,
	}
}
