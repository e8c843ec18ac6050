package models

import (
	"strings"
	"time"

	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
)

// CaseType is the kind of adoption application.
type CaseType string

const (
	CaseTypeAdoption         CaseType = "adoption"
	CaseTypePlacementOrder   CaseType = "placement_order"
	CaseTypeStepParent       CaseType = "step_parent_adoption"
	CaseTypeInterCountry     CaseType = "inter_country_adoption"
	CaseTypeRelinquishedBaby CaseType = "relinquished_baby"
)

// ParseCaseType validates a case type string from an external source.
func ParseCaseType(raw string) (CaseType, error) {
	switch CaseType(raw) {
	case CaseTypeAdoption, CaseTypePlacementOrder, CaseTypeStepParent, CaseTypeInterCountry, CaseTypeRelinquishedBaby:
		return CaseType(raw), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "unknown case type")
	}
}

// Case is the aggregate root for an adoption case.
//
// Invariants:
//   - CaseNumber is immutable once assigned
//   - Status is always a member of the fixed enumeration, never empty
//   - Version strictly increases by 1 on every successful write; it is the
//     optimistic-concurrency token checked by conditional store writes
//   - A case with DeletedAt set is excluded from all normal reads and from
//     all further mutation
//
// Cases are created once (StatusApplication, Version 1), mutated only through
// CaseService, and never physically deleted.
type Case struct {
	ID            id.CaseID  `json:"id"`
	CaseNumber    string     `json:"case_number"`
	Status        CaseStatus `json:"status"`
	StatusReason  string     `json:"status_reason,omitempty"`
	Version       int64      `json:"version"`
	CaseType      CaseType   `json:"case_type"`
	AssignedCourt string     `json:"assigned_court"`
	AssignedJudge string     `json:"assigned_judge,omitempty"`

	// InternalNotes and StaffComments are professional-only fields; the
	// access filter strips them before returning a case to an adopter.
	InternalNotes string `json:"internal_notes,omitempty"`
	StaffComments string `json:"staff_comments,omitempty"`
	// ExternalRef links the agency-side case file. Professional roles only.
	ExternalRef string `json:"external_ref,omitempty"`

	ApplicantIDs   []id.UserID       `json:"applicant_ids,omitempty"`
	OrganisationID id.OrganisationID `json:"organisation_id,omitempty"`
	CreatedBy      id.UserID         `json:"created_by"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      *time.Time        `json:"-"`
}

// IsDeleted reports whether the case has been soft-deleted.
func (c *Case) IsDeleted() bool { return c.DeletedAt != nil }

// NewCase constructs a case at the start of its lifecycle. The caller has
// already been authorized and the case number already issued.
func NewCase(caseID id.CaseID, caseNumber string, caseType CaseType, assignedCourt string, createdBy id.UserID, now time.Time) (*Case, error) {
	if strings.TrimSpace(caseNumber) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "case number is required")
	}
	if strings.TrimSpace(assignedCourt) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "assigned court is required")
	}
	return &Case{
		ID:            caseID,
		CaseNumber:    caseNumber,
		Status:        StatusApplication,
		Version:       1,
		CaseType:      caseType,
		AssignedCourt: assignedCourt,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ApplyStatusChange mutates the aggregate for an already-validated
// transition. The store's conditional write enforces the version invariant;
// this only records the new state.
func (c *Case) ApplyStatusChange(to CaseStatus, reason string, now time.Time) {
	c.Status = to
	c.StatusReason = reason
	c.Version++
	c.UpdatedAt = now
}

// ApplyDeletion soft-deletes the case.
func (c *Case) ApplyDeletion(now time.Time) {
	deletedAt := now
	c.DeletedAt = &deletedAt
	c.Version++
	c.UpdatedAt = now
}
