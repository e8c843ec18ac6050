package handler

import (
	"caseflow/internal/audit"
	"caseflow/internal/cases/access"
	"caseflow/internal/cases/models"
)

type createCaseRequest struct {
	CaseType      string `json:"case_type"`
	AssignedCourt string `json:"assigned_court"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	// ExpectedVersion omitted means no pre-flight version check; the storage
	// compare-and-set still guards the write.
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

type updateStatusResponse struct {
	Case           *models.Case `json:"case"`
	PreviousStatus string       `json:"previous_status"`
}

type createAssignmentRequest struct {
	UserID         string `json:"user_id"`
	AssignmentType string `json:"assignment_type"`
}

type listCasesResponse struct {
	Cases []*access.View `json:"cases"`
}

type auditLogResponse struct {
	Entries []audit.Entry `json:"entries"`
}

type errorResponse struct {
	Error       string         `json:"error"`
	Description string         `json:"error_description,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}
