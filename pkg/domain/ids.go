// Package domain defines typed identifiers shared across the service.
//
// IDs are distinct named types over uuid.UUID so that a CaseID can never be
// passed where a UserID is expected. Parse helpers enforce the trust-boundary
// invariant that IDs are valid, non-empty, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "caseflow/pkg/domain-errors"
)

type (
	// CaseID identifies an adoption case.
	CaseID uuid.UUID
	// UserID identifies a user (any role).
	UserID uuid.UUID
	// AssignmentID identifies a case assignment.
	AssignmentID uuid.UUID
	// AuditEntryID identifies an audit log entry.
	AuditEntryID uuid.UUID
	// OrganisationID identifies an adoption agency or local authority.
	OrganisationID uuid.UUID
)

func (id CaseID) String() string         { return uuid.UUID(id).String() }
func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id AssignmentID) String() string   { return uuid.UUID(id).String() }
func (id AuditEntryID) String() string   { return uuid.UUID(id).String() }
func (id OrganisationID) String() string { return uuid.UUID(id).String() }

// JSON and text encoding go through uuid's canonical string form; the
// named types do not inherit uuid.UUID's methods.
func (id CaseID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id UserID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id AssignmentID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id AuditEntryID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id OrganisationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *CaseID) UnmarshalText(text []byte) error {
	parsed, err := uuid.ParseBytes(text)
	*id = CaseID(parsed)
	return err
}

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := uuid.ParseBytes(text)
	*id = UserID(parsed)
	return err
}

func (id *AssignmentID) UnmarshalText(text []byte) error {
	parsed, err := uuid.ParseBytes(text)
	*id = AssignmentID(parsed)
	return err
}

func (id *AuditEntryID) UnmarshalText(text []byte) error {
	parsed, err := uuid.ParseBytes(text)
	*id = AuditEntryID(parsed)
	return err
}

func (id *OrganisationID) UnmarshalText(text []byte) error {
	parsed, err := uuid.ParseBytes(text)
	*id = OrganisationID(parsed)
	return err
}

func (id CaseID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id AssignmentID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id OrganisationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// NewCaseID returns a freshly generated case ID.
func NewCaseID() CaseID { return CaseID(uuid.New()) }

// NewUserID returns a freshly generated user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewAssignmentID returns a freshly generated assignment ID.
func NewAssignmentID() AssignmentID { return AssignmentID(uuid.New()) }

// NewAuditEntryID returns a freshly generated audit entry ID.
func NewAuditEntryID() AuditEntryID { return AuditEntryID(uuid.New()) }

func parseUUID(raw, what string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, what+" is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, what+" is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, what+" must not be the nil UUID")
	}
	return parsed, nil
}

// ParseCaseID parses a case ID from its string form.
func ParseCaseID(raw string) (CaseID, error) {
	parsed, err := parseUUID(raw, "case id")
	return CaseID(parsed), err
}

// ParseUserID parses a user ID from its string form.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "user id")
	return UserID(parsed), err
}

// ParseAssignmentID parses an assignment ID from its string form.
func ParseAssignmentID(raw string) (AssignmentID, error) {
	parsed, err := parseUUID(raw, "assignment id")
	return AssignmentID(parsed), err
}

// ParseOrganisationID parses an organisation ID from its string form.
func ParseOrganisationID(raw string) (OrganisationID, error) {
	parsed, err := parseUUID(raw, "organisation id")
	return OrganisationID(parsed), err
}
