package domain

import (
	"fmt"

	dErrors "caseflow/pkg/domain-errors"
)

// Role is the closed set of actor roles recognised by the service. Every
// authorization decision switches exhaustively over this set; an unknown role
// is a distinct value so it can be rejected rather than silently defaulted.
type Role string

const (
	// RoleCaseOfficer is a court officer administering cases at one court.
	RoleCaseOfficer Role = "case_officer"
	// RoleJudge is the judicial role; the only role able to grant or refuse
	// an adoption order.
	RoleJudge Role = "judge"
	// RoleSocialWorker is a local-authority social worker.
	RoleSocialWorker Role = "social_worker"
	// RoleAgencyWorker is an adoption agency worker, scoped by organisation.
	RoleAgencyWorker Role = "agency_worker"
	// RoleCafcass is a Cafcass reporting officer.
	RoleCafcass Role = "cafcass"
	// RoleAdopter is an applicant adopter.
	RoleAdopter Role = "adopter"
)

// ParseRole validates a role string from an external source (JWT claim,
// request payload). Unknown values are an error, never a fallthrough.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleCaseOfficer, RoleJudge, RoleSocialWorker, RoleAgencyWorker, RoleCafcass, RoleAdopter:
		return Role(raw), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown role %q", raw))
	}
}

// Actor is the authenticated caller as established by the session layer.
// CourtAssignment is set for case officers; OrganisationID for agency
// workers. Both are empty otherwise.
type Actor struct {
	UserID          UserID
	Role            Role
	CourtAssignment string
	OrganisationID  OrganisationID
}

// IsZero reports whether no authenticated actor is present.
func (a Actor) IsZero() bool {
	return a.UserID.IsNil() && a.Role == ""
}
