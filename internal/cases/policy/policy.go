// Package policy is the authorization gate: pure lookups from (role,
// requested action) to permitted/denied. It is enforced independently of,
// and in addition to, case-visibility checks.
package policy

import (
	"caseflow/internal/cases/models"
	id "caseflow/pkg/domain"
)

// judicialOnly marks statuses that force a legal outcome and are reserved to
// the judicial role.
var judicialOnly = map[models.CaseStatus]bool{
	models.StatusOrderGranted:       true,
	models.StatusApplicationRefused: true,
}

// CanSetStatus reports whether the role may move a case into targetStatus.
// Judicial-only statuses are permitted to judges alone; every other status is
// permitted to judges and case officers. No other role may change status
// under any circumstance.
func CanSetStatus(role id.Role, targetStatus models.CaseStatus) bool {
	switch role {
	case id.RoleJudge:
		return true
	case id.RoleCaseOfficer:
		return !judicialOnly[targetStatus]
	case id.RoleSocialWorker, id.RoleAgencyWorker, id.RoleCafcass, id.RoleAdopter:
		return false
	default:
		return false
	}
}

// CanCreateCase reports whether the role may open a new case.
func CanCreateCase(role id.Role) bool {
	return role == id.RoleCaseOfficer
}

// CanDeleteCase reports whether the role may soft-delete a case.
func CanDeleteCase(role id.Role) bool {
	return role == id.RoleCaseOfficer
}

// CanManageAssignments reports whether the role may create or remove case
// assignments.
func CanManageAssignments(role id.Role) bool {
	return role == id.RoleCaseOfficer
}
