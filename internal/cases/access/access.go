// Package access implements the role-scoped visibility filter and redaction.
//
// List scope and detail access apply the same rules, so direct-by-id access
// cannot bypass list-level scoping. Redaction removes professional-only
// fields from the returned representation without altering the stored record.
//
// Functions here are pure: the caller resolves the actor's assignments up
// front and passes them in as an AssignmentSet.
package access

import (
	"caseflow/internal/cases/models"
	id "caseflow/pkg/domain"
)

// AssignmentSet indexes a single user's case assignments by case and type.
type AssignmentSet map[id.CaseID]map[models.AssignmentType]bool

// NewAssignmentSet builds the index from a user's assignment records.
func NewAssignmentSet(assignments []*models.CaseAssignment) AssignmentSet {
	set := make(AssignmentSet, len(assignments))
	for _, a := range assignments {
		byType, ok := set[a.CaseID]
		if !ok {
			byType = make(map[models.AssignmentType]bool, 2)
			set[a.CaseID] = byType
		}
		byType[a.Type] = true
	}
	return set
}

// Has reports whether the set holds an assignment of the given type on the case.
func (s AssignmentSet) Has(caseID id.CaseID, assignmentType models.AssignmentType) bool {
	return s[caseID][assignmentType]
}

// CanView reports whether the actor may see the case at all.
//
// Scope by role: case officers see cases at their assigned court; judges see
// cases where they hold a judicial assignment; adopters see cases where they
// hold an applicant assignment. Social-worker, agency and Cafcass roles see
// all cases.
func CanView(actor id.Actor, c *models.Case, assignments AssignmentSet) bool {
	switch actor.Role {
	case id.RoleCaseOfficer:
		return actor.CourtAssignment != "" && actor.CourtAssignment == c.AssignedCourt
	case id.RoleJudge:
		return assignments.Has(c.ID, models.AssignmentJudge)
	case id.RoleAdopter:
		return assignments.Has(c.ID, models.AssignmentApplicant)
	case id.RoleSocialWorker, id.RoleAgencyWorker, id.RoleCafcass:
		return true
	default:
		return false
	}
}

// CouldView reports whether the actor's scope can be shown to cover a case
// id without the record itself. Global-read roles always qualify; judges and
// adopters qualify when they hold the matching assignment on that id. A case
// officer's scope depends on the record's court, which an absent id cannot
// establish, so officers never qualify here.
//
// Reads use this to keep FORBIDDEN from revealing existence: probing an
// absent id is denied the same way an existing out-of-scope case would be.
func CouldView(actor id.Actor, caseID id.CaseID, assignments AssignmentSet) bool {
	switch actor.Role {
	case id.RoleJudge:
		return assignments.Has(caseID, models.AssignmentJudge)
	case id.RoleAdopter:
		return assignments.Has(caseID, models.AssignmentApplicant)
	case id.RoleSocialWorker, id.RoleAgencyWorker, id.RoleCafcass:
		return true
	default:
		return false
	}
}

// FilterList applies CanView across a slice, preserving order.
func FilterList(actor id.Actor, all []*models.Case, assignments AssignmentSet) []*models.Case {
	visible := make([]*models.Case, 0, len(all))
	for _, c := range all {
		if CanView(actor, c, assignments) {
			visible = append(visible, c)
		}
	}
	return visible
}

// View is the role-adjusted representation of a case returned to callers.
// Redacted is true when professional-only fields have been stripped.
type View struct {
	models.Case
	Redacted bool `json:"redacted,omitempty"`
}

// Redact produces the view of a case appropriate for the actor's role.
// Adopters lose internal notes, staff comments and the external case
// reference; professional roles receive the full record.
func Redact(actor id.Actor, c *models.Case) *View {
	view := &View{Case: *c}
	if actor.Role == id.RoleAdopter {
		view.InternalNotes = ""
		view.StaffComments = ""
		view.ExternalRef = ""
		view.Redacted = true
	}
	return view
}

// RedactList applies Redact across a slice, preserving order.
func RedactList(actor id.Actor, cs []*models.Case) []*View {
	views := make([]*View, 0, len(cs))
	for _, c := range cs {
		views = append(views, Redact(actor, c))
	}
	return views
}
