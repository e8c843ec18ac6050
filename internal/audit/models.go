// Package audit is the append-only trail of state-affecting actions on
// cases. Entries are immutable facts with no update or delete path;
// correcting a mistake means appending a corrective entry, never mutating
// history.
package audit

import (
	"time"

	id "caseflow/pkg/domain"
)

// Action names the mutation an entry records.
type Action string

const (
	ActionCaseCreated       Action = "case_created"
	ActionStatusChanged     Action = "status_changed"
	ActionCaseDeleted       Action = "case_deleted"
	ActionAssignmentCreated Action = "assignment_created"
	ActionAssignmentRemoved Action = "assignment_removed"
)

// Changes captures the before/after of a mutation. Values are kept as
// strings so the trail stays decoupled from the case model.
type Changes struct {
	PreviousValue string `json:"previous_value,omitempty"`
	NewValue      string `json:"new_value,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// Entry is one immutable audit fact. Total ordering within a case is by
// timestamp; ties break by insertion order (Seq, assigned by the store).
type Entry struct {
	ID        id.AuditEntryID `json:"id"`
	CaseID    id.CaseID       `json:"case_id"`
	Action    Action          `json:"action"`
	ActorID   id.UserID       `json:"actor_id"`
	ActorRole id.Role         `json:"actor_role"`
	Timestamp time.Time       `json:"timestamp"`
	Seq       int64           `json:"-"`
	Changes   *Changes        `json:"changes,omitempty"`
}
