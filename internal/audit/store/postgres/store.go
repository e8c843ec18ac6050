// Package postgres persists audit entries in the case_audit_log table.
// The table is append-only; no update or delete statement exists here.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"caseflow/internal/audit"
	id "caseflow/pkg/domain"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts the entry. The seq column is a bigserial so insertion order
// is preserved for timestamp tie-breaking.
func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	var changes []byte
	if entry.Changes != nil {
		encoded, err := json.Marshal(entry.Changes)
		if err != nil {
			return fmt.Errorf("marshal audit changes: %w", err)
		}
		changes = encoded
	}

	const query = `
		INSERT INTO case_audit_log (id, case_id, action, actor_id, actor_role, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(entry.ID),
		uuid.UUID(entry.CaseID),
		string(entry.Action),
		uuid.UUID(entry.ActorID),
		string(entry.ActorRole),
		changes,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListByCase returns the case's entries newest-first, insertion order
// breaking timestamp ties.
func (s *Store) ListByCase(ctx context.Context, caseID id.CaseID) ([]audit.Entry, error) {
	const query = `
		SELECT id, case_id, action, actor_id, actor_role, changes, seq, created_at
		FROM case_audit_log
		WHERE case_id = $1
		ORDER BY created_at DESC, seq DESC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(caseID))
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var out []audit.Entry
	for rows.Next() {
		var (
			entry     audit.Entry
			entryID   uuid.UUID
			entryCase uuid.UUID
			actorID   uuid.UUID
			action    string
			role      string
			changes   []byte
		)
		if err := rows.Scan(&entryID, &entryCase, &action, &actorID, &role, &changes, &entry.Seq, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.ID = id.AuditEntryID(entryID)
		entry.CaseID = id.CaseID(entryCase)
		entry.Action = audit.Action(action)
		entry.ActorID = id.UserID(actorID)
		entry.ActorRole = id.Role(role)
		if len(changes) > 0 {
			var decoded audit.Changes
			if err := json.Unmarshal(changes, &decoded); err != nil {
				return nil, fmt.Errorf("unmarshal audit changes: %w", err)
			}
			entry.Changes = &decoded
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
