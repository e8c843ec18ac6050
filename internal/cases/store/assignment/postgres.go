package assignment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"caseflow/internal/cases/models"
	id "caseflow/pkg/domain"
	"caseflow/pkg/platform/sentinel"
)

// Postgres persists assignments in the case_assignments table. A unique
// index on (case_id, user_id, assignment_type) backs the duplicate check.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, a *models.CaseAssignment) error {
	const query = `
		INSERT INTO case_assignments (id, case_id, user_id, assignment_type, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(a.ID),
		uuid.UUID(a.CaseID),
		uuid.UUID(a.UserID),
		string(a.Type),
		uuid.UUID(a.CreatedBy),
		a.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return sentinel.ErrAlreadyExists
		}
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

func (s *Postgres) Remove(ctx context.Context, assignmentID id.AssignmentID) (*models.CaseAssignment, error) {
	const query = `
		DELETE FROM case_assignments
		WHERE id = $1
		RETURNING id, case_id, user_id, assignment_type, created_by, created_at
	`
	a, err := scanAssignment(s.db.QueryRowContext(ctx, query, uuid.UUID(assignmentID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("remove assignment: %w", err)
	}
	return a, nil
}

func (s *Postgres) ListByCase(ctx context.Context, caseID id.CaseID) ([]*models.CaseAssignment, error) {
	const query = `
		SELECT id, case_id, user_id, assignment_type, created_by, created_at
		FROM case_assignments WHERE case_id = $1
	`
	return s.list(ctx, query, uuid.UUID(caseID))
}

func (s *Postgres) ListByUser(ctx context.Context, userID id.UserID) ([]*models.CaseAssignment, error) {
	const query = `
		SELECT id, case_id, user_id, assignment_type, created_by, created_at
		FROM case_assignments WHERE user_id = $1
	`
	return s.list(ctx, query, uuid.UUID(userID))
}

func (s *Postgres) list(ctx context.Context, query string, arg any) ([]*models.CaseAssignment, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []*models.CaseAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (*models.CaseAssignment, error) {
	var (
		a              models.CaseAssignment
		assignmentID   uuid.UUID
		caseID         uuid.UUID
		userID         uuid.UUID
		createdBy      uuid.UUID
		assignmentType string
	)
	if err := row.Scan(&assignmentID, &caseID, &userID, &assignmentType, &createdBy, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.ID = id.AssignmentID(assignmentID)
	a.CaseID = id.CaseID(caseID)
	a.UserID = id.UserID(userID)
	a.Type = models.AssignmentType(assignmentType)
	a.CreatedBy = id.UserID(createdBy)
	return &a, nil
}
