package casestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"caseflow/internal/cases/models"
	id "caseflow/pkg/domain"
	"caseflow/pkg/platform/sentinel"
)

// Postgres persists cases in the cases table. The version column is the
// optimistic-concurrency token; every mutation goes through a conditional
// UPDATE keyed on it.
type Postgres struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const caseColumns = `id, case_number, status, status_reason, version, case_type,
	assigned_court, assigned_judge, internal_notes, staff_comments, external_ref,
	applicant_ids, organisation_id, created_by, created_at, updated_at, deleted_at`

// Create inserts a new case. A duplicate ID or case number surfaces as
// ErrAlreadyExists.
func (s *Postgres) Create(ctx context.Context, c *models.Case) error {
	const query = `
		INSERT INTO cases (id, case_number, status, status_reason, version, case_type,
			assigned_court, assigned_judge, internal_notes, staff_comments, external_ref,
			applicant_ids, organisation_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(c.ID),
		c.CaseNumber,
		string(c.Status),
		nullString(c.StatusReason),
		c.Version,
		string(c.CaseType),
		c.AssignedCourt,
		nullString(c.AssignedJudge),
		nullString(c.InternalNotes),
		nullString(c.StaffComments),
		nullString(c.ExternalRef),
		pq.Array(userIDStrings(c.ApplicantIDs)),
		nullUUID(uuid.UUID(c.OrganisationID)),
		uuid.UUID(c.CreatedBy),
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return sentinel.ErrAlreadyExists
		}
		return fmt.Errorf("insert case: %w", err)
	}
	return nil
}

// FindByID returns a live case; absent and soft-deleted are both ErrNotFound.
func (s *Postgres) FindByID(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	query := fmt.Sprintf(`SELECT %s FROM cases WHERE id = $1 AND deleted_at IS NULL`, caseColumns)
	c, err := scanCase(s.db.QueryRowContext(ctx, query, uuid.UUID(caseID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find case: %w", err)
	}
	return c, nil
}

// List returns live cases matching the filter, newest-first. The WHERE
// clause is assembled dynamically since court and ID constraints are
// per-role optional.
func (s *Postgres) List(ctx context.Context, filter ListFilter) ([]*models.Case, error) {
	q := s.builder.
		Select(caseColumns).
		From("cases").
		Where(sq.Eq{"deleted_at": nil}).
		OrderBy("created_at DESC")
	if filter.Court != "" {
		q = q.Where(sq.Eq{"assigned_court": filter.Court})
	}
	if len(filter.IDs) > 0 {
		ids := make([]uuid.UUID, len(filter.IDs))
		for i, caseID := range filter.IDs {
			ids[i] = uuid.UUID(caseID)
		}
		q = q.Where(sq.Expr("id = ANY(?)", pq.Array(ids)))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var out []*models.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateWithVersion performs the storage-level compare-and-swap: the UPDATE
// applies only while the stored version still equals expectedVersion and the
// row is not soft-deleted. Zero rows affected means another writer won the
// race (ErrVersionConflict) or the case is gone (ErrNotFound).
func (s *Postgres) UpdateWithVersion(ctx context.Context, c *models.Case, expectedVersion int64) error {
	const query = `
		UPDATE cases
		SET status = $1, status_reason = $2, version = $3, assigned_judge = $4,
			internal_notes = $5, staff_comments = $6, external_ref = $7,
			updated_at = $8, deleted_at = $9
		WHERE id = $10 AND version = $11 AND deleted_at IS NULL
	`
	var deletedAt *time.Time
	if c.DeletedAt != nil {
		deletedAt = c.DeletedAt
	}
	result, err := s.db.ExecContext(ctx, query,
		string(c.Status),
		nullString(c.StatusReason),
		c.Version,
		nullString(c.AssignedJudge),
		nullString(c.InternalNotes),
		nullString(c.StaffComments),
		nullString(c.ExternalRef),
		c.UpdatedAt,
		deletedAt,
		uuid.UUID(c.ID),
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update case: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// Disambiguate: live row still there means a concurrent writer won.
	var exists bool
	err = s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM cases WHERE id = $1 AND deleted_at IS NULL)`,
		uuid.UUID(c.ID),
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check case existence: %w", err)
	}
	if exists {
		return sentinel.ErrVersionConflict
	}
	return sentinel.ErrNotFound
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*models.Case, error) {
	var (
		c              models.Case
		caseID         uuid.UUID
		createdBy      uuid.UUID
		status         string
		caseType       string
		statusReason   sql.NullString
		assignedJudge  sql.NullString
		internalNotes  sql.NullString
		staffComments  sql.NullString
		externalRef    sql.NullString
		applicantIDs   []string
		organisationID uuid.NullUUID
		deletedAt      sql.NullTime
	)
	err := row.Scan(
		&caseID, &c.CaseNumber, &status, &statusReason, &c.Version, &caseType,
		&c.AssignedCourt, &assignedJudge, &internalNotes, &staffComments, &externalRef,
		pq.Array(&applicantIDs), &organisationID, &createdBy, &c.CreatedAt, &c.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	c.ID = id.CaseID(caseID)
	c.CreatedBy = id.UserID(createdBy)
	c.Status = models.CaseStatus(status)
	c.CaseType = models.CaseType(caseType)
	c.StatusReason = statusReason.String
	c.AssignedJudge = assignedJudge.String
	c.InternalNotes = internalNotes.String
	c.StaffComments = staffComments.String
	c.ExternalRef = externalRef.String
	if organisationID.Valid {
		c.OrganisationID = id.OrganisationID(organisationID.UUID)
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		c.DeletedAt = &t
	}
	for _, raw := range applicantIDs {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse applicant id: %w", err)
		}
		c.ApplicantIDs = append(c.ApplicantIDs, id.UserID(parsed))
	}
	return &c, nil
}

func userIDStrings(ids []id.UserID) []string {
	out := make([]string, len(ids))
	for i, userID := range ids {
		out[i] = userID.String()
	}
	return out
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullUUID(u uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: u, Valid: u != uuid.Nil}
}
