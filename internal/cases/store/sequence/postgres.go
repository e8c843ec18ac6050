package sequence

import (
	"context"
	"database/sql"
	"fmt"
)

// Postgres backs the counters with the court_sequences table. The increment
// is one upsert statement, so the row lock is held only for the duration of
// the increment — never a read-then-write pair of round trips.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Next atomically increments and returns the counter for (courtCode, year),
// initialising it to 1 when the pair has not been seen this year.
func (s *Postgres) Next(ctx context.Context, courtCode string, year int) (int64, error) {
	const query = `
		INSERT INTO court_sequences (court_code, year, current_seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (court_code, year)
		DO UPDATE SET current_seq = court_sequences.current_seq + 1
		RETURNING current_seq
	`
	var seq int64
	if err := s.db.QueryRowContext(ctx, query, courtCode, year).Scan(&seq); err != nil {
		return 0, fmt.Errorf("increment court sequence: %w", err)
	}
	return seq, nil
}
