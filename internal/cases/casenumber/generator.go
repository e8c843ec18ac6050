// Package casenumber issues unique, human-readable case numbers of the form
// {courtCode}/{year}/{00001}.
//
// Uniqueness under concurrency rests entirely on the SequenceStore: the next
// value for a (courtCode, year) pair must be obtained by a single atomic
// increment-and-return, never read-then-write. Gaps can occur when a case
// creation rolls back after taking a value; duplicates cannot.
package casenumber

import (
	"context"
	"fmt"

	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/requestcontext"
)

// SequenceStore hands out the next sequence value for a court/year pair.
// Implementations must make Next atomic: two concurrent callers for the same
// pair receive distinct, consecutive integers.
type SequenceStore interface {
	Next(ctx context.Context, courtCode string, year int) (int64, error)
}

// Generator produces case numbers backed by a sequence store.
type Generator struct {
	sequences SequenceStore
}

func NewGenerator(sequences SequenceStore) *Generator {
	return &Generator{sequences: sequences}
}

// Next issues the case number for a new case at the given court, using the
// request-scoped clock for the year component.
func (g *Generator) Next(ctx context.Context, courtName string) (string, error) {
	code := CourtCode(courtName)
	if code == "" {
		return "", dErrors.New(dErrors.CodeValidation, "court name yields empty court code")
	}
	year := requestcontext.Now(ctx).Year()
	seq, err := g.sequences.Next(ctx, code, year)
	if err != nil {
		return "", fmt.Errorf("next sequence for %s/%d: %w", code, year, err)
	}
	return Format(code, year, seq), nil
}

// Format renders a case number. The sequence is zero-padded to 5 digits;
// rollover past 99999 within one court-year is out of scope.
func Format(courtCode string, year int, seq int64) string {
	return fmt.Sprintf("%s/%d/%05d", courtCode, year, seq)
}
