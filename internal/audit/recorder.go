package audit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	id "caseflow/pkg/domain"
	"caseflow/pkg/requestcontext"
)

// Store persists audit entries. Append-only: implementations expose no
// update or delete. ListByCase returns entries newest-first.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByCase(ctx context.Context, caseID id.CaseID) ([]Entry, error)
}

// Recorder appends audit entries and fans committed entries out to the
// asynchronous sink worker.
//
// The store append is the commit barrier: if it fails, the caller must treat
// the whole mutation as failed so that every committed mutation has a trail
// entry. Fan-out is best-effort; a full buffer drops the event with a log
// line rather than blocking the request.
type Recorder struct {
	store  Store
	fanout chan<- Entry
	log    *zap.Logger
}

// NewRecorder constructs a recorder. fanout may be nil when no async sink is
// configured.
func NewRecorder(store Store, fanout chan<- Entry, log *zap.Logger) *Recorder {
	return &Recorder{store: store, fanout: fanout, log: log}
}

// Record appends the entry, assigning ID and timestamp if unset.
func (r *Recorder) Record(ctx context.Context, entry Entry) error {
	if uuidIsNil(entry.ID) {
		entry.ID = id.NewAuditEntryID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = requestcontext.Now(ctx)
	}
	if err := r.store.Append(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	if r.fanout != nil {
		select {
		case r.fanout <- entry:
		default:
			r.log.Warn("audit fan-out buffer full, dropping event",
				zap.String("case_id", entry.CaseID.String()),
				zap.String("action", string(entry.Action)))
		}
	}
	return nil
}

// ListByCase returns the trail for a case, newest-first.
func (r *Recorder) ListByCase(ctx context.Context, caseID id.CaseID) ([]Entry, error) {
	return r.store.ListByCase(ctx, caseID)
}

func uuidIsNil(entryID id.AuditEntryID) bool {
	return entryID == id.AuditEntryID{}
}
