// Package worker drains the audit fan-out channel into a sink. It keeps
// publishing off the request path; a failed publish is logged and the event
// dropped, since the database trail already holds the entry.
package worker

import (
	"context"

	"go.uber.org/zap"

	"caseflow/internal/audit"
)

// Sink receives committed audit entries.
type Sink interface {
	Publish(ctx context.Context, entry audit.Entry) error
}

type Worker struct {
	sink  Sink
	inbox <-chan audit.Entry
	log   *zap.Logger
}

func New(sink Sink, inbox <-chan audit.Entry, log *zap.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, log: log}
}

// Run consumes until the context is cancelled, then drains what is already
// buffered before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case entry := <-w.inbox:
			w.publish(ctx, entry)
		}
	}
}

func (w *Worker) drain() {
	for {
		select {
		case entry := <-w.inbox:
			// Fresh context: the run context is already cancelled.
			w.publish(context.Background(), entry)
		default:
			return
		}
	}
}

func (w *Worker) publish(ctx context.Context, entry audit.Entry) {
	if err := w.sink.Publish(ctx, entry); err != nil {
		w.log.Error("audit sink publish failed",
			zap.String("case_id", entry.CaseID.String()),
			zap.String("action", string(entry.Action)),
			zap.Error(err))
	}
}
