package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/kmelnikov/taskalloc/internal/domain"
)

// OpEvent describes one completed service operation: a preview run, a
// finalize, a discard, a detection pass, or a snapshot import. Fields that
// do not apply to the operation stay zero and are omitted from the log line.
type OpEvent struct {
	Op      string
	Elapsed time.Duration
	Err     error

	PreviewID  string
	Strategy   domain.Strategy
	Assigned   int
	Unassigned int
	Stored     int
	Scanned    int
	Anomalies  int
	Enriched   bool
	Snapshot   string
}

// OpObserver receives completed service operations.
type OpObserver interface {
	ObserveOp(ctx context.Context, event OpEvent)
}

// NoopOpObserver ignores all events.
type NoopOpObserver struct{}

func (NoopOpObserver) ObserveOp(context.Context, OpEvent) {}

type logOpObserver struct {
	logger *slog.Logger
}

// NewLogOpObserver writes one slog line per service operation, using the
// operation name as the message.
func NewLogOpObserver(w io.Writer) OpObserver {
	if w == nil {
		return NoopOpObserver{}
	}
	return &logOpObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logOpObserver) ObserveOp(ctx context.Context, event OpEvent) {
	attrs := make([]any, 0, 16)
	attrs = append(attrs, "elapsed_ms", event.Elapsed.Milliseconds())
	if event.PreviewID != "" {
		attrs = append(attrs, "preview_id", event.PreviewID)
	}
	if event.Strategy != "" {
		attrs = append(attrs, "strategy", string(event.Strategy))
	}
	if event.Assigned > 0 || event.Unassigned > 0 {
		attrs = append(attrs, "assigned", event.Assigned, "unassigned", event.Unassigned)
	}
	if event.Stored > 0 {
		attrs = append(attrs, "stored", event.Stored)
	}
	if event.Scanned > 0 {
		attrs = append(attrs, "scanned", event.Scanned)
	}
	if event.Anomalies > 0 {
		attrs = append(attrs, "anomalies", event.Anomalies)
	}
	if event.Enriched {
		attrs = append(attrs, "enriched", true)
	}
	if event.Snapshot != "" {
		attrs = append(attrs, "snapshot", event.Snapshot)
	}

	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, event.Op, attrs...)
		return
	}
	o.logger.InfoContext(ctx, event.Op, attrs...)
}

func opObserverOrNoop(observers []OpObserver) OpObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopOpObserver{}
}
