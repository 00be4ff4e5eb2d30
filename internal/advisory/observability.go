package advisory

import (
	"io"
	"log/slog"
)

// CallEvent records metadata about a single advisory invocation.
type CallEvent struct {
	Kind      string
	Model     string
	LatencyMs int64
	Success   bool
	Cached    bool
	Fallback  bool
	ErrorCode string
}

// Observer receives events about advisory calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes advisory call events as structured log lines.
type LogObserver struct {
	log *slog.Logger
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{log: slog.New(slog.NewTextHandler(w, nil))}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"kind", event.Kind,
		"model", event.Model,
		"latency_ms", event.LatencyMs,
		"cached", event.Cached,
		"fallback", event.Fallback,
	}
	if event.Success {
		o.log.Info("advisory_call", attrs...)
		return
	}
	attrs = append(attrs, "error_code", event.ErrorCode)
	o.log.Warn("advisory_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case isTimeout(err):
		return "TIMEOUT"
	case isConnection(err):
		return "UNAVAILABLE"
	case isInvalidOutput(err):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
