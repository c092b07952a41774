package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/florianilch/clibridge/internal/observability/middleware"
)

// correlationHandler tags records logged while serving a request, so routing,
// tool failures and the request log line can be joined by request_id, and by
// trace_id/span_id when the caller sent a traceparent header.
type correlationHandler struct {
	next slog.Handler
}

func newCorrelationHandler(next slog.Handler) *correlationHandler {
	return &correlationHandler{next: next}
}

func (h *correlationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *correlationHandler) Handle(ctx context.Context, record slog.Record) error {
	if id, ok := middleware.RequestIDFromContext(ctx); ok {
		record.AddAttrs(slog.String("request_id", id))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.next.Handle(ctx, record)
}

func (h *correlationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &correlationHandler{next: h.next.WithAttrs(attrs)}
}

func (h *correlationHandler) WithGroup(name string) slog.Handler {
	return &correlationHandler{next: h.next.WithGroup(name)}
}
