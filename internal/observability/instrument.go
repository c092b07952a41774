package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/term"
)

// Options configures the process-wide logger.
type Options struct {
	// Level is the minimum level for both stdout and exported records.
	Level slog.Level
	// Format is one of "text", "json" or "auto" (text on a terminal, json otherwise).
	Format string
	// Telemetry optionally exports log records via OpenTelemetry.
	Telemetry TelemetryOptions
}

// Instrument installs the default slog logger and the W3C trace context propagator.
// The returned function flushes exported records and must be called before exit.
func Instrument(ctx context.Context, opts Options) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	stdout, err := newStdoutHandler(os.Stdout, opts.Level, opts.Format)
	if err != nil {
		return nil, err
	}

	exported, shutdown, err := newTelemetryHandler(ctx, opts.Level, opts.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("set up telemetry: %w", err)
	}

	var handler slog.Handler = stdout
	if exported != nil {
		handler = newFanoutHandler(stdout, exported)
	}

	slog.SetDefault(slog.New(newCorrelationHandler(handler)))

	return shutdown, nil
}

// newStdoutHandler creates a handler for human-readable logs.
func newStdoutHandler(w io.Writer, level slog.Level, logFormat string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	format := strings.ToLower(logFormat)
	if format == "auto" {
		format = "json"
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			format = "text"
		}
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unsupported log format %q (expected: auto, json, text)", logFormat)
	}

	return handler, nil
}

// fanoutHandler forwards every record to all handlers that accept its level.
type fanoutHandler struct {
	handlers []slog.Handler
}

func newFanoutHandler(handlers ...slog.Handler) *fanoutHandler {
	return &fanoutHandler{handlers: handlers}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		// Clone so one handler's attribute additions never leak into another
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: handlers}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: handlers}
}
