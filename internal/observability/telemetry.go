package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Supported log exporters.
const (
	ExporterNone     = "none"
	ExporterStdout   = "stdout"
	ExporterOTLPGRPC = "otlp-grpc"
	ExporterOTLPHTTP = "otlp-http"
)

// TelemetryOptions selects where log records are exported besides stdout.
type TelemetryOptions struct {
	// Exporter is one of the Exporter* constants. Empty means none.
	Exporter string
	// Endpoint overrides the OTLP endpoint (host:port). Empty falls back to
	// the OTEL_EXPORTER_OTLP_* environment variables.
	Endpoint string
	// Insecure disables TLS for OTLP exporters.
	Insecure bool
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string
}

// newTelemetryHandler builds an otelslog handler backed by a batching logger provider.
// It returns a nil handler and a no-op shutdown when exporting is disabled.
func newTelemetryHandler(ctx context.Context, level slog.Level, opts TelemetryOptions) (slog.Handler, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	exporter, err := newLogExporter(ctx, opts)
	if err != nil {
		return nil, noop, err
	}
	if exporter == nil {
		return nil, noop, nil
	}

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "clibridge"
	}

	processor := minsev.NewLogProcessor(sdklog.NewBatchProcessor(exporter), toSeverity(level))
	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(processor),
		sdklog.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)

	handler := otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(provider))
	return handler, provider.Shutdown, nil
}

func newLogExporter(ctx context.Context, opts TelemetryOptions) (sdklog.Exporter, error) {
	switch opts.Exporter {
	case "", ExporterNone:
		return nil, nil
	case ExporterStdout:
		// stderr keeps exported records apart from the regular stdout log stream
		return stdoutlog.New(stdoutlog.WithWriter(os.Stderr))
	case ExporterOTLPGRPC:
		var grpcOpts []otlploggrpc.Option
		if opts.Endpoint != "" {
			grpcOpts = append(grpcOpts, otlploggrpc.WithEndpoint(opts.Endpoint))
		}
		if opts.Insecure {
			grpcOpts = append(grpcOpts, otlploggrpc.WithInsecure())
		}
		return otlploggrpc.New(ctx, grpcOpts...)
	case ExporterOTLPHTTP:
		var httpOpts []otlploghttp.Option
		if opts.Endpoint != "" {
			httpOpts = append(httpOpts, otlploghttp.WithEndpoint(opts.Endpoint))
		}
		if opts.Insecure {
			httpOpts = append(httpOpts, otlploghttp.WithInsecure())
		}
		return otlploghttp.New(ctx, httpOpts...)
	default:
		return nil, fmt.Errorf("unsupported log exporter %q", opts.Exporter)
	}
}

// toSeverity maps slog levels onto OpenTelemetry severities.
func toSeverity(level slog.Level) minsev.Severity {
	switch {
	case level < slog.LevelInfo:
		return minsev.SeverityDebug
	case level < slog.LevelWarn:
		return minsev.SeverityInfo
	case level < slog.LevelError:
		return minsev.SeverityWarn
	default:
		return minsev.SeverityError
	}
}
