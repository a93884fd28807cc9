package trace

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "trade-stats"

var (
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
	enabled        bool
	sink           io.Closer
)

// TraceConfig selects where finished spans go. Output is "stderr",
// "stdout" or a file path; stderr keeps spans out of the snapshot JSON the
// CLI prints on stdout.
type TraceConfig struct {
	Enabled     bool
	Output      string
	PrettyPrint bool
}

// LoadConfigFromEnv reads LOG_TRACING_ENABLED, TRACE_OUTPUT and TRACE_PRETTY.
func LoadConfigFromEnv() TraceConfig {
	return TraceConfig{
		Enabled:     getEnv("LOG_TRACING_ENABLED", "true") == "true",
		Output:      getEnv("TRACE_OUTPUT", "stderr"),
		PrettyPrint: getEnv("TRACE_PRETTY", "false") == "true",
	}
}

func Init() error {
	return InitWithConfig(LoadConfigFromEnv())
}

func InitWithConfig(cfg TraceConfig) error {
	enabled = false
	if !cfg.Enabled {
		return nil
	}

	var w io.Writer
	switch cfg.Output {
	case "", "stderr":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open trace output: %w", err)
		}
		sink = f
		w = f
	}

	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if cfg.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return err
	}
	return InitWithExporter(exporter)
}

// InitWithExporter enables tracing with a caller-supplied exporter.
func InitWithExporter(exporter sdktrace.SpanExporter) error {
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return err
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	tracer = tracerProvider.Tracer(serviceName)
	enabled = true
	return nil
}

// ForceFlush exports spans still queued in the batcher.
func ForceFlush(ctx context.Context) error {
	if tracerProvider == nil {
		return nil
	}
	return tracerProvider.ForceFlush(ctx)
}

// Shutdown flushes pending spans and releases the output file, if any.
func Shutdown(ctx context.Context) error {
	var err error
	if tracerProvider != nil {
		err = tracerProvider.Shutdown(ctx)
		tracerProvider = nil
	}
	if sink != nil {
		if cerr := sink.Close(); err == nil {
			err = cerr
		}
		sink = nil
	}
	enabled = false
	tracer = nil
	return err
}

func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !enabled || tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName, opts...)
}

func Enabled() bool {
	return enabled
}

// GetTraceFields returns the ids of the span active in ctx for log lines.
func GetTraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	if !enabled {
		return "", "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
