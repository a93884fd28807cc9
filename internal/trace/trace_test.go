package trace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "false")
	t.Setenv("TRACE_OUTPUT", "")
	t.Setenv("TRACE_PRETTY", "true")

	cfg := LoadConfigFromEnv()

	if cfg.Enabled || cfg.Output != "stderr" || !cfg.PrettyPrint {
		t.Errorf("Unexpected config %+v", cfg)
	}
}

func TestStartSpan_Disabled(t *testing.T) {
	if err := InitWithConfig(TraceConfig{Enabled: false}); err != nil {
		t.Fatal(err)
	}

	ctx, span := StartSpan(context.Background(), "stats.Build")
	span.End()

	if _, _, ok := GetTraceFields(ctx); ok {
		t.Error("Expected no trace fields while tracing is disabled")
	}
}

func TestStartSpan_ExportsSpans(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	if err := InitWithExporter(exp); err != nil {
		t.Fatalf("InitWithExporter failed: %v", err)
	}
	defer Shutdown(context.Background())

	ctx, span := StartSpan(context.Background(), "source.FetchTransactions")
	traceID, spanID, ok := GetTraceFields(ctx)
	span.End()

	if !ok || traceID == "" || spanID == "" {
		t.Errorf("Expected trace fields inside a span, got %q %q %v", traceID, spanID, ok)
	}
	if err := ForceFlush(context.Background()); err != nil {
		t.Fatalf("ForceFlush failed: %v", err)
	}
	spans := exp.GetSpans()
	if len(spans) != 1 || spans[0].Name != "source.FetchTransactions" {
		t.Errorf("Expected one exported span, got %+v", spans)
	}
}

func TestInitWithConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spans.json")
	if err := InitWithConfig(TraceConfig{Enabled: true, Output: path}); err != nil {
		t.Fatalf("InitWithConfig failed: %v", err)
	}

	_, span := StartSpan(context.Background(), "stats.Build")
	span.End()
	if err := Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) == 0 {
		t.Error("Expected spans written to the output file")
	}
	if Enabled() {
		t.Error("Expected tracing disabled after Shutdown")
	}
}
