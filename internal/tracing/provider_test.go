package tracing

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func TestNewProvider_DisabledIsNoop(t *testing.T) {
	p, err := NewProvider(DefaultConfig())
	require.NoError(t, err)
	require.False(t, p.Enabled())
	require.NotNil(t, p.Tracer())

	_, span := p.Tracer().Start(context.Background(), SpanSubmit)
	require.False(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_Errors(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "file"})
	require.ErrorContains(t, err, "file_path required")

	_, err = NewProvider(Config{Enabled: true, Exporter: "zipkin"})
	require.ErrorContains(t, err, "unsupported exporter")
}

func TestNewProvider_FileExporterWritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "traces.jsonl")
	p, err := NewProvider(Config{Enabled: true, Exporter: "file", FilePath: path, SampleRate: 1})
	require.NoError(t, err)
	require.True(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), SpanSubmit)
	span.SetAttributes(attribute.Int(AttrHTTPStatus, 400))
	span.AddEvent(EventRequestSent)
	span.SetStatus(codes.Error, "rejected")
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan())
	var rec SpanRecord
	require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
	require.Equal(t, SpanSubmit, rec.Name)
	require.Equal(t, "ERROR", rec.Status)
	require.Equal(t, "rejected", rec.StatusMsg)
	require.Equal(t, float64(400), rec.Attributes[AttrHTTPStatus])
	require.Equal(t, []string{EventRequestSent}, rec.Events)
	require.Len(t, rec.TraceID, 32)
}

func TestFileExporter_AfterShutdown(t *testing.T) {
	exp := newWriterExporter(&bytes.Buffer{})
	require.NoError(t, exp.Shutdown(context.Background()))
	require.Error(t, exp.ExportSpans(context.Background(), nil))
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, Config{Enabled: true, Exporter: "stdout"}.Validate())

	cases := map[string]Config{
		"sample_rate":   {SampleRate: 1.5},
		"exporter must": {Exporter: "jaeger"},
		"file_path":     {Enabled: true, Exporter: "file"},
		"otlp_endpoint": {Enabled: true, Exporter: "otlp"},
	}
	for want, cfg := range cases {
		err := cfg.Validate()
		require.Error(t, err, want)
		require.Contains(t, err.Error(), want)
	}
}
