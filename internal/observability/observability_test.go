package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/repostat/internal/observability"
)

func TestRunHandler_StampsRunAndTrace(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewRunHandler(inner, "repostat", "1.2.0", "run-1"))

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := observability.WithStep(trace.ContextWithSpanContext(context.Background(), sc), "authors")

	logger.WithGroup("artifact").InfoContext(ctx, "wrote artifact", "name", "authors.html")

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	group, ok := record["artifact"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", group["trace_id"])
	assert.Equal(t, "authors", group["report_step"])
	assert.Equal(t, "authors.html", group["name"])
	assert.Equal(t, "repostat", record["service"])
	assert.Equal(t, "1.2.0", record["version"])
	assert.Equal(t, "run-1", record["run_id"])
}

func TestRunHandler_PlainContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(observability.NewRunHandler(inner, "repostat", "", ""))

	logger.Info("hello")

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, "trace_id")
	assert.NotContains(t, record, "report_step")
	assert.NotContains(t, record, "run_id")
	assert.NotContains(t, record, "version")
}

func TestStepFromContext(t *testing.T) {
	t.Parallel()

	_, ok := observability.StepFromContext(context.Background())
	assert.False(t, ok)

	_, ok = observability.StepFromContext(observability.WithStep(context.Background(), ""))
	assert.False(t, ok)

	step, ok := observability.StepFromContext(observability.WithStep(context.Background(), "charts"))
	assert.True(t, ok)
	assert.Equal(t, "charts", step)
}

func TestInit_NoExportIsNoop(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogOutput = &logs
	cfg.RunID = "abc"

	providers, err := observability.Init(context.Background(), cfg)
	require.NoError(t, err)

	_, span := providers.Tracer.Start(context.Background(), "step")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	providers.Logger.Info("ready")
	assert.Contains(t, logs.String(), "run_id=abc")

	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_WritesMetricsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "repostat.prom")

	cfg := observability.DefaultConfig()
	cfg.MetricsFile = path
	cfg.LogOutput = &bytes.Buffer{}

	providers, err := observability.Init(context.Background(), cfg)
	require.NoError(t, err)

	rm, err := observability.NewReportMetrics(providers.Meter)
	require.NoError(t, err)

	rm.RecordChart(context.Background(), true)
	require.NoError(t, providers.Shutdown(context.Background()))

	content, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Contains(t, string(content), "repostat_report_charts")
}

func setupReportMeter(t *testing.T) (*observability.ReportMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rm, err := observability.NewReportMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return rm, reader
}

func findMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) *metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}

	return nil
}

func TestReportMetrics_Record(t *testing.T) {
	t.Parallel()

	rm, reader := setupReportMeter(t)
	ctx := context.Background()

	rm.RecordStep(ctx, "general", 20*time.Millisecond)
	rm.RecordStep(ctx, "activity", 30*time.Millisecond)
	rm.RecordRun(ctx, time.Second)
	rm.RecordArtifact(ctx, "page", 100)
	rm.RecordArtifact(ctx, "page", 50)
	rm.RecordChart(ctx, false)

	steps := findMetric(t, reader, "repostat.report.step.duration.seconds")
	require.NotNil(t, steps)

	hist, ok := steps.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2)

	bytesMetric := findMetric(t, reader, "repostat.report.artifact.bytes.total")
	require.NotNil(t, bytesMetric)

	sum, ok := bytesMetric.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(150), sum.DataPoints[0].Value)

	assert.NotNil(t, findMetric(t, reader, "repostat.report.charts.total"))
	assert.NotNil(t, findMetric(t, reader, "repostat.report.run.duration.seconds"))
}

func TestReportMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var rm *observability.ReportMetrics

	assert.NotPanics(t, func() {
		rm.RecordStep(context.Background(), "x", time.Second)
		rm.RecordRun(context.Background(), time.Second)
		rm.RecordArtifact(context.Background(), "page", 1)
		rm.RecordChart(context.Background(), true)
	})
}
