package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricStepDuration   = "repostat.report.step.duration.seconds"
	metricRunDuration    = "repostat.report.run.duration.seconds"
	metricArtifactsTotal = "repostat.report.artifacts.total"
	metricArtifactBytes  = "repostat.report.artifact.bytes.total"
	metricChartsTotal    = "repostat.report.charts.total"

	attrStep    = "step"
	attrKind    = "kind"
	attrOutcome = "outcome"

	unitSeconds = "s"

	outcomeOK     = "ok"
	outcomeFailed = "failed"
)

// durationBucketBoundaries covers 1ms to 60s, the range of a single report
// step from writing a data file to running every chart script.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// ReportMetrics holds OTel instruments for report generation.
type ReportMetrics struct {
	stepDuration  metric.Float64Histogram
	runDuration   metric.Float64Histogram
	artifacts     metric.Int64Counter
	artifactBytes metric.Int64Counter
	charts        metric.Int64Counter
}

// NewReportMetrics creates report metric instruments from the given meter.
// Durations share one bucket layout; counters are keyed by artifact kind or
// chart outcome at record time.
func NewReportMetrics(mt metric.Meter) (*ReportMetrics, error) {
	var errs []error

	seconds := func(name, desc string) metric.Float64Histogram {
		h, err := mt.Float64Histogram(name,
			metric.WithDescription(desc),
			metric.WithUnit(unitSeconds),
			metric.WithExplicitBucketBoundaries(durationBucketBoundaries...))
		if err != nil {
			errs = append(errs, fmt.Errorf("create %s: %w", name, err))
		}

		return h
	}

	count := func(name, desc, unit string) metric.Int64Counter {
		c, err := mt.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			errs = append(errs, fmt.Errorf("create %s: %w", name, err))
		}

		return c
	}

	rm := &ReportMetrics{
		stepDuration:  seconds(metricStepDuration, "Report step duration in seconds"),
		runDuration:   seconds(metricRunDuration, "Whole report generation duration in seconds"),
		artifacts:     count(metricArtifactsTotal, "Artifacts written by kind", "{artifact}"),
		artifactBytes: count(metricArtifactBytes, "Bytes written to artifacts by kind", "By"),
		charts:        count(metricChartsTotal, "Chart script invocations by outcome", "{script}"),
	}

	err := errors.Join(errs...)
	if err != nil {
		return nil, err
	}

	return rm, nil
}

// RecordStep records the duration of one named pipeline step.
// Safe to call on a nil receiver (no-op).
func (rm *ReportMetrics) RecordStep(ctx context.Context, step string, d time.Duration) {
	if rm == nil {
		return
	}

	rm.stepDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String(attrStep, step)))
}

// RecordRun records the duration of a whole generation.
// Safe to call on a nil receiver (no-op).
func (rm *ReportMetrics) RecordRun(ctx context.Context, d time.Duration) {
	if rm == nil {
		return
	}

	rm.runDuration.Record(ctx, d.Seconds())
}

// RecordArtifact counts one written artifact of the given kind and size.
// Safe to call on a nil receiver (no-op).
func (rm *ReportMetrics) RecordArtifact(ctx context.Context, kind string, size int64) {
	if rm == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrKind, kind))
	rm.artifacts.Add(ctx, 1, attrs)
	rm.artifactBytes.Add(ctx, size, attrs)
}

// RecordChart counts one chart script invocation.
// Safe to call on a nil receiver (no-op).
func (rm *ReportMetrics) RecordChart(ctx context.Context, ok bool) {
	if rm == nil {
		return
	}

	outcome := outcomeOK
	if !ok {
		outcome = outcomeFailed
	}

	rm.charts.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOutcome, outcome)))
}
