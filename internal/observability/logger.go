package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrService    = "service"
	attrVersion    = "version"
	attrRunID      = "run_id"
	attrReportStep = "report_step"
	attrTraceID    = "trace_id"
	attrSpanID     = "span_id"
)

type stepKey struct{}

// WithStep tags ctx with the report step being generated. Records logged
// through a [RunHandler] with that context carry a report_step attribute.
func WithStep(ctx context.Context, step string) context.Context {
	return context.WithValue(ctx, stepKey{}, step)
}

// StepFromContext returns the report step set by [WithStep].
func StepFromContext(ctx context.Context) (string, bool) {
	step, ok := ctx.Value(stepKey{}).(string)

	return step, ok && step != ""
}

// RunHandler is an [slog.Handler] for one report run. Every record is
// stamped with the service, binary version and run id, with the report step
// found in the context, and with trace_id and span_id inside a span.
// Run attributes are attached once so they stay top level under groups.
type RunHandler struct {
	inner slog.Handler
}

// NewRunHandler wraps inner. Empty version or runID are omitted.
func NewRunHandler(inner slog.Handler, service, version, runID string) *RunHandler {
	attrs := []slog.Attr{slog.String(attrService, service)}

	if version != "" {
		attrs = append(attrs, slog.String(attrVersion, version))
	}

	if runID != "" {
		attrs = append(attrs, slog.String(attrRunID, runID))
	}

	return &RunHandler{inner: inner.WithAttrs(attrs)}
}

// Enabled delegates to the wrapped handler.
func (h *RunHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle adds the step and trace attributes found in ctx.
func (h *RunHandler) Handle(ctx context.Context, record slog.Record) error {
	if step, ok := StepFromContext(ctx); ok {
		record.AddAttrs(slog.String(attrReportStep, step))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	return h.inner.Handle(ctx, record)
}

// WithAttrs implements [slog.Handler].
func (h *RunHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RunHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup implements [slog.Handler].
func (h *RunHandler) WithGroup(name string) slog.Handler {
	return &RunHandler{inner: h.inner.WithGroup(name)}
}
