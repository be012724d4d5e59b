// Package telemetry records tool invocations as OpenTelemetry spans and
// metrics. It implements command.Telemetry and never influences the outcome
// of an invocation.
package telemetry

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "azmcp/tool"

// Attribute keys set on invocation spans.
const (
	AttrToolName     = "tool.name"
	AttrInvocationID = "invocation.id"
	AttrStatus       = "response.status"
)

type invocationIDKey struct{}

// Recorder emits one span per invocation plus invocation count and latency
// metrics.
type Recorder struct {
	tracer trace.Tracer

	invocations metric.Int64Counter
	latency     metric.Float64Histogram
}

// NewRecorder creates a recorder bound to the provided tracer and meter.
func NewRecorder(tracer trace.Tracer, meter metric.Meter) (*Recorder, error) {
	invocations, err := meter.Int64Counter(
		"azmcp.tool.invocations",
		metric.WithDescription("Number of tool invocations"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		"azmcp.tool.latency",
		metric.WithDescription("Tool latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	return &Recorder{
		tracer:      tracer,
		invocations: invocations,
		latency:     latency,
	}, nil
}

// NewGlobalRecorder uses the globally registered providers. Without an SDK
// installed these are no-ops.
func NewGlobalRecorder() (*Recorder, error) {
	return NewRecorder(
		otelapi.GetTracerProvider().Tracer(instrumentationName),
		otelapi.GetMeterProvider().Meter(instrumentationName),
	)
}

// StartInvocation opens a span for one call of tool and assigns it a fresh
// invocation id.
func (r *Recorder) StartInvocation(ctx context.Context, tool string) (context.Context, func(status int)) {
	id := uuid.NewString()
	ctx = context.WithValue(ctx, invocationIDKey{}, id)
	ctx, span := r.tracer.Start(ctx, "tool.invoke",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String(AttrToolName, tool),
			attribute.String(AttrInvocationID, id),
		),
	)
	start := time.Now()

	return ctx, func(status int) {
		span.SetAttributes(attribute.Int(AttrStatus, status))
		if status >= 400 {
			span.SetStatus(codes.Error, strconv.Itoa(status))
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()

		options := metric.WithAttributes(
			attribute.String(AttrToolName, tool),
			attribute.Int(AttrStatus, status),
		)
		// ctx may already be cancelled; metrics are recorded regardless
		recordCtx := context.WithoutCancel(ctx)
		r.invocations.Add(recordCtx, 1, options)
		r.latency.Record(recordCtx, time.Since(start).Seconds(), options)
	}
}

// Tag attaches key/value to the invocation span in ctx.
func (r *Recorder) Tag(ctx context.Context, key, value string) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String(key, value))
}

// InvocationID returns the id assigned by StartInvocation, or "".
func InvocationID(ctx context.Context) string {
	id, _ := ctx.Value(invocationIDKey{}).(string)
	return id
}
