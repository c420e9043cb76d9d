package tracing

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys shared by benchmark spans.
const (
	AttrRunner   = attribute.Key("tempbench.runner")
	AttrTrial    = attribute.Key("tempbench.trial")
	AttrLocation = attribute.Key("tempbench.location")
	AttrPoints   = attribute.Key("tempbench.points")
	AttrDays     = attribute.Key("tempbench.days")
)

// StartTrialSpan starts the span covering one timed run of a runner.
func StartTrialSpan(ctx context.Context, tracer trace.Tracer, runner string, trial int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "trial "+runner,
		trace.WithAttributes(
			AttrRunner.String(runner),
			AttrTrial.Int(trial),
		),
	)
}

// StartLocationSpan starts the span covering fetch and summarize for one location.
func StartLocationSpan(ctx context.Context, tracer trace.Tracer, location string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "process "+location,
		trace.WithAttributes(AttrLocation.String(location)),
	)
}

// StartFetchSpan starts a client span for an outbound forecast request.
func StartFetchSpan(ctx context.Context, tracer trace.Tracer, endpoint string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "GET "+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.SetAttributes(
		attribute.String("http.request.method", http.MethodGet),
		attribute.String("server.address", endpoint),
	)
	return ctx, span
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// EndTrialSpan finishes a trial span with its elapsed time.
func EndTrialSpan(span trace.Span, elapsed time.Duration, err error) {
	EndSpan(span, err, attribute.Float64("tempbench.elapsed_ms", float64(elapsed.Microseconds())/1000.0))
}

// InjectHTTPHeaders injects W3C trace context into HTTP headers.
func InjectHTTPHeaders(ctx context.Context, headers http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(headers))
}
