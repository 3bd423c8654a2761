package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/tasker/step"
)

// tracerName is the instrumentation scope name for tasker tracing.
const tracerName = "github.com/xraph/tasker"

// Tracing returns middleware that wraps each step call in an OpenTelemetry span.
// If no TracerProvider is configured globally, the default noop tracer is used
// and this middleware becomes a pass-through.
//
// Span attributes include: tasker.step.id, tasker.step.callable,
// tasker.task.id and tasker.step.dependency_count. Failures set
// tasker.step.retryable and tasker.step.error_code and mark the span
// status as codes.Error.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided tracer.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, req *step.Request, next Next) *step.Result {
		ctx, span := tracer.Start(ctx, "tasker.step.execute",
			trace.WithAttributes(
				attribute.String("tasker.step.id", req.StepID.String()),
				attribute.String("tasker.step.callable", req.Callable),
				attribute.String("tasker.task.id", req.TaskID),
				attribute.Int("tasker.step.dependency_count", len(req.DependencyResults)),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		res := next(ctx)
		span.SetAttributes(attribute.Int64("tasker.step.elapsed_ms", res.ElapsedMs))
		if res.IsSuccess() {
			span.SetStatus(codes.Ok, "")
		} else {
			span.SetAttributes(
				attribute.Bool("tasker.step.retryable", res.Retryable),
				attribute.String("tasker.step.error_code", res.ErrorCode),
			)
			span.SetStatus(codes.Error, res.Message)
		}

		return res
	}
}
