package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xraph/tasker/step"
)

// meterName is the instrumentation scope name for tasker metrics.
const meterName = "github.com/xraph/tasker"

// stepInstruments groups the OTel instruments recorded per step call.
// Instruments are safe for concurrent use and created once.
type stepInstruments struct {
	duration    metric.Float64Histogram
	handlerTime metric.Int64Histogram
	executions  metric.Int64Counter
	inFlight    metric.Int64UpDownCounter
}

// newStepInstruments creates the instruments. On error the OTel API
// returns noop instruments, so errors are ignored.
func newStepInstruments(meter metric.Meter) stepInstruments {
	var in stepInstruments
	in.duration, _ = meter.Float64Histogram(
		"tasker.step.duration",
		metric.WithDescription("Wall time of step calls in seconds, including inner middleware"),
		metric.WithUnit("s"),
	)
	in.handlerTime, _ = meter.Int64Histogram(
		"tasker.step.handler_time",
		metric.WithDescription("Elapsed time reported by the step handler"),
		metric.WithUnit("ms"),
	)
	in.executions, _ = meter.Int64Counter(
		"tasker.step.executions",
		metric.WithDescription("Total number of step calls"),
		metric.WithUnit("{execution}"),
	)
	in.inFlight, _ = meter.Int64UpDownCounter(
		"tasker.step.in_flight",
		metric.WithDescription("Step calls currently running"),
		metric.WithUnit("{execution}"),
	)
	return in
}

// Metrics returns middleware that records per-step metrics using the
// global OTel MeterProvider. If no MeterProvider is configured, noop
// instruments are used and this middleware becomes a pass-through.
//
// Instruments:
//   - tasker.step.duration (Float64Histogram, s): wall time of the call,
//     including middleware further down the chain
//   - tasker.step.handler_time (Int64Histogram, ms): the Result's ElapsedMs
//   - tasker.step.executions (Int64Counter): total calls
//   - tasker.step.in_flight (Int64UpDownCounter): calls currently running,
//     attributed by callable only
//
// Outcome instruments carry callable, status ("ok" or "error") and
// retryable; failures with an error code also carry error_code.
func Metrics() Middleware {
	return MetricsWithMeter(otel.Meter(meterName))
}

// MetricsWithMeter returns metrics middleware using the provided meter.
func MetricsWithMeter(meter metric.Meter) Middleware {
	in := newStepInstruments(meter)

	return func(ctx context.Context, req *step.Request, next Next) *step.Result {
		callable := metric.WithAttributes(attribute.String("callable", req.Callable))
		in.inFlight.Add(ctx, 1, callable)
		defer in.inFlight.Add(ctx, -1, callable)

		start := time.Now()
		res := next(ctx)
		wall := time.Since(start).Seconds()

		attrs := metric.WithAttributes(outcomeAttributes(req, res)...)
		in.duration.Record(ctx, wall, attrs)
		in.handlerTime.Record(ctx, res.ElapsedMs, attrs)
		in.executions.Add(ctx, 1, attrs)

		return res
	}
}

func outcomeAttributes(req *step.Request, res *step.Result) []attribute.KeyValue {
	status := "ok"
	if !res.IsSuccess() {
		status = "error"
	}
	attrs := []attribute.KeyValue{
		attribute.String("callable", req.Callable),
		attribute.String("status", status),
		attribute.Bool("retryable", res.Retryable),
	}
	if res.ErrorCode != "" {
		attrs = append(attrs, attribute.String("error_code", res.ErrorCode))
	}
	return attrs
}
