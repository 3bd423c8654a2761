package middleware_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	mw "github.com/xraph/tasker/middleware"
	"github.com/xraph/tasker/step"
)

func setupTestTracer() (*tracetest.SpanRecorder, trace.Tracer) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tracer := tp.Tracer("test")
	return sr, tracer
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value)
	for _, kv := range s.Attributes() {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestTracing_CreatesSpan(t *testing.T) {
	sr, tracer := setupTestTracer()
	m := mw.TracingWithTracer(tracer)
	req := newTestRequest()

	res := m(context.Background(), req, succeed(req))
	if !res.IsSuccess() {
		t.Fatal("expected success")
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "tasker.step.execute" {
		t.Errorf("expected span name %q, got %q", "tasker.step.execute", spans[0].Name())
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("expected status Ok, got %v", spans[0].Status().Code)
	}
}

func TestTracing_SpanAttributes(t *testing.T) {
	sr, tracer := setupTestTracer()
	m := mw.TracingWithTracer(tracer)
	req := newTestRequest()

	_ = m(context.Background(), req, succeed(req))

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	attrs := spanAttrs(spans[0])
	if got := attrs["tasker.step.id"].AsString(); got != req.StepID.String() {
		t.Errorf("tasker.step.id = %q, want %q", got, req.StepID.String())
	}
	if got := attrs["tasker.step.callable"].AsString(); got != "send-email" {
		t.Errorf("tasker.step.callable = %q", got)
	}
	if got := attrs["tasker.step.dependency_count"].AsInt64(); got != 1 {
		t.Errorf("tasker.step.dependency_count = %d, want 1", got)
	}
}

func TestTracing_FailureSetsErrorStatus(t *testing.T) {
	sr, tracer := setupTestTracer()
	m := mw.TracingWithTracer(tracer)
	req := newTestRequest()

	_ = m(context.Background(), req, fail(req, true))

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	status := spans[0].Status()
	if status.Code != codes.Error {
		t.Errorf("expected status Error, got %v", status.Code)
	}
	if status.Description != "fail" {
		t.Errorf("expected description %q, got %q", "fail", status.Description)
	}
	if !spanAttrs(spans[0])["tasker.step.retryable"].AsBool() {
		t.Error("expected tasker.step.retryable=true")
	}
}

func TestTracing_PropagatesSpanContext(t *testing.T) {
	_, tracer := setupTestTracer()
	m := mw.TracingWithTracer(tracer)
	req := newTestRequest()

	var valid bool
	_ = m(context.Background(), req, func(ctx context.Context) *step.Result {
		valid = trace.SpanContextFromContext(ctx).IsValid()
		return succeed(req)(ctx)
	})
	if !valid {
		t.Fatal("expected a valid span context inside the handler")
	}
}
