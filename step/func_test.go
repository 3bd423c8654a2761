package step_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xraph/tasker/step"
)

func newRequest(callable string) *step.Request {
	return &step.Request{StepID: step.NewStepID(), Callable: callable}
}

func TestFunc_AddOne(t *testing.T) {
	r := step.NewRegistry()
	r.RegisterFunc("add_one", func(_ context.Context, _ map[string]any, deps step.Deps) (any, error) {
		var prev int
		if err := deps.Decode("prev", &prev); err != nil {
			return nil, step.Permanent(err.Error())
		}
		return prev + 1, nil
	})

	h, ok := r.Get("add_one")
	if !ok {
		t.Fatal("expected add_one to be registered")
	}

	req := newRequest("add_one")
	req.DependencyResults = map[string]step.DependencyResult{
		"prev": {Result: 5},
	}

	res := h.Call(context.Background(), req)
	if !res.IsSuccess() {
		t.Fatalf("expected success, got failure %q", res.Message)
	}
	if res.Output != 6 {
		t.Errorf("Output = %v, want 6", res.Output)
	}
	if res.StepID != req.StepID {
		t.Errorf("StepID = %q, want %q", res.StepID, req.StepID)
	}
}

func TestFunc_AlwaysFail(t *testing.T) {
	h := step.NewFunc("always_fail", func(context.Context, map[string]any, step.Deps) (any, error) {
		return nil, errors.New("unavailable")
	})

	res := h.Call(context.Background(), newRequest("always_fail"))
	if res.IsSuccess() {
		t.Fatal("expected failure")
	}
	if res.Message != "unavailable" {
		t.Errorf("Message = %q, want %q", res.Message, "unavailable")
	}
	if res.Retryable {
		t.Error("unclassified errors must not be retryable")
	}
	if res.ElapsedMs < 0 {
		t.Errorf("ElapsedMs = %d, want >= 0", res.ElapsedMs)
	}
}

func TestFunc_SuccessOutputVerbatim(t *testing.T) {
	want := map[string]any{"total": 42.5, "items": []any{"a", "b"}}
	h := step.NewFunc("echo", func(_ context.Context, taskCtx map[string]any, deps step.Deps) (any, error) {
		if taskCtx == nil {
			return nil, errors.New("task context should never be nil")
		}
		if len(taskCtx) != 0 || len(deps) != 0 {
			return nil, errors.New("expected empty inputs")
		}
		return want, nil
	})

	res := h.Call(context.Background(), newRequest("echo"))
	if !res.IsSuccess() {
		t.Fatalf("unexpected failure: %s", res.Message)
	}
	if !reflect.DeepEqual(res.Output, want) {
		t.Errorf("Output = %v, want %v", res.Output, want)
	}
	if res.ElapsedMs < 0 {
		t.Errorf("ElapsedMs = %d, want >= 0", res.ElapsedMs)
	}
}

func TestFunc_DependencyOutputsStripMetadata(t *testing.T) {
	var got step.Deps
	h := step.NewFunc("collect", func(_ context.Context, _ map[string]any, deps step.Deps) (any, error) {
		got = deps
		return nil, nil
	})

	req := newRequest("collect")
	req.DependencyResults = map[string]step.DependencyResult{
		"extract": {
			Result: map[string]any{"rows": 10},
			Extra:  map[string]json.RawMessage{"success": json.RawMessage(`true`), "metadata": json.RawMessage(`{"worker":"w1"}`)},
		},
		"transform": {Result: "ok", Extra: map[string]json.RawMessage{"metadata": json.RawMessage(`{"attempt":2}`)}},
	}
	h.Call(context.Background(), req)

	want := step.Deps{
		"extract":   map[string]any{"rows": 10},
		"transform": "ok",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("deps = %v, want %v", got, want)
	}
}

func TestFunc_TaskContextPassedThrough(t *testing.T) {
	var got map[string]any
	h := step.NewFunc("ctx", func(_ context.Context, taskCtx map[string]any, _ step.Deps) (any, error) {
		got = taskCtx
		return nil, nil
	})

	req := newRequest("ctx")
	req.Context = map[string]any{"order_id": "ord_1"}
	h.Call(context.Background(), req)

	if got["order_id"] != "ord_1" {
		t.Errorf("task context = %v", got)
	}
}

func TestFunc_ClassifiedFailure(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
		code      string
		message   string
	}{
		{"transient", step.Transient("payment still processing"), true, "", "payment still processing"},
		{"permanent", step.Permanent("past refund window").WithCode("ineligible"), false, "ineligible", "past refund window"},
		{"wrapped transient", fmt.Errorf("gateway: %w", step.Transient("timeout")), true, "", "gateway: timeout"},
		{"free text is not parsed", errors.New("still processing (retryable)"), false, "", "still processing (retryable)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := step.NewFunc("f", func(context.Context, map[string]any, step.Deps) (any, error) {
				return nil, tt.err
			})
			res := h.Call(context.Background(), newRequest("f"))
			if res.IsSuccess() {
				t.Fatal("expected failure")
			}
			if res.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", res.Retryable, tt.retryable)
			}
			if res.ErrorCode != tt.code {
				t.Errorf("ErrorCode = %q, want %q", res.ErrorCode, tt.code)
			}
			if res.Message != tt.message {
				t.Errorf("Message = %q, want %q", res.Message, tt.message)
			}
		})
	}
}

func TestFunc_PanicBecomesFailure(t *testing.T) {
	h := step.NewFunc("panicky", func(context.Context, map[string]any, step.Deps) (any, error) {
		var m map[string]int
		m["boom"]++
		return nil, nil
	})

	var res *step.Result
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic escaped Call: %v", r)
			}
		}()
		res = h.Call(context.Background(), newRequest("panicky"))
	}()

	if res.IsSuccess() {
		t.Fatal("expected failure")
	}
	if res.Retryable {
		t.Error("panics must not be retryable")
	}
	if res.ErrorCode != step.CodePanic {
		t.Errorf("ErrorCode = %q, want %q", res.ErrorCode, step.CodePanic)
	}
	if res.Message != `step handler "panicky" panicked` {
		t.Errorf("Message = %q", res.Message)
	}
	if _, ok := res.ErrorContext["panic"]; !ok {
		t.Error("expected panic value in error context")
	}
}

func TestFunc_ElapsedCoversFunction(t *testing.T) {
	h := step.NewFunc("slow", func(context.Context, map[string]any, step.Deps) (any, error) {
		time.Sleep(25 * time.Millisecond)
		return "done", nil
	})

	res := h.Call(context.Background(), newRequest("slow"))
	if res.ElapsedMs < 25 {
		t.Errorf("ElapsedMs = %d, want >= 25", res.ElapsedMs)
	}
}

func TestFunc_ConcurrentCalls(t *testing.T) {
	h := step.NewFunc("double", func(_ context.Context, _ map[string]any, deps step.Deps) (any, error) {
		var n int
		if err := deps.Decode("n", &n); err != nil {
			return nil, err
		}
		return n * 2, nil
	})

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := newRequest("double")
			req.DependencyResults = map[string]step.DependencyResult{"n": {Result: i}}
			res := h.Call(context.Background(), req)
			if res.Output != i*2 {
				t.Errorf("call %d: Output = %v, want %d", i, res.Output, i*2)
			}
		}()
	}
	wg.Wait()
}

type refundInput struct {
	PaymentID    string  `json:"payment_id"`
	RefundAmount float64 `json:"refund_amount"`
}

func TestTyped_DecodesContext(t *testing.T) {
	r := step.NewRegistry()
	step.RegisterTyped[refundInput](r, "validate_refund", func(_ context.Context, in refundInput, _ step.Deps) (any, error) {
		if in.RefundAmount <= 0 {
			return nil, step.Permanent("refund amount must be positive")
		}
		return map[string]any{"payment_id": in.PaymentID, "validated": true}, nil
	})

	h, _ := r.Get("validate_refund")
	req := newRequest("validate_refund")
	req.Context = map[string]any{"payment_id": "pay_1", "refund_amount": 12.5}

	res := h.Call(context.Background(), req)
	if !res.IsSuccess() {
		t.Fatalf("unexpected failure: %s", res.Message)
	}
	out := res.Output.(map[string]any)
	if out["payment_id"] != "pay_1" {
		t.Errorf("payment_id = %v", out["payment_id"])
	}
}

func TestTyped_InvalidContext(t *testing.T) {
	called := false
	h := step.NewTyped[refundInput]("validate_refund", func(context.Context, refundInput, step.Deps) (any, error) {
		called = true
		return nil, nil
	})

	req := newRequest("validate_refund")
	req.Context = map[string]any{"refund_amount": "not a number"}

	res := h.Call(context.Background(), req)
	if called {
		t.Fatal("handler should not run with an undecodable context")
	}
	if res.IsSuccess() || res.Retryable {
		t.Fatal("expected a non-retryable failure")
	}
	if res.ErrorCode != step.CodeInvalidContext {
		t.Errorf("ErrorCode = %q, want %q", res.ErrorCode, step.CodeInvalidContext)
	}
}

func TestResult_JSONShapes(t *testing.T) {
	sid := step.NewStepID()

	data, err := json.Marshal(step.Success(sid, map[string]any{"n": 1}, 7))
	if err != nil {
		t.Fatalf("marshal success: %v", err)
	}
	want := `{"success":true,"step_id":"` + sid.String() + `","output":{"n":1},"elapsed_ms":7,"metadata":null}`
	if string(data) != want {
		t.Errorf("success JSON = %s\nwant %s", data, want)
	}

	data, err = json.Marshal(step.Failure(sid, "boom", false, 3))
	if err != nil {
		t.Fatalf("marshal failure: %v", err)
	}
	want = `{"success":false,"step_id":"` + sid.String() + `","message":"boom","retryable":false,"error_code":null,"context":null,"elapsed_ms":3,"metadata":null}`
	if string(data) != want {
		t.Errorf("failure JSON = %s\nwant %s", data, want)
	}
}

func TestLookupFailure(t *testing.T) {
	sid := step.NewStepID()
	res := step.LookupFailure(sid, "nonexistent")

	if res.IsSuccess() || res.Retryable {
		t.Fatal("lookup failures are non-retryable failures")
	}
	if res.ErrorCode != step.CodeHandlerNotFound {
		t.Errorf("ErrorCode = %q", res.ErrorCode)
	}
	if !strings.Contains(res.Message, `"nonexistent"`) {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestDeps_DecodeMissing(t *testing.T) {
	var v int
	if err := (step.Deps{}).Decode("absent", &v); err == nil {
		t.Fatal("expected error for missing dependency")
	}
}
