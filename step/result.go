package step

import (
	"encoding/json"
	"time"
)

// Kind distinguishes the two variants of a Result.
type Kind string

const (
	// KindSuccess means the handler produced an output.
	KindSuccess Kind = "success"
	// KindFailure means the handler failed, panicked, or could not be found.
	KindFailure Kind = "failure"
)

// Error codes set on Failure results produced inside this module.
const (
	CodeHandlerNotFound = "handler_not_found"
	CodePanic           = "panic"
	CodeInvalidContext  = "invalid_context"
	CodeTimeout         = "timeout"
	CodeCanceled        = "canceled"
	CodeThrottled       = "throttled"
)

// Result is the outcome of one step invocation. It is a tagged union:
// Output is meaningful only for KindSuccess; Message, Retryable,
// ErrorCode and ErrorContext only for KindFailure.
type Result struct {
	Kind      Kind
	StepID    StepID
	ElapsedMs int64
	Metadata  map[string]any

	Output any

	Message      string
	Retryable    bool
	ErrorCode    string
	ErrorContext map[string]any
}

// Success builds a Success result.
func Success(stepID StepID, output any, elapsedMs int64) *Result {
	return &Result{
		Kind:      KindSuccess,
		StepID:    stepID,
		Output:    output,
		ElapsedMs: clampElapsed(elapsedMs),
	}
}

// Failure builds a Failure result.
func Failure(stepID StepID, message string, retryable bool, elapsedMs int64) *Result {
	return &Result{
		Kind:      KindFailure,
		StepID:    stepID,
		Message:   message,
		Retryable: retryable,
		ElapsedMs: clampElapsed(elapsedMs),
	}
}

// FailureFromError builds a Failure result whose message, retry flag,
// code and context are taken from err's classification.
func FailureFromError(stepID StepID, err error, elapsedMs int64) *Result {
	r := Failure(stepID, Message(err), IsRetryable(err), elapsedMs)
	if se, ok := AsError(err); ok {
		r.ErrorCode = se.Code
		r.ErrorContext = se.Context
	}
	return r
}

// LookupFailure is the outcome a dispatch loop reports when no handler
// is registered under callable. It is a deployment defect, never retryable.
func LookupFailure(stepID StepID, callable string) *Result {
	r := Failure(stepID, "no handler registered for callable "+quote(callable), false, 0)
	r.ErrorCode = CodeHandlerNotFound
	r.ErrorContext = map[string]any{"callable": callable}
	return r
}

// IsSuccess reports whether r is a Success result.
func (r *Result) IsSuccess() bool { return r.Kind == KindSuccess }

// Elapsed returns the measured duration as a time.Duration.
func (r *Result) Elapsed() time.Duration { return time.Duration(r.ElapsedMs) * time.Millisecond }

type successJSON struct {
	Success   bool           `json:"success"`
	StepID    StepID         `json:"step_id"`
	Output    any            `json:"output"`
	ElapsedMs int64          `json:"elapsed_ms"`
	Metadata  map[string]any `json:"metadata"`
}

type failureJSON struct {
	Success   bool           `json:"success"`
	StepID    StepID         `json:"step_id"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	ErrorCode *string        `json:"error_code"`
	Context   map[string]any `json:"context"`
	ElapsedMs int64          `json:"elapsed_ms"`
	Metadata  map[string]any `json:"metadata"`
}

// MarshalJSON renders the variant-specific shape consumed by orchestrators.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Kind == KindSuccess {
		return json.Marshal(successJSON{
			Success:   true,
			StepID:    r.StepID,
			Output:    r.Output,
			ElapsedMs: r.ElapsedMs,
			Metadata:  r.Metadata,
		})
	}

	var code *string
	if r.ErrorCode != "" {
		c := r.ErrorCode
		code = &c
	}
	return json.Marshal(failureJSON{
		StepID:    r.StepID,
		Message:   r.Message,
		Retryable: r.Retryable,
		ErrorCode: code,
		Context:   r.ErrorContext,
		ElapsedMs: r.ElapsedMs,
		Metadata:  r.Metadata,
	})
}

func clampElapsed(ms int64) int64 {
	if ms < 0 {
		return 0
	}
	return ms
}

func elapsedSince(start time.Time) int64 {
	return clampElapsed(time.Since(start).Milliseconds())
}
