package step

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrHandlerNotFound is returned by lookups that require a handler to
// exist. Compare with errors.Is.
var ErrHandlerNotFound = errors.New("step: handler not found")

// Class tells the orchestrator whether a failed step may succeed if
// attempted again.
type Class int

const (
	// ClassUnknown is the class of errors that carry no classification.
	// They are reported as non-retryable.
	ClassUnknown Class = iota
	// ClassPermanent marks failures that will recur on every attempt,
	// such as invalid input or a business rule rejection.
	ClassPermanent
	// ClassTransient marks failures that may clear on their own, such as
	// an unavailable dependency or a payment still processing.
	ClassTransient
)

// String returns the lowercase class name.
func (c Class) String() string {
	switch c {
	case ClassPermanent:
		return "permanent"
	case ClassTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Retryable reports whether failures of this class should be re-attempted.
func (c Class) Retryable() bool { return c == ClassTransient }

// Error is a classified step failure. Handler functions return it (or
// wrap it) to control the Failure result's retryable flag, error code
// and extra context.
type Error struct {
	Class   Class
	Code    string
	Message string
	Context map[string]any
	Err     error
}

// Error returns the message, falling back to the wrapped error's text.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Class.String() + " step failure"
}

func (e *Error) Unwrap() error { return e.Err }

// WithCode returns e with Code set.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// WithContext returns e with key set in its Context.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Permanent returns a non-retryable error with the given message.
func Permanent(message string) *Error {
	return &Error{Class: ClassPermanent, Message: message}
}

// Permanentf is Permanent with fmt.Sprintf formatting.
func Permanentf(format string, args ...any) *Error {
	return Permanent(fmt.Sprintf(format, args...))
}

// Transient returns a retryable error with the given message.
func Transient(message string) *Error {
	return &Error{Class: ClassTransient, Message: message}
}

// Transientf is Transient with fmt.Sprintf formatting.
func Transientf(format string, args ...any) *Error {
	return Transient(fmt.Sprintf(format, args...))
}

// Wrap classifies err. The resulting message is err's text. Returns nil
// when err is nil.
func Wrap(class Class, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Class: class, Err: err}
}

// AsError finds the first *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ClassOf returns the class of the first *Error in err's chain, or
// ClassUnknown.
func ClassOf(err error) Class {
	if se, ok := AsError(err); ok {
		return se.Class
	}
	return ClassUnknown
}

// IsRetryable reports whether err is classified as transient.
func IsRetryable(err error) bool { return ClassOf(err).Retryable() }

// Message returns the text reported in a Failure result for err. The
// outermost error text is used so that wrapping context is preserved.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func quote(s string) string { return strconv.Quote(s) }
