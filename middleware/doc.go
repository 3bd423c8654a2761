// Package middleware provides composable middleware for step handler calls.
//
// A [Middleware] wraps the call a worker makes into a step.Handler.
// Middleware are composed into a chain using [Chain]; the first middleware
// in the slice is the outermost wrapper.
//
//	// logging → recover → handler
//	chain := middleware.Chain(middleware.Logging(logger), middleware.Recover(logger))
//
// # Built-in Middleware
//
//   - [Logging]: logs callable, step ID, elapsed time and outcome
//   - [Recover]: converts panics into non-retryable Failure results
//   - [Timeout]: bounds a call with a deadline; expiry is a transient Failure
//   - [Throttle]: applies per-callable rate and concurrency limits
//   - [Tracing]: wraps the call in an OpenTelemetry span
//   - [Metrics]: records per-callable duration and outcome counters
//
// Middleware never return nil and never turn a Result into a panic.
package middleware
