// Package observability provides metrics extensions for Tasker.
//
// MetricsExtension records process-wide lifecycle counters through a
// go-utils MetricFactory. PrometheusExtension exports per-callable
// outcome counters and a handler duration histogram as Prometheus
// collectors.
//
// For per-call OpenTelemetry tracing and metrics, see the middleware
// package: middleware.Tracing() and middleware.Metrics().
package observability
