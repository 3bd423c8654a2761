package observability

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xraph/tasker/ext"
	"github.com/xraph/tasker/step"
)

var (
	_ ext.Extension      = (*PrometheusExtension)(nil)
	_ ext.StepCompleted  = (*PrometheusExtension)(nil)
	_ ext.StepFailed     = (*PrometheusExtension)(nil)
	_ ext.HandlerMissing = (*PrometheusExtension)(nil)
)

// PrometheusExtension records step lifecycle metrics as Prometheus
// collectors. Register it as a Tasker extension and expose the registerer
// it was built with (for example via promhttp) to scrape them.
//
// Per-callable labels are only applied to outcomes of registered
// handlers. Requests for unknown callables are counted without a label,
// since their names come from outside and are unbounded.
type PrometheusExtension struct {
	StepCompleted  *prometheus.CounterVec
	StepFailed     *prometheus.CounterVec
	HandlerMissing prometheus.Counter
	StepDuration   *prometheus.HistogramVec
}

// NewPrometheusExtension creates a PrometheusExtension registered with the
// default Prometheus registerer.
func NewPrometheusExtension() (*PrometheusExtension, error) {
	return NewPrometheusExtensionWithRegisterer(prometheus.DefaultRegisterer)
}

// NewPrometheusExtensionWithRegisterer creates a PrometheusExtension whose
// collectors are registered with reg. Use a fresh prometheus.Registry in
// tests.
func NewPrometheusExtensionWithRegisterer(reg prometheus.Registerer) (*PrometheusExtension, error) {
	e := &PrometheusExtension{
		StepCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tasker",
			Name:      "step_completed_total",
			Help:      "Steps whose handler returned a success result.",
		}, []string{"callable"}),
		StepFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tasker",
			Name:      "step_failed_total",
			Help:      "Steps whose handler returned a failure result.",
		}, []string{"callable", "retryable"}),
		HandlerMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tasker",
			Name:      "handler_missing_total",
			Help:      "Step requests naming a callable with no registered handler.",
		}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tasker",
			Name:      "step_duration_seconds",
			Help:      "Handler execution time as reported in step results.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"callable", "status"}),
	}

	for _, c := range []prometheus.Collector{e.StepCompleted, e.StepFailed, e.HandlerMissing, e.StepDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Name implements ext.Extension.
func (e *PrometheusExtension) Name() string { return "observability-prometheus" }

// OnStepCompleted implements ext.StepCompleted.
func (e *PrometheusExtension) OnStepCompleted(_ context.Context, req *step.Request, res *step.Result) error {
	e.StepCompleted.WithLabelValues(req.Callable).Inc()
	e.StepDuration.WithLabelValues(req.Callable, "ok").Observe(res.Elapsed().Seconds())
	return nil
}

// OnStepFailed implements ext.StepFailed.
func (e *PrometheusExtension) OnStepFailed(_ context.Context, req *step.Request, res *step.Result) error {
	e.StepFailed.WithLabelValues(req.Callable, strconv.FormatBool(res.Retryable)).Inc()
	e.StepDuration.WithLabelValues(req.Callable, "error").Observe(res.Elapsed().Seconds())
	return nil
}

// OnHandlerMissing implements ext.HandlerMissing.
func (e *PrometheusExtension) OnHandlerMissing(context.Context, *step.Request) error {
	e.HandlerMissing.Inc()
	return nil
}
