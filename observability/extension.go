package observability

import (
	"context"

	gu "github.com/xraph/go-utils/metrics"

	"github.com/xraph/tasker/ext"
	"github.com/xraph/tasker/step"
)

// Compile-time interface checks.
var (
	_ ext.Extension      = (*MetricsExtension)(nil)
	_ ext.StepStarted    = (*MetricsExtension)(nil)
	_ ext.StepCompleted  = (*MetricsExtension)(nil)
	_ ext.StepFailed     = (*MetricsExtension)(nil)
	_ ext.HandlerMissing = (*MetricsExtension)(nil)
)

// MetricsExtension records system-wide step lifecycle counters via a
// go-utils MetricFactory. Register it as a Tasker extension to track how
// many steps start, complete, fail (and how many of those failures are
// retryable) and how many requests name an unregistered callable.
type MetricsExtension struct {
	StepStarted    gu.Counter
	StepCompleted  gu.Counter
	StepFailed     gu.Counter
	StepRetryable  gu.Counter
	HandlerMissing gu.Counter
}

// NewMetricsExtension creates a MetricsExtension using a default metrics collector.
func NewMetricsExtension() *MetricsExtension {
	return NewMetricsExtensionWithFactory(gu.NewMetricsCollector("tasker/observability"))
}

// NewMetricsExtensionWithFactory creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtensionWithFactory(factory gu.MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		StepStarted:    factory.Counter("tasker.step.started"),
		StepCompleted:  factory.Counter("tasker.step.completed"),
		StepFailed:     factory.Counter("tasker.step.failed"),
		StepRetryable:  factory.Counter("tasker.step.failed_retryable"),
		HandlerMissing: factory.Counter("tasker.handler.missing"),
	}
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnStepStarted implements ext.StepStarted.
func (m *MetricsExtension) OnStepStarted(context.Context, *step.Request) error {
	m.StepStarted.Inc()
	return nil
}

// OnStepCompleted implements ext.StepCompleted.
func (m *MetricsExtension) OnStepCompleted(context.Context, *step.Request, *step.Result) error {
	m.StepCompleted.Inc()
	return nil
}

// OnStepFailed implements ext.StepFailed.
func (m *MetricsExtension) OnStepFailed(_ context.Context, _ *step.Request, res *step.Result) error {
	m.StepFailed.Inc()
	if res.Retryable {
		m.StepRetryable.Inc()
	}
	return nil
}

// OnHandlerMissing implements ext.HandlerMissing.
func (m *MetricsExtension) OnHandlerMissing(context.Context, *step.Request) error {
	m.HandlerMissing.Inc()
	return nil
}
