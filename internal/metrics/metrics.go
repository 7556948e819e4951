// Package metrics defines the admission subsystem's OpenTelemetry
// instruments.
package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yayazuqui-hub/court-priority-play-99/pkg/telemetry"
)

// Metrics bundles the instruments the services record to. All methods
// are safe on a nil receiver so wiring is optional in tests.
type Metrics struct {
	queueJoins      *telemetry.Counter
	queueDenials    *telemetry.Counter
	queueEvictions  *telemetry.Counter
	triggerFires    *telemetry.Counter
	admissionChecks *telemetry.Counter
	sweepDuration   *telemetry.Histogram
}

// New creates the instrument set. Errors from instrument creation are
// returned so startup can fail loudly rather than record nothing.
func New() (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.queueJoins, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "queue_joins_total",
		Description: "Accepted queue joins",
	}); err != nil {
		return nil, err
	}
	if m.queueDenials, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "queue_denials_total",
		Description: "Rejected queue joins by reason",
	}); err != nil {
		return nil, err
	}
	if m.queueEvictions, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "queue_evictions_total",
		Description: "Entries evicted by the idle sweeper",
	}); err != nil {
		return nil, err
	}
	if m.triggerFires, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "schedule_trigger_fires_total",
		Description: "Priority windows started by the schedule trigger",
	}); err != nil {
		return nil, err
	}
	if m.admissionChecks, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "admission_checks_total",
		Description: "Booking admission checks by outcome",
	}); err != nil {
		return nil, err
	}
	if m.sweepDuration, err = telemetry.NewHistogram(telemetry.MetricOpts{
		Name:        "queue_sweep_duration_seconds",
		Description: "Duration of idle queue sweeps",
		Unit:        "s",
	}); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) QueueJoin(ctx context.Context, category string) {
	if m == nil {
		return
	}
	m.queueJoins.Add(ctx, 1, attribute.String("category", category))
}

func (m *Metrics) QueueDenial(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.queueDenials.Add(ctx, 1, attribute.String("reason", reason))
}

func (m *Metrics) QueueEvictions(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}
	m.queueEvictions.Add(ctx, int64(n))
}

func (m *Metrics) TriggerFire(ctx context.Context) {
	if m == nil {
		return
	}
	m.triggerFires.Add(ctx, 1)
}

func (m *Metrics) AdmissionCheck(ctx context.Context, allowed bool) {
	if m == nil {
		return
	}
	m.admissionChecks.Add(ctx, 1, attribute.Bool("allowed", allowed))
}

func (m *Metrics) SweepDuration(ctx context.Context, seconds float64) {
	if m == nil {
		return
	}
	m.sweepDuration.Record(ctx, seconds)
}
