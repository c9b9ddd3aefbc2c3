// Package observe provides the observability primitives shared by every
// front end of the Paraíso front desk: OpenTelemetry metrics, turn tracing,
// a trace-aware slog logger and HTTP middleware.
//
// Metrics are recorded through the OpenTelemetry Metrics API and exposed for
// Prometheus scraping by [InitProvider] and [MetricsHandler]. A package-level
// [DefaultMetrics] instance is provided for convenience; tests should use
// [NewMetrics] with their own [metric.MeterProvider] to avoid cross-test
// pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/MrWong99/paraiso"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use.
type Metrics struct {
	// Turns counts processed turns. Attribute: state (the state the turn
	// started in).
	Turns metric.Int64Counter

	// IntentsMatched counts classifier hits. Attribute: tag.
	IntentsMatched metric.Int64Counter

	// IntentsUnmatched counts turns the classifier could not place.
	IntentsUnmatched metric.Int64Counter

	// Corrections counts corrector substitutions. Attribute: method.
	Corrections metric.Int64Counter

	// StateTransitions counts dialogue state changes. Attributes: from, to.
	StateTransitions metric.Int64Counter

	// Reservations counts reservation lifecycle events. Attribute: action
	// (created, cancelled).
	Reservations metric.Int64Counter

	// TurnDuration tracks the time spent producing one turn's reply.
	TurnDuration metric.Float64Histogram

	// ActiveSessions tracks open conversations across all front ends.
	ActiveSessions metric.Int64UpDownCounter

	// HTTPRequestDuration tracks HTTP request processing time. Attributes:
	// method, path.
	HTTPRequestDuration metric.Float64Histogram
}

// turnBuckets are histogram boundaries (in seconds) for in-process turns,
// which complete in microseconds unless the catalog is pathological.
var turnBuckets = []float64{
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider].
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Turns, err = m.Int64Counter("paraiso.turns",
		metric.WithDescription("Total conversation turns by starting state."),
	); err != nil {
		return nil, err
	}
	if met.IntentsMatched, err = m.Int64Counter("paraiso.intents.matched",
		metric.WithDescription("Total classifier matches by intent tag."),
	); err != nil {
		return nil, err
	}
	if met.IntentsUnmatched, err = m.Int64Counter("paraiso.intents.unmatched",
		metric.WithDescription("Total turns no intent matched."),
	); err != nil {
		return nil, err
	}
	if met.Corrections, err = m.Int64Counter("paraiso.corrections",
		metric.WithDescription("Total token corrections by method."),
	); err != nil {
		return nil, err
	}
	if met.StateTransitions, err = m.Int64Counter("paraiso.state.transitions",
		metric.WithDescription("Total dialogue state transitions by source and target state."),
	); err != nil {
		return nil, err
	}
	if met.Reservations, err = m.Int64Counter("paraiso.reservations",
		metric.WithDescription("Total reservation events by action."),
	); err != nil {
		return nil, err
	}

	if met.TurnDuration, err = m.Float64Histogram("paraiso.turn.duration",
		metric.WithDescription("Latency of producing one turn's reply."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(turnBuckets...),
	); err != nil {
		return nil, err
	}

	if met.ActiveSessions, err = m.Int64UpDownCounter("paraiso.active_sessions",
		metric.WithDescription("Number of open conversations."),
	); err != nil {
		return nil, err
	}

	if met.HTTPRequestDuration, err = m.Float64Histogram("paraiso.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Call it after [InitProvider] so
// the instruments bind to the exporting provider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordTurn records one processed turn and its duration.
func (m *Metrics) RecordTurn(ctx context.Context, state string, d time.Duration) {
	m.Turns.Add(ctx, 1, metric.WithAttributes(attribute.String("state", state)))
	m.TurnDuration.Record(ctx, d.Seconds())
}

// RecordIntent records a classifier outcome. An empty tag counts as unmatched.
func (m *Metrics) RecordIntent(ctx context.Context, tag string) {
	if tag == "" {
		m.IntentsUnmatched.Add(ctx, 1)
		return
	}
	m.IntentsMatched.Add(ctx, 1, metric.WithAttributes(attribute.String("tag", tag)))
}

// RecordCorrection records one token substitution.
func (m *Metrics) RecordCorrection(ctx context.Context, method string) {
	m.Corrections.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
}

// RecordTransition records a dialogue state change.
func (m *Metrics) RecordTransition(ctx context.Context, from, to string) {
	m.StateTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// RecordReservation records a reservation event such as "created".
func (m *Metrics) RecordReservation(ctx context.Context, action string) {
	m.Reservations.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened(ctx context.Context) { m.ActiveSessions.Add(ctx, 1) }

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed(ctx context.Context) { m.ActiveSessions.Add(ctx, -1) }
