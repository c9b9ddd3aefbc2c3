package observe

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics returns a Metrics instance backed by a ManualReader for
// programmatic metric inspection.
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumFor returns the value of the int64 sum data point whose attributes
// contain every key/value in want.
func sumFor(t *testing.T, rm metricdata.ResourceMetrics, name string, want ...attribute.KeyValue) int64 {
	t.Helper()
	met := findMetric(rm, name)
	if met == nil {
		t.Fatalf("metric %q not found", name)
	}
	sum, ok := met.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %q is not an int64 sum", name)
	}
outer:
	for _, dp := range sum.DataPoints {
		for _, kv := range want {
			if v, ok := dp.Attributes.Value(kv.Key); !ok || v != kv.Value {
				continue outer
			}
		}
		return dp.Value
	}
	t.Fatalf("metric %q: no data point with attributes %v", name, want)
	return 0
}

func TestRecordTurn(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordTurn(ctx, "idle", 300*time.Microsecond)
	m.RecordTurn(ctx, "idle", 200*time.Microsecond)
	m.RecordTurn(ctx, "awaiting_dates", time.Millisecond)

	rm := collect(t, reader)
	if got := sumFor(t, rm, "paraiso.turns", attribute.String("state", "idle")); got != 2 {
		t.Errorf("idle turns = %d, want 2", got)
	}

	met := findMetric(rm, "paraiso.turn.duration")
	if met == nil {
		t.Fatal("paraiso.turn.duration not found")
	}
	hist, ok := met.Data.(metricdata.Histogram[float64])
	if !ok || len(hist.DataPoints) == 0 {
		t.Fatal("paraiso.turn.duration has no histogram data")
	}
	if got := hist.DataPoints[0].Count; got != 3 {
		t.Errorf("sample count = %d, want 3", got)
	}
}

func TestRecordIntent(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordIntent(ctx, "saludo")
	m.RecordIntent(ctx, "saludo")
	m.RecordIntent(ctx, "")

	rm := collect(t, reader)
	if got := sumFor(t, rm, "paraiso.intents.matched", attribute.String("tag", "saludo")); got != 2 {
		t.Errorf("matched = %d, want 2", got)
	}
	if got := sumFor(t, rm, "paraiso.intents.unmatched"); got != 1 {
		t.Errorf("unmatched = %d, want 1", got)
	}
}

func TestCounters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordCorrection(ctx, "slang")
	m.RecordCorrection(ctx, "fuzzy")
	m.RecordCorrection(ctx, "fuzzy")
	m.RecordTransition(ctx, "idle", "awaiting_name")
	m.RecordReservation(ctx, "created")

	rm := collect(t, reader)

	tests := []struct {
		name   string
		metric string
		attrs  []attribute.KeyValue
		want   int64
	}{
		{"fuzzy corrections", "paraiso.corrections", []attribute.KeyValue{attribute.String("method", "fuzzy")}, 2},
		{"transitions", "paraiso.state.transitions", []attribute.KeyValue{
			attribute.String("from", "idle"), attribute.String("to", "awaiting_name"),
		}, 1},
		{"reservations", "paraiso.reservations", []attribute.KeyValue{attribute.String("action", "created")}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := sumFor(t, rm, tc.metric, tc.attrs...); got != tc.want {
				t.Errorf("%s = %d, want %d", tc.metric, got, tc.want)
			}
		})
	}
}

func TestActiveSessions(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.SessionOpened(ctx)
	m.SessionOpened(ctx)
	m.SessionClosed(ctx)

	if got := sumFor(t, collect(t, reader), "paraiso.active_sessions"); got != 1 {
		t.Errorf("active sessions = %d, want 1", got)
	}
}

func TestDefaultMetrics_ReturnsSameInstance(t *testing.T) {
	if DefaultMetrics() != DefaultMetrics() {
		t.Error("DefaultMetrics returned different pointers")
	}
}
