package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordPriceTickCounts(t *testing.T) {
	m := New()

	m.RecordPriceTick(5, 2)
	m.RecordPriceTick(3, 0)

	if got := testutil.ToFloat64(m.priceTicks); got != 2 {
		t.Fatalf("ticks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.priceUpdates); got != 8 {
		t.Fatalf("delivered = %v, want 8", got)
	}
	if got := testutil.ToFloat64(m.priceDropped); got != 2 {
		t.Fatalf("dropped = %v, want 2", got)
	}
}

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics

	// None of these may panic on the nil receiver.
	m.RecordPriceTick(1, 1)
	m.RecordHTTPRequest("GET", "/skins", "200", 0)
	m.IncrementInFlight()
	m.DecrementInFlight()
	m.SetActiveSubscriptions(3)

	rec := m.Handler()
	if rec == nil {
		t.Fatal("nil metrics should still return a handler")
	}
}
