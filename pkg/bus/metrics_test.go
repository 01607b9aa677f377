package bus

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TestMetricsExposed verifies that bus activity shows up in the default
// Prometheus registry under the expected metric names.
func TestMetricsExposed(t *testing.T) {
	b := New()
	o := &recorder{}
	b.Subscribe(damage, o)
	b.Subscribe(damage, o) // duplicate, counted separately
	b.Publish(damageEvent{Amount: 1})
	b.Publish(healEvent{Amount: 1}) // no subscribers, dropped
	b.Unsubscribe(damage, o)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	promhttp.Handler().ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("/metrics status=%d", rr.Code)
	}
	body := rr.Body.Bytes()
	for _, name := range []string{
		"eventhub_bus_publishes_total",
		"eventhub_bus_deliveries_total",
		"eventhub_bus_dropped_publishes_total",
		"eventhub_bus_duplicate_subscribes_total",
		"eventhub_bus_missed_unsubscribes_total",
	} {
		if !bytes.Contains(body, []byte(name)) {
			t.Fatalf("expected %s in metrics output", name)
		}
	}
}
