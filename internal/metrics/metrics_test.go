package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsByResult(t *testing.T) {
	m := New()

	m.ObserveFetch("instances", "read", nil)
	m.ObserveFetch("instances", "read", nil)
	m.ObserveFetch("instances", "read", errors.New("boom"))

	if got := testutil.ToFloat64(m.fetchTotal.WithLabelValues("instances", "read", "ok")); got != 2 {
		t.Fatalf("ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.fetchTotal.WithLabelValues("instances", "read", "error")); got != 1 {
		t.Fatalf("error count = %v, want 1", got)
	}

	m.ObservePoll(nil, 2)
	if got := testutil.ToFloat64(m.pollInterval); got != 2 {
		t.Fatalf("poll interval = %v, want 2", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFetch("volumes", "read", nil)
	m.ObserveStale("volumes")
	m.ObserveEvent("volume_create", "finished")
	m.ObserveHandler(nil)
	m.ObservePoll(nil, 16)
	if m.Registry() != nil {
		t.Fatalf("Registry on nil metrics should be nil")
	}
}

func TestMetrics_HandlerServesText(t *testing.T) {
	m := New()
	m.ObserveEvent("linode_boot", "started")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `cirrus_events_dispatched_total{action="linode_boot",status="started"} 1`) {
		t.Fatalf("metrics output missing event counter:\n%s", body)
	}
}
