// Package metrics exposes Prometheus counters for the cache and the event
// poller. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the console's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	fetchTotal    *prometheus.CounterVec
	staleDropped  *prometheus.CounterVec
	eventsTotal   *prometheus.CounterVec
	handlersTotal *prometheus.CounterVec
	pollsTotal    *prometheus.CounterVec
	pollInterval  prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		fetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cirrus",
				Subsystem: "cache",
				Name:      "requests_total",
				Help:      "Total number of API requests made on behalf of the cache",
			},
			[]string{"kind", "op", "result"},
		),
		staleDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cirrus",
				Subsystem: "cache",
				Name:      "stale_results_total",
				Help:      "Read results dropped because a newer read already completed",
			},
			[]string{"kind"},
		),
		eventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cirrus",
				Subsystem: "events",
				Name:      "dispatched_total",
				Help:      "Total number of account events dispatched",
			},
			[]string{"action", "status"},
		),
		handlersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cirrus",
				Subsystem: "events",
				Name:      "handlers_total",
				Help:      "Total number of event handlers invoked",
			},
			[]string{"result"},
		),
		pollsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cirrus",
				Subsystem: "poller",
				Name:      "polls_total",
				Help:      "Total number of event polls",
			},
			[]string{"result"},
		),
		pollInterval: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "cirrus",
				Subsystem: "poller",
				Name:      "interval_seconds",
				Help:      "Delay before the next event poll",
			},
		),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveFetch counts one API request for kind/op.
func (m *Metrics) ObserveFetch(kind, op string, err error) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(kind, op, result(err)).Inc()
}

// ObserveStale counts a dropped read result.
func (m *Metrics) ObserveStale(kind string) {
	if m == nil {
		return
	}
	m.staleDropped.WithLabelValues(kind).Inc()
}

// ObserveEvent counts one dispatched event.
func (m *Metrics) ObserveEvent(action, status string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(action, status).Inc()
}

// ObserveHandler counts one handler invocation.
func (m *Metrics) ObserveHandler(err error) {
	if m == nil {
		return
	}
	m.handlersTotal.WithLabelValues(result(err)).Inc()
}

// ObservePoll counts one poll and records the next interval.
func (m *Metrics) ObservePoll(err error, next float64) {
	if m == nil {
		return
	}
	m.pollsTotal.WithLabelValues(result(err)).Inc()
	m.pollInterval.Set(next)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
