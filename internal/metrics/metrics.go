// Package metrics holds the prometheus collectors for the request lifecycle.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the workbench collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	actions  *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	refused  *prometheus.CounterVec
	stale    *prometheus.CounterVec
	inFlight prometheus.Gauge
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workbench_actions_total",
				Help: "Completed actions by outcome.",
			},
			[]string{"action", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "workbench_dispatch_duration_seconds",
				Help:    "Round-trip time of analysis requests.",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"action"},
		),
		refused: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workbench_refused_total",
				Help: "Chained actions refused because the displayed artifact had the wrong kind.",
			},
			[]string{"action"},
		),
		stale: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workbench_stale_completions_total",
				Help: "Completions dropped because a newer request on the same lane was dispatched.",
			},
			[]string{"lane"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workbench_requests_in_flight",
			Help: "Requests dispatched and not yet completed.",
		}),
	}
	reg.MustRegister(m.actions, m.latency, m.refused, m.stale, m.inFlight)
	return m
}

// ObserveDispatch records the round trip of one request
func (m *Metrics) ObserveDispatch(action string, d time.Duration) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(action).Observe(d.Seconds())
}

// Completed counts a completion with its outcome label
func (m *Metrics) Completed(action, outcome string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action, outcome).Inc()
}

// Refused counts a gate refusal
func (m *Metrics) Refused(action string) {
	if m == nil {
		return
	}
	m.refused.WithLabelValues(action).Inc()
}

// Stale counts a dropped completion
func (m *Metrics) Stale(lane string) {
	if m == nil {
		return
	}
	m.stale.WithLabelValues(lane).Inc()
}

// Started marks a request as in flight
func (m *Metrics) Started() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

// Finished marks a request as no longer in flight
func (m *Metrics) Finished() {
	if m == nil {
		return
	}
	m.inFlight.Dec()
}
