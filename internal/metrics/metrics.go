// Package metrics holds the Prometheus collectors for the hall of fame and its transport.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "quicksums"

// Metrics is nil-safe: every method is a no-op on a nil receiver.
type Metrics struct {
	Registry *prometheus.Registry

	roundsRecorded prometheus.Counter
	recordFailures prometheus.Counter
	requests       *prometheus.CounterVec
	subscribers    prometheus.Gauge
	cacheLookups   *prometheus.CounterVec
}

// New creates collectors on a dedicated registry, including Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		roundsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_recorded_total",
			Help:      "Rounds saved to the hall of fame.",
		}),
		recordFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "round_record_failures_total",
			Help:      "Rounds that could not be saved.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaderboard_requests_total",
			Help:      "Leaderboard reads by transport.",
		}, []string{"transport"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "leaderboard_subscribers",
			Help:      "Live leaderboard subscribers.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaderboard_cache_lookups_total",
			Help:      "Leaderboard cache lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.roundsRecorded,
		m.recordFailures,
		m.requests,
		m.subscribers,
		m.cacheLookups,
	)
	return m
}

func (m *Metrics) RoundRecorded() {
	if m == nil {
		return
	}
	m.roundsRecorded.Inc()
}

func (m *Metrics) RecordFailed() {
	if m == nil {
		return
	}
	m.recordFailures.Inc()
}

func (m *Metrics) LeaderboardRequest(transport string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(transport).Inc()
}

func (m *Metrics) SubscriberAdded() {
	if m == nil {
		return
	}
	m.subscribers.Inc()
}

func (m *Metrics) SubscriberRemoved() {
	if m == nil {
		return
	}
	m.subscribers.Dec()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}
