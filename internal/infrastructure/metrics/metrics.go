// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "subtrack"

// Reminder outcomes.
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

type Metrics struct {
	sweepRuns     *prometheus.CounterVec
	sweepDuration prometheus.Histogram
	reminders     *prometheus.CounterVec
	ledgerOps     *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default returns the instance registered with the global registry.
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNew(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNew registers a fresh set of collectors with reg and panics on a
// duplicate registration. Tests pass their own prometheus.NewRegistry().
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		sweepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "sweep_runs_total",
			Help:      "Reminder sweeps by outcome.",
		}, []string{"status"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of one reminder sweep.",
			Buckets:   prometheus.DefBuckets,
		}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "reminders_total",
			Help:      "Reminders considered by the sweep or sent manually, by result.",
		}, []string{"result", "trigger"}),
		ledgerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger mutations by operation and outcome.",
		}, []string{"op", "status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(m.sweepRuns, m.sweepDuration, m.reminders, m.ledgerOps, m.httpRequests, m.httpDuration)
	return m
}

// All methods are no-ops on a nil receiver.

func (m *Metrics) ObserveSweep(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.sweepRuns.WithLabelValues(status(err)).Inc()
	m.sweepDuration.Observe(d.Seconds())
}

func (m *Metrics) Reminder(result string, manual bool) {
	if m == nil {
		return
	}
	trigger := "sweep"
	if manual {
		trigger = "manual"
	}
	m.reminders.WithLabelValues(result, trigger).Inc()
}

func (m *Metrics) LedgerOp(op string, err error) {
	if m == nil {
		return
	}
	m.ledgerOps.WithLabelValues(op, status(err)).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
