package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := MustNew(prometheus.NewRegistry())

	m.ObserveSweep(time.Second, nil)
	m.ObserveSweep(time.Second, errors.New("boom"))
	m.Reminder(ResultSent, false)
	m.Reminder(ResultSent, true)
	m.Reminder(ResultSent, true)
	m.LedgerOp("pay", nil)
	m.ObserveHTTP("GET", "", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweepRuns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweepRuns.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reminders.WithLabelValues(ResultSent, "manual")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ledgerOps.WithLabelValues("pay", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSweep(time.Second, nil)
		m.Reminder(ResultFailed, false)
		m.LedgerOp("edit", nil)
		m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
	})
}
