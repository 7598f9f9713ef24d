package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveJob("overdue_scan", time.Second, nil)
		m.ObserveNotification("SMS", "sent")
		m.ObserveTransition("cancelled")
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := New("scheduling")

	m.ObserveJob("overdue_scan", time.Millisecond, nil)
	m.ObserveJob("overdue_scan", time.Millisecond, errors.New("boom"))
	m.ObserveNotification("EMAIL", "failed")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRunsTotal.WithLabelValues("overdue_scan", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRunsTotal.WithLabelValues("overdue_scan", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("EMAIL", "failed")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "scheduler_job_runs_total")
}
