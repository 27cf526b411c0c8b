package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()

	m.ObserveHTTPRequest(http.MethodGet, "/health", 200, 10*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/health", 200, 30*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.ObserveDBQuery("seating_load", 4*time.Millisecond)
	m.ObserveSeatingRun(RunOutcomeSuccess, 5*time.Millisecond, 12, 1)
	m.ObserveSeatingRun(RunOutcomeRejected, 0, 0, 0)

	snap := m.Snapshot()
	assert.EqualValues(t, 2, snap.RequestsTotal)
	assert.InDelta(t, 20.0, snap.AverageRequestDurationMs, 0.001)
	assert.InDelta(t, 2.0/3.0, snap.CacheHitRatio, 0.0001)
	assert.EqualValues(t, 1, snap.DBQueryCount)
	assert.EqualValues(t, 1, snap.SeatingRuns)
}

func TestMetricsServiceExposesSeatingCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveSeatingRun(RunOutcomeSuccess, time.Millisecond, 3, 0)
	m.RecordSwap()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `seating_runs_total{outcome="success"} 1`)
	assert.Contains(t, body, "seating_swaps_total 1")
	assert.Contains(t, body, "seating_run_duration_seconds_count 1")
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveSeatingRun(RunOutcomeFailed, time.Second, 0, 0)
	m.RecordSwap()
	m.RecordCacheOperation(true, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Zero(t, m.Snapshot().RequestsTotal)
}
