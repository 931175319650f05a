package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/exam-seating/internal/models"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordSeatingRun("", 45, time.Millisecond)
	m.RecordSeatingRun("CAPACITY_ERROR", 0, time.Millisecond)
	m.RecordExport(models.ExportFormatCSV, "sync")
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/seating/plan", 200, 2*time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.CacheHits)
	assert.InDelta(t, 2.0/3.0, snap.CacheHitRatio, 0.0001)
	assert.Equal(t, uint64(2), snap.SeatingRuns)
	assert.Equal(t, uint64(1), snap.SeatingFailures)
	assert.Equal(t, uint64(1), snap.ExportsGenerated)
	assert.Equal(t, uint64(1), snap.RequestsTotal)
}

func TestMetricsServiceHandlerExposesSeatingCounters(t *testing.T) {
	m := NewMetricsService()
	m.RecordSeatingRun("", 10, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `seating_runs_total{code="",outcome="SUCCESS"} 1`))
	assert.True(t, strings.Contains(body, "seating_seats_filled_count 1"))
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	m.RecordSeatingRun("", 1, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	assert.Equal(t, models.MetricsSnapshot{}, m.Snapshot())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
