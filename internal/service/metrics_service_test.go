package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()
	m.RecordOccurrences([]models.Occurrence{
		{Origin: models.OriginRecurring},
		{Origin: models.OriginRecurring},
		{Origin: models.OriginPostponed},
	})
	m.RecordFreeSlotParts(4)
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/students/:id/schedule", http.StatusOK, 5*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.occurrences.WithLabelValues("recurring")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.occurrences.WithLabelValues("postponed")))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.freeSlotParts))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/api/v1/students/:id/schedule", "200")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "schedule_occurrences_total")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.RecordOccurrences([]models.Occurrence{{Origin: models.OriginRecurring}})
	m.RecordFreeSlotParts(1)
	m.ObserveDBQuery("x", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
