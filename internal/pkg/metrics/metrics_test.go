package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveMutation("book", nil)
		m.ObservePersist(time.Millisecond, errors.New("disk full"))
		m.SetRoomCounts(1, 1, 0)
		m.ObserveRequest(http.MethodGet, "/rooms", http.StatusOK, time.Millisecond)
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("hotel_test", prometheus.NewRegistry())

	m.ObserveMutation("book", nil)
	m.ObserveMutation("book", nil)
	m.ObserveMutation("book", errors.New("already booked"))
	m.ObservePersist(time.Millisecond, errors.New("disk full"))
	m.SetRoomCounts(3, 2, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MutationsTotal.WithLabelValues("book", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MutationsTotal.WithLabelValues("book", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rooms.WithLabelValues("booked")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("hotel_test", prometheus.NewRegistry())
	m.SetRoomCounts(3, 2, 1)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `hotel_test_hotel_rooms{state="available"} 2`)
}
