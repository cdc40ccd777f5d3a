package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all prometheus metrics. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	MutationsTotal  *prometheus.CounterVec
	PersistDuration prometheus.Histogram
	PersistFailures prometheus.Counter
	Rooms           *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers the metrics on reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated from the default registry.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken to serve HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		MutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hotel_mutations_total",
			Help:      "The total number of hotel mutations by operation and result",
		}, []string{"operation", "result"}),
		PersistDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "hotel_persist_duration_seconds",
			Help:      "Time taken to write the hotel file",
			Buckets:   prometheus.DefBuckets,
		}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hotel_persist_failures_total",
			Help:      "The total number of failed hotel file writes",
		}),
		Rooms: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hotel_rooms",
			Help:      "Number of rooms by state",
		}, []string{"state"}),
		gatherer: reg,
	}
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveMutation counts one hotel mutation; result is "ok" or "error".
func (m *Metrics) ObserveMutation(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.MutationsTotal.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) ObservePersist(elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.PersistDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) SetRoomCounts(total, available, booked int) {
	if m == nil {
		return
	}
	m.Rooms.WithLabelValues("total").Set(float64(total))
	m.Rooms.WithLabelValues("available").Set(float64(available))
	m.Rooms.WithLabelValues("booked").Set(float64(booked))
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
