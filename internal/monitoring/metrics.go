// Package monitoring collects prometheus metrics for the HTTP layer, the
// engine dispatch, and the memoization cache.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus collectors.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Engine metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSFrames      *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates and registers the metrics collector. Register once per
// process; collectors go to the default registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mathcore_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mathcore_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		OperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mathcore_operations_total",
				Help: "Total number of engine operations by outcome",
			},
			[]string{"operation", "status"},
		),
		OperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mathcore_operation_duration_seconds",
				Help:    "Engine operation duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"operation"},
		),
		CacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mathcore_cache_hits_total",
				Help: "Memoization cache hits",
			},
		),
		CacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mathcore_cache_misses_total",
				Help: "Memoization cache misses",
			},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mathcore_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSFrames: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mathcore_ws_frames_total",
				Help: "Total number of WebSocket frames",
			},
			[]string{"direction"},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mathcore_uptime_seconds",
				Help: "Server uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric.
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records one HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveOperation records one engine dispatch; implements engine.Observer.
func (m *Metrics) ObserveOperation(operation, status string, duration time.Duration) {
	m.OperationsTotal.WithLabelValues(operation, status).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveCache records one cache lookup; implements engine.Observer.
func (m *Metrics) ObserveCache(hit bool) {
	if hit {
		m.CacheHits.Inc()
		return
	}
	m.CacheMisses.Inc()
}

// IncWSConnections increments the WebSocket connection gauge.
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements the WebSocket connection gauge.
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// RecordWSFrame records one WebSocket frame in the given direction
// ("in" or "out").
func (m *Metrics) RecordWSFrame(direction string) {
	m.WSFrames.WithLabelValues(direction).Inc()
}
