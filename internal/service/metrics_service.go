package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/acadplan/timetable-api/internal/engine"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// generation engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	runsTotal         *prometheus.CounterVec
	runDuration       *prometheus.HistogramVec
	sessionsCommitted prometheus.Counter
	sessionsUnplaced  prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_runs_total",
		Help: "Total generation runs by scope kind and outcome",
	}, []string{"scope", "status"})

	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_run_duration_seconds",
		Help:    "Wall-clock duration of generation runs",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"scope"})

	sessionsCommitted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_sessions_committed_total",
		Help: "Sessions committed across all generation runs",
	})

	sessionsUnplaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_sessions_unplaced_total",
		Help: "Sessions left unplaced across all generation runs",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, runsTotal, runDuration, sessionsCommitted, sessionsUnplaced, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		runsTotal:         runsTotal,
		runDuration:       runDuration,
		sessionsCommitted: sessionsCommitted,
		sessionsUnplaced:  sessionsUnplaced,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveGenerationRun records the outcome of one generation run.
func (m *MetricsService) ObserveGenerationRun(scopeKind, status string, duration time.Duration, result *engine.Result) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(scopeKind, status).Inc()
	m.runDuration.WithLabelValues(scopeKind).Observe(duration.Seconds())
	if result != nil {
		m.sessionsCommitted.Add(float64(result.Stats["sessions_committed"]))
		m.sessionsUnplaced.Add(float64(result.Stats["sessions_unplaced"]))
	}
}
