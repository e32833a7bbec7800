// Package metrics exposes the Prometheus collectors of the API process.
package metrics

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hr_admin"

// Metrics holds every collector on a private registry. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	attendanceEvents  *prometheus.CounterVec
	recalculations    *prometheus.CounterVec
	idempotentReplays prometheus.Counter
	rateLimited       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		attendanceEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attendance_events_total",
			Help:      "Recorded attendance events by type and source.",
		}, []string{"event_type", "source"}),
		recalculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vacation_recalculations_total",
			Help:      "Vacation balance recalculations by outcome.",
		}, []string{"outcome"}),
		idempotentReplays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "terminal_idempotent_replays_total",
			Help:      "Terminal requests answered from the idempotency store.",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "terminal_rate_limited_total",
			Help:      "Terminal requests rejected by the per-device rate limit.",
		}, []string{"device"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.attendanceEvents,
		m.recalculations,
		m.idempotentReplays,
		m.rateLimited,
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      promLogger{},
		ErrorHandling: promhttp.ContinueOnError,
	})
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, fmt.Sprint(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) AttendanceRecorded(eventType, source string) {
	if m == nil {
		return
	}
	m.attendanceEvents.WithLabelValues(eventType, source).Inc()
}

func (m *Metrics) VacationRecalculated(outcome string) {
	if m == nil {
		return
	}
	m.recalculations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IdempotentReplay() {
	if m == nil {
		return
	}
	m.idempotentReplays.Inc()
}

func (m *Metrics) RateLimited(device string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(device).Inc()
}

// promLogger routes promhttp errors to slog.
type promLogger struct{}

func (promLogger) Println(v ...interface{}) {
	slog.Error("metrics handler error", "error", fmt.Sprint(v...))
}
