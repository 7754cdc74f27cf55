// Package metrics provides Prometheus metrics for roadready.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roadready/roadready/internal/scoring"
)

// averageBuckets cover the 1..5 score ladder in half steps.
var averageBuckets = []float64{1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5}

// Manager owns the roadready collectors and the registry they live on.
type Manager struct {
	namespace      string
	latencyBuckets []float64
	enabled        bool
	registry       *prometheus.Registry

	readinessEvaluations *prometheus.CounterVec
	readinessAverage     prometheus.Histogram
	skillRatings         prometheus.Counter

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a metrics manager. Without WithRegistry it registers
// on a fresh registry, so several managers can coexist in tests.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "roadready",
		latencyBuckets: prometheus.DefBuckets,
		enabled:        true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.readinessEvaluations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "readiness_evaluations_total",
		Help:      "Readiness evaluations after a rating, by verdict.",
	}, []string{"ready"})

	m.readinessAverage = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "readiness_average",
		Help:      "Overall rated average at evaluation time.",
		Buckets:   averageBuckets,
	})

	m.skillRatings = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "skill_ratings_total",
		Help:      "Skill ratings recorded.",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   m.latencyBuckets,
	}, []string{"route", "method"})
}

// ObserveReadiness records one readiness evaluation. Evaluations with no
// rated skills are counted but kept out of the average histogram.
func (m *Manager) ObserveReadiness(r scoring.Readiness) {
	if !m.enabled {
		return
	}
	m.readinessEvaluations.WithLabelValues(strconv.FormatBool(r.Ready)).Inc()
	if r.Avg > 0 {
		m.readinessAverage.Observe(r.Avg)
	}
}

// SkillRated counts one recorded skill rating.
func (m *Manager) SkillRated() {
	if !m.enabled {
		return
	}
	m.skillRatings.Inc()
}

// ObserveHTTPRequest records a served request.
func (m *Manager) ObserveHTTPRequest(route, method string, code int, d time.Duration) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// Registry returns the registry the collectors are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
