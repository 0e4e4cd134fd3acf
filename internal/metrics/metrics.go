// Package metrics provides Prometheus metrics for the wordquiz server.
//
// All recording methods are safe to call on a nil *Manager, which lets
// services and tests run without a registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the registry and every collector the server exports
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	leaderboardDuration *prometheus.HistogramVec
	leaderboardErrors   *prometheus.CounterVec

	scoreSubmissions *prometheus.CounterVec
	authAttempts     *prometheus.CounterVec
}

// Option configures a Manager
type Option func(*Manager)

// WithNamespace sets the namespace prefix for all metrics
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets the buckets used by latency histograms
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRegistry uses an existing registry instead of a fresh one
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates a Manager and registers its collectors
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "wordquiz",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and method",
		Buckets:   m.buckets,
	}, []string{"route", "method"})

	m.leaderboardDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "leaderboard",
		Name:      "rank_duration_seconds",
		Help:      "Time spent computing a leaderboard from raw score events",
		Buckets:   m.buckets,
	}, []string{"window"})

	m.leaderboardErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "leaderboard",
		Name:      "errors_total",
		Help:      "Leaderboard computations that failed because data was unavailable",
	}, []string{"window"})

	m.scoreSubmissions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scores",
		Name:      "submissions_total",
		Help:      "Accepted score submissions",
	}, []string{"challenge"})

	m.authAttempts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "auth",
		Name:      "attempts_total",
		Help:      "Login attempts by principal kind and outcome",
	}, []string{"kind", "outcome"})

	return m
}

// Registry exposes the underlying registry
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one served request
func (m *Manager) ObserveHTTPRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveLeaderboard records one leaderboard computation
func (m *Manager) ObserveLeaderboard(window string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.leaderboardDuration.WithLabelValues(window).Observe(d.Seconds())
	if err != nil {
		m.leaderboardErrors.WithLabelValues(window).Inc()
	}
}

// IncScoreSubmission counts an accepted score submission
func (m *Manager) IncScoreSubmission(challenge bool) {
	if m == nil {
		return
	}
	m.scoreSubmissions.WithLabelValues(strconv.FormatBool(challenge)).Inc()
}

// IncAuthAttempt counts a login attempt; outcome is "success" or "failure"
func (m *Manager) IncAuthAttempt(kind, outcome string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(kind, outcome).Inc()
}
