package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Validation results used as metric labels.
const (
	ResultValid     = "valid"
	ResultRejected  = "rejected"
	ResultMalformed = "malformed"
)

// Metrics provides Prometheus metrics for card config validation.
type Metrics struct {
	config MetricsConfig

	validations        *prometheus.CounterVec
	validationErrors   *prometheus.CounterVec
	validationDuration *prometheus.HistogramVec
	deprecations       *prometheus.CounterVec
	policyViolations   *prometheus.CounterVec
	configuredEntities *prometheus.GaugeVec
	lastSuccess        prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DurationBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of card config validations by result",
			},
			[]string{"result"},
		),
		validationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Total number of rejected card configs by error kind",
			},
			[]string{"kind"},
		),
		validationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Duration of card config validation in seconds",
				Buckets:   buckets,
			},
			[]string{"result"},
		),
		deprecations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deprecations_total",
				Help:      "Total number of deprecated fields accepted",
			},
			[]string{"field"},
		),
		policyViolations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "policy_violations_total",
				Help:      "Total number of lint policy violations by policy and severity",
			},
			[]string{"policy", "severity"},
		),
		configuredEntities: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "configured_entities",
				Help:      "Entities referenced by the last valid config, by data source",
			},
			[]string{"source"},
		),
		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_valid_config_timestamp_seconds",
				Help:      "Unix time of the last successful validation",
			},
		),
	}

	registry.MustRegister(
		m.validations,
		m.validationErrors,
		m.validationDuration,
		m.deprecations,
		m.policyViolations,
		m.configuredEntities,
		m.lastSuccess,
	)

	return m, nil
}

// RecordValidation records one validation run with its result and duration.
func (m *Metrics) RecordValidation(result string, duration time.Duration) {
	if m.validations == nil {
		return
	}
	m.validations.WithLabelValues(result).Inc()
	m.validationDuration.WithLabelValues(result).Observe(duration.Seconds())
	if result == ResultValid {
		m.lastSuccess.SetToCurrentTime()
	}
}

// RecordValidationError records a rejected config by error kind.
func (m *Metrics) RecordValidationError(kind string) {
	if m.validationErrors == nil {
		return
	}
	m.validationErrors.WithLabelValues(kind).Inc()
}

// RecordDeprecation records an accepted deprecated field.
func (m *Metrics) RecordDeprecation(field string) {
	if m.deprecations == nil {
		return
	}
	m.deprecations.WithLabelValues(field).Inc()
}

// RecordPolicyViolation records a lint policy violation.
func (m *Metrics) RecordPolicyViolation(policy, severity string) {
	if m.policyViolations == nil {
		return
	}
	m.policyViolations.WithLabelValues(policy, severity).Inc()
}

// SetConfiguredEntities sets the entity counts of the last valid config.
func (m *Metrics) SetConfiguredEntities(raw, statistics int) {
	if m.configuredEntities == nil {
		return
	}
	m.configuredEntities.WithLabelValues("raw").Set(float64(raw))
	m.configuredEntities.WithLabelValues("statistics").Set(float64(statistics))
}

// Registry returns the private registry, nil when metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// ServeMetrics exposes the metrics endpoint on addr until ctx ends. An empty
// addr uses the configured listen address.
func (m *Metrics) ServeMetrics(ctx context.Context, addr string, logger *Logger) error {
	if !m.config.Enabled {
		return nil
	}
	if addr == "" {
		addr = m.config.ListenAddress
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("metrics server stopped")
		}
	}()

	logger.Infof("serving metrics on %s%s", addr, m.config.Path)
	return nil
}
