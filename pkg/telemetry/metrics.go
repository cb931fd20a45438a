// Package telemetry provides the Prometheus metrics and OpenTelemetry spans
// recorded by the renderer and the preview server.
package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the metrics.
type Config struct {
	// Namespace is the metrics namespace (default: "funa").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the metrics.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "funa",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the render and preview metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	compiles       prometheus.Counter
	updates        *prometheus.CounterVec
	listOps        *prometheus.CounterVec
	events         *prometheus.CounterVec
	errors         *prometheus.CounterVec
	sessions       prometheus.Gauge
	reloads        prometheus.Counter
}

// NewMetrics registers the metrics with the configured registry.
//
// Metrics collected:
//   - funa_renders_total: renders by template and status
//   - funa_render_duration_seconds: render duration by template
//   - funa_templates_compiled_total: compiled template declarations
//   - funa_updates_total: reactive updates by kind (text, attribute, element, bind)
//   - funa_list_operations_total: list reconciliation operations by op
//   - funa_events_total: dispatched handlers by event and status
//   - funa_errors_total: errors by code
//   - funa_preview_sessions: open preview sessions
//   - funa_preview_reloads_total: reloads broadcast by the preview server
func NewMetrics(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of template renders",
			ConstLabels: config.ConstLabels,
		}, []string{"template", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Template render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"template"}),

		compiles: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "templates_compiled_total",
			Help:        "Total number of compiled template declarations",
			ConstLabels: config.ConstLabels,
		}),

		updates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "updates_total",
			Help:        "Total number of reactive updates applied to the host tree",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		listOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "list_operations_total",
			Help:        "Total number of list reconciliation operations",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of dispatched event handlers",
			ConstLabels: config.ConstLabels,
		}, []string{"event", "status"}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "errors_total",
			Help:        "Total errors by code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "preview_sessions",
			Help:        "Number of open preview sessions",
			ConstLabels: config.ConstLabels,
		}),

		reloads: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "preview_reloads_total",
			Help:        "Total number of reloads broadcast to preview clients",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObserveRender records one render of template.
func (m *Metrics) ObserveRender(template string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(template, status(err)).Inc()
	m.renderDuration.WithLabelValues(template).Observe(d.Seconds())
	m.ObserveError(err)
}

// IncCompiled records one compiled template declaration.
func (m *Metrics) IncCompiled() {
	if m == nil {
		return
	}
	m.compiles.Inc()
}

// IncUpdate records one reactive update of the given kind.
func (m *Metrics) IncUpdate(kind string) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(kind).Inc()
}

// AddListOps records n list operations of the given kind.
func (m *Metrics) AddListOps(op string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.listOps.WithLabelValues(op).Add(float64(n))
}

// ObserveEvent records one handler run for event.
func (m *Metrics) ObserveEvent(event string, err error) {
	if m == nil {
		return
	}
	if event == "" {
		event = "mount"
	}
	m.events.WithLabelValues(event, status(err)).Inc()
	m.ObserveError(err)
}

// ObserveError counts err by its code. Nil errors are ignored.
func (m *Metrics) ObserveError(err error) {
	if m == nil || err == nil {
		return
	}
	m.errors.WithLabelValues(ErrorCode(err)).Inc()
}

// SessionOpened records a new preview session.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

// SessionClosed records a closed preview session.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}

// IncReload records one broadcast reload.
func (m *Metrics) IncReload() {
	if m == nil {
		return
	}
	m.reloads.Inc()
}

// ErrorCode returns the code of the first error in err's chain that has
// one, or "unknown".
func ErrorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return "unknown"
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
