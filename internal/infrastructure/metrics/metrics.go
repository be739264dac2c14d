// Package metrics exposes request and validation counters in the
// Prometheus text format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "keyserver"

// Recorder is what the application layer reports to. Nop satisfies it when
// metrics are disabled.
type Recorder interface {
	ObserveAction(action string, success bool, elapsed time.Duration)
	ObserveValidation(outcome string, newlyBound bool)
	ObserveVersionConflict()
}

type Metrics struct {
	registry         *prometheus.Registry
	actions          *prometheus.CounterVec
	actionDuration   *prometheus.HistogramVec
	validations      *prometheus.CounterVec
	deviceBindings   prometheus.Counter
	versionConflicts prometheus.Counter
	keys             *prometheus.GaugeVec
	applications     prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Dispatched /auth actions by outcome.",
		}, []string{"action", "success"}),
		actionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_duration_seconds",
			Help:      "Time spent handling /auth actions.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Key validations by outcome.",
		}, []string{"outcome"}),
		deviceBindings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "device_bindings_total",
			Help:      "Devices newly bound to a key.",
		}),
		versionConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_conflicts_total",
			Help:      "Key writes retried after a concurrent update.",
		}),
		keys: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "keys",
			Help:      "License keys by derived status, as of the last inventory run.",
		}, []string{"status"}),
		applications: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "applications",
			Help:      "Registered applications, as of the last inventory run.",
		}),
	}
	reg.MustRegister(m.actions, m.actionDuration, m.validations, m.deviceBindings, m.versionConflicts, m.keys, m.applications)
	return m
}

func (m *Metrics) ObserveAction(action string, success bool, elapsed time.Duration) {
	outcome := "false"
	if success {
		outcome = "true"
	}
	m.actions.WithLabelValues(action, outcome).Inc()
	m.actionDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// ObserveValidation counts one validation; outcome is "ok" or a failure
// reason code.
func (m *Metrics) ObserveValidation(outcome string, newlyBound bool) {
	m.validations.WithLabelValues(outcome).Inc()
	if newlyBound {
		m.deviceBindings.Inc()
	}
}

func (m *Metrics) ObserveVersionConflict() {
	m.versionConflicts.Inc()
}

// Inventory is a point-in-time count of the registry contents.
type Inventory struct {
	Total        int
	Active       int
	Banned       int
	Expired      int
	Applications int64
}

// SetInventory replaces the inventory gauges. Inactive keys are derived from
// the total.
func (m *Metrics) SetInventory(inv Inventory) {
	inactive := inv.Total - inv.Active - inv.Banned - inv.Expired
	if inactive < 0 {
		inactive = 0
	}
	m.keys.WithLabelValues("active").Set(float64(inv.Active))
	m.keys.WithLabelValues("banned").Set(float64(inv.Banned))
	m.keys.WithLabelValues("expired").Set(float64(inv.Expired))
	m.keys.WithLabelValues("inactive").Set(float64(inactive))
	m.applications.Set(float64(inv.Applications))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

type nop struct{}

// Nop discards every observation.
func Nop() Recorder { return nop{} }

func (nop) ObserveAction(string, bool, time.Duration) {}
func (nop) ObserveValidation(string, bool)            {}
func (nop) ObserveVersionConflict()                   {}
