package compiler

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/flowcompiler/metric"
)

// compilerMetrics holds Prometheus metrics for flow compilation. A nil
// *compilerMetrics means instrumentation is disabled; every record method
// tolerates that, so disabling instrumentation never changes compile
// behavior.
type compilerMetrics struct {
	compiles        *prometheus.CounterVec   // by compiler and status (success/failure)
	compileDuration *prometheus.HistogramVec // by compiler, successful compiles only
	topologies      prometheus.Gauge         // currently registered topologies
}

// newCompilerMetrics creates and registers compiler metrics with the
// provided registry. A nil registry disables instrumentation.
func newCompilerMetrics(registry *metric.MetricsRegistry) (*compilerMetrics, error) {
	if registry == nil {
		return nil, nil
	}

	m := &compilerMetrics{
		compiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowcompiler",
			Subsystem: "compile",
			Name:      "flows_total",
			Help:      "Total number of flow compilation attempts",
		}, []string{"compiler", "status"}),

		compileDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flowcompiler",
			Subsystem: "compile",
			Name:      "duration_seconds",
			Help:      "Flow compilation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}, []string{"compiler"}),

		topologies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flowcompiler",
			Subsystem: "registry",
			Name:      "topologies",
			Help:      "Current number of registered topologies",
		}),
	}

	if err := registry.RegisterCounterVec("compiler", "flows", m.compiles); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogramVec("compiler", "duration", m.compileDuration); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge("compiler", "topologies", m.topologies); err != nil {
		return nil, err
	}

	return m, nil
}

// recordCompile records one compile attempt. Duration is recorded for
// successful compilations only.
func (m *compilerMetrics) recordCompile(compiler string, success bool, seconds float64) {
	if m == nil {
		return
	}

	status := "success"
	if !success {
		status = "failure"
	}

	m.compiles.WithLabelValues(compiler, status).Inc()
	if success {
		m.compileDuration.WithLabelValues(compiler).Observe(seconds)
	}
}

// recordTopologyCount tracks the registry size after a notification.
func (m *compilerMetrics) recordTopologyCount(count int) {
	if m == nil {
		return
	}
	m.topologies.Set(float64(count))
}
