package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts logger activity in a private Prometheus registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Emitted      *prometheus.CounterVec
	Filtered     *prometheus.CounterVec
	SinkFailures *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers the logger counters.
func NewMetrics() *Metrics {
	m := &Metrics{
		Emitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ogit",
			Subsystem: "log",
			Name:      "events_emitted_total",
			Help:      "Total number of events that passed the level filter.",
		}, []string{"level"}),
		Filtered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ogit",
			Subsystem: "log",
			Name:      "events_filtered_total",
			Help:      "Total number of events dropped by the level filter.",
		}, []string{"level"}),
		SinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ogit",
			Subsystem: "log",
			Name:      "sink_failures_total",
			Help:      "Total number of failed deliveries by sink.",
		}, []string{"sink"}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.Emitted, m.Filtered, m.SinkFailures)
	return m
}

// Registry exposes the registry the counters live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the counters in the node exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

func (m *Metrics) observeEmitted(level Level) {
	if m == nil {
		return
	}
	m.Emitted.WithLabelValues(level.String()).Inc()
}

func (m *Metrics) observeFiltered(level Level) {
	if m == nil {
		return
	}
	m.Filtered.WithLabelValues(level.String()).Inc()
}

func (m *Metrics) observeSinkFailure(sink string) {
	if m == nil {
		return
	}
	m.SinkFailures.WithLabelValues(sink).Inc()
}
