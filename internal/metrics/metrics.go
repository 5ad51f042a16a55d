// Package metrics records registry and export activity with Prometheus
// collectors kept on a private registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup and export result labels.
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultSuccess  = "success"
	ResultFailure  = "failure"
)

// SinkFile labels the local JSON file in sanartes_exports_total.
const SinkFile = "file"

// Metrics provides observability for the registry and its exports.
type Metrics struct {
	registry *prometheus.Registry

	// Beneficiaries registered through the menu
	BeneficiariesAdded prometheus.Counter

	// Beneficiary lookups by result
	Lookups *prometheus.CounterVec

	// Consolidated reports built
	ReportsGenerated prometheus.Counter

	// Export attempts by sink and result
	Exports *prometheus.CounterVec

	// Per sink publish latency
	ExportLatency *prometheus.HistogramVec

	// Beneficiaries currently held by the registry
	RegistryBeneficiaries prometheus.Gauge
}

// New creates a Metrics instance with every collector registered on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		BeneficiariesAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "sanartes_beneficiaries_added_total",
			Help: "Total beneficiaries registered",
		}),

		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sanartes_lookups_total",
			Help: "Total beneficiary lookups by result",
		}, []string{"result"}), // result: "found", "not_found"

		ReportsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "sanartes_reports_generated_total",
			Help: "Total consolidated reports generated",
		}),

		Exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sanartes_exports_total",
			Help: "Total report exports by sink and result",
		}, []string{"sink", "result"}),

		ExportLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sanartes_export_duration_seconds",
			Help:    "Duration of report exports by sink",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"sink"}),

		RegistryBeneficiaries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sanartes_registry_beneficiaries",
			Help: "Beneficiaries currently held in the registry",
		}),
	}
}

// Registry exposes the private registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// IncrementBeneficiariesAdded records a newly registered beneficiary.
func (m *Metrics) IncrementBeneficiariesAdded() {
	if m != nil {
		m.BeneficiariesAdded.Inc()
	}
}

// ObserveLookup records a lookup that produced matches results.
func (m *Metrics) ObserveLookup(matches int) {
	if m == nil {
		return
	}
	if matches > 0 {
		m.Lookups.WithLabelValues(ResultFound).Inc()
	} else {
		m.Lookups.WithLabelValues(ResultNotFound).Inc()
	}
}

// IncrementReportsGenerated records a consolidated report build.
func (m *Metrics) IncrementReportsGenerated() {
	if m != nil {
		m.ReportsGenerated.Inc()
	}
}

// ObserveExport records one export attempt against sink.
func (m *Metrics) ObserveExport(sink string, success bool, d time.Duration) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if !success {
		result = ResultFailure
	}
	m.Exports.WithLabelValues(sink, result).Inc()
	m.ExportLatency.WithLabelValues(sink).Observe(d.Seconds())
}

// SetRegistryBeneficiaries sets the current beneficiary count.
func (m *Metrics) SetRegistryBeneficiaries(n int) {
	if m != nil {
		m.RegistryBeneficiaries.Set(float64(n))
	}
}

// WriteTextfile writes the current values in the text exposition format,
// suitable for the node_exporter textfile collector. A nil receiver or an
// empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
