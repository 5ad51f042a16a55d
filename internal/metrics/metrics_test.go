package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, m *Metrics) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func counterWithLabels(f *dto.MetricFamily, labels map[string]string) float64 {
	for _, metric := range f.GetMetric() {
		matched := 0
		for _, lp := range metric.GetLabel() {
			if labels[lp.GetName()] == lp.GetValue() {
				matched++
			}
		}
		if matched == len(labels) {
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestMetricsRecordsActivity(t *testing.T) {
	m := New()
	m.IncrementBeneficiariesAdded()
	m.IncrementBeneficiariesAdded()
	m.ObserveLookup(2)
	m.ObserveLookup(0)
	m.ObserveLookup(0)
	m.IncrementReportsGenerated()
	m.ObserveExport(SinkFile, true, 10*time.Millisecond)
	m.ObserveExport("sqlite", false, time.Millisecond)
	m.SetRegistryBeneficiaries(5)

	families := gather(t, m)

	require.Contains(t, families, "sanartes_beneficiaries_added_total")
	assert.Equal(t, 2.0, families["sanartes_beneficiaries_added_total"].GetMetric()[0].GetCounter().GetValue())

	lookups := families["sanartes_lookups_total"]
	assert.Equal(t, 1.0, counterWithLabels(lookups, map[string]string{"result": ResultFound}))
	assert.Equal(t, 2.0, counterWithLabels(lookups, map[string]string{"result": ResultNotFound}))

	exports := families["sanartes_exports_total"]
	assert.Equal(t, 1.0, counterWithLabels(exports, map[string]string{"sink": SinkFile, "result": ResultSuccess}))
	assert.Equal(t, 1.0, counterWithLabels(exports, map[string]string{"sink": "sqlite", "result": ResultFailure}))

	assert.Equal(t, 5.0, families["sanartes_registry_beneficiaries"].GetMetric()[0].GetGauge().GetValue())
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementBeneficiariesAdded()
		m.ObserveLookup(1)
		m.IncrementReportsGenerated()
		m.ObserveExport(SinkFile, true, time.Second)
		m.SetRegistryBeneficiaries(1)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile("ignored.prom"))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.IncrementReportsGenerated()
	path := filepath.Join(t.TempDir(), "sanartes.prom")

	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "sanartes_reports_generated_total 1"), string(raw))
}

func TestNewUsesPrivateRegistry(t *testing.T) {
	// Two instances must not collide on registration.
	assert.NotPanics(t, func() {
		_ = New()
		_ = New()
	})
}
