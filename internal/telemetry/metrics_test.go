package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewMetricsRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.DispatchAttemptsTotal.WithLabelValues("success").Inc()
	m.AccountPoolSizeGauge.WithLabelValues("enabled").Set(3)
	m.SignatureCacheEntriesGauge.WithLabelValues("redis").Set(7)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	if len(families) == 0 {
		t.Fatal("expected at least one registered metric family")
	}
}

func TestAccountPoolSizeGaugeTracksLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.AccountPoolSizeGauge.WithLabelValues("total").Set(5)
	m.AccountPoolSizeGauge.WithLabelValues("enabled").Set(4)
	m.AccountPoolSizeGauge.WithLabelValues("invalid").Set(1)

	metric := &dto.Metric{}
	if err := m.AccountPoolSizeGauge.WithLabelValues("enabled").Write(metric); err != nil {
		t.Fatal(err)
	}
	if metric.GetGauge().GetValue() != 4 {
		t.Errorf("enabled gauge = %v, want 4", metric.GetGauge().GetValue())
	}
}

func TestGlobalReturnsStableNoOpInstanceWithoutSetGlobal(t *testing.T) {
	globalMetrics = nil
	first := Global()
	second := Global()
	if first != second {
		t.Error("expected Global() to return the same instance across calls")
	}
}

func TestSetGlobalOverridesDefault(t *testing.T) {
	globalMetrics = nil
	custom := NewMetrics(prometheus.NewRegistry())
	SetGlobal(custom)
	if Global() != custom {
		t.Error("expected Global() to return the instance set via SetGlobal")
	}
	globalMetrics = nil
}
