// Package telemetry provides Prometheus observability primitives for the proxy.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors exposed on /metrics.
type Metrics struct {
	DispatchAttemptsTotal     *prometheus.CounterVec
	AccountSwitchesTotal      *prometheus.CounterVec
	ModelFallbacksTotal       *prometheus.CounterVec
	RateLimitedAccountsGauge  prometheus.Gauge
	StreamErrorsTotal         *prometheus.CounterVec
	TokensProcessedTotal      *prometheus.CounterVec
	AccountPoolSizeGauge      *prometheus.GaugeVec
	SignatureCacheEntriesGauge *prometheus.GaugeVec
}

// NewMetrics creates and registers all metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DispatchAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "antigravity_proxy",
			Name:      "dispatch_attempts_total",
			Help:      "Total upstream request attempts made by the dispatcher, by outcome.",
		}, []string{"outcome"}),

		AccountSwitchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "antigravity_proxy",
			Name:      "account_switches_total",
			Help:      "Total times the dispatcher switched to a different account mid-request.",
		}, []string{"reason"}),

		ModelFallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "antigravity_proxy",
			Name:      "model_fallbacks_total",
			Help:      "Total times a request fell back to an alternate model after quota exhaustion.",
		}, []string{"from_model", "to_model"}),

		RateLimitedAccountsGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "antigravity_proxy",
			Name:      "rate_limited_accounts",
			Help:      "Number of pooled accounts currently rate limited for at least one model.",
		}),

		StreamErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "antigravity_proxy",
			Name:      "stream_errors_total",
			Help:      "Total SSE stream errors by classification.",
		}, []string{"type"}),

		TokensProcessedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "antigravity_proxy",
			Name:      "tokens_processed_total",
			Help:      "Total tokens processed, by model and direction.",
		}, []string{"model", "direction"}),

		AccountPoolSizeGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "antigravity_proxy",
			Name:      "account_pool_size",
			Help:      "Number of accounts configured, by status.",
		}, []string{"status"}),

		SignatureCacheEntriesGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "antigravity_proxy",
			Name:      "signature_cache_entries",
			Help:      "Number of entries currently held in each signature cache store.",
		}, []string{"store"}),
	}

	reg.MustRegister(
		m.DispatchAttemptsTotal,
		m.AccountSwitchesTotal,
		m.ModelFallbacksTotal,
		m.RateLimitedAccountsGauge,
		m.StreamErrorsTotal,
		m.TokensProcessedTotal,
		m.AccountPoolSizeGauge,
		m.SignatureCacheEntriesGauge,
	)

	return m
}

// globalMetrics is the process-wide metrics instance, set once at startup.
var globalMetrics *Metrics

// SetGlobal sets the process-wide metrics instance.
func SetGlobal(m *Metrics) {
	globalMetrics = m
}

// Global returns the process-wide metrics instance, or a no-op instance
// registered against a private registry if SetGlobal was never called
// (e.g. in tests that exercise the dispatcher directly).
func Global() *Metrics {
	if globalMetrics == nil {
		globalMetrics = NewMetrics(prometheus.NewRegistry())
	}
	return globalMetrics
}
