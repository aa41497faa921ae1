package sticker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector receives lifecycle events for observability backends.
type MetricsCollector interface {
	RecordActivation(outcome string)
	RecordScan(outcome string)
}

// NoopMetricsCollector discards all events; used in tests and tooling.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordActivation(string) {}
func (NoopMetricsCollector) RecordScan(string)       {}

// PrometheusMetricsCollector counts activations and scans by outcome.
type PrometheusMetricsCollector struct {
	activations *prometheus.CounterVec
	scans       *prometheus.CounterVec
}

func NewPrometheusMetricsCollector() *PrometheusMetricsCollector {
	return &PrometheusMetricsCollector{
		activations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "qr_activations_total",
			Help: "QR activation attempts by outcome.",
		}, []string{"outcome"}),
		scans: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "qr_scans_total",
			Help: "QR landing-page scans by outcome.",
		}, []string{"outcome"}),
	}
}

func (c *PrometheusMetricsCollector) RecordActivation(outcome string) {
	c.activations.WithLabelValues(outcome).Inc()
}

func (c *PrometheusMetricsCollector) RecordScan(outcome string) {
	c.scans.WithLabelValues(outcome).Inc()
}
