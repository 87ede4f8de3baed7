package webhook

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeDelivered        = "delivered"
	outcomeDuplicate        = "duplicate"
	outcomeInvalidSignature = "invalid_signature"
	outcomeMalformed        = "malformed"
	outcomeMethodNotAllowed = "method_not_allowed"
	outcomeFailed           = "failed"
)

// Metrics counts webhook deliveries by outcome on its own registry.
type Metrics struct {
	registry   *prometheus.Registry
	deliveries *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walver",
		Subsystem: "webhook",
		Name:      "deliveries_total",
		Help:      "Webhook deliveries received, by outcome.",
	}, []string{"outcome"})
	registry.MustRegister(deliveries)

	return &Metrics{registry: registry, deliveries: deliveries}
}

// observe is a no-op on a nil receiver so the handler works without metrics.
func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// HTTPHandler serves the registry in the Prometheus exposition format.
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
