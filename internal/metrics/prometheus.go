package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records metrics into a Prometheus registry.
type Collector struct {
	backendCalls    *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	transactions    *prometheus.CounterVec
	logins          *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frontend_backend_requests_total",
			Help: "Requests sent to backend services, by service and outcome.",
		}, []string{"service", "outcome"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "frontend_backend_request_duration_seconds",
			Help:    "Latency of backend service requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frontend_transactions_total",
			Help: "Payment and deposit attempts, by kind and result.",
		}, []string{"kind", "result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frontend_logins_total",
			Help: "Login attempts, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.backendCalls,
		c.backendDuration,
		c.transactions,
		c.logins,
	)

	return c
}

// ObserveBackendCall records a backend call and its latency.
func (c *Collector) ObserveBackendCall(service, outcome string, duration time.Duration) {
	c.backendCalls.WithLabelValues(service, outcome).Inc()
	c.backendDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// IncTransaction records a payment or deposit result.
func (c *Collector) IncTransaction(kind, result string) {
	c.transactions.WithLabelValues(kind, result).Inc()
}

// IncLogin records a login result.
func (c *Collector) IncLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
