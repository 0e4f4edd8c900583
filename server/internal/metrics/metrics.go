package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks estimator activity for the /metrics endpoint.
type Metrics struct {
	registry *prometheus.Registry

	estimatesTotal *prometheus.CounterVec
	shareDecodes   *prometheus.CounterVec
	requestsTotal  *prometheus.CounterVec
}

// New creates and registers the estimator metrics on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		estimatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ragcost",
				Name:      "estimates_total",
				Help:      "Completed cost estimates by model identifier and backcheck outcome",
			},
			[]string{"model", "backcheck"},
		),

		shareDecodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ragcost",
				Name:      "share_decodes_total",
				Help:      "Share code decode attempts by outcome",
			},
			[]string{"outcome"},
		),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ragcost",
				Name:      "http_requests_total",
				Help:      "HTTP requests by path",
			},
			[]string{"path"},
		),
	}

	m.registry.MustRegister(m.estimatesTotal, m.shareDecodes, m.requestsTotal)
	return m
}

// ObserveEstimate records one completed estimate.
func (m *Metrics) ObserveEstimate(modelID string, valid bool) {
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	m.estimatesTotal.WithLabelValues(modelID, outcome).Inc()
}

// ObserveShareDecode records one share code decode attempt.
func (m *Metrics) ObserveShareDecode(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.shareDecodes.WithLabelValues(outcome).Inc()
}

// CountRequests is a middleware that counts requests per path.
func (m *Metrics) CountRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requestsTotal.WithLabelValues(r.URL.Path).Inc()
		next.ServeHTTP(w, r)
	})
}

// Handler serves the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
