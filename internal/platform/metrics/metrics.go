package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the authorization engine.
type Metrics struct {
	AuthorizationOutcomes *prometheus.CounterVec
	BackchannelOutcomes   *prometheus.CounterVec
	TokenIssuanceDuration prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AuthorizationOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aegis_authorization_outcomes_total",
			Help: "Authorization request validation outcomes by error code (ok on success).",
		}, []string{"outcome"}),
		BackchannelOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aegis_backchannel_outcomes_total",
			Help: "CIBA token handling outcomes by error code (ok on success).",
		}, []string{"outcome"}),
		TokenIssuanceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "aegis_token_issuance_duration_seconds",
			Help:    "Wall time of the token issuance pipeline.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveAuthorization records one validation outcome. Nil-receiver safe so
// services can run without metrics in tests.
func (m *Metrics) ObserveAuthorization(outcome string) {
	if m == nil {
		return
	}
	m.AuthorizationOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveBackchannel records one CIBA outcome.
func (m *Metrics) ObserveBackchannel(outcome string) {
	if m == nil {
		return
	}
	m.BackchannelOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveTokenIssuance records the duration of one pipeline run.
func (m *Metrics) ObserveTokenIssuance(d time.Duration) {
	if m == nil {
		return
	}
	m.TokenIssuanceDuration.Observe(d.Seconds())
}
