package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the portal.
type Metrics struct {
	ApplicationsSubmitted prometheus.Counter
	ApplicationDecisions  *prometheus.CounterVec
	WithdrawalDecisions   *prometheus.CounterVec
	OfficerRegistrations  *prometheus.CounterVec
	UnitsBooked           prometheus.Counter
	RequestLatency        *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ApplicationsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bto_portal_applications_submitted_total",
			Help: "Total number of housing applications submitted",
		}),
		ApplicationDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bto_portal_application_decisions_total",
			Help: "Manager decisions on applications by outcome",
		}, []string{"decision"}),
		WithdrawalDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bto_portal_withdrawal_decisions_total",
			Help: "Manager decisions on withdrawal requests by outcome",
		}, []string{"decision"}),
		OfficerRegistrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bto_portal_officer_registrations_total",
			Help: "Officer registration outcomes by decision",
		}, []string{"decision"}),
		UnitsBooked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bto_portal_units_booked_total",
			Help: "Total number of flat units booked",
		}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bto_portal_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(route string, d time.Duration) {
	m.RequestLatency.WithLabelValues(route).Observe(d.Seconds())
}
