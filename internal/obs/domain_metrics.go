package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutSessionsOpened counts checkout sessions created since process start.
	CheckoutSessionsOpened prometheus.Counter
	// CheckoutSessionsActive tracks the number of live checkout sessions.
	CheckoutSessionsActive prometheus.Gauge
	// CheckoutTotalsTotal counts total calculations by outcome.
	CheckoutTotalsTotal *prometheus.CounterVec
	// RuleRegistrationsTotal counts pricing rule registrations by source and outcome.
	RuleRegistrationsTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutSessionsOpened = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_sessions_opened_total",
			Help:      "Count of checkout sessions created.",
		})
		CheckoutSessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "checkout_sessions_active",
			Help:      "Number of live checkout sessions.",
		})
		CheckoutTotalsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_totals_total",
			Help:      "Count of total calculations by outcome.",
		}, []string{"result"})
		RuleRegistrationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_rule_registrations_total",
			Help:      "Count of pricing rule registrations by source and outcome.",
		}, []string{"source", "result"})

		reg.MustRegister(
			CheckoutSessionsOpened,
			CheckoutSessionsActive,
			CheckoutTotalsTotal,
			RuleRegistrationsTotal,
		)
	})
}
