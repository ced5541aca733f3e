package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the identity feature's Prometheus counters.
type Metrics struct {
	SignUps        prometheus.Counter
	SignIns        prometheus.Counter
	SignInFailures prometheus.Counter
	SignOuts       prometheus.Counter
}

// New creates and registers the identity metrics.
func New() *Metrics {
	return &Metrics{
		SignUps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "portal_sign_ups_total",
			Help: "Total accounts created",
		}),
		SignIns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "portal_sign_ins_total",
			Help: "Total successful sign-ins",
		}),
		SignInFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "portal_sign_in_failures_total",
			Help: "Total rejected sign-in attempts",
		}),
		SignOuts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "portal_sign_outs_total",
			Help: "Total sign-outs",
		}),
	}
}
