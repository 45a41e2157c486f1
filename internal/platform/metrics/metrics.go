package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the reconciliation engine.
type Metrics struct {
	CyclesRun            prometheus.Counter
	CyclesAborted        prometheus.Counter
	Identified           prometheus.Counter
	Applied              prometheus.Counter
	VerificationFailures prometheus.Counter
	Unresolvable         prometheus.Counter
	TrackedSize          prometheus.Gauge
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		CyclesRun: promauto.NewCounter(prometheus.CounterOpts{
			Name: "offramp_cycles_total",
			Help: "Total number of reconciliation cycles completed",
		}),
		CyclesAborted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "offramp_cycles_aborted_total",
			Help: "Total number of reconciliation cycles aborted by fatal errors",
		}),
		Identified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "offramp_identified_total",
			Help: "Total identities newly identified for the next phase",
		}),
		Applied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "offramp_applied_total",
			Help: "Total identities successfully moved to the next phase",
		}),
		VerificationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "offramp_verification_failures_total",
			Help: "Total tracked identities evicted because the next phase had not completed",
		}),
		Unresolvable: promauto.NewCounter(prometheus.CounterOpts{
			Name: "offramp_unresolvable_total",
			Help: "Total eligible identities dropped for lacking a resolvable principal name",
		}),
		TrackedSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "offramp_tracked_set_size",
			Help: "Number of principals currently in the tracked set",
		}),
	}
}
