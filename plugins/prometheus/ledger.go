package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gohornet/verdict/pkg/metrics"
)

var (
	ledgerPollsCreated     prometheus.Gauge
	ledgerVotesCast        prometheus.Gauge
	ledgerRejected         *prometheus.GaugeVec
	ledgerEventsDispatched prometheus.Gauge
	ledgerProjectionErrors prometheus.Gauge
)

func configureLedger() {

	ledgerPollsCreated = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "verdict",
			Subsystem: "ledger",
			Name:      "polls_created",
			Help:      "The amount of polls created since the start of the node.",
		},
	)

	ledgerVotesCast = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "verdict",
			Subsystem: "ledger",
			Name:      "votes_cast",
			Help:      "The amount of votes cast since the start of the node.",
		},
	)

	ledgerRejected = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "verdict",
			Subsystem: "ledger",
			Name:      "rejected_operations",
			Help:      "The amount of rejected ledger operations per reason.",
		},
		[]string{"reason"},
	)

	ledgerEventsDispatched = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "verdict",
			Subsystem: "ledger",
			Name:      "events_dispatched",
			Help:      "The amount of ledger events handed to the projections.",
		},
	)

	ledgerProjectionErrors = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "verdict",
			Subsystem: "ledger",
			Name:      "projection_errors",
			Help:      "The amount of ledger events a projection failed to apply.",
		},
	)

	registry.MustRegister(ledgerPollsCreated)
	registry.MustRegister(ledgerVotesCast)
	registry.MustRegister(ledgerRejected)
	registry.MustRegister(ledgerEventsDispatched)
	registry.MustRegister(ledgerProjectionErrors)

	addCollect(collectLedger)
}

func collectLedger() {
	ledgerPollsCreated.Set(float64(deps.LedgerMetrics.PollsCreated.Load()))
	ledgerVotesCast.Set(float64(deps.LedgerMetrics.VotesCast.Load()))
	for _, reason := range metrics.RejectReasons {
		ledgerRejected.WithLabelValues(string(reason)).Set(float64(deps.LedgerMetrics.RejectedCount(reason)))
	}
	ledgerEventsDispatched.Set(float64(deps.LedgerMetrics.EventsDispatched.Load()))
	ledgerProjectionErrors.Set(float64(deps.LedgerMetrics.ProjectionErrors.Load()))
}
