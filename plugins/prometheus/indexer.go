package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	indexerPolls         prometheus.Gauge
	indexerVotes         prometheus.Gauge
	indexerAppliedEvents prometheus.Gauge
)

func configureIndexer() {

	indexerPolls = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "verdict",
			Subsystem: "indexer",
			Name:      "polls",
			Help:      "The amount of indexed polls.",
		})

	indexerVotes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "verdict",
			Subsystem: "indexer",
			Name:      "votes",
			Help:      "The amount of indexed votes.",
		})

	indexerAppliedEvents = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "verdict",
			Subsystem: "indexer",
			Name:      "applied_events",
			Help:      "The amount of ledger events applied to the index.",
		})

	registry.MustRegister(indexerPolls)
	registry.MustRegister(indexerVotes)
	registry.MustRegister(indexerAppliedEvents)

	addCollect(collectIndexer)
}

func collectIndexer() {
	polls, votes, err := deps.Indexer.Counts()
	if err != nil {
		Plugin.LogDebugf("reading indexer counts failed: %s", err)
		return
	}
	indexerPolls.Set(float64(polls))
	indexerVotes.Set(float64(votes))

	appliedEvents, err := deps.Indexer.AppliedEvents()
	if err != nil {
		Plugin.LogDebugf("reading indexer status failed: %s", err)
		return
	}
	indexerAppliedEvents.Set(float64(appliedEvents))
}
