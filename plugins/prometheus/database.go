package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gohornet/verdict/pkg/database"
)

var (
	databaseSizeBytes *prometheus.GaugeVec
)

func configureDatabase() {

	databaseSizeBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "verdict",
			Subsystem: "database",
			Name:      "size_bytes",
			Help:      "Database size in bytes.",
		},
		[]string{"engine"},
	)

	registry.MustRegister(databaseSizeBytes)

	addCollect(collectDatabase)
}

func collectDatabase() {
	databaseSizeBytes.Reset()

	if deps.Database.Engine() == database.EngineMapDB {
		return
	}

	dbSize, err := database.Size(deps.Database.Path())
	if err != nil {
		Plugin.LogDebugf("reading database size failed: %s", err)
		return
	}
	databaseSizeBytes.WithLabelValues(string(deps.Database.Engine())).Set(float64(dbSize))
}
