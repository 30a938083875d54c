package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	infoApp           *prometheus.GaugeVec
	infoPollSpace     prometheus.Gauge
	infoLedgerHealthy prometheus.Gauge
)

func configureInfo() {
	infoApp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "verdict_info_app",
			Help: "Node software name and version.",
		},
		[]string{"name", "version", "program_id"},
	)
	infoPollSpace = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "verdict_info_poll_space_bytes",
		Help: "Reserved space of a poll record in bytes.",
	})
	infoLedgerHealthy = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "verdict_info_ledger_healthy",
		Help: "Whether the ledger accepts operations.",
	})

	infoApp.WithLabelValues(deps.AppInfo.Name, deps.AppInfo.Version, deps.Ledger.ProgramID().String()).Set(1)
	infoPollSpace.Set(float64(deps.Ledger.Capacity().PollSpace()))

	registry.MustRegister(infoApp)
	registry.MustRegister(infoPollSpace)
	registry.MustRegister(infoLedgerHealthy)

	addCollect(collectInfo)
}

func collectInfo() {
	infoLedgerHealthy.Set(0)
	if deps.Ledger.IsHealthy() {
		infoLedgerHealthy.Set(1)
	}
}
