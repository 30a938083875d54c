package prometheus

import (
	flag "github.com/spf13/pflag"

	"github.com/gohornet/verdict/pkg/node"
)

const (
	// the bind address on which the Prometheus exporter listens on.
	CfgPrometheusBindAddress = "prometheus.bindAddress"
	// whether the plugin should write a Prometheus 'file SD' file.
	CfgPrometheusFileServiceDiscoveryEnabled = "prometheus.fileServiceDiscovery.enabled"
	// the path where to write the 'file SD' file to.
	CfgPrometheusFileServiceDiscoveryPath = "prometheus.fileServiceDiscovery.path"
	// the target to write into the 'file SD' file.
	CfgPrometheusFileServiceDiscoveryTarget = "prometheus.fileServiceDiscovery.target"
	// whether the exporter is protected by basic auth.
	CfgPrometheusBasicAuthEnabled = "prometheus.basicAuth.enabled"
	// the username for the basic auth.
	CfgPrometheusBasicAuthUsername = "prometheus.basicAuth.username"
	// the scrypt key of the password, hex encoded.
	CfgPrometheusBasicAuthPasswordHash = "prometheus.basicAuth.passwordHash"
	// the salt of the password key, hex encoded.
	CfgPrometheusBasicAuthPasswordSalt = "prometheus.basicAuth.passwordSalt"
	// include database metrics.
	CfgPrometheusDatabase = "prometheus.databaseMetrics"
	// include ledger metrics.
	CfgPrometheusLedger = "prometheus.ledgerMetrics"
	// include restAPI metrics.
	CfgPrometheusRestAPI = "prometheus.restAPIMetrics"
	// include indexer metrics.
	CfgPrometheusIndexer = "prometheus.indexerMetrics"
	// include MQTT broker metrics.
	CfgPrometheusMQTT = "prometheus.mqttMetrics"
	// include go metrics.
	CfgPrometheusGoMetrics = "prometheus.goMetrics"
	// include process metrics.
	CfgPrometheusProcessMetrics = "prometheus.processMetrics"
	// include promhttp metrics.
	CfgPrometheusPromhttpMetrics = "prometheus.promhttpMetrics"
)

var params = &node.PluginParams{
	Params: func() *flag.FlagSet {
		fs := flag.NewFlagSet("", flag.ContinueOnError)
		fs.String(CfgPrometheusBindAddress, "localhost:9311", "the bind address on which the Prometheus exporter listens on")
		fs.Bool(CfgPrometheusFileServiceDiscoveryEnabled, false, "whether the plugin should write a Prometheus 'file SD' file")
		fs.String(CfgPrometheusFileServiceDiscoveryPath, "target.json", "the path where to write the 'file SD' file to")
		fs.String(CfgPrometheusFileServiceDiscoveryTarget, "localhost:9311", "the target to write into the 'file SD' file")
		fs.Bool(CfgPrometheusBasicAuthEnabled, false, "whether the exporter is protected by basic auth")
		fs.String(CfgPrometheusBasicAuthUsername, "", "the username for the basic auth")
		fs.String(CfgPrometheusBasicAuthPasswordHash, "", "the scrypt key of the password, hex encoded")
		fs.String(CfgPrometheusBasicAuthPasswordSalt, "", "the salt of the password key, hex encoded")
		fs.Bool(CfgPrometheusDatabase, true, "include database metrics")
		fs.Bool(CfgPrometheusLedger, true, "include ledger metrics")
		fs.Bool(CfgPrometheusRestAPI, true, "include restAPI metrics")
		fs.Bool(CfgPrometheusIndexer, true, "include indexer metrics")
		fs.Bool(CfgPrometheusMQTT, true, "include MQTT broker metrics")
		fs.Bool(CfgPrometheusGoMetrics, false, "include go metrics")
		fs.Bool(CfgPrometheusProcessMetrics, false, "include process metrics")
		fs.Bool(CfgPrometheusPromhttpMetrics, false, "include promhttp metrics")
		return fs
	}(),
	Masked: []string{CfgPrometheusBasicAuthPasswordHash, CfgPrometheusBasicAuthPasswordSalt},
}
