package prometheus

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"

	"github.com/gohornet/verdict/core/app"
	"github.com/gohornet/verdict/pkg/basicauth"
	"github.com/gohornet/verdict/pkg/database"
	"github.com/gohornet/verdict/pkg/indexer"
	"github.com/gohornet/verdict/pkg/metrics"
	"github.com/gohornet/verdict/pkg/model/ledger"
	"github.com/gohornet/verdict/pkg/mqtt"
	"github.com/gohornet/verdict/pkg/node"
	"github.com/gohornet/verdict/pkg/shutdown"
)

// RouteMetrics is the route for getting the prometheus metrics.
// GET returns metrics.
const (
	RouteMetrics = "/metrics"
)

func init() {
	Plugin = &node.Plugin{
		Status: node.StatusDisabled,
		Pluggable: node.Pluggable{
			Name:      "Prometheus",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
			Configure: configure,
			Run:       run,
		},
	}
}

var (
	Plugin *node.Plugin
	deps   dependencies

	registry = prometheus.NewRegistry()
	collects []func()
)

type dependencies struct {
	dig.In
	AppInfo        *app.AppInfo
	AppConfig      *configuration.Configuration `name:"appConfig"`
	Database       *database.Database           `name:"ledgerDatabase"`
	Ledger         *ledger.Ledger
	LedgerMetrics  *metrics.LedgerMetrics
	RestAPIMetrics *metrics.RestAPIMetrics `optional:"true"`
	Echo           *echo.Echo              `optional:"true"`
	Indexer        *indexer.Indexer        `optional:"true"`
	MQTTBroker     *mqtt.Broker            `optional:"true"`
	PrometheusEcho *echo.Echo              `name:"prometheusEcho"`
}

func provide(c *dig.Container) error {

	type depsIn struct {
		dig.In
		AppConfig *configuration.Configuration `name:"appConfig"`
	}

	type depsOut struct {
		dig.Out
		PrometheusEcho *echo.Echo `name:"prometheusEcho"`
	}

	return c.Provide(func(deps depsIn) (depsOut, error) {
		e := echo.New()
		e.HideBanner = true
		e.Use(middleware.Recover())

		if deps.AppConfig.Bool(CfgPrometheusBasicAuthEnabled) {
			auth, err := basicauth.NewBasicAuth(
				deps.AppConfig.String(CfgPrometheusBasicAuthUsername),
				deps.AppConfig.String(CfgPrometheusBasicAuthPasswordHash),
				deps.AppConfig.String(CfgPrometheusBasicAuthPasswordSalt),
			)
			if err != nil {
				return depsOut{}, errors.Wrap(err, "basic auth of the Prometheus exporter is misconfigured")
			}
			e.Use(auth.Middleware())
		}

		return depsOut{
			PrometheusEcho: e,
		}, nil
	})
}

func configure() error {
	configureInfo()

	if deps.AppConfig.Bool(CfgPrometheusDatabase) {
		configureDatabase()
	}
	if deps.AppConfig.Bool(CfgPrometheusLedger) {
		configureLedger()
	}
	if deps.AppConfig.Bool(CfgPrometheusRestAPI) && deps.RestAPIMetrics != nil {
		configureRestAPI()
	}
	if deps.AppConfig.Bool(CfgPrometheusIndexer) && deps.Indexer != nil {
		configureIndexer()
	}
	if deps.AppConfig.Bool(CfgPrometheusMQTT) && deps.MQTTBroker != nil {
		configureMQTTBroker()
	}
	if deps.AppConfig.Bool(CfgPrometheusGoMetrics) {
		registry.MustRegister(collectors.NewGoCollector())
	}
	if deps.AppConfig.Bool(CfgPrometheusProcessMetrics) {
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	return nil
}

func addCollect(collect func()) {
	collects = append(collects, collect)
}

type fileservicediscovery struct {
	Targets []string          `json:"targets"`
	Labels  map[string]string `json:"labels"`
}

func writeFileServiceDiscoveryFile() error {
	path := deps.AppConfig.String(CfgPrometheusFileServiceDiscoveryPath)
	d := []fileservicediscovery{{
		Targets: []string{deps.AppConfig.String(CfgPrometheusFileServiceDiscoveryTarget)},
		Labels:  make(map[string]string),
	}}
	j, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return errors.Wrap(err, "unable to marshal file service discovery JSON")
	}

	// this truncates an existing file
	if err := ioutil.WriteFile(path, j, 0666); err != nil {
		return errors.Wrap(err, "unable to write file service discovery file")
	}

	Plugin.LogInfof("Wrote 'file service discovery' content to %s", path)
	return nil
}

func metricsHandler() http.Handler {
	handler := promhttp.HandlerFor(
		registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		},
	)
	if deps.AppConfig.Bool(CfgPrometheusPromhttpMetrics) {
		handler = promhttp.InstrumentMetricHandler(registry, handler)
	}
	return handler
}

func run() error {
	Plugin.LogInfo("Starting Prometheus exporter ...")

	if deps.AppConfig.Bool(CfgPrometheusFileServiceDiscoveryEnabled) {
		if err := writeFileServiceDiscoveryFile(); err != nil {
			return err
		}
	}

	return Plugin.Daemon().BackgroundWorker("Prometheus exporter", func(ctx context.Context) {
		Plugin.LogInfo("Starting Prometheus exporter ... done")

		handler := metricsHandler()
		deps.PrometheusEcho.GET(RouteMetrics, func(c echo.Context) error {
			for _, collect := range collects {
				collect()
			}
			handler.ServeHTTP(c.Response().Writer, c.Request())
			return nil
		})

		bindAddr := deps.AppConfig.String(CfgPrometheusBindAddress)

		go func() {
			Plugin.LogInfof("You can now access the Prometheus exporter using: http://%s/metrics", bindAddr)
			if err := deps.PrometheusEcho.Start(bindAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				Plugin.LogWarnf("Stopped Prometheus exporter due to an error (%s)", err)
			}
		}()

		<-ctx.Done()
		Plugin.LogInfo("Stopping Prometheus exporter ...")

		shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := deps.PrometheusEcho.Shutdown(shutdownCtx)
		if err != nil {
			Plugin.LogWarn(err)
		}
		shutdownCtxCancel()
		Plugin.LogInfo("Stopping Prometheus exporter ... done")
	}, shutdown.PriorityPrometheus)
}
