package restapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"

	"github.com/gohornet/verdict/core/app"
	"github.com/gohornet/verdict/pkg/jwt"
	"github.com/gohornet/verdict/pkg/metrics"
	"github.com/gohornet/verdict/pkg/model/ledger"
	"github.com/gohornet/verdict/pkg/node"
	"github.com/gohornet/verdict/pkg/restapi"
	"github.com/gohornet/verdict/pkg/shutdown"
)

const (
	// RouteHealth is the route for querying the health of the node.
	// GET returns http status code 200 if the ledger is healthy, 503 otherwise.
	RouteHealth = "/health"
)

func init() {
	Plugin = &node.Plugin{
		Status: node.StatusEnabled,
		Pluggable: node.Pluggable{
			Name:      "RestAPI",
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
)

type dependencies struct {
	dig.In
	Ledger             *ledger.Ledger
	Echo               *echo.Echo
	RestAPIMetrics     *metrics.RestAPIMetrics
	JWTAuth            *jwt.Auth `optional:"true"`
	RestAPIBindAddress string    `name:"restAPIBindAddress"`
}

func provide(c *dig.Container) error {

	type cfgDeps struct {
		dig.In
		AppConfig *configuration.Configuration `name:"appConfig"`
	}

	type cfgResult struct {
		dig.Out
		RestAPIBindAddress      string `name:"restAPIBindAddress"`
		RestAPILimitsMaxResults int    `name:"restAPILimitsMaxResults"`
		RestAPIJWTAuthEnabled   bool   `name:"restAPIJWTAuthEnabled"`
	}

	if err := c.Provide(func(deps cfgDeps) cfgResult {
		return cfgResult{
			RestAPIBindAddress:      deps.AppConfig.String(CfgRestAPIBindAddress),
			RestAPILimitsMaxResults: deps.AppConfig.Int(CfgRestAPILimitsMaxResults),
			RestAPIJWTAuthEnabled:   deps.AppConfig.Bool(CfgRestAPIJWTAuthEnabled),
		}
	}); err != nil {
		return err
	}

	if err := c.Provide(func() *metrics.RestAPIMetrics {
		return &metrics.RestAPIMetrics{}
	}); err != nil {
		return err
	}

	type authDeps struct {
		dig.In
		AppConfig *configuration.Configuration `name:"appConfig"`
		Secrets   *app.Secrets
	}

	if err := c.Provide(func(deps authDeps) (*jwt.Auth, error) {
		if !deps.AppConfig.Bool(CfgRestAPIJWTAuthEnabled) {
			return nil, nil
		}

		auth, err := jwt.NewAuth(deps.AppConfig.Duration(CfgRestAPIJWTAuthSessionTimeout), []byte(deps.Secrets.JWTSecret))
		if err != nil {
			return nil, errors.Wrap(err, "VERDICT_JWT_SECRET must be set if JWT auth is enabled")
		}
		return auth, nil
	}); err != nil {
		return err
	}

	type echoDeps struct {
		dig.In
		AppConfig *configuration.Configuration `name:"appConfig"`
	}

	return c.Provide(func(deps echoDeps) *echo.Echo {
		e := echo.New()
		e.HideBanner = true
		e.Use(middleware.Recover())
		e.Use(middleware.CORS())
		e.Use(middleware.Gzip())
		e.Use(middleware.BodyLimit(deps.AppConfig.String(CfgRestAPILimitsMaxBodyLength)))
		return e
	})
}

func configure() error {

	errorHandler := restapi.ErrorHandler()
	deps.Echo.HTTPErrorHandler = func(err error, c echo.Context) {
		Plugin.LogDebugf("HTTP request failed: %s", err)
		deps.RestAPIMetrics.HTTPRequestErrorCounter.Inc()
		errorHandler(err, c)
	}

	if deps.JWTAuth != nil {
		// reads stay public, every change needs the identity of the caller
		deps.Echo.Use(deps.JWTAuth.Middleware(func(c echo.Context) bool {
			return c.Request().Method == http.MethodGet || c.Request().Method == http.MethodOptions
		}))
	}

	deps.Echo.GET(RouteHealth, func(c echo.Context) error {
		if !deps.Ledger.IsHealthy() {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	return nil
}

func run() error {

	Plugin.LogInfo("Starting REST-API server ...")

	return Plugin.Daemon().BackgroundWorker("REST-API server", func(ctx context.Context) {
		Plugin.LogInfo("Starting REST-API server ... done")

		bindAddr := deps.RestAPIBindAddress

		go func() {
			Plugin.LogInfof("You can now access the API using: http://%s", bindAddr)
			if err := deps.Echo.Start(bindAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				Plugin.LogWarnf("Stopped REST-API server due to an error (%s)", err)
			}
		}()

		<-ctx.Done()
		Plugin.LogInfo("Stopping REST-API server ...")

		shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := deps.Echo.Shutdown(shutdownCtx); err != nil {
			Plugin.LogWarn(err)
		}
		shutdownCtxCancel()
		Plugin.LogInfo("Stopping REST-API server ... done")
	}, shutdown.PriorityRestAPI)
}
