package indexer

import (
	"context"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"

	"github.com/gohornet/verdict/core/app"
	"github.com/gohornet/verdict/pkg/indexer"
	indexer_server "github.com/gohornet/verdict/pkg/indexer/server"
	"github.com/gohornet/verdict/pkg/model/ledger"
	"github.com/gohornet/verdict/pkg/node"
	"github.com/gohornet/verdict/pkg/shutdown"
)

func init() {
	Plugin = &node.Plugin{
		Status: node.StatusDisabled,
		Pluggable: node.Pluggable{
			Name:      "Indexer",
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
	Indexer                 *indexer.Indexer
	Ledger                  *ledger.Ledger
	Echo                    *echo.Echo
	RestAPILimitsMaxResults int `name:"restAPILimitsMaxResults"`
}

func provide(c *dig.Container) error {

	type indexerDeps struct {
		dig.In
		AppConfig    *configuration.Configuration `name:"appConfig"`
		DatabasePath string                       `name:"databasePath"`
		Secrets      *app.Secrets
	}

	return c.Provide(func(deps indexerDeps) (*indexer.Indexer, error) {

		engine := deps.AppConfig.String(CfgIndexerEngine)

		dsn := filepath.Join(deps.DatabasePath, deps.AppConfig.String(CfgIndexerPath))
		if indexer.Engine(engine) == indexer.EnginePostgres {
			// the connection string carries credentials and is only read from the environment
			dsn = deps.Secrets.IndexerDSN
		}

		dialector, err := indexer.Dialector(engine, dsn)
		if err != nil {
			return nil, err
		}

		return indexer.NewIndexer(dialector)
	})
}

func configure() error {

	// the projection starts from the stored ledger, later changes are applied by the ledger event dispatcher
	Plugin.LogInfo("Importing ledger into indexer ...")
	if err := deps.Indexer.ImportLedger(deps.Ledger); err != nil {
		return err
	}

	polls, votes, err := deps.Indexer.Counts()
	if err != nil {
		return err
	}
	Plugin.LogInfof("Importing ledger into indexer ... done, %d polls, %d votes", polls, votes)

	indexer_server.NewIndexerServer(deps.Indexer, deps.Echo.Group("/api/v1"), deps.RestAPILimitsMaxResults)

	return nil
}

func run() error {
	return Plugin.Daemon().BackgroundWorker("Close Indexer database", func(ctx context.Context) {
		<-ctx.Done()

		Plugin.LogInfo("Syncing Indexer database to disk ...")
		if err := deps.Indexer.CloseDatabase(); err != nil {
			Plugin.LogErrorf("Syncing Indexer database to disk ... failed: %s", err)
			return
		}
		Plugin.LogInfo("Syncing Indexer database to disk ... done")
	}, shutdown.PriorityCloseIndexer)
}
