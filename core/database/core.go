package database

import (
	"github.com/dustin/go-humanize"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"

	"github.com/gohornet/verdict/pkg/database"
	"github.com/gohornet/verdict/pkg/node"
)

func init() {
	CorePlugin = &node.CorePlugin{
		Pluggable: node.Pluggable{
			Name:      "Database",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
			Configure: configure,
		},
	}
}

var (
	CorePlugin *node.CorePlugin
	deps       dependencies
)

type dependencies struct {
	dig.In
	Database *database.Database `name:"ledgerDatabase"`
}

func provide(c *dig.Container) error {

	type databaseDeps struct {
		dig.In
		AppConfig *configuration.Configuration `name:"appConfig"`
	}

	type databaseOut struct {
		dig.Out
		Database     *database.Database `name:"ledgerDatabase"`
		DatabasePath string             `name:"databasePath"`
	}

	return c.Provide(func(deps databaseDeps) (databaseOut, error) {

		engine, err := database.DatabaseEngine(deps.AppConfig.String(CfgDatabaseEngine), database.EnginePebble, database.EngineMapDB)
		if err != nil {
			return databaseOut{}, err
		}

		path := deps.AppConfig.String(CfgDatabasePath)

		CorePlugin.LogInfof("Opening %s database at %s ...", engine, path)
		db, err := database.DatabaseWithDefaultSettings(path, true, engine)
		if err != nil {
			return databaseOut{}, err
		}

		return databaseOut{
			Database:     db,
			DatabasePath: path,
		}, nil
	})
}

func configure() error {

	if deps.Database.Engine() == database.EngineMapDB {
		CorePlugin.LogWarn("Using the in-memory database, all polls and votes are lost at shutdown!")
		return nil
	}

	size, err := database.Size(deps.Database.Path())
	if err != nil {
		return err
	}
	CorePlugin.LogInfof("Database size: %s", humanize.Bytes(uint64(size)))

	return nil
}
