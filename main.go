package main

import (
	"github.com/gohornet/verdict/core/app"
	"github.com/gohornet/verdict/core/database"
	"github.com/gohornet/verdict/core/gracefulshutdown"
	"github.com/gohornet/verdict/core/ledger"
	"github.com/gohornet/verdict/pkg/node"
	"github.com/gohornet/verdict/plugins/indexer"
	ledgerapi "github.com/gohornet/verdict/plugins/ledger"
	"github.com/gohornet/verdict/plugins/mqtt"
	"github.com/gohornet/verdict/plugins/profiling"
	"github.com/gohornet/verdict/plugins/prometheus"
	"github.com/gohornet/verdict/plugins/restapi"
)

func main() {
	node.Run(
		node.WithInitPlugin(app.InitPlugin),
		node.WithCorePlugins(
			gracefulshutdown.CorePlugin,
			database.CorePlugin,
			ledger.CorePlugin,
		),
		node.WithPlugins(
			restapi.Plugin,
			indexer.Plugin,
			mqtt.Plugin,
			ledgerapi.Plugin,
			prometheus.Plugin,
			profiling.Plugin,
		),
	)
}
