package gracefulshutdown

import (
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"

	"github.com/gohornet/verdict/core/app"
	"github.com/gohornet/verdict/pkg/node"
	"github.com/gohornet/verdict/pkg/shutdown"
)

func init() {
	CorePlugin = &node.CorePlugin{
		Pluggable: node.Pluggable{
			Name:      "Graceful Shutdown",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
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
	ShutdownHandler *shutdown.ShutdownHandler
}

func provide(c *dig.Container) error {

	type handlerDeps struct {
		dig.In
		AppConfig *configuration.Configuration `name:"appConfig"`
	}

	return c.Provide(func(deps handlerDeps) *shutdown.ShutdownHandler {
		return shutdown.NewShutdownHandler(CorePlugin.Logger(), CorePlugin.Daemon(), deps.AppConfig.Duration(app.CfgAppStopGracePeriod))
	})
}

func configure() error {
	deps.ShutdownHandler.Run()
	return nil
}
