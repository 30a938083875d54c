package mqtt

import (
	"context"

	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"

	mqttpkg "github.com/gohornet/verdict/pkg/mqtt"
	"github.com/gohornet/verdict/pkg/node"
	"github.com/gohornet/verdict/pkg/shutdown"
)

func init() {
	Plugin = &node.Plugin{
		Status: node.StatusDisabled,
		Pluggable: node.Pluggable{
			Name:      "MQTT",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
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
	Broker    *mqttpkg.Broker
	Publisher *mqttpkg.Publisher
}

func provide(c *dig.Container) error {

	type brokerDeps struct {
		dig.In
		AppConfig *configuration.Configuration `name:"appConfig"`
	}

	if err := c.Provide(func(deps brokerDeps) (*mqttpkg.Broker, error) {
		return mqttpkg.NewBroker(
			deps.AppConfig.String(CfgMQTTBindAddress),
			deps.AppConfig.Int(CfgMQTTWSPort),
			deps.AppConfig.String(CfgMQTTWSPath),
			deps.AppConfig.Int(CfgMQTTWorkerCount),
			onSubscribe,
			func(topic []byte) {
				Plugin.LogDebugf("client unsubscribed from %s", topic)
			},
		)
	}); err != nil {
		return err
	}

	return c.Provide(func(broker *mqttpkg.Broker) *mqttpkg.Publisher {
		return mqttpkg.NewPublisher(broker)
	})
}

// onSubscribe hands subscriptions to poll topics to the publisher.
// The current poll state is published by the ledger event dispatcher, never from the broker.
func onSubscribe(topic []byte) {
	Plugin.LogDebugf("client subscribed to %s", topic)
	deps.Publisher.TopicSubscribed(string(topic))
}

func run() error {

	Plugin.LogInfo("Starting MQTT Broker ...")

	return Plugin.Daemon().BackgroundWorker("MQTT Broker", func(ctx context.Context) {
		go func() {
			deps.Broker.Start()
			Plugin.LogInfof("Starting MQTT Broker (port %s) ... done", deps.Broker.Config().Port)
		}()

		if deps.Broker.Config().Port != "" {
			Plugin.LogInfof("You can now listen to MQTT via: http://%s:%s", deps.Broker.Config().Host, deps.Broker.Config().Port)
		}

		if deps.Broker.Config().WsPort != "" {
			Plugin.LogInfof("You can now listen to MQTT via WebSocket: http://%s:%s%s", deps.Broker.Config().Host, deps.Broker.Config().WsPort, deps.Broker.Config().WsPath)
		}

		<-ctx.Done()
		Plugin.LogInfo("Stopping MQTT Broker ...")
		Plugin.LogInfo("Stopping MQTT Broker ... done")
	}, shutdown.PriorityMQTTBroker)
}
