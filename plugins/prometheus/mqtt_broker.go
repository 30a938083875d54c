package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	mqttBrokerTopicsWithSubscribers prometheus.Gauge
)

func configureMQTTBroker() {

	mqttBrokerTopicsWithSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "verdict",
			Subsystem: "mqtt_broker",
			Name:      "topics_with_subscribers",
			Help:      "Number of topics with at least one subscriber.",
		})

	registry.MustRegister(mqttBrokerTopicsWithSubscribers)

	addCollect(collectMQTTBroker)
}

func collectMQTTBroker() {
	mqttBrokerTopicsWithSubscribers.Set(float64(deps.MQTTBroker.TopicsWithSubscribers()))
}
