package mqtt

import (
	"fmt"
	"net"

	"github.com/eclipse/paho.mqtt.golang/packets"
	"github.com/fhmq/hmq/broker"
)

// Broker is an embedded mqtt broker that only publishes from within the node.
type Broker struct {
	broker       *broker.Broker
	config       *broker.Config
	topicManager *topicManager
}

// NewBroker creates a new broker listening on bindAddress, and on wsPort for websocket clients if wsPort is not zero.
func NewBroker(bindAddress string, wsPort int, wsPath string, workerCount int, onSubscribe OnSubscribeHandler, onUnsubscribe OnUnsubscribeHandler) (*Broker, error) {

	host, port, err := net.SplitHostPort(bindAddress)
	if err != nil {
		return nil, fmt.Errorf("configure broker config error: %w", err)
	}

	args := []string{
		fmt.Sprintf("--worker=%d", workerCount),
		fmt.Sprintf("--host=%s", host),
		fmt.Sprintf("--port=%s", port),
	}
	if wsPort != 0 {
		args = append(args,
			fmt.Sprintf("--wsport=%d", wsPort),
			fmt.Sprintf("--wspath=%s", wsPath),
		)
	}

	c, err := broker.ConfigureConfig(args)
	if err != nil {
		return nil, fmt.Errorf("configure broker config error: %w", err)
	}

	// the topic manager has to be registered before the broker looks up the "mem" provider
	t := newTopicManager(onSubscribe, onUnsubscribe)

	b, err := broker.NewBroker(c)
	if err != nil {
		return nil, fmt.Errorf("create new broker error: %w", err)
	}

	return &Broker{
		broker:       b,
		config:       c,
		topicManager: t,
	}, nil
}

// Start the broker.
func (b *Broker) Start() {
	b.broker.Start()
}

// Config returns the broker config instance.
func (b *Broker) Config() *broker.Config {
	return b.config
}

// HasSubscribers tells whether at least one client subscribed to the topic.
func (b *Broker) HasSubscribers(topic string) bool {
	return b.topicManager.hasSubscribers(topic)
}

// TopicsWithSubscribers returns the amount of topics with at least one subscriber.
func (b *Broker) TopicsWithSubscribers() int {
	return b.topicManager.topicCount()
}

// Send publishes a message. Retained messages are delivered to clients subscribing later on.
func (b *Broker) Send(topic string, payload []byte, retain bool) error {

	packet := packets.NewControlPacket(packets.Publish).(*packets.PublishPacket)
	packet.TopicName = topic
	packet.Qos = 0
	packet.Retain = retain
	packet.Payload = payload

	if retain {
		if err := b.topicManager.Retain(packet); err != nil {
			return fmt.Errorf("retain message on topic %s failed: %w", topic, err)
		}
	}

	b.broker.PublishMessage(packet)
	return nil
}
