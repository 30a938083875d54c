package mqtt

import (
	"github.com/eclipse/paho.mqtt.golang/packets"
	"github.com/fhmq/hmq/broker/lib/topics"

	"github.com/iotaledger/hive.go/syncutils"
)

type OnSubscribeHandler func(topic []byte)
type OnUnsubscribeHandler func(topic []byte)

// topicManager replaces the "mem" topics provider of the broker and counts the subscribers per topic.
// It must be registered before the broker is created.
type topicManager struct {
	syncutils.RWMutex

	mem topics.TopicsProvider

	subscribers map[string]int

	onSubscribe   OnSubscribeHandler
	onUnsubscribe OnUnsubscribeHandler
}

func newTopicManager(onSubscribe OnSubscribeHandler, onUnsubscribe OnUnsubscribeHandler) *topicManager {

	mgr := &topicManager{
		mem:           topics.NewMemProvider(),
		subscribers:   make(map[string]int),
		onSubscribe:   onSubscribe,
		onUnsubscribe: onUnsubscribe,
	}

	topics.Unregister("mem")
	topics.Register("mem", mgr)

	return mgr
}

func (t *topicManager) Subscribe(topic []byte, qos byte, subscriber interface{}) (byte, error) {
	t.Lock()
	defer t.Unlock()

	qos, err := t.mem.Subscribe(topic, qos, subscriber)
	if err != nil {
		return qos, err
	}

	t.subscribers[string(topic)]++

	if t.onSubscribe != nil {
		t.onSubscribe(topic)
	}

	return qos, nil
}

func (t *topicManager) Unsubscribe(topic []byte, subscriber interface{}) error {
	t.Lock()
	defer t.Unlock()

	// the counter is decreased even if the provider did not know the subscriber
	err := t.mem.Unsubscribe(topic, subscriber)

	topicName := string(topic)
	if count, has := t.subscribers[topicName]; has {
		if count <= 1 {
			delete(t.subscribers, topicName)
		} else {
			t.subscribers[topicName] = count - 1
		}
	}

	if t.onUnsubscribe != nil {
		t.onUnsubscribe(topic)
	}

	return err
}

func (t *topicManager) Subscribers(topic []byte, qos byte, subs *[]interface{}, qoss *[]byte) error {
	return t.mem.Subscribers(topic, qos, subs, qoss)
}

func (t *topicManager) Retain(msg *packets.PublishPacket) error {
	return t.mem.Retain(msg)
}

func (t *topicManager) Retained(topic []byte, msgs *[]*packets.PublishPacket) error {
	return t.mem.Retained(topic, msgs)
}

func (t *topicManager) Close() error {
	return t.mem.Close()
}

// topicCount returns the amount of topics with at least one subscriber.
func (t *topicManager) topicCount() int {
	t.RLock()
	defer t.RUnlock()

	return len(t.subscribers)
}

func (t *topicManager) hasSubscribers(topicName string) bool {
	t.RLock()
	defer t.RUnlock()

	return t.subscribers[topicName] > 0
}
