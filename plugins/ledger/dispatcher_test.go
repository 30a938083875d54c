package ledger

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/events"

	"github.com/gohornet/verdict/pkg/metrics"
	"github.com/gohornet/verdict/pkg/model/address"
	"github.com/gohornet/verdict/pkg/model/ledger"
	"github.com/gohornet/verdict/pkg/model/ledger/test"
	"github.com/gohornet/verdict/pkg/mqtt"
)

type recordingProjection struct {
	name   string
	err    error
	events []string
}

func (p *recordingProjection) Name() string {
	return p.name
}

func (p *recordingProjection) ApplyPollCreated(poll *ledger.Poll) error {
	p.events = append(p.events, "poll:"+poll.Question)
	return p.err
}

func (p *recordingProjection) ApplyVoteCast(poll *ledger.Poll, voteRecord *ledger.VoteRecord) error {
	p.events = append(p.events, "vote:"+voteRecord.Voter.String())
	return p.err
}

// taskError returns the error a dispatched event resulted in.
func taskError(result interface{}) error {
	err, _ := result.(error)
	return err
}

func TestEventDispatcher(t *testing.T) {
	env := test.NewLedgerTestEnv(t)
	defer env.Cleanup()

	ledgerMetrics := &metrics.LedgerMetrics{}

	healthy := &recordingProjection{name: "healthy"}
	failing := &recordingProjection{name: "failing", err: errors.New("unavailable")}

	var failed []string
	d := newEventDispatcher(ledgerMetrics, env.Ledger().Poll, func(name string, _ error) {
		failed = append(failed, name)
	}, healthy, failing)

	poll := env.CreateDefaultPoll()
	voteRecord := env.CastVote(poll.Address, env.Voter1, 0)

	// events are queued before the dispatcher is started
	pollDone := d.PollCreated(poll)
	voteDone := d.VoteCast(poll, voteRecord)

	d.Start()
	require.Error(t, taskError(<-pollDone))
	require.Error(t, taskError(<-voteDone))
	d.StopAndWait()

	expected := []string{"poll:" + test.DefaultQuestion, "vote:" + env.Voter1.String()}
	require.Equal(t, expected, healthy.events)
	require.Equal(t, expected, failing.events)
	require.Equal(t, []string{"failing", "failing"}, failed)

	require.Equal(t, uint64(2), ledgerMetrics.EventsDispatched.Load())
	require.Equal(t, uint64(2), ledgerMetrics.ProjectionErrors.Load())
}

func TestEventDispatcherFlushesAtShutdown(t *testing.T) {
	env := test.NewLedgerTestEnv(t)
	defer env.Cleanup()

	ledgerMetrics := &metrics.LedgerMetrics{}
	projection := &recordingProjection{name: "healthy"}

	d := newEventDispatcher(ledgerMetrics, env.Ledger().Poll, func(string, error) {}, projection)
	d.Start()

	poll := env.CreateDefaultPoll()
	done := d.PollCreated(poll)
	d.StopAndWait()

	require.NoError(t, taskError(<-done))
	require.Len(t, projection.events, 1)
	require.Equal(t, uint64(0), ledgerMetrics.ProjectionErrors.Load())
}

// retainingSender keeps the last retained payload per topic, like the broker does.
type retainingSender struct {
	retained map[string][]byte
	sent     int
}

func (s *retainingSender) Send(topic string, payload []byte, retain bool) error {
	s.sent++
	if retain {
		s.retained[topic] = payload
	}
	return nil
}

func (s *retainingSender) HasSubscribers(string) bool {
	return false
}

func (s *retainingSender) retainedTotalVotes(t *testing.T, topic string) uint64 {
	payload, has := s.retained[topic]
	require.True(t, has, topic)

	poll := &ledger.Poll{}
	require.NoError(t, json.Unmarshal(payload, poll))
	return poll.TotalVotes
}

func TestPollSubscriptionPublishesLatestState(t *testing.T) {
	env := test.NewLedgerTestEnv(t)
	defer env.Cleanup()

	sender := &retainingSender{retained: make(map[string][]byte)}
	publisher := mqtt.NewPublisher(sender)

	d := newEventDispatcher(&metrics.LedgerMetrics{}, env.Ledger().Poll, func(string, error) {}, &publisherProjection{publisher: publisher})

	poll := env.CreateDefaultPoll()

	// a subscription arrives, then a vote is committed before the subscription is processed
	subscribed := d.PollSubscribed(poll.Address)
	voteRecord := env.CastVote(poll.Address, env.Voter1, 0)
	voted, err := env.Ledger().Poll(poll.Address)
	require.NoError(t, err)
	voteDone := d.VoteCast(voted, voteRecord)

	d.Start()
	require.NoError(t, taskError(<-subscribed))
	require.NoError(t, taskError(<-voteDone))
	d.StopAndWait()

	stored, err := env.Ledger().Poll(poll.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(1), stored.TotalVotes)
	require.Equal(t, stored.TotalVotes, sender.retainedTotalVotes(t, mqtt.PollTopic(poll.Address)))
	require.Equal(t, 2, sender.sent)
}

func TestPollSubscriptionUnknownPoll(t *testing.T) {
	env := test.NewLedgerTestEnv(t)
	defer env.Cleanup()

	sender := &retainingSender{retained: make(map[string][]byte)}
	ledgerMetrics := &metrics.LedgerMetrics{}

	d := newEventDispatcher(ledgerMetrics, env.Ledger().Poll, func(string, error) {}, &publisherProjection{publisher: mqtt.NewPublisher(sender)})
	d.Start()

	pollAddress, _, err := env.Ledger().PollAddress(env.Creator)
	require.NoError(t, err)

	require.NoError(t, taskError(<-d.PollSubscribed(pollAddress)))
	d.StopAndWait()

	require.Zero(t, sender.sent)
	require.Equal(t, uint64(0), ledgerMetrics.ProjectionErrors.Load())
}

func TestPublisherSignalsPollSubscriptions(t *testing.T) {
	env := test.NewLedgerTestEnv(t)
	defer env.Cleanup()

	sender := &retainingSender{retained: make(map[string][]byte)}
	publisher := mqtt.NewPublisher(sender)

	d := newEventDispatcher(&metrics.LedgerMetrics{}, env.Ledger().Poll, func(string, error) {}, &publisherProjection{publisher: publisher})

	var subscribed []chan interface{}
	publisher.Events.PollSubscribed.Attach(events.NewClosure(func(pollAddress address.Address) {
		subscribed = append(subscribed, d.PollSubscribed(pollAddress))
	}))

	poll := env.CreateDefaultPoll()
	env.CastVote(poll.Address, env.Voter1, 1)

	// subscribing does not publish anything itself
	publisher.TopicSubscribed(mqtt.PollTopic(poll.Address))
	publisher.TopicSubscribed(mqtt.PollVotesTopic(poll.Address))
	require.Len(t, subscribed, 1)
	require.Zero(t, sender.sent)

	d.Start()
	require.NoError(t, taskError(<-subscribed[0]))
	d.StopAndWait()

	require.Equal(t, uint64(1), sender.retainedTotalVotes(t, mqtt.PollTopic(poll.Address)))
}
