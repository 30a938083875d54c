package mqtt

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/events"

	"github.com/gohornet/verdict/pkg/model/address"
	"github.com/gohornet/verdict/pkg/model/ledger"
)

// PollAddressCaller is used to signal poll addresses.
func PollAddressCaller(handler interface{}, params ...interface{}) {
	handler.(func(pollAddress address.Address))(params[0].(address.Address))
}

// PublisherEvents are the events of the Publisher.
type PublisherEvents struct {
	// PollSubscribed is triggered if a client subscribed to the state topic of a poll.
	// The state is not published by the broker itself, so it stays ordered with the ledger events.
	PollSubscribed *events.Event
}

// VotePayload is published on the votes topic of a poll.
type VotePayload struct {
	// The vote record that was created.
	VoteRecord *ledger.VoteRecord `json:"voteRecord"`
	// The vote counts of the poll after the vote was counted.
	VoteCounts []uint64 `json:"voteCounts"`
	// The total amount of votes of the poll.
	TotalVotes uint64 `json:"totalVotes"`
	// The share of the votes per option, rounded to whole percent.
	Percentages []int `json:"percentages"`
}

// Sender publishes payloads on topics.
type Sender interface {
	Send(topic string, payload []byte, retain bool) error
	HasSubscribers(topic string) bool
}

// Publisher publishes ledger changes.
type Publisher struct {
	sender Sender
	Events *PublisherEvents
}

func NewPublisher(sender Sender) *Publisher {
	return &Publisher{
		sender: sender,
		Events: &PublisherEvents{
			PollSubscribed: events.NewEvent(PollAddressCaller),
		},
	}
}

// TopicSubscribed signals PollSubscribed if topic is the state topic of a poll.
func (p *Publisher) TopicSubscribed(topic string) {
	if pollAddress, ok := PollAddressFromTopic(topic); ok {
		p.Events.PollSubscribed.Trigger(pollAddress)
	}
}

func (p *Publisher) publishOnTopic(topic string, payload interface{}, retain bool) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "marshaling payload for topic %s failed", topic)
	}

	return p.sender.Send(topic, jsonPayload, retain)
}

// PublishPoll publishes the current state of the poll as retained message,
// so new subscribers immediately receive the latest counts.
func (p *Publisher) PublishPoll(poll *ledger.Poll) error {
	return p.publishOnTopic(PollTopic(poll.Address), poll, true)
}

// PublishVote publishes the vote on the votes topic of its poll and updates the poll state.
func (p *Publisher) PublishVote(poll *ledger.Poll, voteRecord *ledger.VoteRecord) error {

	if topic := PollVotesTopic(poll.Address); p.sender.HasSubscribers(topic) {
		if err := p.publishOnTopic(topic, &VotePayload{
			VoteRecord:  voteRecord,
			VoteCounts:  poll.VoteCounts,
			TotalVotes:  poll.TotalVotes,
			Percentages: poll.Percentages(),
		}, false); err != nil {
			return err
		}
	}

	return p.PublishPoll(poll)
}
