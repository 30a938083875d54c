package mqtt

import (
	"strings"

	"github.com/gohornet/verdict/pkg/model/address"
)

// Topic names
const (
	parameterPollAddress = "{pollAddress}"

	TopicPoll      = "polls/" + parameterPollAddress
	TopicPollVotes = "polls/" + parameterPollAddress + "/votes"
)

// PollTopic returns the topic the current state of a poll is published on.
func PollTopic(pollAddress address.Address) string {
	return strings.Replace(TopicPoll, parameterPollAddress, pollAddress.String(), 1)
}

// PollVotesTopic returns the topic the votes of a poll are published on.
func PollVotesTopic(pollAddress address.Address) string {
	return strings.Replace(TopicPollVotes, parameterPollAddress, pollAddress.String(), 1)
}

// PollAddressFromTopic returns the poll address of a poll topic.
func PollAddressFromTopic(topic string) (address.Address, bool) {
	if !strings.HasPrefix(topic, "polls/") {
		return address.NullAddress, false
	}

	pollAddress, err := address.Parse(strings.TrimPrefix(topic, "polls/"))
	if err != nil {
		return address.NullAddress, false
	}
	return pollAddress, true
}
