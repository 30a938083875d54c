package mqtt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/verdict/pkg/model/ledger/test"
	"github.com/gohornet/verdict/pkg/mqtt"
)

func TestPollAddressFromTopic(t *testing.T) {
	pollAddress := test.Identity(t, "Poll")

	parsed, ok := mqtt.PollAddressFromTopic(mqtt.PollTopic(pollAddress))
	require.True(t, ok)
	require.Equal(t, pollAddress, parsed)

	_, ok = mqtt.PollAddressFromTopic(mqtt.PollVotesTopic(pollAddress))
	require.False(t, ok)

	_, ok = mqtt.PollAddressFromTopic("polls/invalid")
	require.False(t, ok)

	_, ok = mqtt.PollAddressFromTopic("votes/" + pollAddress.String())
	require.False(t, ok)
}
