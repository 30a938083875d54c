package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/verdict/pkg/model/address"
)

func testPoll() *Poll {
	p := newPoll(address.Address{1}, 254, address.Address{2}, "Color?", []string{"Red", "Blue"})
	p.VoteCounts = []uint64{3, 4}
	p.TotalVotes = 7
	return p
}

func TestPollSpace(t *testing.T) {
	require.Equal(t, 881, DefaultCapacity().PollSpace())
	require.Equal(t, 74, VoteRecordSpace)

	data := testPoll().valueBytes(DefaultCapacity())
	require.Len(t, data, 881)
	require.Equal(t, pollDiscriminator, data[:DiscriminatorLength])
}

func TestPollFromBytes(t *testing.T) {
	p := testPoll()

	decoded, err := pollFromBytes(p.Address, p.valueBytes(DefaultCapacity()))
	require.NoError(t, err)
	require.Equal(t, p, decoded)

	// a grown capacity still reads polls stored with the old one
	grown := Capacity{MaxQuestionLength: 400, MaxOptionsLength: 1000, MaxOptions: 20}
	decoded, err = pollFromBytes(p.Address, p.valueBytes(grown))
	require.NoError(t, err)
	require.Equal(t, p, decoded)
}

func TestPollFromBytesInvalid(t *testing.T) {
	valid := testPoll().valueBytes(DefaultCapacity())

	mismatchedTotal := testPoll()
	mismatchedTotal.TotalVotes = 8

	mismatchedCounters := testPoll()
	mismatchedCounters.VoteCounts = []uint64{7}

	wrongDiscriminator := append([]byte{}, valid...)
	wrongDiscriminator[0] ^= 0xff

	oversizeQuestionLength := append([]byte{}, valid...)
	// question length prefix right after discriminator, creator and bump
	oversizeQuestionLength[DiscriminatorLength+32+1+3] = 0xff

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"wrong discriminator", wrongDiscriminator},
		{"truncated", valid[:DiscriminatorLength+20]},
		{"oversize length prefix", oversizeQuestionLength},
		{"total mismatch", mismatchedTotal.valueBytes(DefaultCapacity())},
		{"counter mismatch", mismatchedCounters.valueBytes(DefaultCapacity())},
		{"vote record", (&VoteRecord{}).valueBytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pollFromBytes(address.Address{1}, tt.data)
			assert.True(t, errors.Is(err, ErrInvalidPoll))
		})
	}
}

func TestVoteRecordFromBytes(t *testing.T) {
	v := &VoteRecord{
		Address:     address.Address{9},
		Voter:       address.Address{3},
		Poll:        address.Address{4},
		OptionIndex: 1,
		Bump:        253,
	}

	data := v.valueBytes()
	require.Len(t, data, VoteRecordSpace)

	decoded, err := voteRecordFromBytes(v.Address, data)
	require.NoError(t, err)
	require.Equal(t, v, decoded)

	_, err = voteRecordFromBytes(v.Address, data[:VoteRecordSpace-1])
	require.True(t, errors.Is(err, ErrInvalidVoteRecord))

	corrupted := append([]byte{}, data...)
	corrupted[1] ^= 0xff
	_, err = voteRecordFromBytes(v.Address, corrupted)
	require.True(t, errors.Is(err, ErrInvalidVoteRecord))
}

func TestPollIncrementOverflow(t *testing.T) {
	p := testPoll()
	p.VoteCounts[0] = ^uint64(0)

	require.True(t, errors.Is(p.increment(0), ErrCounterOverflow))
	require.NoError(t, p.increment(1))
	require.Equal(t, uint64(5), p.VoteCounts[1])
}

func TestPollJSON(t *testing.T) {
	p := testPoll()

	data, err := p.MarshalJSON()
	require.NoError(t, err)

	decoded := &Poll{}
	require.NoError(t, decoded.UnmarshalJSON(data))
	require.Equal(t, p, decoded)
}
