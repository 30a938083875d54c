package test

import (
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"github.com/gohornet/verdict/pkg/model/address"
	"github.com/gohornet/verdict/pkg/model/ledger"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
)

const (
	DefaultQuestion = "Color?"
)

var (
	DefaultOptions = []string{"Red", "Blue"}
)

// LedgerTestEnv holds a Ledger on an in-memory store and a few identities.
type LedgerTestEnv struct {
	t *testing.T

	Creator address.Address
	Voter1  address.Address
	Voter2  address.Address
	Voter3  address.Address

	store  kvstore.KVStore
	ledger *ledger.Ledger
}

func NewLedgerTestEnv(t *testing.T, opts ...ledger.Option) *LedgerTestEnv {
	store := mapdb.NewMapDB()

	l, err := ledger.NewLedger(store, opts...)
	require.NoError(t, err)

	return &LedgerTestEnv{
		t:       t,
		Creator: Identity(t, "Creator"),
		Voter1:  Identity(t, "Voter1"),
		Voter2:  Identity(t, "Voter2"),
		Voter3:  Identity(t, "Voter3"),
		store:   store,
		ledger:  l,
	}
}

// Identity returns the ed25519 identity key derived from name.
func Identity(t *testing.T, name string) address.Address {
	seed := blake2b.Sum256([]byte(name))
	privateKey := ed25519.NewKeyFromSeed(seed[:])

	identity, err := address.FromPublicKey(privateKey.Public().(ed25519.PublicKey))
	require.NoError(t, err)
	return identity
}

func (env *LedgerTestEnv) Ledger() *ledger.Ledger {
	return env.ledger
}

func (env *LedgerTestEnv) Store() kvstore.KVStore {
	return env.store
}

func (env *LedgerTestEnv) Cleanup() {
	require.NoError(env.t, env.ledger.CloseDatabase())
}

// CreateDefaultPoll creates the "Color?" poll owned by the env's creator.
func (env *LedgerTestEnv) CreateDefaultPoll() *ledger.Poll {
	poll, err := env.ledger.CreatePoll(env.Creator, DefaultQuestion, DefaultOptions)
	require.NoError(env.t, err)
	return poll
}

// CastVote casts a vote and expects it to succeed.
func (env *LedgerTestEnv) CastVote(pollAddress address.Address, voter address.Address, optionIndex uint8) *ledger.VoteRecord {
	voteRecord, err := env.ledger.CastVote(pollAddress, voter, optionIndex)
	require.NoError(env.t, err)
	return voteRecord
}

// AssertPollCounts checks the vote counters of a poll and that the total matches their sum.
func (env *LedgerTestEnv) AssertPollCounts(pollAddress address.Address, voteCounts ...uint64) {
	poll, err := env.ledger.Poll(pollAddress)
	require.NoError(env.t, err)

	require.Equal(env.t, voteCounts, poll.VoteCounts)

	var sum uint64
	for _, count := range poll.VoteCounts {
		sum += count
	}
	require.Equal(env.t, sum, poll.TotalVotes)
}

func (env *LedgerTestEnv) AssertVoteRecord(pollAddress address.Address, voter address.Address, optionIndex uint8) {
	voteRecord, err := env.ledger.VoteRecord(pollAddress, voter)
	require.NoError(env.t, err)
	require.Equal(env.t, voter, voteRecord.Voter)
	require.Equal(env.t, pollAddress, voteRecord.Poll)
	require.Equal(env.t, optionIndex, voteRecord.OptionIndex)
}

func (env *LedgerTestEnv) AssertNoVoteRecord(pollAddress address.Address, voter address.Address) {
	_, err := env.ledger.VoteRecord(pollAddress, voter)
	require.True(env.t, errors.Is(err, ledger.ErrVoteRecordNotFound))
}

func (env *LedgerTestEnv) AssertVoteRecordCount(pollAddress address.Address, count int) {
	var found int
	require.NoError(env.t, env.ledger.ForEachVoteRecord(pollAddress, func(_ *ledger.VoteRecord) bool {
		found++
		return true
	}))
	require.Equal(env.t, count, found)
}
