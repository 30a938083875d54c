package indexer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/verdict/pkg/indexer"
	"github.com/gohornet/verdict/pkg/model/address"
	"github.com/gohornet/verdict/pkg/model/ledger"
	"github.com/gohornet/verdict/pkg/model/ledger/test"
	"github.com/iotaledger/hive.go/events"
)

func newTestIndexer(t *testing.T) *indexer.Indexer {
	dialector, err := indexer.Dialector("sqlite", t.TempDir())
	require.NoError(t, err)

	idx, err := indexer.NewIndexer(dialector)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, idx.CloseDatabase())
	})
	return idx
}

func attach(t *testing.T, l *ledger.Ledger, idx *indexer.Indexer) {
	l.Events.PollCreated.Attach(events.NewClosure(func(p *ledger.Poll) {
		require.NoError(t, idx.ApplyPollCreated(p))
	}))
	l.Events.VoteCast.Attach(events.NewClosure(func(p *ledger.Poll, v *ledger.VoteRecord) {
		require.NoError(t, idx.ApplyVoteCast(p, v))
	}))
}

func TestDialector(t *testing.T) {
	_, err := indexer.Dialector("postgres", "")
	require.Error(t, err)

	_, err = indexer.Dialector("mysql", "dsn")
	require.Error(t, err)

	_, err = indexer.Dialector("postgres", "host=localhost user=verdict dbname=verdict")
	require.NoError(t, err)
}

func TestIndexerProjection(t *testing.T) {
	env := test.NewLedgerTestEnv(t)
	defer env.Cleanup()

	idx := newTestIndexer(t)
	attach(t, env.Ledger(), idx)

	p := env.CreateDefaultPoll()
	env.CastVote(p.Address, env.Voter1, 1)
	env.CastVote(p.Address, env.Voter2, 1)

	indexed, err := idx.Poll(p.Address)
	require.NoError(t, err)
	require.Equal(t, env.Creator, indexed.Creator)
	require.Equal(t, test.DefaultOptions, indexed.Options)
	require.Equal(t, []uint64{0, 2}, indexed.VoteCounts)
	require.Equal(t, uint64(2), indexed.TotalVotes)

	votes, cursor, err := idx.VoteRecordsForPoll(p.Address, "", 0)
	require.NoError(t, err)
	require.Empty(t, cursor)
	require.Len(t, votes, 2)

	byVoter, err := idx.VoteRecordsByVoter(env.Voter1, 0)
	require.NoError(t, err)
	require.Len(t, byVoter, 1)
	require.Equal(t, p.Address, byVoter[0].Poll)
	require.Equal(t, uint8(1), byVoter[0].OptionIndex)

	applied, err := idx.AppliedEvents()
	require.NoError(t, err)
	require.Equal(t, uint64(3), applied)

	polls, votesCount, err := idx.Counts()
	require.NoError(t, err)
	require.Equal(t, int64(1), polls)
	require.Equal(t, int64(2), votesCount)

	_, err = idx.Poll(env.Voter3)
	require.True(t, errors.Is(err, indexer.ErrNotFound))
}

func TestIndexerPollFilters(t *testing.T) {
	env := test.NewLedgerTestEnv(t)
	defer env.Cleanup()

	idx := newTestIndexer(t)
	attach(t, env.Ledger(), idx)

	creators := []address.Address{env.Creator, env.Voter1, env.Voter2, env.Voter3, test.Identity(t, "Voter4")}
	for _, creator := range creators {
		_, err := env.Ledger().CreatePoll(creator, "Color?", test.DefaultOptions)
		require.NoError(t, err)
	}

	byCreator, err := env.Ledger().PollByCreator(env.Voter2)
	require.NoError(t, err)
	env.CastVote(byCreator.Address, env.Voter1, 0)

	seen := make(map[address.Address]struct{})
	var cursor string
	pages := 0
	for {
		polls, next, err := idx.PollsWithFilters(indexer.PollMaxResults(2), indexer.PollCursor(cursor))
		require.NoError(t, err)
		for _, p := range polls {
			seen[p.Address] = struct{}{}
		}
		pages++
		if next == "" {
			break
		}
		cursor = next
	}
	require.Len(t, seen, len(creators))
	require.Equal(t, 3, pages)

	polls, _, err := idx.PollsWithFilters(indexer.PollCreator(env.Voter2))
	require.NoError(t, err)
	require.Len(t, polls, 1)
	require.Equal(t, byCreator.Address, polls[0].Address)

	polls, _, err = idx.PollsWithFilters(indexer.PollMinVotes(1))
	require.NoError(t, err)
	require.Len(t, polls, 1)
	require.Equal(t, byCreator.Address, polls[0].Address)
}

func TestIndexerImportLedger(t *testing.T) {
	env := test.NewLedgerTestEnv(t)
	defer env.Cleanup()

	p := env.CreateDefaultPoll()
	env.CastVote(p.Address, env.Voter1, 0)
	env.CastVote(p.Address, env.Voter2, 1)
	env.CastVote(p.Address, env.Voter3, 1)

	// the index was not attached while the votes were cast
	idx := newTestIndexer(t)
	require.NoError(t, idx.ImportLedger(env.Ledger()))

	indexed, err := idx.Poll(p.Address)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2}, indexed.VoteCounts)

	votes, _, err := idx.VoteRecordsForPoll(p.Address, "", 0)
	require.NoError(t, err)
	require.Len(t, votes, 3)

	// importing twice keeps the rows unique
	require.NoError(t, idx.ImportLedger(env.Ledger()))
	_, votesCount, err := idx.Counts()
	require.NoError(t, err)
	require.Equal(t, int64(3), votesCount)
}
