package ledger

import (
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/pkg/errors"

	"github.com/gohornet/verdict/pkg/database"
	"github.com/gohornet/verdict/pkg/model/address"
)

// CastVote counts the vote of voter for the option at optionIndex.
//
// The vote record and the incremented counters are committed together, so a counted vote
// always has a vote record and vice versa. A voter can only vote once per poll, a repeated
// call fails with ErrAlreadyVoted and leaves the poll untouched.
func (l *Ledger) CastVote(pollAddress address.Address, voter address.Address, optionIndex uint8) (*VoteRecord, error) {
	if err := l.acquire(); err != nil {
		return nil, err
	}
	defer l.RUnlock()

	// lock order is always poll, then vote record
	l.addressLocks.Lock(pollAddress)
	defer l.addressLocks.Unlock(pollAddress)

	poll, err := l.loadPoll(pollAddress)
	if err != nil {
		return nil, err
	}

	if !poll.IsValidOption(optionIndex) {
		return nil, errors.WithMessagef(ErrInvalidOption, "option %d given, poll %s has %d options", optionIndex, pollAddress, len(poll.Options))
	}

	mutations := l.store.Batched()

	voteRecord, err := l.recordVote(pollAddress, voter, optionIndex, mutations)
	if err != nil {
		mutations.Cancel()
		return nil, err
	}
	defer l.addressLocks.Unlock(voteRecord.Address)

	if err := poll.increment(optionIndex); err != nil {
		mutations.Cancel()
		return nil, err
	}

	if err := l.storePoll(poll, mutations); err != nil {
		mutations.Cancel()
		return nil, database.Wrap(err, "failed to store poll")
	}

	if err := mutations.Commit(); err != nil {
		return nil, database.Wrap(err, "failed to commit vote")
	}

	l.LogDebugf("voter %s voted for option %d on poll %s", voter, optionIndex, pollAddress)
	l.Events.VoteCast.Trigger(poll.Clone(), voteRecord)

	return voteRecord, nil
}

// recordVote stages a new vote record into mutations.
// On success the vote record address stays locked until the caller unlocks it after the commit.
func (l *Ledger) recordVote(pollAddress address.Address, voter address.Address, optionIndex uint8, mutations kvstore.BatchedMutations) (*VoteRecord, error) {
	voteRecordAddress, bump, err := l.VoteRecordAddress(pollAddress, voter)
	if err != nil {
		return nil, err
	}

	l.addressLocks.Lock(voteRecordAddress)

	exists, err := l.containsKey(voteRecordKeyForAddress(voteRecordAddress))
	if err != nil {
		l.addressLocks.Unlock(voteRecordAddress)
		return nil, err
	}
	if exists {
		l.addressLocks.Unlock(voteRecordAddress)
		return nil, errors.WithMessagef(ErrAlreadyVoted, "voter %s on poll %s", voter, pollAddress)
	}

	voteRecord := &VoteRecord{
		Address:     voteRecordAddress,
		Voter:       voter,
		Poll:        pollAddress,
		OptionIndex: optionIndex,
		Bump:        bump,
	}

	if err := l.storeVoteRecord(voteRecord, mutations); err != nil {
		l.addressLocks.Unlock(voteRecordAddress)
		return nil, database.Wrap(err, "failed to store vote record")
	}

	return voteRecord, nil
}

// VoteRecord returns the vote record of voter on the given poll.
func (l *Ledger) VoteRecord(pollAddress address.Address, voter address.Address) (*VoteRecord, error) {
	if err := l.acquire(); err != nil {
		return nil, err
	}
	defer l.RUnlock()

	voteRecordAddress, _, err := l.VoteRecordAddress(pollAddress, voter)
	if err != nil {
		return nil, err
	}

	return l.loadVoteRecord(voteRecordAddress)
}

// HasVoted returns whether voter has a vote record for the given poll.
func (l *Ledger) HasVoted(pollAddress address.Address, voter address.Address) (bool, error) {
	if err := l.acquire(); err != nil {
		return false, err
	}
	defer l.RUnlock()

	voteRecordAddress, _, err := l.VoteRecordAddress(pollAddress, voter)
	if err != nil {
		return false, err
	}

	return l.containsKey(voteRecordKeyForAddress(voteRecordAddress))
}
