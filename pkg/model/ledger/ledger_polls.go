package ledger

import (
	"github.com/pkg/errors"

	"github.com/gohornet/verdict/pkg/database"
	"github.com/gohornet/verdict/pkg/model/address"
)

// CreatePoll stores a new poll at the address derived from the creator.
// It fails with ErrAlreadyExists if the creator already owns a poll.
func (l *Ledger) CreatePoll(creator address.Address, question string, options []string) (*Poll, error) {
	if err := l.acquire(); err != nil {
		return nil, err
	}
	defer l.RUnlock()

	if err := l.opts.capacity.Check(question, options); err != nil {
		return nil, err
	}

	pollAddress, bump, err := l.PollAddress(creator)
	if err != nil {
		return nil, err
	}

	l.addressLocks.Lock(pollAddress)
	defer l.addressLocks.Unlock(pollAddress)

	exists, err := l.containsKey(pollKeyForAddress(pollAddress))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.WithMessagef(ErrAlreadyExists, "creator %s already owns poll %s", creator, pollAddress)
	}

	poll := newPoll(pollAddress, bump, creator, question, options)

	mutations := l.store.Batched()

	if err := l.storePoll(poll, mutations); err != nil {
		mutations.Cancel()
		return nil, database.Wrap(err, "failed to store poll")
	}

	if err := mutations.Commit(); err != nil {
		return nil, database.Wrap(err, "failed to commit poll")
	}

	l.LogDebugf("created poll %s by %s with %d options", pollAddress, creator, len(options))
	l.Events.PollCreated.Trigger(poll.Clone())

	return poll, nil
}

// Poll returns the poll stored at the given address.
func (l *Ledger) Poll(pollAddress address.Address) (*Poll, error) {
	if err := l.acquire(); err != nil {
		return nil, err
	}
	defer l.RUnlock()

	return l.loadPoll(pollAddress)
}

// PollByCreator returns the poll owned by the creator.
func (l *Ledger) PollByCreator(creator address.Address) (*Poll, error) {
	pollAddress, _, err := l.PollAddress(creator)
	if err != nil {
		return nil, err
	}
	return l.Poll(pollAddress)
}
