package ledger

import (
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/pkg/errors"

	"github.com/gohornet/verdict/pkg/database"
	"github.com/gohornet/verdict/pkg/model/address"
)

// Polls

func pollKeyForAddress(pollAddress address.Address) []byte {
	m := marshalutil.New(33)
	m.WriteByte(LedgerStoreKeyPrefixPolls) // 1 byte
	m.WriteBytes(pollAddress[:])           // 32 bytes
	return m.Bytes()
}

func (l *Ledger) loadPoll(pollAddress address.Address) (*Poll, error) {
	value, err := l.store.Get(pollKeyForAddress(pollAddress))
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, database.Wrap(err, "failed to load poll")
	}

	return pollFromBytes(pollAddress, value)
}

func (l *Ledger) storePoll(poll *Poll, mutations kvstore.BatchedMutations) error {
	return mutations.Set(pollKeyForAddress(poll.Address), poll.valueBytes(l.opts.capacity))
}

// Vote records

func voteRecordKeyForAddress(voteRecordAddress address.Address) []byte {
	m := marshalutil.New(33)
	m.WriteByte(LedgerStoreKeyPrefixVoteRecords) // 1 byte
	m.WriteBytes(voteRecordAddress[:])           // 32 bytes
	return m.Bytes()
}

func voteRecordsByPollKeyPrefix(pollAddress address.Address) []byte {
	m := marshalutil.New(33)
	m.WriteByte(LedgerStoreKeyPrefixVoteRecordsByPoll) // 1 byte
	m.WriteBytes(pollAddress[:])                       // 32 bytes
	return m.Bytes()
}

func voteRecordsByPollKey(pollAddress address.Address, voter address.Address) []byte {
	m := marshalutil.New(65)
	m.WriteBytes(voteRecordsByPollKeyPrefix(pollAddress)) // 33 bytes
	m.WriteBytes(voter[:])                                // 32 bytes
	return m.Bytes()
}

func (l *Ledger) loadVoteRecord(voteRecordAddress address.Address) (*VoteRecord, error) {
	value, err := l.store.Get(voteRecordKeyForAddress(voteRecordAddress))
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ErrVoteRecordNotFound
		}
		return nil, database.Wrap(err, "failed to load vote record")
	}

	return voteRecordFromBytes(voteRecordAddress, value)
}

func (l *Ledger) storeVoteRecord(voteRecord *VoteRecord, mutations kvstore.BatchedMutations) error {
	if err := mutations.Set(voteRecordKeyForAddress(voteRecord.Address), voteRecord.valueBytes()); err != nil {
		return err
	}
	return mutations.Set(voteRecordsByPollKey(voteRecord.Poll, voteRecord.Voter), []byte{})
}

func (l *Ledger) containsKey(key []byte) (bool, error) {
	contains, err := l.store.Has(key)
	if err != nil {
		return false, database.Wrap(err, "failed to check key")
	}
	return contains, nil
}

// Iteration

type IterateOptions struct {
	maxResultCount int
}

type IterateOption func(*IterateOptions)

// MaxResultCount stops the iteration after count elements. Zero means no limit.
func MaxResultCount(count int) IterateOption {
	return func(args *IterateOptions) {
		args.maxResultCount = count
	}
}

func iterateOptions(optionalOptions []IterateOption) *IterateOptions {
	result := &IterateOptions{
		maxResultCount: 0,
	}

	for _, optionalOption := range optionalOptions {
		optionalOption(result)
	}
	return result
}

// PollConsumer is called for every poll. Returning false stops the iteration.
type PollConsumer func(poll *Poll) bool

// VoteRecordConsumer is called for every vote record. Returning false stops the iteration.
type VoteRecordConsumer func(voteRecord *VoteRecord) bool

// ForEachPoll iterates over all polls.
func (l *Ledger) ForEachPoll(consumer PollConsumer, options ...IterateOption) error {
	if err := l.acquire(); err != nil {
		return err
	}
	defer l.RUnlock()

	opt := iterateOptions(options)

	var innerErr error
	var i int
	if err := l.store.Iterate(kvstore.KeyPrefix{LedgerStoreKeyPrefixPolls}, func(key kvstore.Key, value kvstore.Value) bool {

		if (opt.maxResultCount > 0) && (i >= opt.maxResultCount) {
			return false
		}

		i++

		pollAddress, err := address.FromBytes(key[1:]) // Skip the prefix
		if err != nil {
			innerErr = err
			return false
		}

		poll, err := pollFromBytes(pollAddress, value)
		if err != nil {
			innerErr = err
			return false
		}

		return consumer(poll)
	}); err != nil {
		return database.Wrap(err, "failed to iterate polls")
	}

	return innerErr
}

// ForEachVoteRecord iterates over all vote records of the given poll.
func (l *Ledger) ForEachVoteRecord(pollAddress address.Address, consumer VoteRecordConsumer, options ...IterateOption) error {
	if err := l.acquire(); err != nil {
		return err
	}
	defer l.RUnlock()

	opt := iterateOptions(options)

	var voters []address.Address
	if err := l.store.Iterate(voteRecordsByPollKeyPrefix(pollAddress), func(key kvstore.Key, _ kvstore.Value) bool {

		if (opt.maxResultCount > 0) && (len(voters) >= opt.maxResultCount) {
			return false
		}

		var voter address.Address
		copy(voter[:], key[33:]) // Skip the prefix and the poll address
		voters = append(voters, voter)
		return true
	}); err != nil {
		return database.Wrap(err, "failed to iterate vote records")
	}

	for _, voter := range voters {
		voteRecordAddress, _, err := l.VoteRecordAddress(pollAddress, voter)
		if err != nil {
			return err
		}

		voteRecord, err := l.loadVoteRecord(voteRecordAddress)
		if err != nil {
			return err
		}

		if !consumer(voteRecord) {
			break
		}
	}

	return nil
}
