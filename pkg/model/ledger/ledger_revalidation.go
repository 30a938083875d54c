package ledger

import (
	"github.com/pkg/errors"
)

// revalidate checks that the counters of every poll match the vote records stored for it.
// Poll and vote record are written in one batch, so a mismatch means the store itself was damaged.
func (l *Ledger) revalidate() error {

	var polls []*Poll
	if err := l.ForEachPoll(func(poll *Poll) bool {
		polls = append(polls, poll)
		return true
	}); err != nil {
		return errors.Wrapf(ErrLedgerCorruptedStorage, "loading polls failed: %s", err)
	}

	for _, poll := range polls {
		voteCounts := make([]uint64, len(poll.Options))

		var innerErr error
		if err := l.ForEachVoteRecord(poll.Address, func(voteRecord *VoteRecord) bool {
			if !poll.IsValidOption(voteRecord.OptionIndex) {
				innerErr = errors.Wrapf(ErrLedgerCorruptedStorage, "vote record %s references option %d of poll %s with %d options", voteRecord.Address, voteRecord.OptionIndex, poll.Address, len(poll.Options))
				return false
			}
			voteCounts[voteRecord.OptionIndex]++
			return true
		}); err != nil {
			return errors.Wrapf(ErrLedgerCorruptedStorage, "loading vote records of poll %s failed: %s", poll.Address, err)
		}
		if innerErr != nil {
			return innerErr
		}

		for i, count := range voteCounts {
			if poll.VoteCounts[i] != count {
				return errors.Wrapf(ErrLedgerCorruptedStorage, "poll %s counts %d votes for option %d, but %d vote records exist", poll.Address, poll.VoteCounts[i], i, count)
			}
		}
	}

	l.LogInfof("revalidated %d polls", len(polls))

	return nil
}
