package ledger

import (
	"github.com/pkg/errors"
)

var (
	// ErrCapacityExceeded is returned if the question or the options do not fit the reserved poll space.
	ErrCapacityExceeded = errors.New("poll exceeds the reserved capacity")
	// ErrNoOptions is returned if a poll is created without options.
	ErrNoOptions = errors.New("poll needs at least one option")
	// ErrAlreadyExists is returned if a poll already lives at the derived poll address.
	ErrAlreadyExists = errors.New("poll already exists")
	// ErrPollNotFound is returned if no poll lives at the given address.
	ErrPollNotFound = errors.New("poll not found")
	// ErrInvalidOption is returned if the option index is out of range of the poll's options.
	ErrInvalidOption = errors.New("invalid option index")
	// ErrAlreadyVoted is returned if the voter already has a vote record for the poll.
	// Callers retrying a vote should treat it as "the earlier vote was counted".
	ErrAlreadyVoted = errors.New("voter already voted on this poll")
	// ErrVoteRecordNotFound is returned if the voter has no vote record for the poll.
	ErrVoteRecordNotFound = errors.New("vote record not found")
	// ErrCounterOverflow is returned if a vote counter cannot be incremented any further.
	ErrCounterOverflow = errors.New("vote counter overflow")

	ErrInvalidPoll       = errors.New("invalid poll record")
	ErrInvalidVoteRecord = errors.New("invalid vote record")

	ErrLedgerCorruptedStorage = errors.New("the ledger database was not shutdown properly")
	// ErrLedgerVersionMismatch is returned if the store was written with another database scheme.
	ErrLedgerVersionMismatch = errors.New("ledger database version mismatch. The database scheme was updated. Please delete the database folder.")
)
