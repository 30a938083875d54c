package metrics

import (
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/gohornet/verdict/pkg/model/ledger"
)

// RejectReason is the kind of error a ledger operation was rejected with.
type RejectReason string

const (
	RejectCapacityExceeded RejectReason = "capacity_exceeded"
	RejectNoOptions        RejectReason = "no_options"
	RejectAlreadyExists    RejectReason = "already_exists"
	RejectPollNotFound     RejectReason = "poll_not_found"
	RejectInvalidOption    RejectReason = "invalid_option"
	RejectAlreadyVoted     RejectReason = "already_voted"
	RejectOther            RejectReason = "other"
)

// RejectReasons lists all reasons in a fixed order.
var RejectReasons = []RejectReason{
	RejectCapacityExceeded,
	RejectNoOptions,
	RejectAlreadyExists,
	RejectPollNotFound,
	RejectInvalidOption,
	RejectAlreadyVoted,
	RejectOther,
}

// LedgerMetrics defines ledger metrics over the entire runtime of the node.
type LedgerMetrics struct {
	// The number of created polls.
	PollsCreated atomic.Uint64
	// The number of cast votes.
	VotesCast atomic.Uint64
	// The number of ledger events handed to the projections.
	EventsDispatched atomic.Uint64
	// The number of ledger events a projection failed to apply.
	ProjectionErrors atomic.Uint64

	rejectedCapacityExceeded atomic.Uint64
	rejectedNoOptions        atomic.Uint64
	rejectedAlreadyExists    atomic.Uint64
	rejectedPollNotFound     atomic.Uint64
	rejectedInvalidOption    atomic.Uint64
	rejectedAlreadyVoted     atomic.Uint64
	rejectedOther            atomic.Uint64
}

// RejectReasonForError classifies the error of a failed ledger operation.
func RejectReasonForError(err error) RejectReason {
	switch {
	case errors.Is(err, ledger.ErrCapacityExceeded):
		return RejectCapacityExceeded
	case errors.Is(err, ledger.ErrNoOptions):
		return RejectNoOptions
	case errors.Is(err, ledger.ErrAlreadyExists):
		return RejectAlreadyExists
	case errors.Is(err, ledger.ErrPollNotFound):
		return RejectPollNotFound
	case errors.Is(err, ledger.ErrInvalidOption):
		return RejectInvalidOption
	case errors.Is(err, ledger.ErrAlreadyVoted):
		return RejectAlreadyVoted
	default:
		return RejectOther
	}
}

func (m *LedgerMetrics) counter(reason RejectReason) *atomic.Uint64 {
	switch reason {
	case RejectCapacityExceeded:
		return &m.rejectedCapacityExceeded
	case RejectNoOptions:
		return &m.rejectedNoOptions
	case RejectAlreadyExists:
		return &m.rejectedAlreadyExists
	case RejectPollNotFound:
		return &m.rejectedPollNotFound
	case RejectInvalidOption:
		return &m.rejectedInvalidOption
	case RejectAlreadyVoted:
		return &m.rejectedAlreadyVoted
	default:
		return &m.rejectedOther
	}
}

// Rejected counts a failed ledger operation and returns the reason it was counted under.
func (m *LedgerMetrics) Rejected(err error) RejectReason {
	reason := RejectReasonForError(err)
	m.counter(reason).Inc()
	return reason
}

// RejectedCount returns the number of operations rejected for the reason.
func (m *LedgerMetrics) RejectedCount(reason RejectReason) uint64 {
	return m.counter(reason).Load()
}
