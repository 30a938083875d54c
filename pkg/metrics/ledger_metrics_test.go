package metrics_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/verdict/pkg/metrics"
	"github.com/gohornet/verdict/pkg/model/ledger"
)

func TestRejectReasonForError(t *testing.T) {
	tests := []struct {
		err    error
		reason metrics.RejectReason
	}{
		{errors.Wrap(ledger.ErrCapacityExceeded, "question"), metrics.RejectCapacityExceeded},
		{ledger.ErrNoOptions, metrics.RejectNoOptions},
		{ledger.ErrAlreadyExists, metrics.RejectAlreadyExists},
		{errors.WithMessage(ledger.ErrPollNotFound, "poll"), metrics.RejectPollNotFound},
		{ledger.ErrInvalidOption, metrics.RejectInvalidOption},
		{ledger.ErrAlreadyVoted, metrics.RejectAlreadyVoted},
		{errors.New("disk full"), metrics.RejectOther},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			require.Equal(t, tt.reason, metrics.RejectReasonForError(tt.err))
		})
	}
}

func TestLedgerMetricsRejected(t *testing.T) {
	m := &metrics.LedgerMetrics{}

	require.Equal(t, metrics.RejectAlreadyVoted, m.Rejected(ledger.ErrAlreadyVoted))
	m.Rejected(ledger.ErrAlreadyVoted)
	m.Rejected(ledger.ErrInvalidOption)

	require.Equal(t, uint64(2), m.RejectedCount(metrics.RejectAlreadyVoted))
	require.Equal(t, uint64(1), m.RejectedCount(metrics.RejectInvalidOption))
	require.Equal(t, uint64(0), m.RejectedCount(metrics.RejectOther))

	var total uint64
	for _, reason := range metrics.RejectReasons {
		total += m.RejectedCount(reason)
	}
	require.Equal(t, uint64(3), total)
}
