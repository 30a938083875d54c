package restapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gohornet/verdict/pkg/model/ledger"
)

// PollResponse defines the response of a poll.
type PollResponse struct {
	// The derived address of the poll.
	Address string `json:"address"`
	// The identity key of the creator.
	Creator string `json:"creator"`
	// The bump the poll address was derived with.
	Bump uint8 `json:"bump"`
	// The question of the poll.
	Question string `json:"question"`
	// The options of the poll.
	Options []string `json:"options"`
	// The amount of votes per option.
	VoteCounts []uint64 `json:"voteCounts"`
	// The total amount of votes.
	TotalVotes uint64 `json:"totalVotes"`
	// The share of the votes per option, rounded to whole percent.
	Percentages []int `json:"percentages"`
}

// NewPollResponse creates the response of a poll.
func NewPollResponse(poll *ledger.Poll) *PollResponse {
	return &PollResponse{
		Address:     poll.Address.String(),
		Creator:     poll.Creator.String(),
		Bump:        poll.Bump,
		Question:    poll.Question,
		Options:     poll.Options,
		VoteCounts:  poll.VoteCounts,
		TotalVotes:  poll.TotalVotes,
		Percentages: poll.Percentages(),
	}
}

// PollsResponse defines the response of a poll listing.
type PollsResponse struct {
	// The polls of this page.
	Polls []*PollResponse `json:"polls"`
	// The maximum amount of polls per page.
	PageSize int `json:"pageSize"`
	// The cursor of the next page, empty on the last page.
	Cursor string `json:"cursor,omitempty"`
}

// VoteRecordsResponse defines the response of a vote record listing.
type VoteRecordsResponse struct {
	// The vote records of this page.
	VoteRecords []*ledger.VoteRecord `json:"voteRecords"`
	// The maximum amount of vote records per page.
	PageSize int `json:"pageSize"`
	// The cursor of the next page, empty on the last page.
	Cursor string `json:"cursor,omitempty"`
}

// LedgerError maps an error of a ledger operation to the matching HTTP error.
func LedgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrCapacityExceeded),
		errors.Is(err, ledger.ErrNoOptions),
		errors.Is(err, ledger.ErrInvalidOption),
		errors.Is(err, ledger.ErrInvalidPoll):
		return errors.WithMessagef(ErrInvalidParameter, "%s", err)

	case errors.Is(err, ledger.ErrPollNotFound),
		errors.Is(err, ledger.ErrVoteRecordNotFound):
		return errors.WithMessagef(echo.ErrNotFound, "%s", err)

	case errors.Is(err, ledger.ErrAlreadyExists),
		errors.Is(err, ledger.ErrAlreadyVoted):
		return errors.WithMessagef(ErrConflict, "%s", err)

	default:
		return errors.WithMessagef(echo.ErrInternalServerError, "%s", err)
	}
}
