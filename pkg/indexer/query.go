package indexer

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/gohornet/verdict/pkg/model/address"
	"github.com/gohornet/verdict/pkg/model/ledger"
)

type PollFilterOptions struct {
	creator    *address.Address
	minVotes   *uint64
	cursor     string
	maxResults int
}

type PollFilterOption func(*PollFilterOptions)

func PollCreator(creator address.Address) PollFilterOption {
	return func(args *PollFilterOptions) {
		args.creator = &creator
	}
}

func PollMinVotes(minVotes uint64) PollFilterOption {
	return func(args *PollFilterOptions) {
		args.minVotes = &minVotes
	}
}

// PollCursor continues a listing after the poll address returned as cursor of the previous page.
func PollCursor(cursor string) PollFilterOption {
	return func(args *PollFilterOptions) {
		args.cursor = cursor
	}
}

func PollMaxResults(maxResults int) PollFilterOption {
	return func(args *PollFilterOptions) {
		args.maxResults = maxResults
	}
}

func pollFilterOptions(optionalOptions []PollFilterOption) *PollFilterOptions {
	result := &PollFilterOptions{
		creator:    nil,
		minVotes:   nil,
		cursor:     "",
		maxResults: 0,
	}

	for _, optionalOption := range optionalOptions {
		optionalOption(result)
	}
	return result
}

// PollsWithFilters returns the polls matching the filters ordered by address,
// and the cursor of the next page, which is empty on the last page.
func (i *Indexer) PollsWithFilters(filters ...PollFilterOption) ([]*ledger.Poll, string, error) {
	opts := pollFilterOptions(filters)
	query := i.db.Model(&poll{}).Order("address")

	if opts.creator != nil {
		query = query.Where("creator = ?", opts.creator.String())
	}

	if opts.minVotes != nil {
		query = query.Where("total_votes >= ?", *opts.minVotes)
	}

	if len(opts.cursor) > 0 {
		query = query.Where("address > ?", opts.cursor)
	}

	if opts.maxResults > 0 {
		// fetch one more to know whether there is a next page
		query = query.Limit(opts.maxResults + 1)
	}

	var rows []*poll
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	var cursor string
	if opts.maxResults > 0 && len(rows) > opts.maxResults {
		rows = rows[:opts.maxResults]
		cursor = rows[len(rows)-1].Address
	}

	polls := make([]*ledger.Poll, 0, len(rows))
	for _, row := range rows {
		p, err := row.toPoll()
		if err != nil {
			return nil, "", err
		}
		polls = append(polls, p)
	}

	return polls, cursor, nil
}

// Poll returns the indexed poll at the given address.
func (i *Indexer) Poll(pollAddress address.Address) (*ledger.Poll, error) {
	row := &poll{}
	if err := i.db.Take(row, "address = ?", pollAddress.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.toPoll()
}

// VoteRecordsForPoll returns the votes of a poll ordered by voter,
// and the cursor of the next page, which is empty on the last page.
func (i *Indexer) VoteRecordsForPoll(pollAddress address.Address, cursor string, maxResults int) ([]*ledger.VoteRecord, string, error) {
	query := i.db.Model(&vote{}).Where("poll = ?", pollAddress.String()).Order("voter")

	if len(cursor) > 0 {
		query = query.Where("voter > ?", cursor)
	}

	if maxResults > 0 {
		query = query.Limit(maxResults + 1)
	}

	var rows []*vote
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	var nextCursor string
	if maxResults > 0 && len(rows) > maxResults {
		rows = rows[:maxResults]
		nextCursor = rows[len(rows)-1].Voter
	}

	voteRecords := make([]*ledger.VoteRecord, 0, len(rows))
	for _, row := range rows {
		v, err := row.toVoteRecord()
		if err != nil {
			return nil, "", err
		}
		voteRecords = append(voteRecords, v)
	}

	return voteRecords, nextCursor, nil
}

// VoteRecordsByVoter returns all polls a voter voted on.
func (i *Indexer) VoteRecordsByVoter(voter address.Address, maxResults int) ([]*ledger.VoteRecord, error) {
	query := i.db.Model(&vote{}).Where("voter = ?", voter.String()).Order("created_at")
	if maxResults > 0 {
		query = query.Limit(maxResults)
	}

	var rows []*vote
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	voteRecords := make([]*ledger.VoteRecord, 0, len(rows))
	for _, row := range rows {
		v, err := row.toVoteRecord()
		if err != nil {
			return nil, err
		}
		voteRecords = append(voteRecords, v)
	}
	return voteRecords, nil
}

// Counts returns the amount of indexed polls and votes.
func (i *Indexer) Counts() (int64, int64, error) {
	var polls, votes int64
	if err := i.db.Model(&poll{}).Count(&polls).Error; err != nil {
		return 0, 0, err
	}
	if err := i.db.Model(&vote{}).Count(&votes).Error; err != nil {
		return 0, 0, err
	}
	return polls, votes, nil
}
