package indexer

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/gohornet/verdict/pkg/model/address"
	"github.com/gohornet/verdict/pkg/model/ledger"
)

// addressString is the base58 representation of an address.
type addressString = string

// stringList is stored as a JSON array.
type stringList []string

func (l stringList) Value() (driver.Value, error) {
	return marshalJSONString([]string(l))
}

func (l *stringList) Scan(value interface{}) error {
	return scanJSON(value, (*[]string)(l))
}

// counterList is stored as a JSON array.
type counterList []uint64

func (l counterList) Value() (driver.Value, error) {
	return marshalJSONString([]uint64(l))
}

func (l *counterList) Scan(value interface{}) error {
	return scanJSON(value, (*[]uint64)(l))
}

func marshalJSONString(v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func scanJSON(value interface{}, target interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, target)
	case string:
		return json.Unmarshal([]byte(v), target)
	case nil:
		return nil
	default:
		return errors.Errorf("unsupported column type %T", value)
	}
}

type status struct {
	ID            uint `gorm:"primaryKey;not null"`
	AppliedEvents uint64
	UpdatedAt     time.Time
}

type poll struct {
	Address    addressString `gorm:"primaryKey;size:44;not null"`
	Creator    addressString `gorm:"size:44;not null;uniqueIndex:poll_creator"`
	Bump       uint8
	Question   string      `gorm:"not null"`
	Options    stringList  `gorm:"type:text;not null"`
	VoteCounts counterList `gorm:"type:text;not null"`
	TotalVotes uint64      `gorm:"not null;index:poll_total_votes"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func pollRowFromPoll(p *ledger.Poll) *poll {
	return &poll{
		Address:    p.Address.String(),
		Creator:    p.Creator.String(),
		Bump:       p.Bump,
		Question:   p.Question,
		Options:    p.Options,
		VoteCounts: p.VoteCounts,
		TotalVotes: p.TotalVotes,
	}
}

func (p *poll) toPoll() (*ledger.Poll, error) {
	pollAddress, err := address.Parse(p.Address)
	if err != nil {
		return nil, err
	}
	creator, err := address.Parse(p.Creator)
	if err != nil {
		return nil, err
	}

	return &ledger.Poll{
		Address:    pollAddress,
		Creator:    creator,
		Bump:       p.Bump,
		Question:   p.Question,
		Options:    p.Options,
		VoteCounts: p.VoteCounts,
		TotalVotes: p.TotalVotes,
	}, nil
}

type vote struct {
	Address     addressString `gorm:"primaryKey;size:44;not null"`
	Poll        addressString `gorm:"size:44;not null;uniqueIndex:vote_poll_voter"`
	Voter       addressString `gorm:"size:44;not null;uniqueIndex:vote_poll_voter;index:vote_voter"`
	OptionIndex uint8
	Bump        uint8
	CreatedAt   time.Time
}

func voteRowFromVoteRecord(v *ledger.VoteRecord) *vote {
	return &vote{
		Address:     v.Address.String(),
		Poll:        v.Poll.String(),
		Voter:       v.Voter.String(),
		OptionIndex: v.OptionIndex,
		Bump:        v.Bump,
	}
}

func (v *vote) toVoteRecord() (*ledger.VoteRecord, error) {
	voteRecord := &ledger.VoteRecord{
		OptionIndex: v.OptionIndex,
		Bump:        v.Bump,
	}

	var err error
	if voteRecord.Address, err = address.Parse(v.Address); err != nil {
		return nil, err
	}
	if voteRecord.Poll, err = address.Parse(v.Poll); err != nil {
		return nil, err
	}
	if voteRecord.Voter, err = address.Parse(v.Voter); err != nil {
		return nil, err
	}
	return voteRecord, nil
}
