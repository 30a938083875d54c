package ledger

import (
	"bytes"
	"encoding/json"

	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/pkg/errors"

	"github.com/gohornet/verdict/pkg/model/address"
)

// VoteRecord proves that a voter voted on a poll. It is never mutated once stored.
type VoteRecord struct {
	// Address is the derived address the vote record lives at.
	Address     address.Address
	Voter       address.Address
	Poll        address.Address
	OptionIndex uint8
	Bump        uint8
}

func (v *VoteRecord) valueBytes() []byte {
	m := marshalutil.New(VoteRecordSpace)
	m.WriteBytes(voteRecordDiscriminator)
	m.WriteBytes(v.Voter[:])
	m.WriteBytes(v.Poll[:])
	m.WriteUint8(v.OptionIndex)
	m.WriteUint8(v.Bump)
	return m.Bytes()
}

func voteRecordFromBytes(voteRecordAddress address.Address, data []byte) (*VoteRecord, error) {
	if len(data) != VoteRecordSpace {
		return nil, errors.WithMessagef(ErrInvalidVoteRecord, "expected %d bytes, got %d", VoteRecordSpace, len(data))
	}
	if !bytes.Equal(data[:DiscriminatorLength], voteRecordDiscriminator) {
		return nil, errors.WithMessage(ErrInvalidVoteRecord, "discriminator mismatch")
	}

	m := marshalutil.New(data[DiscriminatorLength:])

	voterBytes, err := m.ReadBytes(address.Length)
	if err != nil {
		return nil, errors.WithMessage(ErrInvalidVoteRecord, err.Error())
	}
	pollBytes, err := m.ReadBytes(address.Length)
	if err != nil {
		return nil, errors.WithMessage(ErrInvalidVoteRecord, err.Error())
	}
	optionIndex, err := m.ReadUint8()
	if err != nil {
		return nil, errors.WithMessage(ErrInvalidVoteRecord, err.Error())
	}
	bump, err := m.ReadUint8()
	if err != nil {
		return nil, errors.WithMessage(ErrInvalidVoteRecord, err.Error())
	}

	v := &VoteRecord{
		Address:     voteRecordAddress,
		OptionIndex: optionIndex,
		Bump:        bump,
	}
	copy(v.Voter[:], voterBytes)
	copy(v.Poll[:], pollBytes)
	return v, nil
}

type jsonVoteRecord struct {
	Address     string `json:"address"`
	Voter       string `json:"voter"`
	Poll        string `json:"poll"`
	OptionIndex uint8  `json:"optionIndex"`
	Bump        uint8  `json:"bump"`
}

func (v *VoteRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonVoteRecord{
		Address:     v.Address.String(),
		Voter:       v.Voter.String(),
		Poll:        v.Poll.String(),
		OptionIndex: v.OptionIndex,
		Bump:        v.Bump,
	})
}

func (v *VoteRecord) UnmarshalJSON(data []byte) error {
	j := &jsonVoteRecord{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}

	var err error
	if v.Address, err = address.Parse(j.Address); err != nil {
		return err
	}
	if v.Voter, err = address.Parse(j.Voter); err != nil {
		return err
	}
	if v.Poll, err = address.Parse(j.Poll); err != nil {
		return err
	}
	v.OptionIndex = j.OptionIndex
	v.Bump = j.Bump
	return nil
}
