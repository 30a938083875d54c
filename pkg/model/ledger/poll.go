package ledger

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/gohornet/verdict/pkg/model/address"
)

var (
	pollDiscriminator       = discriminator("account:Poll")
	voteRecordDiscriminator = discriminator("account:VoteRecord")
)

func discriminator(name string) []byte {
	hash := blake2b.Sum256([]byte(name))
	return hash[:DiscriminatorLength]
}

// Poll is a question with a fixed set of options and one vote counter per option.
type Poll struct {
	// Address is the derived address the poll lives at.
	Address    address.Address
	Creator    address.Address
	Bump       uint8
	Question   string
	Options    []string
	VoteCounts []uint64
	// TotalVotes always equals the sum of VoteCounts.
	TotalVotes uint64
}

func newPoll(pollAddress address.Address, bump uint8, creator address.Address, question string, options []string) *Poll {
	optionsCopy := make([]string, len(options))
	copy(optionsCopy, options)

	return &Poll{
		Address:    pollAddress,
		Creator:    creator,
		Bump:       bump,
		Question:   question,
		Options:    optionsCopy,
		VoteCounts: make([]uint64, len(options)),
		TotalVotes: 0,
	}
}

// Clone returns a deep copy of the poll.
func (p *Poll) Clone() *Poll {
	options := make([]string, len(p.Options))
	copy(options, p.Options)
	voteCounts := make([]uint64, len(p.VoteCounts))
	copy(voteCounts, p.VoteCounts)

	return &Poll{
		Address:    p.Address,
		Creator:    p.Creator,
		Bump:       p.Bump,
		Question:   p.Question,
		Options:    options,
		VoteCounts: voteCounts,
		TotalVotes: p.TotalVotes,
	}
}

// IsValidOption checks whether the index addresses one of the poll's options.
func (p *Poll) IsValidOption(optionIndex uint8) bool {
	return int(optionIndex) < len(p.Options)
}

// Percentages returns the share of every option in whole percent, rounded half up.
func (p *Poll) Percentages() []int {
	percentages := make([]int, len(p.VoteCounts))
	if p.TotalVotes == 0 {
		return percentages
	}
	for i, count := range p.VoteCounts {
		percentages[i] = int(math.Round(float64(count) / float64(p.TotalVotes) * 100))
	}
	return percentages
}

func (p *Poll) increment(optionIndex uint8) error {
	if p.VoteCounts[optionIndex] == math.MaxUint64 || p.TotalVotes == math.MaxUint64 {
		return ErrCounterOverflow
	}
	p.VoteCounts[optionIndex]++
	p.TotalVotes++
	return nil
}

// valueBytes encodes the poll and pads it to the reserved space.
func (p *Poll) valueBytes(capacity Capacity) []byte {
	space := capacity.PollSpace()

	m := marshalutil.New(space)
	m.WriteBytes(pollDiscriminator)
	m.WriteBytes(p.Creator[:])
	m.WriteUint8(p.Bump)
	m.WriteUint32(uint32(len(p.Question)))
	m.WriteBytes([]byte(p.Question))
	m.WriteUint32(uint32(len(p.Options)))
	for _, option := range p.Options {
		m.WriteUint32(uint32(len(option)))
		m.WriteBytes([]byte(option))
	}
	m.WriteUint32(uint32(len(p.VoteCounts)))
	for _, count := range p.VoteCounts {
		m.WriteUint64(count)
	}
	m.WriteUint64(p.TotalVotes)

	data := m.Bytes()
	if len(data) < space {
		data = append(data, make([]byte, space-len(data))...)
	}
	return data
}

func readLengthPrefixed(m *marshalutil.MarshalUtil, dataLength int) ([]byte, error) {
	length, err := m.ReadUint32()
	if err != nil {
		return nil, err
	}
	if int(length) > dataLength-m.ReadOffset() {
		return nil, errors.Errorf("length prefix %d exceeds remaining data", length)
	}
	return m.ReadBytes(int(length))
}

func pollFromBytes(pollAddress address.Address, data []byte) (*Poll, error) {
	if len(data) < DiscriminatorLength || !bytes.Equal(data[:DiscriminatorLength], pollDiscriminator) {
		return nil, errors.WithMessage(ErrInvalidPoll, "discriminator mismatch")
	}

	m := marshalutil.New(data)
	if _, err := m.ReadBytes(DiscriminatorLength); err != nil {
		return nil, errors.WithMessage(ErrInvalidPoll, err.Error())
	}

	p, err := readPoll(m, len(data))
	if err != nil {
		return nil, errors.WithMessage(ErrInvalidPoll, err.Error())
	}
	p.Address = pollAddress

	if len(p.Options) != len(p.VoteCounts) {
		return nil, errors.WithMessagef(ErrInvalidPoll, "%d options but %d vote counters", len(p.Options), len(p.VoteCounts))
	}

	var sum uint64
	for _, count := range p.VoteCounts {
		sum += count
	}
	if sum != p.TotalVotes {
		return nil, errors.WithMessagef(ErrInvalidPoll, "total votes %d does not match sum of vote counts %d", p.TotalVotes, sum)
	}

	return p, nil
}

func readPoll(m *marshalutil.MarshalUtil, dataLength int) (*Poll, error) {
	creatorBytes, err := m.ReadBytes(address.Length)
	if err != nil {
		return nil, err
	}

	bump, err := m.ReadUint8()
	if err != nil {
		return nil, err
	}

	question, err := readLengthPrefixed(m, dataLength)
	if err != nil {
		return nil, err
	}

	optionsCount, err := m.ReadUint32()
	if err != nil {
		return nil, err
	}
	if optionsCount > MaxOptionsLimit {
		return nil, errors.Errorf("%d options exceed the limit", optionsCount)
	}

	options := make([]string, optionsCount)
	for i := range options {
		option, err := readLengthPrefixed(m, dataLength)
		if err != nil {
			return nil, err
		}
		options[i] = string(option)
	}

	countersCount, err := m.ReadUint32()
	if err != nil {
		return nil, err
	}
	if countersCount > MaxOptionsLimit {
		return nil, errors.Errorf("%d vote counters exceed the limit", countersCount)
	}

	voteCounts := make([]uint64, countersCount)
	for i := range voteCounts {
		if voteCounts[i], err = m.ReadUint64(); err != nil {
			return nil, err
		}
	}

	totalVotes, err := m.ReadUint64()
	if err != nil {
		return nil, err
	}

	var creator address.Address
	copy(creator[:], creatorBytes)

	return &Poll{
		Creator:    creator,
		Bump:       bump,
		Question:   string(question),
		Options:    options,
		VoteCounts: voteCounts,
		TotalVotes: totalVotes,
	}, nil
}

type jsonPoll struct {
	Address    string   `json:"address"`
	Creator    string   `json:"creator"`
	Bump       uint8    `json:"bump"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	VoteCounts []uint64 `json:"voteCounts"`
	TotalVotes uint64   `json:"totalVotes"`
}

func (p *Poll) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonPoll{
		Address:    p.Address.String(),
		Creator:    p.Creator.String(),
		Bump:       p.Bump,
		Question:   p.Question,
		Options:    p.Options,
		VoteCounts: p.VoteCounts,
		TotalVotes: p.TotalVotes,
	})
}

func (p *Poll) UnmarshalJSON(data []byte) error {
	j := &jsonPoll{}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}

	pollAddress, err := address.Parse(j.Address)
	if err != nil {
		return err
	}
	creator, err := address.Parse(j.Creator)
	if err != nil {
		return err
	}

	p.Address = pollAddress
	p.Creator = creator
	p.Bump = j.Bump
	p.Question = j.Question
	p.Options = j.Options
	p.VoteCounts = j.VoteCounts
	p.TotalVotes = j.TotalVotes
	return nil
}
