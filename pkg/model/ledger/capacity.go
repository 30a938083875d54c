package ledger

import (
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	// DiscriminatorLength is the length of the type header in front of every record.
	DiscriminatorLength = 8

	DefaultMaxQuestionLength = 200
	DefaultMaxOptionsLength  = 500
	DefaultMaxOptions        = 10

	// MaxOptionsLimit is the upper bound for MaxOptions, since option indices are a single byte.
	MaxOptionsLimit = 256

	// VoteRecordSpace is the reserved space of a vote record.
	VoteRecordSpace = DiscriminatorLength + 32 + 32 + 1 + 1
)

// Capacity defines the storage reserved for a poll record.
// It is a deployment constant and must not shrink once polls were stored.
type Capacity struct {
	// MaxQuestionLength is the maximum length of the question in bytes.
	MaxQuestionLength int
	// MaxOptionsLength is the maximum combined length of all options in bytes.
	MaxOptionsLength int
	// MaxOptions is the maximum amount of options.
	MaxOptions int
}

// DefaultCapacity returns the default poll capacity.
func DefaultCapacity() Capacity {
	return Capacity{
		MaxQuestionLength: DefaultMaxQuestionLength,
		MaxOptionsLength:  DefaultMaxOptionsLength,
		MaxOptions:        DefaultMaxOptions,
	}
}

// Valid checks the capacity itself.
func (c Capacity) Valid() error {
	if c.MaxQuestionLength <= 0 || c.MaxOptionsLength <= 0 {
		return errors.New("question and options length must be positive")
	}
	if c.MaxOptions < 1 || c.MaxOptions > MaxOptionsLimit {
		return errors.Errorf("max options must be between 1 and %d", MaxOptionsLimit)
	}
	return nil
}

// PollSpace returns the reserved space of a poll record.
func (c Capacity) PollSpace() int {
	return DiscriminatorLength +
		32 + // creator
		1 + // bump
		4 + c.MaxQuestionLength +
		4 + 4*c.MaxOptions + c.MaxOptionsLength +
		4 + 8*c.MaxOptions + // vote counts
		8 // total votes
}

// Check verifies that the question and options fit into the reserved space.
func (c Capacity) Check(question string, options []string) error {
	if len(options) == 0 {
		return ErrNoOptions
	}

	if !utf8.ValidString(question) {
		return errors.WithMessage(ErrInvalidPoll, "question is not valid UTF-8")
	}

	if len(question) > c.MaxQuestionLength {
		return errors.WithMessagef(ErrCapacityExceeded, "question has %d bytes, max %d", len(question), c.MaxQuestionLength)
	}

	if len(options) > c.MaxOptions {
		return errors.WithMessagef(ErrCapacityExceeded, "%d options given, max %d", len(options), c.MaxOptions)
	}

	optionsLength := 0
	for i, option := range options {
		if !utf8.ValidString(option) {
			return errors.WithMessagef(ErrInvalidPoll, "option %d is not valid UTF-8", i)
		}
		optionsLength += len(option)
	}

	if optionsLength > c.MaxOptionsLength {
		return errors.WithMessagef(ErrCapacityExceeded, "options have %d bytes combined, max %d", optionsLength, c.MaxOptionsLength)
	}

	return nil
}
