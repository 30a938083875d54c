package ledger

import (
	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/logger"
	"github.com/iotaledger/hive.go/syncutils"
	"github.com/pkg/errors"

	"github.com/gohornet/verdict/pkg/database"
	"github.com/gohornet/verdict/pkg/model/address"
	"github.com/gohornet/verdict/pkg/utils"
)

const (
	// DBVersion is the version of the ledger database scheme.
	DBVersion byte = 1
)

var (
	// DefaultProgramID namespaces all derived addresses of a deployment.
	DefaultProgramID = address.MustParse("HrcYHz2aTi7YT6QJcUbsD3eEF4UDXt7qo1S12b4B9rz6")
)

// Events are the events issued by the Ledger. They are triggered after the change was committed.
type Events struct {
	PollCreated *events.Event
	VoteCast    *events.Event
}

// Ledger stores polls and vote records at derived addresses.
type Ledger struct {
	// the embedded lock is held for reading by every operation and for writing on shutdown.
	syncutils.RWMutex
	*utils.WrappedLogger

	// holds the Ledger options.
	opts *Options

	store       kvstore.KVStore
	storeHealth *database.StoreHealthTracker

	// serializes operations on the same address, always locked poll first.
	addressLocks *syncutils.MultiMutex

	closed bool

	Events *Events
}

// the default options applied to the Ledger.
var defaultOptions = []Option{
	WithProgramID(DefaultProgramID),
	WithCapacity(DefaultCapacity()),
}

// Options define options for the Ledger.
type Options struct {
	logger *logger.Logger

	programID        address.Address
	capacity         Capacity
	autoRevalidation bool
}

// applies the given Option.
func (so *Options) apply(opts ...Option) {
	for _, opt := range opts {
		opt(so)
	}
}

// WithLogger enables logging within the Ledger.
func WithLogger(logger *logger.Logger) Option {
	return func(opts *Options) {
		opts.logger = logger
	}
}

// WithProgramID defines the program ID all addresses are derived with.
func WithProgramID(programID address.Address) Option {
	return func(opts *Options) {
		opts.programID = programID
	}
}

// WithCapacity defines the space reserved for a poll.
func WithCapacity(capacity Capacity) Option {
	return func(opts *Options) {
		opts.capacity = capacity
	}
}

// WithAutoRevalidation allows opening a store that was not closed cleanly,
// as long as the stored counters still match the vote records.
func WithAutoRevalidation(autoRevalidation bool) Option {
	return func(opts *Options) {
		opts.autoRevalidation = autoRevalidation
	}
}

// Option is a function setting a Ledger option.
type Option func(opts *Options)

// NewLedger creates a new Ledger instance on top of the given store.
func NewLedger(store kvstore.KVStore, opts ...Option) (*Ledger, error) {

	options := &Options{}
	options.apply(defaultOptions...)
	options.apply(opts...)

	if err := options.capacity.Valid(); err != nil {
		return nil, errors.Wrap(err, "invalid poll capacity")
	}

	storeHealth, err := database.NewStoreHealthTracker(store, []byte{LedgerStoreKeyPrefixHealth}, DBVersion)
	if err != nil {
		return nil, err
	}

	l := &Ledger{
		WrappedLogger: utils.NewWrappedLogger(options.logger),
		opts:          options,
		store:         store,
		storeHealth:   storeHealth,
		addressLocks:  syncutils.NewMultiMutex(),
		Events: &Events{
			PollCreated: events.NewEvent(PollCaller),
			VoteCast:    events.NewEvent(VoteCaller),
		},
	}

	if err := l.init(); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Ledger) init() error {

	correctDatabaseVersion, err := l.storeHealth.CheckCorrectDatabaseVersion()
	if err != nil {
		return err
	}
	if !correctDatabaseVersion {
		return ErrLedgerVersionMismatch
	}

	corrupted, err := l.storeHealth.IsCorrupted()
	if err != nil {
		return err
	}
	if corrupted {
		if !l.opts.autoRevalidation {
			return ErrLedgerCorruptedStorage
		}

		l.LogWarnf("ledger database was not closed cleanly, revalidating ...")
		if err := l.revalidate(); err != nil {
			return err
		}
	}

	l.LogInfof("ledger ready, program ID %s, reserved poll space %d bytes", l.opts.programID, l.opts.capacity.PollSpace())

	// Mark the database as corrupted here and as clean when we shut it down
	return l.storeHealth.MarkCorrupted()
}

// ProgramID returns the program ID all addresses are derived with.
func (l *Ledger) ProgramID() address.Address {
	return l.opts.programID
}

// Capacity returns the space reserved for a poll.
func (l *Ledger) Capacity() Capacity {
	return l.opts.capacity
}

// IsHealthy returns whether the ledger is open and its store is readable.
func (l *Ledger) IsHealthy() bool {
	l.RLock()
	defer l.RUnlock()

	if l.closed {
		return false
	}
	_, err := l.storeHealth.DatabaseVersion()
	return err == nil
}

// CloseDatabase waits for running operations, marks the store healthy and closes it.
func (l *Ledger) CloseDatabase() error {
	l.Lock()
	defer l.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	var flushAndCloseError error

	if err := l.storeHealth.MarkHealthy(); err != nil {
		flushAndCloseError = err
	}

	if err := l.store.Flush(); err != nil {
		flushAndCloseError = err
	}
	if err := l.store.Close(); err != nil {
		flushAndCloseError = err
	}
	return flushAndCloseError
}

var errLedgerClosed = errors.New("ledger is closed")

// acquire takes the shutdown lock for reading and fails if the ledger was closed.
func (l *Ledger) acquire() error {
	l.RLock()
	if l.closed {
		l.RUnlock()
		return errLedgerClosed
	}
	return nil
}

// PollAddress derives the address of the poll created by creator.
// Since only the creator is part of the seeds, a creator can only ever own one poll per program ID.
func PollAddress(programID address.Address, creator address.Address) (address.Address, uint8, error) {
	return address.FindDerivedAddress(programID, []byte("poll"), creator[:])
}

// VoteRecordAddress derives the address of the vote record of voter on the given poll.
func VoteRecordAddress(programID address.Address, pollAddress address.Address, voter address.Address) (address.Address, uint8, error) {
	return address.FindDerivedAddress(programID, []byte("vote"), pollAddress[:], voter[:])
}

// PollAddress derives the address of the poll created by creator.
func (l *Ledger) PollAddress(creator address.Address) (address.Address, uint8, error) {
	return PollAddress(l.opts.programID, creator)
}

// VoteRecordAddress derives the address of the vote record of voter on the given poll.
func (l *Ledger) VoteRecordAddress(pollAddress address.Address, voter address.Address) (address.Address, uint8, error) {
	return VoteRecordAddress(l.opts.programID, pollAddress, voter)
}
