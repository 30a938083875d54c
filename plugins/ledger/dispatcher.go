package ledger

import (
	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/workerpool"

	"github.com/gohornet/verdict/pkg/indexer"
	"github.com/gohornet/verdict/pkg/metrics"
	"github.com/gohornet/verdict/pkg/model/address"
	"github.com/gohornet/verdict/pkg/model/ledger"
	"github.com/gohornet/verdict/pkg/mqtt"
)

const (
	dispatcherQueueSize = 1000
)

// projection keeps a read model in sync with the ledger.
type projection interface {
	Name() string
	ApplyPollCreated(poll *ledger.Poll) error
	ApplyVoteCast(poll *ledger.Poll, voteRecord *ledger.VoteRecord) error
}

type indexerProjection struct {
	indexer *indexer.Indexer
}

func (p *indexerProjection) Name() string {
	return "indexer"
}

func (p *indexerProjection) ApplyPollCreated(poll *ledger.Poll) error {
	return p.indexer.ApplyPollCreated(poll)
}

func (p *indexerProjection) ApplyVoteCast(poll *ledger.Poll, voteRecord *ledger.VoteRecord) error {
	return p.indexer.ApplyVoteCast(poll, voteRecord)
}

type publisherProjection struct {
	publisher *mqtt.Publisher
}

func (p *publisherProjection) Name() string {
	return "mqtt"
}

func (p *publisherProjection) ApplyPollCreated(poll *ledger.Poll) error {
	return p.publisher.PublishPoll(poll)
}

func (p *publisherProjection) ApplyVoteCast(poll *ledger.Poll, voteRecord *ledger.VoteRecord) error {
	return p.publisher.PublishVote(poll, voteRecord)
}

func (p *publisherProjection) RefreshPoll(poll *ledger.Poll) error {
	return p.publisher.PublishPoll(poll)
}

// refresher is a projection that republishes the current state of a poll on demand.
type refresher interface {
	RefreshPoll(poll *ledger.Poll) error
}

type eventKind byte

const (
	eventPollCreated eventKind = iota
	eventVoteCast
	eventPollSubscribed
)

// ledgerEvent is a committed ledger change, or a request to refresh the state of a poll.
type ledgerEvent struct {
	kind        eventKind
	poll        *ledger.Poll
	voteRecord  *ledger.VoteRecord
	pollAddress address.Address
}

// eventDispatcher applies ledger events to the projections in commit order.
type eventDispatcher struct {
	projections []projection
	loadPoll    func(pollAddress address.Address) (*ledger.Poll, error)
	metrics     *metrics.LedgerMetrics
	onError     func(name string, err error)
	pool        *workerpool.WorkerPool
}

func newEventDispatcher(ledgerMetrics *metrics.LedgerMetrics, loadPoll func(pollAddress address.Address) (*ledger.Poll, error), onError func(name string, err error), projections ...projection) *eventDispatcher {
	d := &eventDispatcher{
		projections: projections,
		loadPoll:    loadPoll,
		metrics:     ledgerMetrics,
		onError:     onError,
	}

	// a single worker keeps the order of the events
	d.pool = workerpool.New(func(task workerpool.Task) {
		task.Return(d.process(task.Param(0).(*ledgerEvent)))
	}, workerpool.WorkerCount(1), workerpool.QueueSize(dispatcherQueueSize), workerpool.FlushTasksAtShutdown(true))

	return d
}

func (d *eventDispatcher) apply(p projection, event *ledgerEvent) error {
	switch event.kind {
	case eventPollCreated:
		return p.ApplyPollCreated(event.poll)
	case eventVoteCast:
		return p.ApplyVoteCast(event.poll, event.voteRecord)
	default:
		r, ok := p.(refresher)
		if !ok {
			return nil
		}
		return r.RefreshPoll(event.poll)
	}
}

func (d *eventDispatcher) process(event *ledgerEvent) error {

	if event.kind == eventPollSubscribed {
		// the state is loaded when the event is processed, so votes committed
		// after the subscription are already contained or follow in the queue
		poll, err := d.loadPoll(event.pollAddress)
		if err != nil {
			if errors.Is(err, ledger.ErrPollNotFound) {
				return nil
			}
			d.metrics.ProjectionErrors.Inc()
			d.onError("ledger", err)
			return err
		}
		event.poll = poll
	}

	var lastErr error
	for _, p := range d.projections {
		if err := d.apply(p, event); err != nil {
			d.metrics.ProjectionErrors.Inc()
			d.onError(p.Name(), err)
			lastErr = err
		}
	}

	d.metrics.EventsDispatched.Inc()
	return lastErr
}

func (d *eventDispatcher) submit(event *ledgerEvent) chan interface{} {
	result, _ := d.pool.Submit(event)
	return result
}

// PollCreated queues a created poll. It blocks while the queue is full.
func (d *eventDispatcher) PollCreated(poll *ledger.Poll) chan interface{} {
	return d.submit(&ledgerEvent{kind: eventPollCreated, poll: poll})
}

// VoteCast queues a cast vote. It blocks while the queue is full.
func (d *eventDispatcher) VoteCast(poll *ledger.Poll, voteRecord *ledger.VoteRecord) chan interface{} {
	return d.submit(&ledgerEvent{kind: eventVoteCast, poll: poll, voteRecord: voteRecord})
}

// PollSubscribed queues a refresh of the published state of a poll.
func (d *eventDispatcher) PollSubscribed(pollAddress address.Address) chan interface{} {
	return d.submit(&ledgerEvent{kind: eventPollSubscribed, pollAddress: pollAddress})
}

func (d *eventDispatcher) Start() {
	d.pool.Start()
}

func (d *eventDispatcher) StopAndWait() {
	d.pool.StopAndWait()
}
