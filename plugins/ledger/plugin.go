package ledger

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/events"

	"github.com/gohornet/verdict/pkg/indexer"
	"github.com/gohornet/verdict/pkg/metrics"
	"github.com/gohornet/verdict/pkg/model/address"
	"github.com/gohornet/verdict/pkg/model/ledger"
	"github.com/gohornet/verdict/pkg/mqtt"
	"github.com/gohornet/verdict/pkg/node"
	"github.com/gohornet/verdict/pkg/restapi"
	"github.com/gohornet/verdict/pkg/shutdown"
)

const (
	// RoutePolls is the route to create polls.
	// POST creates a poll owned by the caller.
	// GET lists the stored polls if no indexer is running.
	RoutePolls = "/polls"

	// RoutePoll is the route to access a single poll by its address.
	// GET returns the poll with its vote counts.
	RoutePoll = "/polls/:" + restapi.ParameterPollAddress

	// RoutePollVotes is the route to vote on a poll.
	// POST casts the vote of the caller.
	// GET lists the vote records of the poll if no indexer is running.
	RoutePollVotes = "/polls/:" + restapi.ParameterPollAddress + "/votes"

	// RoutePollVote is the route to access the vote record of a voter.
	// GET returns the vote record.
	RoutePollVote = "/polls/:" + restapi.ParameterPollAddress + "/votes/:" + restapi.ParameterVoter

	// RouteCreatorPoll is the route to access the poll of a creator.
	// GET returns the poll the creator owns.
	RouteCreatorPoll = "/creators/:" + restapi.ParameterCreator + "/poll"
)

func init() {
	Plugin = &node.Plugin{
		Status: node.StatusEnabled,
		Pluggable: node.Pluggable{
			Name:      "Ledger API",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Configure: configure,
			Run:       run,
		},
	}
}

var (
	Plugin *node.Plugin
	deps   dependencies

	dispatcher *eventDispatcher

	onPollCreated    *events.Closure
	onVoteCast       *events.Closure
	onPollSubscribed *events.Closure
)

type dependencies struct {
	dig.In
	Ledger                  *ledger.Ledger
	LedgerMetrics           *metrics.LedgerMetrics
	Echo                    *echo.Echo
	Indexer                 *indexer.Indexer `optional:"true"`
	Publisher               *mqtt.Publisher  `optional:"true"`
	RestAPILimitsMaxResults int              `name:"restAPILimitsMaxResults"`
	RestAPIJWTAuthEnabled   bool             `name:"restAPIJWTAuthEnabled"`
}

func configure() error {

	// the list routes are served by the indexer if it is running
	setupRoutes(deps.Echo.Group("/api/v1"), deps.Indexer == nil)

	var projections []projection
	if deps.Indexer != nil {
		projections = append(projections, &indexerProjection{indexer: deps.Indexer})
	}
	if deps.Publisher != nil {
		projections = append(projections, &publisherProjection{publisher: deps.Publisher})
	}

	if len(projections) == 0 {
		Plugin.LogInfo("No projections enabled, ledger events are not dispatched")
		return nil
	}

	dispatcher = newEventDispatcher(deps.LedgerMetrics, deps.Ledger.Poll, func(name string, err error) {
		Plugin.LogWarnf("applying ledger event to %s failed: %s", name, err)
	}, projections...)

	onPollCreated = events.NewClosure(func(poll *ledger.Poll) {
		dispatcher.PollCreated(poll)
	})

	onVoteCast = events.NewClosure(func(poll *ledger.Poll, voteRecord *ledger.VoteRecord) {
		dispatcher.VoteCast(poll, voteRecord)
	})

	onPollSubscribed = events.NewClosure(func(pollAddress address.Address) {
		dispatcher.PollSubscribed(pollAddress)
	})

	// events are queued until the dispatcher is started
	deps.Ledger.Events.PollCreated.Attach(onPollCreated)
	deps.Ledger.Events.VoteCast.Attach(onVoteCast)
	if deps.Publisher != nil {
		deps.Publisher.Events.PollSubscribed.Attach(onPollSubscribed)
	}

	return nil
}

func run() error {

	if dispatcher == nil {
		return nil
	}

	return Plugin.Daemon().BackgroundWorker("Ledger event dispatcher", func(ctx context.Context) {
		Plugin.LogInfo("Starting Ledger event dispatcher ... done")
		dispatcher.Start()
		<-ctx.Done()
		Plugin.LogInfo("Stopping Ledger event dispatcher ...")
		deps.Ledger.Events.PollCreated.Detach(onPollCreated)
		deps.Ledger.Events.VoteCast.Detach(onVoteCast)
		if deps.Publisher != nil {
			deps.Publisher.Events.PollSubscribed.Detach(onPollSubscribed)
		}
		dispatcher.StopAndWait()
		Plugin.LogInfo("Stopping Ledger event dispatcher ... done")
	}, shutdown.PriorityEventDispatcher)
}

func setupRoutes(routeGroup *echo.Group, withListRoutes bool) {

	routeGroup.POST(RoutePolls, func(c echo.Context) error {
		resp, err := createPoll(c)
		if err != nil {
			return err
		}

		c.Response().Header().Set(echo.HeaderLocation, resp.Address)
		return restapi.JSONResponse(c, http.StatusCreated, resp)
	})

	routeGroup.GET(RoutePoll, func(c echo.Context) error {
		resp, err := getPoll(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.POST(RoutePollVotes, func(c echo.Context) error {
		resp, err := castVote(c)
		if err != nil {
			return err
		}

		c.Response().Header().Set(echo.HeaderLocation, resp.Address.String())
		return restapi.JSONResponse(c, http.StatusCreated, resp)
	})

	routeGroup.GET(RoutePollVote, func(c echo.Context) error {
		resp, err := getVoteRecord(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteCreatorPoll, func(c echo.Context) error {
		resp, err := getPollByCreator(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	if !withListRoutes {
		return
	}

	routeGroup.GET(RoutePolls, func(c echo.Context) error {
		resp, err := listPolls(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RoutePollVotes, func(c echo.Context) error {
		resp, err := listVoteRecords(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})
}
