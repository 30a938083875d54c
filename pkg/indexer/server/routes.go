package indexer_server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gohornet/verdict/pkg/indexer"
	"github.com/gohornet/verdict/pkg/model/address"
	"github.com/gohornet/verdict/pkg/restapi"
)

const (
	// QueryParameterCreator is used to filter for polls of a creator.
	QueryParameterCreator = "creator"

	// QueryParameterMinVotes is used to filter for polls with at least the given amount of votes.
	QueryParameterMinVotes = "minVotes"
)

const (
	// RoutePolls is the route for listing the indexed polls ordered by address.
	// GET returns the polls.
	// query parameters: "creator", "minVotes", "pageSize", "cursor"
	RoutePolls = "/polls"

	// RoutePollVoteRecords is the route for listing the vote records of a poll ordered by voter.
	// GET returns the vote records.
	// query parameters: "pageSize", "cursor"
	RoutePollVoteRecords = "/polls/:" + restapi.ParameterPollAddress + "/votes"

	// RouteVoterVoteRecords is the route for listing all vote records of a voter.
	// GET returns the vote records.
	// query parameters: "pageSize"
	RouteVoterVoteRecords = "/voters/:" + restapi.ParameterVoter + "/votes"
)

func (s *IndexerServer) configureRoutes(routeGroup *echo.Group) {

	routeGroup.GET(RoutePolls, func(c echo.Context) error {
		resp, err := s.polls(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RoutePollVoteRecords, func(c echo.Context) error {
		resp, err := s.pollVoteRecords(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	routeGroup.GET(RouteVoterVoteRecords, func(c echo.Context) error {
		resp, err := s.voterVoteRecords(c)
		if err != nil {
			return err
		}
		return restapi.JSONResponse(c, http.StatusOK, resp)
	})
}

func parseCursorQueryParam(c echo.Context) (string, error) {
	cursor := c.QueryParam(restapi.QueryParameterCursor)
	if len(cursor) == 0 {
		return "", nil
	}

	// cursors are addresses, reject everything else before it reaches the query
	if _, err := address.Parse(cursor); err != nil {
		return "", errors.WithMessagef(restapi.ErrInvalidParameter, "invalid cursor: %s, error: %s", cursor, err)
	}
	return cursor, nil
}

func (s *IndexerServer) polls(c echo.Context) (*restapi.PollsResponse, error) {
	pageSize := restapi.PageSizeFromContext(c, s.RestAPILimitsMaxResults)

	filters := []indexer.PollFilterOption{indexer.PollMaxResults(pageSize)}

	if len(c.QueryParam(QueryParameterCreator)) > 0 {
		creator, err := restapi.ParseAddressQueryParam(c, QueryParameterCreator)
		if err != nil {
			return nil, err
		}
		filters = append(filters, indexer.PollCreator(creator))
	}

	if len(c.QueryParam(QueryParameterMinVotes)) > 0 {
		minVotes, err := restapi.ParseUint64QueryParam(c, QueryParameterMinVotes)
		if err != nil {
			return nil, err
		}
		filters = append(filters, indexer.PollMinVotes(minVotes))
	}

	cursor, err := parseCursorQueryParam(c)
	if err != nil {
		return nil, err
	}
	filters = append(filters, indexer.PollCursor(cursor))

	polls, nextCursor, err := s.Indexer.PollsWithFilters(filters...)
	if err != nil {
		return nil, errors.WithMessagef(echo.ErrInternalServerError, "reading polls failed: %s", err)
	}

	resp := &restapi.PollsResponse{
		Polls:    make([]*restapi.PollResponse, 0, len(polls)),
		PageSize: pageSize,
		Cursor:   nextCursor,
	}
	for _, poll := range polls {
		resp.Polls = append(resp.Polls, restapi.NewPollResponse(poll))
	}

	return resp, nil
}

func (s *IndexerServer) pollVoteRecords(c echo.Context) (*restapi.VoteRecordsResponse, error) {
	pollAddress, err := restapi.ParseAddressParam(c, restapi.ParameterPollAddress)
	if err != nil {
		return nil, err
	}

	if _, err := s.Indexer.Poll(pollAddress); err != nil {
		if errors.Is(err, indexer.ErrNotFound) {
			return nil, errors.WithMessagef(echo.ErrNotFound, "poll not found: %s", pollAddress)
		}
		return nil, errors.WithMessagef(echo.ErrInternalServerError, "reading poll failed: %s", err)
	}

	cursor, err := parseCursorQueryParam(c)
	if err != nil {
		return nil, err
	}

	pageSize := restapi.PageSizeFromContext(c, s.RestAPILimitsMaxResults)

	voteRecords, nextCursor, err := s.Indexer.VoteRecordsForPoll(pollAddress, cursor, pageSize)
	if err != nil {
		return nil, errors.WithMessagef(echo.ErrInternalServerError, "reading vote records failed: %s", err)
	}

	return &restapi.VoteRecordsResponse{
		VoteRecords: voteRecords,
		PageSize:    pageSize,
		Cursor:      nextCursor,
	}, nil
}

func (s *IndexerServer) voterVoteRecords(c echo.Context) (*restapi.VoteRecordsResponse, error) {
	voter, err := restapi.ParseAddressParam(c, restapi.ParameterVoter)
	if err != nil {
		return nil, err
	}

	pageSize := restapi.PageSizeFromContext(c, s.RestAPILimitsMaxResults)

	voteRecords, err := s.Indexer.VoteRecordsByVoter(voter, pageSize)
	if err != nil {
		return nil, errors.WithMessagef(echo.ErrInternalServerError, "reading vote records failed: %s", err)
	}

	return &restapi.VoteRecordsResponse{
		VoteRecords: voteRecords,
		PageSize:    pageSize,
	}, nil
}
