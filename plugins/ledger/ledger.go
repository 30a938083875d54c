package ledger

import (
	"math"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gohornet/verdict/pkg/jwt"
	"github.com/gohornet/verdict/pkg/model/address"
	"github.com/gohornet/verdict/pkg/model/ledger"
	"github.com/gohornet/verdict/pkg/restapi"
)

// callerIdentity returns the identity the request acts for.
// With JWT auth the identity is the subject of the token and a given identity must match it,
// otherwise the given identity is required.
func callerIdentity(c echo.Context, identity string, field string) (address.Address, error) {

	if deps.RestAPIJWTAuthEnabled {
		caller, ok := jwt.IdentityFromContext(c)
		if !ok {
			return address.NullAddress, echo.ErrUnauthorized
		}

		if identity == "" {
			return caller, nil
		}

		claimed, err := address.Parse(identity)
		if err != nil {
			return address.NullAddress, errors.WithMessagef(restapi.ErrInvalidParameter, "invalid %s: %s, error: %s", field, identity, err)
		}

		if claimed != caller {
			return address.NullAddress, errors.WithMessagef(restapi.ErrForbidden, "%s %s does not match the token", field, claimed)
		}
		return caller, nil
	}

	if identity == "" {
		return address.NullAddress, errors.WithMessagef(restapi.ErrInvalidParameter, "parameter \"%s\" not specified", field)
	}

	result, err := address.Parse(identity)
	if err != nil {
		return address.NullAddress, errors.WithMessagef(restapi.ErrInvalidParameter, "invalid %s: %s, error: %s", field, identity, err)
	}
	return result, nil
}

// ledgerError counts the rejected operation and maps the error to its HTTP error.
func ledgerError(err error) error {
	deps.LedgerMetrics.Rejected(err)
	return restapi.LedgerError(err)
}

func createPoll(c echo.Context) (*restapi.PollResponse, error) {

	request := &CreatePollRequest{}
	if err := c.Bind(request); err != nil {
		return nil, errors.WithMessagef(restapi.ErrInvalidParameter, "invalid request, error: %s", err)
	}

	creator, err := callerIdentity(c, request.Creator, "creator")
	if err != nil {
		return nil, err
	}

	poll, err := deps.Ledger.CreatePoll(creator, request.Question, request.Options)
	if err != nil {
		return nil, ledgerError(err)
	}

	return restapi.NewPollResponse(poll), nil
}

func getPoll(c echo.Context) (*restapi.PollResponse, error) {

	pollAddress, err := restapi.ParseAddressParam(c, restapi.ParameterPollAddress)
	if err != nil {
		return nil, err
	}

	poll, err := deps.Ledger.Poll(pollAddress)
	if err != nil {
		return nil, restapi.LedgerError(err)
	}

	return restapi.NewPollResponse(poll), nil
}

func getPollByCreator(c echo.Context) (*restapi.PollResponse, error) {

	creator, err := restapi.ParseAddressParam(c, restapi.ParameterCreator)
	if err != nil {
		return nil, err
	}

	poll, err := deps.Ledger.PollByCreator(creator)
	if err != nil {
		return nil, restapi.LedgerError(err)
	}

	return restapi.NewPollResponse(poll), nil
}

func castVote(c echo.Context) (*ledger.VoteRecord, error) {

	pollAddress, err := restapi.ParseAddressParam(c, restapi.ParameterPollAddress)
	if err != nil {
		return nil, err
	}

	request := &CastVoteRequest{}
	if err := c.Bind(request); err != nil {
		return nil, errors.WithMessagef(restapi.ErrInvalidParameter, "invalid request, error: %s", err)
	}

	if request.OptionIndex == nil {
		return nil, errors.WithMessage(restapi.ErrInvalidParameter, "parameter \"optionIndex\" not specified")
	}

	if *request.OptionIndex < 0 || *request.OptionIndex > math.MaxUint8 {
		deps.LedgerMetrics.Rejected(ledger.ErrInvalidOption)
		return nil, errors.WithMessagef(restapi.ErrInvalidParameter, "invalid optionIndex: %d", *request.OptionIndex)
	}

	voter, err := callerIdentity(c, request.Voter, "voter")
	if err != nil {
		return nil, err
	}

	voteRecord, err := deps.Ledger.CastVote(pollAddress, voter, uint8(*request.OptionIndex))
	if err != nil {
		return nil, ledgerError(err)
	}

	return voteRecord, nil
}

func getVoteRecord(c echo.Context) (*ledger.VoteRecord, error) {

	pollAddress, err := restapi.ParseAddressParam(c, restapi.ParameterPollAddress)
	if err != nil {
		return nil, err
	}

	voter, err := restapi.ParseAddressParam(c, restapi.ParameterVoter)
	if err != nil {
		return nil, err
	}

	voteRecord, err := deps.Ledger.VoteRecord(pollAddress, voter)
	if err != nil {
		return nil, restapi.LedgerError(err)
	}

	return voteRecord, nil
}

func listPolls(c echo.Context) (*restapi.PollsResponse, error) {

	pageSize := restapi.PageSizeFromContext(c, deps.RestAPILimitsMaxResults)

	resp := &restapi.PollsResponse{
		Polls:    make([]*restapi.PollResponse, 0),
		PageSize: pageSize,
	}

	if err := deps.Ledger.ForEachPoll(func(poll *ledger.Poll) bool {
		resp.Polls = append(resp.Polls, restapi.NewPollResponse(poll))
		return true
	}, ledger.MaxResultCount(pageSize)); err != nil {
		return nil, errors.WithMessagef(echo.ErrInternalServerError, "reading polls failed: %s", err)
	}

	return resp, nil
}

func listVoteRecords(c echo.Context) (*restapi.VoteRecordsResponse, error) {

	pollAddress, err := restapi.ParseAddressParam(c, restapi.ParameterPollAddress)
	if err != nil {
		return nil, err
	}

	if _, err := deps.Ledger.Poll(pollAddress); err != nil {
		return nil, restapi.LedgerError(err)
	}

	pageSize := restapi.PageSizeFromContext(c, deps.RestAPILimitsMaxResults)

	resp := &restapi.VoteRecordsResponse{
		VoteRecords: make([]*ledger.VoteRecord, 0),
		PageSize:    pageSize,
	}

	if err := deps.Ledger.ForEachVoteRecord(pollAddress, func(voteRecord *ledger.VoteRecord) bool {
		resp.VoteRecords = append(resp.VoteRecords, voteRecord)
		return true
	}, ledger.MaxResultCount(pageSize)); err != nil {
		return nil, errors.WithMessagef(echo.ErrInternalServerError, "reading vote records failed: %s", err)
	}

	return resp, nil
}
