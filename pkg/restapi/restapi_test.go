package restapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/verdict/pkg/model/ledger"
	"github.com/gohornet/verdict/pkg/restapi"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
	}{
		{"wrapped http error", errors.WithMessage(restapi.ErrInvalidParameter, "invalid pollAddress"), http.StatusBadRequest},
		{"plain http error", echo.ErrNotFound, http.StatusNotFound},
		{"conflict", errors.WithMessage(restapi.ErrConflict, "already voted"), http.StatusConflict},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			restapi.ErrorHandler()(tt.err, c)
			require.Equal(t, tt.statusCode, rec.Code)

			envelope := &restapi.HTTPErrorResponseEnvelope{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), envelope))
			require.NotEmpty(t, envelope.Error.Message)
		})
	}
}

func TestPageSizeFromContext(t *testing.T) {
	tests := []struct {
		query    string
		pageSize int
	}{
		{"", 100},
		{"?pageSize=10", 10},
		{"?pageSize=1000", 100},
		{"?pageSize=-1", 100},
		{"?pageSize=abc", 100},
	}

	for _, tt := range tests {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/polls"+tt.query, nil), httptest.NewRecorder())
		require.Equal(t, tt.pageSize, restapi.PageSizeFromContext(c, 100), tt.query)
	}
}

func TestParseAddressParam(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames(restapi.ParameterPollAddress)
	c.SetParamValues("HrcYHz2aTi7YT6QJcUbsD3eEF4UDXt7qo1S12b4B9rz6")

	addr, err := restapi.ParseAddressParam(c, restapi.ParameterPollAddress)
	require.NoError(t, err)
	require.Equal(t, "HrcYHz2aTi7YT6QJcUbsD3eEF4UDXt7qo1S12b4B9rz6", addr.String())

	c.SetParamValues("not-base58!")
	_, err = restapi.ParseAddressParam(c, restapi.ParameterPollAddress)
	require.True(t, errors.Is(err, restapi.ErrInvalidParameter))
}

func TestLedgerError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
	}{
		{"capacity exceeded", errors.WithMessage(ledger.ErrCapacityExceeded, "question too long"), http.StatusBadRequest},
		{"no options", ledger.ErrNoOptions, http.StatusBadRequest},
		{"invalid option", ledger.ErrInvalidOption, http.StatusBadRequest},
		{"invalid poll", ledger.ErrInvalidPoll, http.StatusBadRequest},
		{"poll not found", ledger.ErrPollNotFound, http.StatusNotFound},
		{"vote record not found", ledger.ErrVoteRecordNotFound, http.StatusNotFound},
		{"already exists", ledger.ErrAlreadyExists, http.StatusConflict},
		{"already voted", ledger.ErrAlreadyVoted, http.StatusConflict},
		{"storage", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var httpErr *echo.HTTPError
			require.True(t, errors.As(restapi.LedgerError(tt.err), &httpErr))
			require.Equal(t, tt.statusCode, httpErr.Code)
		})
	}
}
