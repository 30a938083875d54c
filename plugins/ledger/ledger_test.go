package ledger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/verdict/pkg/jwt"
	"github.com/gohornet/verdict/pkg/metrics"
	"github.com/gohornet/verdict/pkg/model/ledger"
	"github.com/gohornet/verdict/pkg/model/ledger/test"
	"github.com/gohornet/verdict/pkg/restapi"
)

type apiTestEnv struct {
	*test.LedgerTestEnv
	echo *echo.Echo
}

func newAPITestEnv(t *testing.T, auth *jwt.Auth) *apiTestEnv {
	env := test.NewLedgerTestEnv(t)

	deps = dependencies{
		Ledger:                  env.Ledger(),
		LedgerMetrics:           &metrics.LedgerMetrics{},
		RestAPILimitsMaxResults: 10,
		RestAPIJWTAuthEnabled:   auth != nil,
	}

	e := echo.New()
	e.HTTPErrorHandler = restapi.ErrorHandler()
	if auth != nil {
		e.Use(auth.Middleware(func(c echo.Context) bool {
			return c.Request().Method == http.MethodGet
		}))
	}
	setupRoutes(e.Group("/api/v1"), true)

	return &apiTestEnv{
		LedgerTestEnv: env,
		echo:          e,
	}
}

func (env *apiTestEnv) request(t *testing.T, method string, path string, body string, token string, result interface{}) int {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)

	if result != nil && (rec.Code == http.StatusOK || rec.Code == http.StatusCreated) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), result))
	}
	return rec.Code
}

func TestPollRoutes(t *testing.T) {
	env := newAPITestEnv(t, nil)
	defer env.Cleanup()

	poll := &restapi.PollResponse{}
	body := `{"creator":"` + env.Creator.String() + `","question":"Color?","options":["Red","Blue"]}`
	require.Equal(t, http.StatusCreated, env.request(t, http.MethodPost, "/api/v1/polls", body, "", poll))
	require.Equal(t, env.Creator.String(), poll.Creator)
	require.Equal(t, []uint64{0, 0}, poll.VoteCounts)

	expectedAddress, expectedBump, err := env.Ledger().PollAddress(env.Creator)
	require.NoError(t, err)
	require.Equal(t, expectedAddress.String(), poll.Address)
	require.Equal(t, expectedBump, poll.Bump)

	// one poll per creator
	require.Equal(t, http.StatusConflict, env.request(t, http.MethodPost, "/api/v1/polls", body, "", nil))

	tooLong := `{"creator":"` + env.Voter1.String() + `","question":"` + strings.Repeat("?", ledger.DefaultMaxQuestionLength+1) + `","options":["Red"]}`
	require.Equal(t, http.StatusBadRequest, env.request(t, http.MethodPost, "/api/v1/polls", tooLong, "", nil))

	noOptions := `{"creator":"` + env.Voter1.String() + `","question":"Color?","options":[]}`
	require.Equal(t, http.StatusBadRequest, env.request(t, http.MethodPost, "/api/v1/polls", noOptions, "", nil))

	noCreator := `{"question":"Color?","options":["Red"]}`
	require.Equal(t, http.StatusBadRequest, env.request(t, http.MethodPost, "/api/v1/polls", noCreator, "", nil))

	fetched := &restapi.PollResponse{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/api/v1/polls/"+poll.Address, "", "", fetched))
	require.Equal(t, poll, fetched)

	byCreator := &restapi.PollResponse{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/api/v1/creators/"+env.Creator.String()+"/poll", "", "", byCreator))
	require.Equal(t, poll.Address, byCreator.Address)

	require.Equal(t, http.StatusNotFound, env.request(t, http.MethodGet, "/api/v1/creators/"+env.Voter1.String()+"/poll", "", "", nil))
	require.Equal(t, http.StatusBadRequest, env.request(t, http.MethodGet, "/api/v1/polls/invalid", "", "", nil))

	list := &restapi.PollsResponse{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/api/v1/polls", "", "", list))
	require.Len(t, list.Polls, 1)
	require.Equal(t, 10, list.PageSize)

	require.Equal(t, uint64(1), deps.LedgerMetrics.RejectedCount(metrics.RejectAlreadyExists))
	require.Equal(t, uint64(1), deps.LedgerMetrics.RejectedCount(metrics.RejectCapacityExceeded))
	require.Equal(t, uint64(1), deps.LedgerMetrics.RejectedCount(metrics.RejectNoOptions))
}

func TestVoteRoutes(t *testing.T) {
	env := newAPITestEnv(t, nil)
	defer env.Cleanup()

	poll := env.CreateDefaultPoll()
	votesPath := "/api/v1/polls/" + poll.Address.String() + "/votes"

	voteRecord := &ledger.VoteRecord{}
	require.Equal(t, http.StatusCreated, env.request(t, http.MethodPost, votesPath, `{"voter":"`+env.Voter1.String()+`","optionIndex":1}`, "", voteRecord))
	require.Equal(t, env.Voter1, voteRecord.Voter)
	require.Equal(t, poll.Address, voteRecord.Poll)
	require.Equal(t, uint8(1), voteRecord.OptionIndex)

	// a second vote of the same voter is rejected, even for another option
	require.Equal(t, http.StatusConflict, env.request(t, http.MethodPost, votesPath, `{"voter":"`+env.Voter1.String()+`","optionIndex":0}`, "", nil))

	require.Equal(t, http.StatusBadRequest, env.request(t, http.MethodPost, votesPath, `{"voter":"`+env.Voter2.String()+`","optionIndex":2}`, "", nil))
	require.Equal(t, http.StatusBadRequest, env.request(t, http.MethodPost, votesPath, `{"voter":"`+env.Voter2.String()+`","optionIndex":256}`, "", nil))
	require.Equal(t, http.StatusBadRequest, env.request(t, http.MethodPost, votesPath, `{"voter":"`+env.Voter2.String()+`","optionIndex":-1}`, "", nil))
	require.Equal(t, http.StatusBadRequest, env.request(t, http.MethodPost, votesPath, `{"voter":"`+env.Voter2.String()+`"}`, "", nil))

	unknownPollPath := "/api/v1/polls/" + env.Voter3.String() + "/votes"
	require.Equal(t, http.StatusNotFound, env.request(t, http.MethodPost, unknownPollPath, `{"voter":"`+env.Voter2.String()+`","optionIndex":0}`, "", nil))
	require.Equal(t, http.StatusNotFound, env.request(t, http.MethodGet, unknownPollPath, "", "", nil))

	env.AssertPollCounts(poll.Address, 0, 1)

	fetched := &ledger.VoteRecord{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, votesPath+"/"+env.Voter1.String(), "", "", fetched))
	require.Equal(t, voteRecord, fetched)
	require.Equal(t, http.StatusNotFound, env.request(t, http.MethodGet, votesPath+"/"+env.Voter2.String(), "", "", nil))

	list := &restapi.VoteRecordsResponse{}
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, votesPath, "", "", list))
	require.Len(t, list.VoteRecords, 1)

	require.Equal(t, uint64(1), deps.LedgerMetrics.RejectedCount(metrics.RejectAlreadyVoted))
	require.Equal(t, uint64(3), deps.LedgerMetrics.RejectedCount(metrics.RejectInvalidOption))
	require.Equal(t, uint64(1), deps.LedgerMetrics.RejectedCount(metrics.RejectPollNotFound))
}

func TestJWTIdentity(t *testing.T) {
	auth, err := jwt.NewAuth(time.Hour, []byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	env := newAPITestEnv(t, auth)
	defer env.Cleanup()

	token, err := auth.IssueJWT(env.Creator)
	require.NoError(t, err)

	body := `{"question":"Color?","options":["Red","Blue"]}`
	require.Equal(t, http.StatusBadRequest, env.request(t, http.MethodPost, "/api/v1/polls", body, "", nil))

	// acting for another identity is forbidden
	foreign := `{"creator":"` + env.Voter1.String() + `","question":"Color?","options":["Red","Blue"]}`
	require.Equal(t, http.StatusForbidden, env.request(t, http.MethodPost, "/api/v1/polls", foreign, token, nil))

	poll := &restapi.PollResponse{}
	require.Equal(t, http.StatusCreated, env.request(t, http.MethodPost, "/api/v1/polls", body, token, poll))
	require.Equal(t, env.Creator.String(), poll.Creator)

	voteRecord := &ledger.VoteRecord{}
	require.Equal(t, http.StatusCreated, env.request(t, http.MethodPost, "/api/v1/polls/"+poll.Address+"/votes", `{"optionIndex":0}`, token, voteRecord))
	require.Equal(t, env.Creator, voteRecord.Voter)

	// reads stay public
	require.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/api/v1/polls/"+poll.Address, "", "", nil))
}
