package indexer_server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/events"

	"github.com/gohornet/verdict/pkg/indexer"
	indexer_server "github.com/gohornet/verdict/pkg/indexer/server"
	"github.com/gohornet/verdict/pkg/model/address"
	"github.com/gohornet/verdict/pkg/model/ledger"
	"github.com/gohornet/verdict/pkg/model/ledger/test"
	"github.com/gohornet/verdict/pkg/restapi"
)

type serverTestEnv struct {
	*test.LedgerTestEnv
	echo *echo.Echo
}

func newServerTestEnv(t *testing.T, maxPageSize int) *serverTestEnv {
	env := test.NewLedgerTestEnv(t)

	dialector, err := indexer.Dialector("sqlite", t.TempDir())
	require.NoError(t, err)
	idx, err := indexer.NewIndexer(dialector)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, idx.CloseDatabase())
	})

	env.Ledger().Events.PollCreated.Attach(events.NewClosure(func(p *ledger.Poll) {
		require.NoError(t, idx.ApplyPollCreated(p))
	}))
	env.Ledger().Events.VoteCast.Attach(events.NewClosure(func(p *ledger.Poll, v *ledger.VoteRecord) {
		require.NoError(t, idx.ApplyVoteCast(p, v))
	}))

	e := echo.New()
	e.HTTPErrorHandler = restapi.ErrorHandler()
	indexer_server.NewIndexerServer(idx, e.Group("/api/v1"), maxPageSize)

	return &serverTestEnv{
		LedgerTestEnv: env,
		echo:          e,
	}
}

func (env *serverTestEnv) get(t *testing.T, path string, result interface{}) int {
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code == http.StatusOK && result != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), result))
	}
	return rec.Code
}

func TestListPolls(t *testing.T) {
	env := newServerTestEnv(t, 2)
	defer env.Cleanup()

	creators := []address.Address{env.Creator, env.Voter1, env.Voter2}
	for _, creator := range creators {
		_, err := env.Ledger().CreatePoll(creator, "Color?", test.DefaultOptions)
		require.NoError(t, err)
	}

	first := &restapi.PollsResponse{}
	require.Equal(t, http.StatusOK, env.get(t, "/api/v1/polls", first))
	require.Len(t, first.Polls, 2)
	require.Equal(t, 2, first.PageSize)
	require.NotEmpty(t, first.Cursor)

	second := &restapi.PollsResponse{}
	require.Equal(t, http.StatusOK, env.get(t, "/api/v1/polls?cursor="+first.Cursor, second))
	require.Len(t, second.Polls, 1)
	require.Empty(t, second.Cursor)

	byCreator := &restapi.PollsResponse{}
	require.Equal(t, http.StatusOK, env.get(t, "/api/v1/polls?creator="+env.Voter1.String(), byCreator))
	require.Len(t, byCreator.Polls, 1)
	require.Equal(t, env.Voter1.String(), byCreator.Polls[0].Creator)
	require.Equal(t, []int{0, 0}, byCreator.Polls[0].Percentages)

	require.Equal(t, http.StatusBadRequest, env.get(t, "/api/v1/polls?cursor=invalid", nil))
	require.Equal(t, http.StatusBadRequest, env.get(t, "/api/v1/polls?minVotes=-1", nil))
	require.Equal(t, http.StatusBadRequest, env.get(t, "/api/v1/polls?creator=0x00", nil))
}

func TestListVoteRecords(t *testing.T) {
	env := newServerTestEnv(t, 10)
	defer env.Cleanup()

	p := env.CreateDefaultPoll()
	env.CastVote(p.Address, env.Voter1, 0)
	env.CastVote(p.Address, env.Voter2, 1)

	resp := &restapi.VoteRecordsResponse{}
	require.Equal(t, http.StatusOK, env.get(t, "/api/v1/polls/"+p.Address.String()+"/votes?pageSize=1", resp))
	require.Len(t, resp.VoteRecords, 1)
	require.Equal(t, 1, resp.PageSize)
	require.NotEmpty(t, resp.Cursor)

	rest := &restapi.VoteRecordsResponse{}
	require.Equal(t, http.StatusOK, env.get(t, "/api/v1/polls/"+p.Address.String()+"/votes?cursor="+resp.Cursor, rest))
	require.Len(t, rest.VoteRecords, 1)
	require.NotEqual(t, resp.VoteRecords[0].Voter, rest.VoteRecords[0].Voter)

	byVoter := &restapi.VoteRecordsResponse{}
	require.Equal(t, http.StatusOK, env.get(t, "/api/v1/voters/"+env.Voter2.String()+"/votes", byVoter))
	require.Len(t, byVoter.VoteRecords, 1)
	require.Equal(t, uint8(1), byVoter.VoteRecords[0].OptionIndex)

	require.Equal(t, http.StatusNotFound, env.get(t, "/api/v1/polls/"+env.Voter3.String()+"/votes", nil))
	require.Equal(t, http.StatusBadRequest, env.get(t, "/api/v1/polls/invalid/votes", nil))
}
