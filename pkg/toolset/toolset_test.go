package toolset

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/verdict/pkg/model/ledger"
	"github.com/gohornet/verdict/pkg/model/ledger/test"
)

func TestParseFlagSet(t *testing.T) {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	outputJSON := fs.Bool(FlagToolOutputJSON, false, FlagToolDescriptionOutputJSON)

	require.NoError(t, parseFlagSet(fs, []string{"--json"}))
	require.True(t, *outputJSON)

	fs = flag.NewFlagSet("", flag.ContinueOnError)
	fs.Bool(FlagToolOutputJSON, false, FlagToolDescriptionOutputJSON)
	require.Error(t, parseFlagSet(fs, []string{"--json", "leftover"}))
}

func TestParseEd25519PublicKey(t *testing.T) {
	publicKey, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	parsed, err := parseEd25519PublicKey(hex.EncodeToString(publicKey))
	require.NoError(t, err)
	require.Equal(t, publicKey, parsed)

	_, err = parseEd25519PublicKey("not-hex")
	require.Error(t, err)

	_, err = parseEd25519PublicKey(hex.EncodeToString(publicKey[:16]))
	require.Error(t, err)
}

func TestDeriveAddresses(t *testing.T) {
	creator := test.Identity(t, "Creator")
	voter := test.Identity(t, "Voter1")

	expectedPoll, expectedPollBump, err := ledger.PollAddress(ledger.DefaultProgramID, creator)
	require.NoError(t, err)

	result, err := deriveAddressesForIdentities(ledger.DefaultProgramID, creator, nil)
	require.NoError(t, err)
	require.Equal(t, ledger.DefaultProgramID.String(), result.ProgramID)
	require.Equal(t, expectedPoll.String(), result.PollAddress)
	require.Equal(t, expectedPollBump, result.PollBump)
	require.Empty(t, result.VoteRecordAddress)

	expectedVoteRecord, expectedVoteRecordBump, err := ledger.VoteRecordAddress(ledger.DefaultProgramID, expectedPoll, voter)
	require.NoError(t, err)

	result, err = deriveAddressesForIdentities(ledger.DefaultProgramID, creator, &voter)
	require.NoError(t, err)
	require.Equal(t, expectedPoll.String(), result.PollAddress)
	require.Equal(t, expectedVoteRecord.String(), result.VoteRecordAddress)
	require.Equal(t, expectedVoteRecordBump, result.VoteRecordBump)
}

func TestLedgerHealth(t *testing.T) {
	env := test.NewLedgerTestEnv(t)
	defer env.Cleanup()

	health, err := ledgerHealth(env.Ledger())
	require.NoError(t, err)
	require.Equal(t, 0, health.Polls)
	require.Equal(t, uint64(0), health.VoteRecords)

	poll := env.CreateDefaultPoll()
	env.CastVote(poll.Address, env.Voter1, 0)
	env.CastVote(poll.Address, env.Voter2, 1)

	health, err = ledgerHealth(env.Ledger())
	require.NoError(t, err)
	require.Equal(t, 1, health.Polls)
	require.Equal(t, uint64(2), health.VoteRecords)
}

func TestToolsAreListed(t *testing.T) {
	for _, name := range []string{ToolPwdHash, ToolEd25519Key, ToolIdentity, ToolJWTApi, ToolDerive, ToolDBHealth} {
		tool, exists := tools()[name]
		require.True(t, exists, name)
		require.NotEmpty(t, tool.description)
		require.NotNil(t, tool.run)
	}
}
