package toolset

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/iotaledger/hive.go/configuration"

	coreLedger "github.com/gohornet/verdict/core/ledger"
	"github.com/gohornet/verdict/pkg/model/address"
	"github.com/gohornet/verdict/pkg/model/ledger"
)

const (
	FlagToolCreator = "creator"
	FlagToolVoter   = "voter"
)

type derivedAddresses struct {
	ProgramID         string `json:"programId"`
	PollAddress       string `json:"pollAddress"`
	PollBump          uint8  `json:"pollBump"`
	VoteRecordAddress string `json:"voteRecordAddress,omitempty"`
	VoteRecordBump    uint8  `json:"voteRecordBump,omitempty"`
}

func deriveAddressesForIdentities(programID address.Address, creator address.Address, voter *address.Address) (*derivedAddresses, error) {

	pollAddress, pollBump, err := ledger.PollAddress(programID, creator)
	if err != nil {
		return nil, err
	}

	result := &derivedAddresses{
		ProgramID:   programID.String(),
		PollAddress: pollAddress.String(),
		PollBump:    pollBump,
	}

	if voter == nil {
		return result, nil
	}

	voteRecordAddress, voteRecordBump, err := ledger.VoteRecordAddress(programID, pollAddress, *voter)
	if err != nil {
		return nil, err
	}
	result.VoteRecordAddress = voteRecordAddress.String()
	result.VoteRecordBump = voteRecordBump

	return result, nil
}

func deriveAddresses(appConfig *configuration.Configuration, _ *Secrets, args []string) error {

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	creatorFlag := fs.String(FlagToolCreator, "", "the identity key of the poll creator")
	voterFlag := fs.String(FlagToolVoter, "", "the identity key of a voter (optional)")
	outputJSONFlag := fs.Bool(FlagToolOutputJSON, false, FlagToolDescriptionOutputJSON)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolDerive)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nthe program ID is taken from '%s'\n", coreLedger.CfgLedgerProgramID)
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	programID, err := address.Parse(appConfig.String(coreLedger.CfgLedgerProgramID))
	if err != nil {
		return fmt.Errorf("invalid '%s': %w", coreLedger.CfgLedgerProgramID, err)
	}

	creator, err := address.Parse(*creatorFlag)
	if err != nil {
		return fmt.Errorf("invalid '%s': %w", FlagToolCreator, err)
	}

	var voter *address.Address
	if len(*voterFlag) > 0 {
		v, err := address.Parse(*voterFlag)
		if err != nil {
			return fmt.Errorf("invalid '%s': %w", FlagToolVoter, err)
		}
		voter = &v
	}

	result, err := deriveAddressesForIdentities(programID, creator, voter)
	if err != nil {
		return err
	}

	if *outputJSONFlag {
		return printJSON(result)
	}

	fmt.Println("Program ID:          ", result.ProgramID)
	fmt.Printf("Poll address:         %s (bump %d)\n", result.PollAddress, result.PollBump)
	if voter != nil {
		fmt.Printf("Vote record address:  %s (bump %d)\n", result.VoteRecordAddress, result.VoteRecordBump)
	}

	return nil
}
