package toolset

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"

	"github.com/iotaledger/hive.go/configuration"

	coreDatabase "github.com/gohornet/verdict/core/database"
	coreLedger "github.com/gohornet/verdict/core/ledger"
	"github.com/gohornet/verdict/pkg/database"
	"github.com/gohornet/verdict/pkg/model/address"
	"github.com/gohornet/verdict/pkg/model/ledger"
)

const (
	FlagToolDatabasePath = "databasePath"
	FlagToolRevalidate   = "revalidate"
)

type databaseHealth struct {
	Polls       int    `json:"polls"`
	VoteRecords uint64 `json:"voteRecords"`
	Size        int64  `json:"sizeBytes"`
}

// ledgerHealth counts the records of the ledger and checks that the counters of every poll match its vote records.
func ledgerHealth(l *ledger.Ledger) (*databaseHealth, error) {

	var polls []*ledger.Poll
	if err := l.ForEachPoll(func(poll *ledger.Poll) bool {
		polls = append(polls, poll)
		return true
	}); err != nil {
		return nil, err
	}

	health := &databaseHealth{Polls: len(polls)}
	for _, poll := range polls {
		var voteRecords uint64
		if err := l.ForEachVoteRecord(poll.Address, func(_ *ledger.VoteRecord) bool {
			voteRecords++
			return true
		}); err != nil {
			return nil, err
		}

		if voteRecords != poll.TotalVotes {
			return nil, fmt.Errorf("poll %s counted %d votes, but has %d vote records", poll.Address, poll.TotalVotes, voteRecords)
		}
		health.VoteRecords += voteRecords
	}

	return health, nil
}

func checkDatabaseHealth(appConfig *configuration.Configuration, _ *Secrets, args []string) error {

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	databasePathFlag := fs.String(FlagToolDatabasePath, appConfig.String(coreDatabase.CfgDatabasePath), "the path to the ledger database")
	revalidateFlag := fs.Bool(FlagToolRevalidate, false, "revalidate a database that was not shut down properly")
	outputJSONFlag := fs.Bool(FlagToolOutputJSON, false, FlagToolDescriptionOutputJSON)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolDBHealth)
		fs.PrintDefaults()
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	exists, err := database.DatabaseExists(*databasePathFlag)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no database found at %s", *databasePathFlag)
	}

	programID, err := address.Parse(appConfig.String(coreLedger.CfgLedgerProgramID))
	if err != nil {
		return fmt.Errorf("invalid '%s': %w", coreLedger.CfgLedgerProgramID, err)
	}

	db, err := database.DatabaseWithDefaultSettings(*databasePathFlag, false, database.EnginePebble)
	if err != nil {
		return err
	}

	l, err := ledger.NewLedger(
		db.KVStore(),
		ledger.WithProgramID(programID),
		ledger.WithCapacity(ledger.Capacity{
			MaxQuestionLength: appConfig.Int(coreLedger.CfgLedgerMaxQuestionLength),
			MaxOptionsLength:  appConfig.Int(coreLedger.CfgLedgerMaxOptionsLength),
			MaxOptions:        appConfig.Int(coreLedger.CfgLedgerMaxOptions),
		}),
		ledger.WithAutoRevalidation(*revalidateFlag),
	)
	if err != nil {
		return err
	}

	health, err := ledgerHealth(l)
	if closeErr := l.CloseDatabase(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	if health.Size, err = database.Size(*databasePathFlag); err != nil {
		return err
	}

	if *outputJSONFlag {
		return printJSON(health)
	}

	fmt.Println("Database is healthy")
	fmt.Println("Polls:        ", health.Polls)
	fmt.Println("Vote records: ", health.VoteRecords)
	fmt.Println("Size:         ", humanize.Bytes(uint64(health.Size)))

	return nil
}
