package ledger

import (
	"context"

	"github.com/dustin/go-humanize"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"
	"github.com/iotaledger/hive.go/events"

	coreDatabase "github.com/gohornet/verdict/core/database"
	"github.com/gohornet/verdict/pkg/database"
	"github.com/gohornet/verdict/pkg/metrics"
	"github.com/gohornet/verdict/pkg/model/address"
	"github.com/gohornet/verdict/pkg/model/ledger"
	"github.com/gohornet/verdict/pkg/node"
	"github.com/gohornet/verdict/pkg/shutdown"
)

func init() {
	CorePlugin = &node.CorePlugin{
		Pluggable: node.Pluggable{
			Name:      "Ledger",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
			Configure: configure,
			Run:       run,
		},
	}
}

var (
	CorePlugin *node.CorePlugin
	deps       dependencies
)

type dependencies struct {
	dig.In
	Ledger        *ledger.Ledger
	LedgerMetrics *metrics.LedgerMetrics
}

func provide(c *dig.Container) error {

	if err := c.Provide(func() *metrics.LedgerMetrics {
		return &metrics.LedgerMetrics{}
	}); err != nil {
		return err
	}

	type ledgerDeps struct {
		dig.In
		AppConfig *configuration.Configuration `name:"appConfig"`
		Database  *database.Database           `name:"ledgerDatabase"`
	}

	return c.Provide(func(deps ledgerDeps) (*ledger.Ledger, error) {

		programID, err := address.Parse(deps.AppConfig.String(CfgLedgerProgramID))
		if err != nil {
			return nil, err
		}

		capacity := ledger.Capacity{
			MaxQuestionLength: deps.AppConfig.Int(CfgLedgerMaxQuestionLength),
			MaxOptionsLength:  deps.AppConfig.Int(CfgLedgerMaxOptionsLength),
			MaxOptions:        deps.AppConfig.Int(CfgLedgerMaxOptions),
		}

		CorePlugin.LogInfof("Reserving %s per poll and %s per vote record", humanize.Bytes(uint64(capacity.PollSpace())), humanize.Bytes(uint64(ledger.VoteRecordSpace)))

		return ledger.NewLedger(
			deps.Database.KVStore(),
			ledger.WithLogger(CorePlugin.Logger()),
			ledger.WithProgramID(programID),
			ledger.WithCapacity(capacity),
			ledger.WithAutoRevalidation(deps.AppConfig.Bool(coreDatabase.CfgDatabaseAutoRevalidation)),
		)
	})
}

func configure() error {

	deps.Ledger.Events.PollCreated.Attach(events.NewClosure(func(_ *ledger.Poll) {
		deps.LedgerMetrics.PollsCreated.Inc()
	}))

	deps.Ledger.Events.VoteCast.Attach(events.NewClosure(func(_ *ledger.Poll, _ *ledger.VoteRecord) {
		deps.LedgerMetrics.VotesCast.Inc()
	}))

	return nil
}

func run() error {
	return CorePlugin.Daemon().BackgroundWorker("Close database", func(ctx context.Context) {
		<-ctx.Done()

		CorePlugin.LogInfo("Syncing database to disk ...")
		if err := deps.Ledger.CloseDatabase(); err != nil {
			CorePlugin.LogErrorf("Syncing database to disk ... failed: %s", err)
			return
		}
		CorePlugin.LogInfo("Syncing database to disk ... done")
	}, shutdown.PriorityCloseDatabase)
}
