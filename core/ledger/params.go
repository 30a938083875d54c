package ledger

import (
	flag "github.com/spf13/pflag"

	"github.com/gohornet/verdict/pkg/model/ledger"
	"github.com/gohornet/verdict/pkg/node"
)

const (
	// the program ID all poll and vote record addresses are derived with
	CfgLedgerProgramID = "ledger.programID"
	// the maximum length of a poll question in bytes
	CfgLedgerMaxQuestionLength = "ledger.maxQuestionLength"
	// the maximum length of all poll options together in bytes
	CfgLedgerMaxOptionsLength = "ledger.maxOptionsLength"
	// the maximum amount of options of a poll
	CfgLedgerMaxOptions = "ledger.maxOptions"
)

var params = &node.PluginParams{
	Params: func() *flag.FlagSet {
		defaultCapacity := ledger.DefaultCapacity()

		fs := flag.NewFlagSet("", flag.ContinueOnError)
		fs.String(CfgLedgerProgramID, ledger.DefaultProgramID.String(), "the program ID all poll and vote record addresses are derived with")
		fs.Int(CfgLedgerMaxQuestionLength, defaultCapacity.MaxQuestionLength, "the maximum length of a poll question in bytes")
		fs.Int(CfgLedgerMaxOptionsLength, defaultCapacity.MaxOptionsLength, "the maximum length of all poll options together in bytes")
		fs.Int(CfgLedgerMaxOptions, defaultCapacity.MaxOptions, "the maximum amount of options of a poll")
		return fs
	}(),
}
