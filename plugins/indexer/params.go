package indexer

import (
	flag "github.com/spf13/pflag"

	"github.com/gohornet/verdict/pkg/node"
)

const (
	// CfgIndexerEngine the relational database used by the indexer ("sqlite" or "postgres")
	CfgIndexerEngine = "indexer.engine"
	// CfgIndexerPath the path to the indexer database if sqlite is used, relative to the ledger database
	CfgIndexerPath = "indexer.path"
)

var params = &node.PluginParams{
	Params: func() *flag.FlagSet {
		fs := flag.NewFlagSet("", flag.ContinueOnError)
		fs.String(CfgIndexerEngine, "sqlite", "the relational database used by the indexer (\"sqlite\" or \"postgres\")")
		fs.String(CfgIndexerPath, "indexer", "the path to the indexer database if sqlite is used, relative to the ledger database")
		return fs
	}(),
}
