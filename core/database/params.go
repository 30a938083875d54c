package database

import (
	flag "github.com/spf13/pflag"

	"github.com/gohornet/verdict/pkg/node"
)

const (
	// the used database engine (pebble/mapdb)
	CfgDatabaseEngine = "db.engine"
	// the path to the database folder
	CfgDatabasePath = "db.path"
	// whether to automatically start the node with a database marked as corrupted
	CfgDatabaseAutoRevalidation = "db.autoRevalidation"
)

var params = &node.PluginParams{
	Params: func() *flag.FlagSet {
		fs := flag.NewFlagSet("", flag.ContinueOnError)
		fs.String(CfgDatabaseEngine, "pebble", "the used database engine (pebble/mapdb)")
		fs.String(CfgDatabasePath, "verdictdb", "the path to the database folder")
		fs.Bool(CfgDatabaseAutoRevalidation, false, "whether to automatically start the node with a database marked as corrupted")
		return fs
	}(),
}
