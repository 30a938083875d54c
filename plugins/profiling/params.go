package profiling

import (
	flag "github.com/spf13/pflag"

	"github.com/gohornet/verdict/pkg/node"
)

const (
	// CfgProfilingBindAddress the bind address on which the profiler listens on
	CfgProfilingBindAddress = "profiling.bindAddress"
	// CfgProfilingSampleRate the rate of the mutex and block profiles
	CfgProfilingSampleRate = "profiling.sampleRate"
)

var params = &node.PluginParams{
	Params: func() *flag.FlagSet {
		fs := flag.NewFlagSet("", flag.ContinueOnError)
		fs.String(CfgProfilingBindAddress, "localhost:6060", "the bind address on which the profiler listens on")
		fs.Int(CfgProfilingSampleRate, 5, "the rate of the mutex and block profiles")
		return fs
	}(),
}
