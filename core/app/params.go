package app

import (
	"time"

	flag "github.com/spf13/pflag"

	"github.com/gohornet/verdict/pkg/node"
)

const (
	// CfgAppDisablePlugins defines a list of plugins that shall be disabled
	CfgAppDisablePlugins = "app.disablePlugins"
	// CfgAppEnablePlugins defines a list of plugins that shall be enabled
	CfgAppEnablePlugins = "app.enablePlugins"
	// CfgAppStopGracePeriod defines the maximum time to wait for background workers to finish during shutdown
	CfgAppStopGracePeriod = "app.stopGracePeriod"

	// CfgLoggerLevel defines the minimum log level
	CfgLoggerLevel = "logger.level"
	// CfgLoggerDisableCaller stops annotating logs with the calling function
	CfgLoggerDisableCaller = "logger.disableCaller"
	// CfgLoggerEncoding defines the log encoding (console or json)
	CfgLoggerEncoding = "logger.encoding"
	// CfgLoggerOutputPaths defines the paths the log is written to
	CfgLoggerOutputPaths = "logger.outputPaths"

	CfgConfigFilePathAppConfig = "config"
)

var params = &node.PluginParams{
	Params: func() *flag.FlagSet {
		fs := flag.NewFlagSet("", flag.ContinueOnError)
		fs.StringSlice(CfgAppDisablePlugins, nil, "a list of plugins that shall be disabled")
		fs.StringSlice(CfgAppEnablePlugins, nil, "a list of plugins that shall be enabled")
		fs.Duration(CfgAppStopGracePeriod, 5*time.Minute, "the maximum time to wait for background workers to finish during shutdown")
		fs.String(CfgLoggerLevel, "info", "the minimum log level")
		fs.Bool(CfgLoggerDisableCaller, true, "stops annotating logs with the calling function")
		fs.String(CfgLoggerEncoding, "console", "the log encoding (console or json)")
		fs.StringSlice(CfgLoggerOutputPaths, []string{"stdout"}, "the paths the log is written to")
		return fs
	}(),
}
