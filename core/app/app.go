package app

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"
	"github.com/iotaledger/hive.go/logger"

	"github.com/gohornet/verdict/pkg/node"
	"github.com/gohornet/verdict/pkg/toolset"
)

var (
	// Name of the app.
	Name = "verdict"

	// Version of the app.
	Version = "0.1.0"
)

// AppInfo describes the running app.
type AppInfo struct {
	Name    string
	Version string
}

var (
	version  = flag.BoolP("version", "v", false, "Prints the verdict version")
	help     = flag.BoolP("help", "h", false, "Prints the verdict help (--full for all parameters)")
	helpFull = flag.Bool("full", false, "Prints full verdict help (only in combination with -h)")

	appConfig = configuration.New()
	secrets   *Secrets

	// config file flags
	configFilesFlagSet = flag.NewFlagSet("config_files", flag.ContinueOnError)
	appCfgFilePath     = configFilesFlagSet.StringP(CfgConfigFilePathAppConfig, "c", "config.json", "file path of the config file")

	nonHiddenFlags = map[string]struct{}{
		CfgConfigFilePathAppConfig: {},
		CfgAppDisablePlugins:       {},
		CfgAppEnablePlugins:        {},
		"version":                  {},
		"help":                     {},
	}
)

func init() {
	InitPlugin = &node.InitPlugin{
		Pluggable: node.Pluggable{
			Name:      "App",
			Params:    params,
			Provide:   provide,
			Configure: configure,
		},
		Config: appConfig,
		Init:   initialize,
	}
}

var (
	InitPlugin *node.InitPlugin
)

func initialize(params *flag.FlagSet, maskedKeys []string) (*node.InitConfig, error) {

	if toolset.ShouldHandleTools() {
		// Just parse the configFilesFlagSet and ignore errors
		fs := flag.NewFlagSet("", flag.ContinueOnError)
		fs.AddFlagSet(configFilesFlagSet)
		_ = fs.Parse(os.Args[1:])

		if err := loadCfg(params); err != nil {
			return nil, err
		}

		toolSecrets, err := LoadSecrets()
		if err != nil {
			return nil, err
		}

		toolset.HandleTools(appConfig, &toolset.Secrets{JWTSecret: toolSecrets.JWTSecret})
		// HandleTools will call os.Exit
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage of %s (%s %s):

Run '%s tools' to list all available tools.

Command line flags:
`, os.Args[0], Name, Version, os.Args[0])
		flag.PrintDefaults()
	}

	parseFlags(params, configFilesFlagSet)
	printVersion(params)

	if err := loadCfg(params); err != nil {
		return nil, err
	}

	var err error
	if secrets, err = LoadSecrets(); err != nil {
		return nil, err
	}

	if err := logger.InitGlobalLogger(appConfig); err != nil {
		return nil, err
	}

	fmt.Printf("%s v%s\n\n", Name, Version)

	printConfig(maskedKeys)

	return &node.InitConfig{
		EnabledPlugins:  appConfig.Strings(CfgAppEnablePlugins),
		DisabledPlugins: appConfig.Strings(CfgAppDisablePlugins),
	}, nil
}

func provide(c *dig.Container) error {

	type appDeps struct {
		dig.Out
		AppInfo   *AppInfo
		AppConfig *configuration.Configuration `name:"appConfig"`
		Secrets   *Secrets
	}

	return c.Provide(func() appDeps {
		return appDeps{
			AppInfo: &AppInfo{
				Name:    Name,
				Version: Version,
			},
			AppConfig: appConfig,
			Secrets:   secrets,
		}
	})
}

func configure() error {
	InitPlugin.LogInfo("Loading plugins ...")
	return nil
}
