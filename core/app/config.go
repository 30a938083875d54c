package app

import (
	"fmt"
	"os"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"
)

func getList(a []string) string {
	sort.Strings(a)
	return "\n   - " + strings.Join(a, "\n   - ")
}

// loadCfg loads the config file and overwrites its values with the command line flags.
func loadCfg(params *flag.FlagSet) error {
	if err := appConfig.LoadFile(*appCfgFilePath); err != nil {
		if hasFlag(flag.CommandLine, CfgConfigFilePathAppConfig) {
			// if a file was explicitly specified, raise the error
			return err
		}
		fmt.Printf("No config file found via '%s'. Loading default settings.\n", *appCfgFilePath)
	}

	// load the flags to set the default values and the values given on the command line
	return appConfig.LoadFlagSet(params)
}

func hasFlag(flagSet *flag.FlagSet, name string) bool {
	has := false
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == name {
			has = true
		}
	})
	return has
}

// prints the loaded configuration, but hides sensitive information.
func printConfig(maskedKeys []string) {
	appConfig.Print(maskedKeys)

	enablePlugins := appConfig.Strings(CfgAppEnablePlugins)
	disablePlugins := appConfig.Strings(CfgAppDisablePlugins)

	if len(enablePlugins) > 0 {
		fmt.Printf("\nThe following plugins are enabled: %s\n", getList(enablePlugins))
	}
	if len(disablePlugins) > 0 {
		fmt.Printf("\nThe following plugins are disabled: %s\n", getList(disablePlugins))
	}
	fmt.Println()
}

// adds the given flag sets to flag.CommandLine and then parses them.
func parseFlags(flagSets ...*flag.FlagSet) {
	for _, flagSet := range flagSets {
		flag.CommandLine.AddFlagSet(flagSet)
	}
	flag.Parse()
}

// hides all non essential flags from the help/usage text.
func hideConfigFlags(params *flag.FlagSet) {
	hide := func(f *flag.Flag) {
		_, notHidden := nonHiddenFlags[f.Name]
		f.Hidden = !notHidden
	}
	flag.VisitAll(hide)
	params.VisitAll(hide)
}

// prints out the version of the app and exits if requested.
func printVersion(params *flag.FlagSet) {
	if *version {
		fmt.Println(Name + " " + Version)
		os.Exit(0)
	}

	if *help {
		if !*helpFull {
			hideConfigFlags(params)
		}
		flag.Usage()
		os.Exit(0)
	}
}
