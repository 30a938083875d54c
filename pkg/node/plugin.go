package node

import (
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"
	"github.com/iotaledger/hive.go/daemon"
	"github.com/iotaledger/hive.go/logger"
)

// PluginParams defines the parameters configuration of a plugin.
type PluginParams struct {
	// The parameters of the plugin.
	Params *flag.FlagSet
	// The configuration values to mask when printed.
	Masked []string
}

// ProvideFunc gets called with a dig.Container.
type ProvideFunc func(c *dig.Container) error

// Callback is a function called without any arguments.
type Callback func() error

// Pluggable is something which extends the Node's capabilities.
type Pluggable struct {
	// A reference to the Node instance.
	Node *Node
	// The name of the plugin.
	Name string
	// The config parameters for this plugin.
	Params *PluginParams
	// The function to call to initialize the plugin dependencies.
	DepsFunc interface{}
	// Provide gets called in the provide stage of node initialization.
	Provide ProvideFunc
	// Configure gets called in the configure stage of node initialization.
	Configure Callback
	// Run gets called in the run stage of node initialization.
	Run Callback

	logger *logger.Logger
}

// Daemon returns the daemon of the node the plugin belongs to.
func (p *Pluggable) Daemon() daemon.Daemon {
	return p.Node.Daemon()
}

// Logger returns the logger of the plugin.
func (p *Pluggable) Logger() *logger.Logger {
	if p.logger == nil {
		p.logger = logger.NewLogger(p.Name)
	}
	return p.logger
}

func (p *Pluggable) LogDebugf(template string, args ...interface{}) {
	p.Logger().Debugf(template, args...)
}

func (p *Pluggable) LogInfo(args ...interface{}) {
	p.Logger().Info(args...)
}

func (p *Pluggable) LogInfof(template string, args ...interface{}) {
	p.Logger().Infof(template, args...)
}

func (p *Pluggable) LogWarn(args ...interface{}) {
	p.Logger().Warn(args...)
}

func (p *Pluggable) LogWarnf(template string, args ...interface{}) {
	p.Logger().Warnf(template, args...)
}

func (p *Pluggable) LogErrorf(template string, args ...interface{}) {
	p.Logger().Errorf(template, args...)
}

func (p *Pluggable) LogPanic(args ...interface{}) {
	p.Logger().Panic(args...)
}

func (p *Pluggable) LogPanicf(template string, args ...interface{}) {
	p.Logger().Panicf(template, args...)
}

// InitConfig describes the result of a node initialization.
type InitConfig struct {
	EnabledPlugins  []string
	DisabledPlugins []string
}

// InitFunc gets called as the initialization function of the node.
// It receives the flags of all core plugins and plugins.
type InitFunc func(params *flag.FlagSet, maskedKeys []string) (*InitConfig, error)

// InitPlugin is the plugin initializing the configuration and the logger of the node.
// A Node can only have one of such plugins.
type InitPlugin struct {
	Pluggable
	// Init gets called in the initialization stage of the node.
	Init InitFunc
	// The config this InitPlugin brings to the node.
	Config *configuration.Configuration
}

// CorePlugin is a plugin essential for node operation.
// It can not be disabled.
type CorePlugin struct {
	Pluggable
}

const (
	StatusDisabled = iota
	StatusEnabled
)

// Plugin is an optional plugin which can be enabled or disabled by the configuration.
type Plugin struct {
	Pluggable
	// The status of the plugin.
	Status int
}

// Identifier returns the lower case name of the plugin without spaces.
func (p *Plugin) Identifier() string {
	return strings.ToLower(strings.ReplaceAll(p.Name, " ", ""))
}
