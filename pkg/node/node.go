package node

import (
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/daemon"
	"github.com/iotaledger/hive.go/logger"
)

type Node struct {
	disabledPlugins map[string]struct{}
	enabledPlugins  map[string]struct{}
	corePluginsMap  map[string]*CorePlugin
	corePlugins     []*CorePlugin
	pluginsMap      map[string]*Plugin
	plugins         []*Plugin
	container       *dig.Container
	Logger          *logger.Logger
	options         *NodeOptions
}

// New creates a node, loads its configuration and configures all core plugins and enabled plugins.
func New(optionalOptions ...NodeOption) (*Node, error) {
	nodeOpts := &NodeOptions{}
	nodeOpts.apply(defaultNodeOptions()...)
	nodeOpts.apply(optionalOptions...)

	node := &Node{
		disabledPlugins: make(map[string]struct{}),
		enabledPlugins:  make(map[string]struct{}),
		corePluginsMap:  make(map[string]*CorePlugin),
		corePlugins:     make([]*CorePlugin, 0),
		pluginsMap:      make(map[string]*Plugin),
		plugins:         make([]*Plugin, 0),
		container:       dig.New(dig.DeferAcyclicVerification()),
		options:         nodeOpts,
	}

	// initialize the core plugins and plugins
	if err := node.init(); err != nil {
		return nil, err
	}

	// the logger can only be created after the init plugin initialized the global logger
	node.Logger = logger.NewLogger("Node")

	if err := node.configure(); err != nil {
		return nil, err
	}

	return node, nil
}

// Run creates the node, starts all plugins and blocks until the node was shut down.
func Run(optionalOptions ...NodeOption) {
	node, err := New(optionalOptions...)
	if err != nil {
		panic(fmt.Errorf("unable to initialize node: %w", err))
	}
	node.Run()
}

// IsSkipped returns whether the plugin is loaded or skipped.
func (n *Node) IsSkipped(plugin *Plugin) bool {
	return (plugin.Status == StatusDisabled || n.isDisabled(plugin)) &&
		(plugin.Status == StatusEnabled || !n.isEnabled(plugin))
}

func (n *Node) isDisabled(plugin *Plugin) bool {
	_, exists := n.disabledPlugins[plugin.Identifier()]
	return exists
}

func (n *Node) isEnabled(plugin *Plugin) bool {
	_, exists := n.enabledPlugins[plugin.Identifier()]
	return exists
}

func (n *Node) init() error {

	initPlugin := n.options.initPlugin
	if initPlugin == nil {
		return fmt.Errorf("you must configure the node with an InitPlugin")
	}
	initPlugin.Node = n

	params := flag.NewFlagSet("appConfig", flag.ContinueOnError)
	var masked []string

	collectParams := func(pluggable *Pluggable) {
		if pluggable.Params == nil {
			return
		}
		if pluggable.Params.Params != nil {
			params.AddFlagSet(pluggable.Params.Params)
		}
		masked = append(masked, pluggable.Params.Masked...)
	}

	collectParams(&initPlugin.Pluggable)
	for _, corePlugin := range n.options.corePlugins {
		collectParams(&corePlugin.Pluggable)
	}
	for _, plugin := range n.options.plugins {
		collectParams(&plugin.Pluggable)
	}

	initCfg, err := initPlugin.Init(params, masked)
	if err != nil {
		return fmt.Errorf("unable to initialize node: %w", err)
	}

	for _, name := range initCfg.EnabledPlugins {
		n.enabledPlugins[strings.ToLower(name)] = struct{}{}
	}

	for _, name := range initCfg.DisabledPlugins {
		n.disabledPlugins[strings.ToLower(name)] = struct{}{}
	}

	for _, corePlugin := range n.options.corePlugins {
		if err := n.addCorePlugin(corePlugin); err != nil {
			return err
		}
	}

	for _, plugin := range n.options.plugins {
		if n.IsSkipped(plugin) {
			continue
		}
		if err := n.addPlugin(plugin); err != nil {
			return err
		}
	}

	if initPlugin.Provide == nil {
		return fmt.Errorf("the init plugin must have a provide func")
	}
	if err := initPlugin.Provide(n.container); err != nil {
		return err
	}

	// all constructors are provided first, so plugins can depend on each other regardless of their order
	var pluggables []*Pluggable
	n.ForEachCorePlugin(func(corePlugin *CorePlugin) bool {
		pluggables = append(pluggables, &corePlugin.Pluggable)
		return true
	})
	n.ForEachPlugin(func(plugin *Plugin) bool {
		pluggables = append(pluggables, &plugin.Pluggable)
		return true
	})

	for _, pluggable := range pluggables {
		if pluggable.Provide == nil {
			continue
		}
		if err := pluggable.Provide(n.container); err != nil {
			return fmt.Errorf("provide of %s failed: %w", pluggable.Name, err)
		}
	}

	for _, pluggable := range pluggables {
		if pluggable.DepsFunc == nil {
			continue
		}
		if err := n.container.Invoke(pluggable.DepsFunc); err != nil {
			return fmt.Errorf("resolving dependencies of %s failed: %w", pluggable.Name, err)
		}
	}

	return nil
}

func (n *Node) configure() error {

	if n.options.initPlugin.Configure != nil {
		if err := n.options.initPlugin.Configure(); err != nil {
			return err
		}
	}

	var err error
	n.ForEachCorePlugin(func(corePlugin *CorePlugin) bool {
		corePlugin.Node = n

		if corePlugin.Configure != nil {
			if err = corePlugin.Configure(); err != nil {
				err = fmt.Errorf("configuring core plugin %s failed: %w", corePlugin.Name, err)
				return false
			}
		}
		n.Logger.Infof("Loading core plugin: %s ... done", corePlugin.Name)
		return true
	})
	if err != nil {
		return err
	}

	n.ForEachPlugin(func(plugin *Plugin) bool {
		plugin.Node = n

		if plugin.Configure != nil {
			if err = plugin.Configure(); err != nil {
				err = fmt.Errorf("configuring plugin %s failed: %w", plugin.Name, err)
				return false
			}
		}
		n.Logger.Infof("Loading plugin: %s ... done", plugin.Name)
		return true
	})

	return err
}

func (n *Node) execute() error {
	n.Logger.Info("Executing core plugins ...")

	var err error
	n.ForEachCorePlugin(func(corePlugin *CorePlugin) bool {
		if corePlugin.Run != nil {
			if err = corePlugin.Run(); err != nil {
				err = fmt.Errorf("starting core plugin %s failed: %w", corePlugin.Name, err)
				return false
			}
		}
		n.Logger.Infof("Starting core plugin: %s ... done", corePlugin.Name)
		return true
	})
	if err != nil {
		return err
	}

	n.Logger.Info("Executing plugins ...")

	n.ForEachPlugin(func(plugin *Plugin) bool {
		if plugin.Run != nil {
			if err = plugin.Run(); err != nil {
				err = fmt.Errorf("starting plugin %s failed: %w", plugin.Name, err)
				return false
			}
		}
		n.Logger.Infof("Starting plugin: %s ... done", plugin.Name)
		return true
	})

	return err
}

// Run starts all plugins and the background workers and blocks until the daemon was shut down.
func (n *Node) Run() {
	if err := n.execute(); err != nil {
		n.Logger.Panic(err)
	}

	n.Logger.Info("Starting background workers ...")
	n.Daemon().Run()

	n.Logger.Info("Shutdown complete!")
}

// Shutdown stops all background workers and waits until they finished.
func (n *Node) Shutdown() {
	n.Daemon().ShutdownAndWait()
}

func (n *Node) Daemon() daemon.Daemon {
	return n.options.daemon
}

func (n *Node) addCorePlugin(corePlugin *CorePlugin) error {
	name := corePlugin.Name

	if _, exists := n.corePluginsMap[name]; exists {
		return fmt.Errorf("duplicate core plugin - \"%s\" was defined already", name)
	}

	corePlugin.Node = n
	n.corePluginsMap[name] = corePlugin
	n.corePlugins = append(n.corePlugins, corePlugin)
	return nil
}

func (n *Node) addPlugin(plugin *Plugin) error {
	name := plugin.Name

	if _, exists := n.pluginsMap[name]; exists {
		return fmt.Errorf("duplicate plugin - \"%s\" was defined already", name)
	}

	plugin.Node = n
	n.pluginsMap[name] = plugin
	n.plugins = append(n.plugins, plugin)
	return nil
}

// CorePluginForEachFunc is used in ForEachCorePlugin.
// Returning false indicates to stop looping.
type CorePluginForEachFunc func(corePlugin *CorePlugin) bool

// ForEachCorePlugin calls the given CorePluginForEachFunc on each loaded core plugin.
func (n *Node) ForEachCorePlugin(f CorePluginForEachFunc) {
	for _, corePlugin := range n.corePlugins {
		if !f(corePlugin) {
			break
		}
	}
}

// PluginForEachFunc is used in ForEachPlugin.
// Returning false indicates to stop looping.
type PluginForEachFunc func(plugin *Plugin) bool

// ForEachPlugin calls the given PluginForEachFunc on each loaded plugin.
func (n *Node) ForEachPlugin(f PluginForEachFunc) {
	for _, plugin := range n.plugins {
		if !f(plugin) {
			break
		}
	}
}
