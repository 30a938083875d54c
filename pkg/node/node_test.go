package node

import (
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"
	"github.com/iotaledger/hive.go/logger"
)

type counter struct {
	value int
}

func testInitPlugin(t *testing.T, enabled []string, disabled []string) *InitPlugin {
	return &InitPlugin{
		Pluggable: Pluggable{
			Name: "App",
			Params: &PluginParams{
				Params: func() *flag.FlagSet {
					fs := flag.NewFlagSet("", flag.ContinueOnError)
					fs.String("app.name", "test", "the name of the app")
					return fs
				}(),
			},
			Provide: func(c *dig.Container) error {
				return nil
			},
		},
		Init: func(params *flag.FlagSet, maskedKeys []string) (*InitConfig, error) {
			cfg := configuration.New()
			require.NoError(t, cfg.Set("logger.disableStacktrace", true))

			// the global logger could already be initialized by another test
			_ = logger.InitGlobalLogger(cfg)

			require.NotNil(t, params.Lookup("app.name"))
			require.NotNil(t, params.Lookup("core.value"))
			require.Equal(t, []string{"core.secret"}, maskedKeys)

			return &InitConfig{
				EnabledPlugins:  enabled,
				DisabledPlugins: disabled,
			}, nil
		},
	}
}

func TestNodeLifecycle(t *testing.T) {

	var calls []string

	corePlugin := &CorePlugin{
		Pluggable: Pluggable{
			Name: "Core",
			Params: &PluginParams{
				Params: func() *flag.FlagSet {
					fs := flag.NewFlagSet("", flag.ContinueOnError)
					fs.Int("core.value", 1, "a value")
					return fs
				}(),
				Masked: []string{"core.secret"},
			},
			Provide: func(c *dig.Container) error {
				return c.Provide(func() *counter {
					return &counter{value: 42}
				})
			},
			Configure: func() error {
				calls = append(calls, "configure core")
				return nil
			},
			Run: func() error {
				calls = append(calls, "run core")
				return nil
			},
		},
	}

	var resolved *counter
	enabledPlugin := &Plugin{
		Status: StatusDisabled,
		Pluggable: Pluggable{
			Name: "Optional Plugin",
			DepsFunc: func(c *counter) {
				resolved = c
			},
			Configure: func() error {
				calls = append(calls, "configure optional")
				return nil
			},
			Run: func() error {
				calls = append(calls, "run optional")
				return nil
			},
		},
	}

	disabledPlugin := &Plugin{
		Status: StatusEnabled,
		Pluggable: Pluggable{
			Name: "Skipped",
			Configure: func() error {
				calls = append(calls, "configure skipped")
				return nil
			},
		},
	}

	n, err := New(
		WithInitPlugin(testInitPlugin(t, []string{"optionalplugin"}, []string{"skipped"})),
		WithCorePlugins(corePlugin),
		WithPlugins(enabledPlugin, disabledPlugin),
	)
	require.NoError(t, err)

	require.False(t, n.IsSkipped(enabledPlugin))
	require.True(t, n.IsSkipped(disabledPlugin))
	require.NotNil(t, resolved)
	require.Equal(t, 42, resolved.value)

	require.NoError(t, n.execute())
	require.Equal(t, []string{"configure core", "configure optional", "run core", "run optional"}, calls)
}

func TestNodeWithoutInitPlugin(t *testing.T) {
	_, err := New()
	require.Error(t, err)
}

func TestPluginIdentifier(t *testing.T) {
	plugin := &Plugin{Pluggable: Pluggable{Name: "REST API"}}
	require.Equal(t, "restapi", plugin.Identifier())
}
