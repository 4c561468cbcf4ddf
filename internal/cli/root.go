// Package cli provides the command-line interface for bandtint.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/bandtint/internal/config"
	"github.com/jmylchreest/bandtint/internal/version"
)

// DefaultTimeout bounds a whole command, including the device session.
const DefaultTimeout = 30 * time.Second

// app holds state shared by the commands of one invocation.
type app struct {
	configPath      string
	adapter         string
	device          string
	hardwareVersion int
	pluginDir       string
	verbose         bool
	timeout         time.Duration

	cfg    *config.Config
	logger hclog.Logger
}

// NewRootCmd builds the bandtint command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: hclog.NewNullLogger()}

	rootCmd := &cobra.Command{
		Use:   "bandtint",
		Short: "Personalize the colour theme and Me Tile of a wearable band",
		Long: `bandtint reads and writes the six-colour theme and the Me Tile
background image of a wearable fitness band.

Bands are reached through device adapters: the built-in simulator, or
adapter executables installed in the plugin directory.`,
		Version:           version.Short(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/bandtint/config.yaml)")
	flags.StringVar(&a.adapter, "adapter", "", "device adapter name")
	flags.StringVar(&a.device, "device", "", "band identifier")
	flags.IntVar(&a.hardwareVersion, "hardware-version", 0, "hardware version of the band")
	flags.StringVar(&a.pluginDir, "plugin-dir", "", "directory holding adapter executables")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	flags.DurationVar(&a.timeout, "timeout", DefaultTimeout, "give up after this long")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(
		newVersionCmd(),
		newHardwareCmd(a),
		newThemeCmd(a),
		newColourCmd(),
		newMeTileCmd(a),
		newAdaptersCmd(a),
	)
	return rootCmd
}

// Execute runs the root command, cancelling on interrupt.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// setup loads configuration and applies flag overrides (file < env < flags).
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.logger = newLogger(a.verbose, cmd.ErrOrStderr())

	path := a.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.logger.Debug("loaded config", "path", path, "adapter", cfg.Adapter)

	flags := cmd.Flags()
	if flags.Changed("adapter") {
		cfg.Adapter = a.adapter
	}
	if flags.Changed("device") {
		cfg.Device = a.device
	}
	if flags.Changed("hardware-version") {
		v := a.hardwareVersion
		cfg.HardwareVersion = &v
	}
	if flags.Changed("plugin-dir") {
		cfg.PluginDir = a.pluginDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	return nil
}

// commandContext returns the command context bounded by --timeout.
func (a *app) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

func newLogger(verbose bool, w io.Writer) hclog.Logger {
	if verbose {
		return hclog.New(&hclog.LoggerOptions{
			Name:   "bandtint",
			Output: w,
			Level:  hclog.Debug,
		})
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "bandtint",
		Output: io.Discard,
		Level:  hclog.Off,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
