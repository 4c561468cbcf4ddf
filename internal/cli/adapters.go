package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/bandtint/internal/device"
	"github.com/jmylchreest/bandtint/internal/plugin/executor"
	"github.com/jmylchreest/bandtint/pkg/plugin"
)

// registry returns the built-in adapters plus every executable in the plugin directory.
// Built-in names win over executables of the same name.
func (a *app) registry() *device.Registry {
	r := device.NewBuiltinRegistry(device.SimulatorConfig{
		StatePath:       a.cfg.Simulator.StatePath,
		HardwareVersion: a.cfg.Simulator.HardwareVersion,
		Latency:         a.cfg.Simulator.Latency,
	})

	for _, path := range a.adapterExecutables() {
		name := filepath.Base(path)
		err := r.Register(name, func() (plugin.DeviceAdapter, func(), error) {
			e, err := executor.New(path, executor.WithLogger(a.logger), executor.WithPluginDir(a.cfg.PluginDir))
			if err != nil {
				return nil, nil, err
			}
			return e, e.Close, nil
		})
		if err != nil {
			a.logger.Debug("skipping adapter executable", "path", path, "error", err)
		}
	}
	return r
}

// adapterExecutables lists executable files in the plugin directory.
func (a *app) adapterExecutables() []string {
	entries, err := os.ReadDir(a.cfg.PluginDir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			a.logger.Warn("failed to read plugin directory", "dir", a.cfg.PluginDir, "error", err)
		}
		return nil
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Mode().Perm()&0o111 == 0 {
			continue
		}
		paths = append(paths, filepath.Join(a.cfg.PluginDir, entry.Name()))
	}
	return paths
}

// openAdapter opens the configured adapter. The returned func releases it.
func (a *app) openAdapter() (plugin.DeviceAdapter, func(), error) {
	adapter, closeFn, err := a.registry().Open(a.cfg.Adapter)
	if err != nil {
		return nil, nil, fmt.Errorf("opening adapter %q: %w", a.cfg.Adapter, err)
	}
	a.logger.Debug("opened adapter", "name", a.cfg.Adapter)
	return adapter, closeFn, nil
}

// target describes the configured band. The simulator fills in its own
// hardware version when none is configured.
func (a *app) target() *plugin.Descriptor {
	d := &plugin.Descriptor{
		ID:              a.cfg.Device,
		HardwareVersion: a.cfg.HardwareVersion,
	}
	if a.cfg.Adapter == device.SimulatorName {
		d.Transport = plugin.TransportVirtual
		if d.HardwareVersion == nil {
			v := a.cfg.Simulator.HardwareVersion
			d.HardwareVersion = &v
		}
	}
	return d
}

func newAdaptersCmd(a *app) *cobra.Command {
	adaptersCmd := &cobra.Command{
		Use:   "adapters",
		Short: "Manage device adapters",
	}

	adaptersCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available device adapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.commandContext(cmd)
			defer cancel()
			return a.listAdapters(ctx, cmd)
		},
	})
	return adaptersCmd
}

func (a *app) listAdapters(ctx context.Context, cmd *cobra.Command) error {
	table := NewTable("NAME", "VERSION", "TRANSPORTS", "DESCRIPTION")

	sim := device.NewSimulator(device.SimulatorConfig{HardwareVersion: a.cfg.Simulator.HardwareVersion})
	addInfoRow(table, sim.Info(), "")

	for _, path := range a.adapterExecutables() {
		name := filepath.Base(path)
		if name == device.SimulatorName {
			continue
		}
		e, err := executor.New(path, executor.WithLogger(a.logger), executor.WithPluginDir(a.cfg.PluginDir))
		if err != nil {
			table.AddRow(name, "-", "-", "error: "+err.Error())
			continue
		}
		info, err := e.Info(ctx)
		if err != nil {
			table.AddRow(name, "-", "-", "error: "+err.Error())
			continue
		}
		addInfoRow(table, *info, name)
	}

	_, err := table.WriteTo(cmd.OutOrStdout())
	return err
}

func addInfoRow(table *Table, info plugin.PluginInfo, name string) {
	if name == "" {
		name = info.Name
	}
	transports := ""
	for i, t := range info.Transports {
		if i > 0 {
			transports += ","
		}
		transports += string(t)
	}
	table.AddRow(name, info.Version, transports, info.Description)
}
