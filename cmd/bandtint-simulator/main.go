// bandtint-simulator serves the simulated band as an adapter executable,
// so the plugin transport can be exercised without hardware.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/bandtint/internal/config"
	"github.com/jmylchreest/bandtint/internal/device"
	"github.com/jmylchreest/bandtint/internal/plugin/protocol"
	"github.com/jmylchreest/bandtint/pkg/plugin"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "bandtint-simulator",
		Output:     os.Stderr,
		Level:      hclog.Info,
		JSONFormat: true,
	})

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sim := device.NewSimulator(device.SimulatorConfig{
		StatePath:       cfg.Simulator.StatePath,
		HardwareVersion: cfg.Simulator.HardwareVersion,
		Latency:         cfg.Simulator.Latency,
	})

	if len(os.Args) > 1 && os.Args[1] == protocol.InfoFlag {
		info := sim.Info()
		info.Name = "bandtint-simulator"

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(info); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding plugin info: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	logger.Info("serving simulated band", "hardware_version", sim.HardwareVersion())
	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: plugin.Handshake,
		Plugins:         plugin.PluginMap(sim),
		Logger:          logger,
	})
}

func loadConfig() (*config.Config, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}
