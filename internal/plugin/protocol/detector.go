package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/jmylchreest/bandtint/pkg/plugin"
)

// InfoFlag is the argument adapters answer with their JSON PluginInfo.
const InfoFlag = "--plugin-info"

// DetectTimeout bounds the --plugin-info query.
const DetectTimeout = 5 * time.Second

// Runner runs an external process and returns its stdout.
type Runner interface {
	Run(ctx context.Context, path string, args []string, stdin io.Reader) (stdout, stderr []byte, err error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	return f(ctx, path, args, stdin)
}

// execRunner runs commands with os/exec.
var execRunner = RunnerFunc(func(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = stdin
	out, err := cmd.Output()
	if exitErr, ok := err.(*exec.ExitError); ok {
		return out, exitErr.Stderr, err
	}
	return out, nil, err
})

// Detect queries an adapter executable for its PluginInfo and checks that it
// speaks a compatible go-plugin protocol. A nil runner uses os/exec.
func Detect(ctx context.Context, runner Runner, path string) (*plugin.PluginInfo, error) {
	if runner == nil {
		runner = execRunner
	}

	ctx, cancel := context.WithTimeout(ctx, DetectTimeout)
	defer cancel()

	stdout, stderr, err := runner.Run(ctx, path, []string{InfoFlag}, nil)
	if err != nil {
		if len(stderr) > 0 {
			return nil, fmt.Errorf("failed to query adapter: %w\nStderr: %s", err, stderr)
		}
		return nil, fmt.Errorf("failed to query adapter: %w", err)
	}

	var info plugin.PluginInfo
	if err := json.Unmarshal(stdout, &info); err != nil {
		return nil, fmt.Errorf("failed to parse adapter info: %w", err)
	}

	if plugin.PluginType(info.PluginProtocol) != plugin.PluginTypeGoPlugin {
		return nil, fmt.Errorf("unsupported plugin_protocol %q (want %q)", info.PluginProtocol, plugin.PluginTypeGoPlugin)
	}

	if _, err := IsCompatible(info.ProtocolVersion); err != nil {
		return nil, fmt.Errorf("adapter %s: %w", info.Name, err)
	}

	return &info, nil
}
