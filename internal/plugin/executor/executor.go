// Package executor launches device adapter plugins and exposes them as a plugin.DeviceAdapter.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/bandtint/internal/plugin/protocol"
	"github.com/jmylchreest/bandtint/internal/security"
	"github.com/jmylchreest/bandtint/pkg/plugin"
)

// ErrAlreadyRunning is returned when another copy of the adapter executable is
// already running and therefore owns the band.
var ErrAlreadyRunning = errors.New("adapter already running")

// launchFunc starts the adapter and returns it with a function that stops it.
type launchFunc func(ctx context.Context) (plugin.DeviceAdapter, func(), error)

// Executor runs one adapter executable and forwards sessions to it.
// The adapter process is started lazily on first Connect.
type Executor struct {
	path    string
	baseDir string
	logger  hclog.Logger
	runner  ProcessRunner
	lister  ProcessLister
	launch  launchFunc

	mu      sync.Mutex
	info    *plugin.PluginInfo
	adapter plugin.DeviceAdapter
	stop    func()
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used for the executor and the go-plugin client.
func WithLogger(logger hclog.Logger) Option {
	return func(e *Executor) { e.logger = logger }
}

// WithProcessRunner replaces the runner used for --plugin-info queries.
func WithProcessRunner(runner ProcessRunner) Option {
	return func(e *Executor) { e.runner = runner }
}

// WithProcessLister replaces the process table used by the single-instance check.
func WithProcessLister(lister ProcessLister) Option {
	return func(e *Executor) { e.lister = lister }
}

// WithPluginDir restricts the adapter executable to dir.
func WithPluginDir(dir string) Option {
	return func(e *Executor) { e.baseDir = dir }
}

// New creates an Executor for the adapter executable at path.
func New(path string, opts ...Option) (*Executor, error) {
	e := &Executor{
		path:   path,
		logger: hclog.NewNullLogger(),
		runner: NewRealProcessRunner(),
		lister: SystemProcessLister{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("plugin")
	if e.launch == nil {
		e.launch = e.launchGoPlugin
	}

	if e.baseDir != "" {
		if err := security.ValidatePluginPath(path, e.baseDir); err != nil {
			return nil, err
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("adapter not found: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("adapter path is a directory: %s", path)
	}

	return e, nil
}

// Path returns the adapter executable path.
func (e *Executor) Path() string {
	return e.path
}

// Info queries the adapter's metadata, caching the answer.
func (e *Executor) Info(ctx context.Context) (*plugin.PluginInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.infoLocked(ctx)
}

func (e *Executor) infoLocked(ctx context.Context) (*plugin.PluginInfo, error) {
	if e.info != nil {
		return e.info, nil
	}
	info, err := protocol.Detect(ctx, e.runner, e.path)
	if err != nil {
		return nil, fmt.Errorf("failed to detect adapter protocol: %w", err)
	}
	e.info = info
	return info, nil
}

// Start launches the adapter process if it is not running yet.
func (e *Executor) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.startLocked(ctx)
	return err
}

func (e *Executor) startLocked(ctx context.Context) (plugin.DeviceAdapter, error) {
	if e.adapter != nil {
		return e.adapter, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := e.infoLocked(ctx)
	if err != nil {
		return nil, err
	}

	pid, err := findRunning(e.lister, e.path)
	if err != nil {
		e.logger.Warn("could not list processes, skipping single-instance check", "error", err)
	} else if pid != 0 {
		return nil, fmt.Errorf("%w: %s (pid %d)", ErrAlreadyRunning, info.Name, pid)
	}

	e.logger.Debug("starting adapter", "name", info.Name, "version", info.Version, "path", e.path)
	adapter, stop, err := e.launch(ctx)
	if err != nil {
		return nil, err
	}
	e.adapter, e.stop = adapter, stop
	return adapter, nil
}

// Connect implements plugin.DeviceAdapter, starting the adapter on first use.
func (e *Executor) Connect(ctx context.Context, target plugin.Descriptor) (plugin.Session, error) {
	e.mu.Lock()
	adapter, err := e.startLocked(ctx)
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return adapter.Connect(ctx, target)
}

// Close stops the adapter process.
func (e *Executor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stop != nil {
		e.stop()
	}
	e.adapter, e.stop = nil, nil
}

func (e *Executor) launchGoPlugin(context.Context) (plugin.DeviceAdapter, func(), error) {
	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig:  plugin.Handshake,
		Plugins:          plugin.PluginMap(nil),
		Cmd:              exec.Command(e.path),
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Logger:           e.logger,
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(plugin.PluginKey)
	if err != nil {
		client.Kill()
		return nil, nil, fmt.Errorf("failed to dispense adapter: %w", err)
	}

	adapter, ok := raw.(plugin.DeviceAdapter)
	if !ok {
		client.Kill()
		return nil, nil, fmt.Errorf("adapter dispensed unexpected type %T", raw)
	}

	return adapter, client.Kill, nil
}
