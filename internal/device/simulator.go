package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmylchreest/bandtint/internal/hardware"
	"github.com/jmylchreest/bandtint/internal/theme"
	"github.com/jmylchreest/bandtint/pkg/plugin"
)

// DefaultSimulatedVersion is the hardware version the simulator reports by default.
const DefaultSimulatedVersion = 26

// ErrSessionReleased is returned by operations on a released session.
var ErrSessionReleased = errors.New("session already released")

// SimulatorConfig configures a Simulator.
type SimulatorConfig struct {
	// StatePath persists the band's theme and Me Tile between processes. Empty keeps state in memory.
	StatePath string

	// HardwareVersion of the simulated band. Zero means DefaultSimulatedVersion.
	HardwareVersion int

	// Latency delays every device operation, honouring cancellation.
	Latency time.Duration
}

// simulatorState is the persisted band content.
type simulatorState struct {
	Theme plugin.NativeTheme  `json:"theme"`
	Image *plugin.NativeImage `json:"image,omitempty"`
}

// Simulator is an in-memory band implementing plugin.DeviceAdapter.
// Sessions are serialised: a Connect waits until the previous session is released.
type Simulator struct {
	cfg      SimulatorConfig
	revision hardware.Revision

	// slot holds a token while a session is open.
	slot chan struct{}

	mu     sync.Mutex
	state  simulatorState
	loaded bool
}

// NewSimulator creates a simulated band.
func NewSimulator(cfg SimulatorConfig) *Simulator {
	if cfg.HardwareVersion == 0 {
		cfg.HardwareVersion = DefaultSimulatedVersion
	}
	rev := hardware.RevisionFromVersion(cfg.HardwareVersion)

	return &Simulator{
		cfg:      cfg,
		revision: rev,
		slot:     make(chan struct{}, 1),
		state:    simulatorState{Theme: defaultNativeTheme(rev)},
	}
}

// Info describes the simulator the way adapter executables do for --plugin-info.
func (s *Simulator) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:            SimulatorName,
		Version:         "1.0.0",
		ProtocolVersion: plugin.ProtocolVersion,
		Description:     "Simulated band for development and tests",
		PluginProtocol:  string(plugin.PluginTypeGoPlugin),
		Transports:      []plugin.Transport{plugin.TransportVirtual},
	}
}

// HardwareVersion returns the simulated hardware version.
func (s *Simulator) HardwareVersion() int {
	return s.cfg.HardwareVersion
}

func defaultNativeTheme(rev hardware.Revision) plugin.NativeTheme {
	presets, err := theme.Presets(rev)
	if err != nil || len(presets) == 0 {
		return plugin.NativeTheme{}
	}
	t := presets[0].Theme
	native := func(slot theme.Slot) plugin.NativeColor {
		c := t.Get(slot)
		return plugin.NewNativeColor(c.R, c.G, c.B)
	}
	return plugin.NativeTheme{
		Base:          native(theme.SlotBase),
		HighContrast:  native(theme.SlotHighContrast),
		Lowlight:      native(theme.SlotLowlight),
		Highlight:     native(theme.SlotHighlight),
		Muted:         native(theme.SlotMuted),
		SecondaryText: native(theme.SlotSecondaryText),
	}
}

// Connect opens a session. The target's hardware version, when set, must match the simulator's.
func (s *Simulator) Connect(ctx context.Context, target plugin.Descriptor) (plugin.Session, error) {
	if target.HardwareVersion != nil && *target.HardwareVersion != s.cfg.HardwareVersion {
		return nil, fmt.Errorf("simulated band has hardware version %d, target expects %d", s.cfg.HardwareVersion, *target.HardwareVersion)
	}

	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := s.wait(ctx); err != nil {
		<-s.slot
		return nil, err
	}

	s.mu.Lock()
	err := s.loadLocked()
	s.mu.Unlock()
	if err != nil {
		<-s.slot
		return nil, err
	}

	return &simSession{sim: s}, nil
}

func (s *Simulator) wait(ctx context.Context) error {
	if s.cfg.Latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.cfg.Latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Simulator) loadLocked() error {
	if s.loaded || s.cfg.StatePath == "" {
		s.loaded = true
		return nil
	}

	data, err := os.ReadFile(s.cfg.StatePath)
	if errors.Is(err, os.ErrNotExist) {
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading simulator state: %w", err)
	}

	var state simulatorState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("parsing simulator state: %w", err)
	}
	s.state = state
	s.loaded = true
	return nil
}

func (s *Simulator) saveLocked() error {
	if s.cfg.StatePath == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding simulator state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.cfg.StatePath), 0o750); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := os.WriteFile(s.cfg.StatePath, data, 0o600); err != nil {
		return fmt.Errorf("writing simulator state: %w", err)
	}
	return nil
}

// simSession is one open connection to the simulator.
type simSession struct {
	sim *Simulator

	mu       sync.Mutex
	released bool
	dirty    bool
}

func (ss *simSession) begin(ctx context.Context) error {
	ss.mu.Lock()
	released := ss.released
	ss.mu.Unlock()
	if released {
		return ErrSessionReleased
	}
	return ss.sim.wait(ctx)
}

func (ss *simSession) GetTheme(ctx context.Context) (plugin.NativeTheme, error) {
	if err := ss.begin(ctx); err != nil {
		return plugin.NativeTheme{}, err
	}
	ss.sim.mu.Lock()
	defer ss.sim.mu.Unlock()
	return ss.sim.state.Theme, nil
}

func (ss *simSession) SetTheme(ctx context.Context, t plugin.NativeTheme) error {
	if err := ss.begin(ctx); err != nil {
		return err
	}
	ss.sim.mu.Lock()
	ss.sim.state.Theme = t
	ss.sim.mu.Unlock()
	ss.markDirty()
	return nil
}

func (ss *simSession) GetMeTileImage(ctx context.Context) (plugin.NativeImage, error) {
	if err := ss.begin(ctx); err != nil {
		return plugin.NativeImage{}, err
	}
	ss.sim.mu.Lock()
	defer ss.sim.mu.Unlock()

	if ss.sim.state.Image != nil {
		img := *ss.sim.state.Image
		img.Pixels = append([]byte(nil), img.Pixels...)
		return img, nil
	}

	// A band that was never personalised shows a black tile of its default size.
	d, ok, err := hardware.DefaultMeTileDimensions(ss.sim.revision)
	if err != nil {
		return plugin.NativeImage{}, err
	}
	if !ok {
		return plugin.NativeImage{}, fmt.Errorf("%s has no me tile", ss.sim.revision)
	}
	return plugin.NativeImage{
		Width:  d.Width,
		Height: d.Height,
		Format: plugin.PixelFormatRGB565,
		Pixels: make([]byte, d.Width*d.Height*plugin.PixelFormatRGB565.BytesPerPixel()),
	}, nil
}

func (ss *simSession) SetMeTileImage(ctx context.Context, img plugin.NativeImage) error {
	if err := ss.begin(ctx); err != nil {
		return err
	}
	if err := img.Validate(); err != nil {
		return err
	}
	d := hardware.NewDimension2D(img.Width, img.Height)
	allowed, err := hardware.IsAllowedMeTileDimension(ss.sim.revision, d)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("me tile %s not supported by %s", d, ss.sim.revision)
	}

	stored := img
	stored.Pixels = append([]byte(nil), img.Pixels...)

	ss.sim.mu.Lock()
	ss.sim.state.Image = &stored
	ss.sim.mu.Unlock()
	ss.markDirty()
	return nil
}

func (ss *simSession) markDirty() {
	ss.mu.Lock()
	ss.dirty = true
	ss.mu.Unlock()
}

func (ss *simSession) Release() error {
	ss.mu.Lock()
	if ss.released {
		ss.mu.Unlock()
		return ErrSessionReleased
	}
	ss.released = true
	dirty := ss.dirty
	ss.mu.Unlock()

	defer func() { <-ss.sim.slot }()

	if !dirty {
		return nil
	}
	ss.sim.mu.Lock()
	defer ss.sim.mu.Unlock()
	return ss.sim.saveLocked()
}
