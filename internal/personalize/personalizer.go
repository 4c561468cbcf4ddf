// Package personalize applies themes and Me Tile images to a band through a device adapter.
//
// Every call validates its arguments, converts them to the band's native form
// and then runs exactly one device operation inside its own session:
//
//	Idle -> Connecting -> Connected -> Operating -> Disconnecting -> Idle
//
// A session that was opened is always released, whatever the outcome.
package personalize

import (
	"context"
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/bandtint/internal/hardware"
	imgutil "github.com/jmylchreest/bandtint/internal/image"
	"github.com/jmylchreest/bandtint/internal/theme"
	"github.com/jmylchreest/bandtint/internal/validation"
	"github.com/jmylchreest/bandtint/pkg/plugin"
)

// State is a step of the per-call session lifecycle.
type State int

// Lifecycle states.
const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateOperating
	StateDisconnecting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateOperating:
		return "Operating"
	case StateDisconnecting:
		return "Disconnecting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Personalizer runs personalization operations against one adapter.
// It holds no per-call state and is safe for concurrent use; serialising
// access to one physical band is the adapter's job.
type Personalizer struct {
	adapter plugin.DeviceAdapter
	logger  hclog.Logger
}

// Option configures a Personalizer.
type Option func(*Personalizer)

// WithLogger sets the logger. Lifecycle transitions are logged at trace level.
func WithLogger(logger hclog.Logger) Option {
	return func(p *Personalizer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Personalizer over adapter.
func New(adapter plugin.DeviceAdapter, opts ...Option) *Personalizer {
	p := &Personalizer{
		adapter: adapter,
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named("personalize")
	return p
}

// SetTheme writes t to the band.
func (p *Personalizer) SetTheme(ctx context.Context, target *plugin.Descriptor, t *theme.RGBColorTheme) error {
	if err := validation.Require(
		validation.Arg("target", target),
		validation.Arg("theme", t),
	); err != nil {
		return err
	}

	native := ToNativeTheme(*t)
	return p.withSession(ctx, *target, "set theme", func(ctx context.Context, s plugin.Session) error {
		return s.SetTheme(ctx, native)
	})
}

// GetTheme reads the band's current theme.
func (p *Personalizer) GetTheme(ctx context.Context, target *plugin.Descriptor) (theme.RGBColorTheme, error) {
	if err := validation.Require(validation.Arg("target", target)); err != nil {
		return theme.RGBColorTheme{}, err
	}

	var native plugin.NativeTheme
	err := p.withSession(ctx, *target, "get theme", func(ctx context.Context, s plugin.Session) error {
		var err error
		native, err = s.GetTheme(ctx)
		return err
	})
	if err != nil {
		return theme.RGBColorTheme{}, err
	}
	return FromNativeTheme(native), nil
}

// MeTileOption adjusts SetMeTileImage.
type MeTileOption func(*meTileConfig)

type meTileConfig struct {
	size *hardware.Dimension2D
}

// WithSize requests an explicit Me Tile size. It must be allowed for the revision.
func WithSize(d hardware.Dimension2D) MeTileOption {
	return func(c *meTileConfig) { c.size = &d }
}

// SetMeTileImage resizes img to a Me Tile size allowed for revision and writes it to the band.
// Size problems fail with image.ErrUnsupportedSize before the band is contacted.
func (p *Personalizer) SetMeTileImage(ctx context.Context, target *plugin.Descriptor, img image.Image, revision hardware.Revision, opts ...MeTileOption) error {
	if err := validation.Require(
		validation.Arg("target", target),
		validation.Arg("image", img),
	); err != nil {
		return err
	}

	var cfg meTileConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := imgutil.CheckSource(img.Bounds()); err != nil {
		return err
	}
	size, err := imgutil.SelectSize(img.Bounds(), revision, cfg.size)
	if err != nil {
		return err
	}
	native := imgutil.EncodeRGB565(imgutil.Fit(img, size))

	return p.withSession(ctx, *target, "set me tile", func(ctx context.Context, s plugin.Session) error {
		return s.SetMeTileImage(ctx, native)
	})
}

// GetMeTileImage reads the band's Me Tile image.
func (p *Personalizer) GetMeTileImage(ctx context.Context, target *plugin.Descriptor) (*image.RGBA, error) {
	if err := validation.Require(validation.Arg("target", target)); err != nil {
		return nil, err
	}

	var native plugin.NativeImage
	err := p.withSession(ctx, *target, "get me tile", func(ctx context.Context, s plugin.Session) error {
		var err error
		native, err = s.GetMeTileImage(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	img, err := imgutil.DecodeRGB565(native)
	if err != nil {
		return nil, fmt.Errorf("decoding me tile: %w", err)
	}
	return img, nil
}

// withSession runs op inside a freshly connected session.
//
// Errors from the adapter are returned as they are, except that once ctx is
// done its error is returned instead. A release failure is only reported when
// the operation itself succeeded.
func (p *Personalizer) withSession(ctx context.Context, target plugin.Descriptor, name string, op func(context.Context, plugin.Session) error) (err error) {
	if p.adapter == nil {
		return &validation.MissingArgumentError{Name: "adapter"}
	}

	log := p.logger.With("op", name, "device", target.ID)
	transition := func(s State, args ...any) {
		log.Trace("session state", append([]any{"state", s}, args...)...)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	transition(StateConnecting)
	session, err := p.adapter.Connect(ctx, target)
	if err != nil {
		transition(StateIdle, "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	transition(StateConnected)

	defer func() {
		transition(StateDisconnecting)
		if releaseErr := session.Release(); releaseErr != nil {
			if err == nil {
				err = releaseErr
			} else {
				log.Warn("release failed after operation error", "error", releaseErr)
			}
		}
		transition(StateIdle)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	transition(StateOperating)
	if err := op(ctx, session); err != nil {
		log.Debug("operation failed", "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}
