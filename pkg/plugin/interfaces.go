// Package plugin provides the public API for bandtint device adapter plugins.
package plugin

import (
	"context"
)

// DeviceAdapter opens sessions with physical (or simulated) bands.
// Serialising concurrent sessions against one physical band is the adapter's job.
type DeviceAdapter interface {
	// Connect opens a session with the band described by target.
	Connect(ctx context.Context, target Descriptor) (Session, error)
}

// Session is an open connection to one band. Callers must call Release exactly once.
type Session interface {
	// GetTheme reads the band's colour theme.
	GetTheme(ctx context.Context) (NativeTheme, error)

	// SetTheme writes the band's colour theme.
	SetTheme(ctx context.Context, theme NativeTheme) error

	// GetMeTileImage reads the band's idle-screen image.
	GetMeTileImage(ctx context.Context) (NativeImage, error)

	// SetMeTileImage writes the band's idle-screen image.
	SetMeTileImage(ctx context.Context, image NativeImage) error

	// Release closes the session.
	Release() error
}
