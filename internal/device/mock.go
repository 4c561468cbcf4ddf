package device

import (
	"context"
	"sync"

	"github.com/jmylchreest/bandtint/pkg/plugin"
)

// MockAdapter is a scriptable plugin.DeviceAdapter for tests.
type MockAdapter struct {
	mu sync.Mutex

	// ConnectFunc overrides Connect when set.
	ConnectFunc func(ctx context.Context, target plugin.Descriptor) (plugin.Session, error)

	// Session is returned by Connect when ConnectFunc is nil.
	Session *MockSession

	// ConnectCount tracks how many times Connect was called.
	ConnectCount int

	// LastTarget stores the last descriptor passed to Connect.
	LastTarget plugin.Descriptor
}

// NewMockAdapter creates an adapter whose sessions are backed by a fresh MockSession.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{Session: &MockSession{}}
}

// Connect implements plugin.DeviceAdapter.
func (m *MockAdapter) Connect(ctx context.Context, target plugin.Descriptor) (plugin.Session, error) {
	m.mu.Lock()
	m.ConnectCount++
	m.LastTarget = target
	fn, session := m.ConnectFunc, m.Session
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, target)
	}
	return session, nil
}

// Connects returns the number of Connect calls.
func (m *MockAdapter) Connects() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ConnectCount
}

// MockSession is a scriptable plugin.Session for tests. Without overrides it
// behaves like a band that remembers what was written.
type MockSession struct {
	mu sync.Mutex

	Theme plugin.NativeTheme
	Image plugin.NativeImage

	GetThemeFunc       func(ctx context.Context) (plugin.NativeTheme, error)
	SetThemeFunc       func(ctx context.Context, t plugin.NativeTheme) error
	GetMeTileImageFunc func(ctx context.Context) (plugin.NativeImage, error)
	SetMeTileImageFunc func(ctx context.Context, img plugin.NativeImage) error

	// ReleaseErr is returned from Release.
	ReleaseErr error

	// Calls counts every session operation, Release included.
	Calls int

	// ReleaseCount tracks how many times Release was called.
	ReleaseCount int
}

func (m *MockSession) record() {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
}

// GetTheme implements plugin.Session.
func (m *MockSession) GetTheme(ctx context.Context) (plugin.NativeTheme, error) {
	m.record()
	if m.GetThemeFunc != nil {
		return m.GetThemeFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Theme, nil
}

// SetTheme implements plugin.Session.
func (m *MockSession) SetTheme(ctx context.Context, t plugin.NativeTheme) error {
	m.record()
	if m.SetThemeFunc != nil {
		return m.SetThemeFunc(ctx, t)
	}
	m.mu.Lock()
	m.Theme = t
	m.mu.Unlock()
	return nil
}

// GetMeTileImage implements plugin.Session.
func (m *MockSession) GetMeTileImage(ctx context.Context) (plugin.NativeImage, error) {
	m.record()
	if m.GetMeTileImageFunc != nil {
		return m.GetMeTileImageFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Image, nil
}

// SetMeTileImage implements plugin.Session.
func (m *MockSession) SetMeTileImage(ctx context.Context, img plugin.NativeImage) error {
	m.record()
	if m.SetMeTileImageFunc != nil {
		return m.SetMeTileImageFunc(ctx, img)
	}
	m.mu.Lock()
	m.Image = img
	m.mu.Unlock()
	return nil
}

// Release implements plugin.Session.
func (m *MockSession) Release() error {
	m.record()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReleaseCount++
	return m.ReleaseErr
}

// Releases returns the number of Release calls.
func (m *MockSession) Releases() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ReleaseCount
}
