// Package device provides the adapter registry, a simulated band and test doubles.
package device

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/jmylchreest/bandtint/pkg/plugin"
)

// SimulatorName is the registry name of the built-in simulated band.
const SimulatorName = "simulator"

// ErrAdapterNotFound is returned when no adapter is registered under a name.
var ErrAdapterNotFound = errors.New("adapter not found")

// Factory creates an adapter. The returned close function may be nil.
type Factory func() (adapter plugin.DeviceAdapter, close func(), err error)

// Registry maps adapter names to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name. Names must be unique.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("adapter name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("adapter %q: nil factory", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("adapter %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Open creates the adapter registered under name.
func (r *Registry) Open(name string) (plugin.DeviceAdapter, func(), error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, nil, fmt.Errorf("%w: %q (available: %v)", ErrAdapterNotFound, name, r.Names())
	}

	adapter, closeFn, err := factory()
	if err != nil {
		return nil, nil, fmt.Errorf("opening adapter %q: %w", name, err)
	}
	if closeFn == nil {
		closeFn = func() {}
	}
	return adapter, closeFn, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewBuiltinRegistry returns a registry holding the simulator configured by cfg.
func NewBuiltinRegistry(cfg SimulatorConfig) *Registry {
	r := NewRegistry()
	_ = r.Register(SimulatorName, func() (plugin.DeviceAdapter, func(), error) {
		return NewSimulator(cfg), nil, nil
	})
	return r
}
