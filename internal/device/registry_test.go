package device

import (
	"errors"
	"slices"
	"testing"

	"github.com/jmylchreest/bandtint/pkg/plugin"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	closed := false
	mock := NewMockAdapter()

	if err := r.Register("usb", func() (plugin.DeviceAdapter, func(), error) {
		return mock, func() { closed = true }, nil
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register("usb", func() (plugin.DeviceAdapter, func(), error) { return nil, nil, nil }); err == nil {
		t.Error("duplicate Register() should fail")
	}
	if err := r.Register("", func() (plugin.DeviceAdapter, func(), error) { return nil, nil, nil }); err == nil {
		t.Error("empty name should fail")
	}
	if err := r.Register("nil", nil); err == nil {
		t.Error("nil factory should fail")
	}
	if err := r.Register("broken", func() (plugin.DeviceAdapter, func(), error) {
		return nil, nil, errors.New("cable unplugged")
	}); err != nil {
		t.Fatal(err)
	}

	if got := r.Names(); !slices.Equal(got, []string{"broken", "usb"}) {
		t.Errorf("Names() = %v", got)
	}

	adapter, closeFn, err := r.Open("usb")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if adapter != mock {
		t.Error("Open() returned the wrong adapter")
	}
	closeFn()
	if !closed {
		t.Error("close function not passed through")
	}

	if _, _, err := r.Open("bluetooth"); !errors.Is(err, ErrAdapterNotFound) {
		t.Errorf("Open(unknown) error = %v, want ErrAdapterNotFound", err)
	}
	if _, _, err := r.Open("broken"); err == nil {
		t.Error("Open(broken) should fail")
	}
}

func TestBuiltinRegistry(t *testing.T) {
	r := NewBuiltinRegistry(SimulatorConfig{HardwareVersion: 12})
	adapter, closeFn, err := r.Open(SimulatorName)
	if err != nil {
		t.Fatalf("Open(simulator) error = %v", err)
	}
	defer closeFn()

	sim, ok := adapter.(*Simulator)
	if !ok {
		t.Fatalf("adapter is %T", adapter)
	}
	if sim.HardwareVersion() != 12 {
		t.Errorf("HardwareVersion() = %d", sim.HardwareVersion())
	}
}
