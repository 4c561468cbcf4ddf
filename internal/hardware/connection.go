package hardware

import "github.com/jmylchreest/bandtint/pkg/plugin"

// ConnectionType is how the host reaches a band.
type ConnectionType int

const (
	// ConnectionUnknown covers every transport without a mapping.
	ConnectionUnknown ConnectionType = iota
	// ConnectionUSB is a wired USB connection.
	ConnectionUSB
	// ConnectionBluetooth is a Bluetooth connection.
	ConnectionBluetooth
)

// String returns the connection type name.
func (c ConnectionType) String() string {
	switch c {
	case ConnectionUSB:
		return "Usb"
	case ConnectionBluetooth:
		return "Bluetooth"
	default:
		return "Unknown"
	}
}

// ConnectionTypeFromTransport maps an adapter transport to a ConnectionType.
// The mapping is lossy: anything other than USB or Bluetooth is Unknown.
func ConnectionTypeFromTransport(t plugin.Transport) ConnectionType {
	switch t {
	case plugin.TransportUSB:
		return ConnectionUSB
	case plugin.TransportBluetooth:
		return ConnectionBluetooth
	default:
		return ConnectionUnknown
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c ConnectionType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
