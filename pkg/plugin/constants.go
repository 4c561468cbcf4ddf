// Package plugin provides the public API for bandtint device adapter plugins.
package plugin

import (
	"github.com/hashicorp/go-plugin"
)

const (
	// ProtocolVersion defines the current adapter API version.
	// Format: MAJOR.MINOR.PATCH.
	// - Increment MAJOR for breaking changes (incompatible API changes).
	// - Increment MINOR for backward-compatible additions.
	// - Increment PATCH for backward-compatible bug fixes.
	ProtocolVersion = "0.1.0"

	// MinCompatibleVersion is the oldest protocol version this bandtint version can work with.
	MinCompatibleVersion = "0.1.0"

	// PluginKey is the name the device adapter is dispensed under.
	PluginKey = "device"
)

// Handshake is the handshake configuration for go-plugin protocol.
// This ensures that adapters using go-plugin can only connect to compatible hosts.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  0, // Major version from ProtocolVersion
	MagicCookieKey:   "BANDTINT_PLUGIN",
	MagicCookieValue: "bandtint_device_adapter",
}

// PluginType defines the type of plugin communication protocol.
type PluginType string

const (
	// PluginTypeGoPlugin indicates the plugin uses HashiCorp go-plugin RPC protocol.
	PluginTypeGoPlugin PluginType = "go-plugin"
)

// PluginMap returns the plugin set served and dispensed by adapters.
func PluginMap(impl DeviceAdapter) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginKey: &DeviceAdapterRPC{Impl: impl},
	}
}
