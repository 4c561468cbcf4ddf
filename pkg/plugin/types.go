// Package plugin provides the public API for bandtint device adapter plugins.
// External adapters should import this package instead of internal packages.
package plugin

import "fmt"

// PluginInfo contains metadata about an adapter plugin.
type PluginInfo struct {
	Name            string      `json:"name"`
	Version         string      `json:"version"`
	ProtocolVersion string      `json:"protocol_version"`
	Description     string      `json:"description"`
	PluginProtocol  string      `json:"plugin_protocol"` // "go-plugin"
	Transports      []Transport `json:"transports,omitempty"`
}

// Transport is the adapter's link to the band.
type Transport string

const (
	// TransportUSB is a wired USB link.
	TransportUSB Transport = "usb"
	// TransportBluetooth is a Bluetooth link.
	TransportBluetooth Transport = "bluetooth"
	// TransportWiFi is a link relayed over the network by a paired phone.
	TransportWiFi Transport = "wifi"
	// TransportVirtual is a simulated band.
	TransportVirtual Transport = "virtual"
)

// Descriptor identifies the band a session targets.
type Descriptor struct {
	ID              string    `json:"id" yaml:"id"`
	Name            string    `json:"name,omitempty" yaml:"name,omitempty"`
	HardwareVersion *int      `json:"hardware_version,omitempty" yaml:"hardware_version,omitempty"`
	Transport       Transport `json:"transport,omitempty" yaml:"transport,omitempty"`
}

// NativeColor is a band colour in 0xAARRGGBB form.
type NativeColor uint32

// NewNativeColor builds an opaque NativeColor.
func NewNativeColor(r, g, b uint8) NativeColor {
	return NativeColor(0xFF)<<24 | NativeColor(r)<<16 | NativeColor(g)<<8 | NativeColor(b)
}

// RGB returns the colour channels.
func (c NativeColor) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Alpha returns the alpha channel.
func (c NativeColor) Alpha() uint8 {
	return uint8(c >> 24)
}

// NativeTheme is the six-colour theme record bands store.
type NativeTheme struct {
	Base          NativeColor `json:"base"`
	HighContrast  NativeColor `json:"high_contrast"`
	Lowlight      NativeColor `json:"lowlight"`
	Highlight     NativeColor `json:"highlight"`
	Muted         NativeColor `json:"muted"`
	SecondaryText NativeColor `json:"secondary_text"`
}

// PixelFormat names a NativeImage pixel encoding.
type PixelFormat string

const (
	// PixelFormatRGB565 stores each pixel as a little-endian uint16, 5 bits red,
	// 6 bits green, 5 bits blue, rows top to bottom without padding.
	PixelFormatRGB565 PixelFormat = "rgb565le"
)

// BytesPerPixel returns the size of one pixel, or 0 for unknown formats.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatRGB565:
		return 2
	default:
		return 0
	}
}

// NativeImage is a raw image as bands store it.
type NativeImage struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Format PixelFormat `json:"format"`
	Pixels []byte      `json:"pixels"`
}

// Validate checks that the pixel buffer matches the declared geometry.
func (img NativeImage) Validate() error {
	bpp := img.Format.BytesPerPixel()
	if bpp == 0 {
		return fmt.Errorf("unsupported pixel format: %q", img.Format)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", img.Width, img.Height)
	}
	if want := img.Width * img.Height * bpp; len(img.Pixels) != want {
		return fmt.Errorf("pixel buffer is %d bytes, want %d for %dx%d %s", len(img.Pixels), want, img.Width, img.Height, img.Format)
	}
	return nil
}
