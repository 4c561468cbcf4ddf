// Package colour provides the RGB colour value type used for band themes,
// its #RRGGBB text format, luminance adjustment and HSV conversion.
package colour

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/jmylchreest/bandtint/internal/validation"
)

// hexGrammar describes the accepted text form, used in error messages.
const hexGrammar = "#RGB or #RRGGBB"

// Color is an immutable 8-bit-per-channel RGB colour.
// Color is comparable: == is structural equality and Color is usable as a map key.
type Color struct {
	R, G, B uint8
}

// Common colours.
var (
	Black = Color{}
	White = Color{R: 0xFF, G: 0xFF, B: 0xFF}
)

// New creates a Color from three channel values.
func New(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// FromColor converts any image/color value. Alpha is discarded.
func FromColor(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255].
	return Color{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// RGBA implements color.Color. The colour is always fully opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}.RGBA()
}

// String returns the canonical #RRGGBB form in uppercase.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using the Parse grammar.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse parses "#RGB", "#RRGGBB", "RGB" or "RRGGBB" (hex digits in either case),
// optionally surrounded by whitespace. The three digit form expands each digit
// by duplication, so "a1b" equals "aa11bb".
func Parse(text string) (Color, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "#")

	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return Color{}, &validation.FormatError{Input: text, Expected: hexGrammar}
	}

	var channels [3]uint8
	for i := range channels {
		hi, ok := hexDigit(s[2*i])
		if !ok {
			return Color{}, &validation.FormatError{Input: text, Expected: hexGrammar}
		}
		lo, ok := hexDigit(s[2*i+1])
		if !ok {
			return Color{}, &validation.FormatError{Input: text, Expected: hexGrammar}
		}
		channels[i] = hi<<4 | lo
	}

	return Color{R: channels[0], G: channels[1], B: channels[2]}, nil
}

// ParseOptional parses text, failing with a MissingArgumentError when text is nil.
func ParseOptional(text *string) (Color, error) {
	if text == nil {
		return Color{}, &validation.MissingArgumentError{Name: "text"}
	}
	return Parse(*text)
}

// MustParse is like Parse but panics on error. Intended for constant data.
func MustParse(text string) Color {
	c, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return c
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}

// PercentageOfMaximumSaturation returns channel/255.
func PercentageOfMaximumSaturation(channel uint8) float64 {
	return float64(channel) / 255.0
}

// RedPercentage returns the red channel as a fraction of 255.
func (c Color) RedPercentage() float64 { return PercentageOfMaximumSaturation(c.R) }

// GreenPercentage returns the green channel as a fraction of 255.
func (c Color) GreenPercentage() float64 { return PercentageOfMaximumSaturation(c.G) }

// BluePercentage returns the blue channel as a fraction of 255.
func (c Color) BluePercentage() float64 { return PercentageOfMaximumSaturation(c.B) }

// ChannelLuminance shifts a channel by percentage of the 256 step range:
// clamp(round(channel + 256*percentage), 0, 255), rounding half away from zero.
func ChannelLuminance(channel uint8, percentage float64) uint8 {
	v := math.Round(float64(channel) + 256*percentage)
	return clampByte(v)
}

// Luminance returns a new colour with ChannelLuminance applied to every channel.
// Positive percentages lighten, negative darken.
func (c Color) Luminance(percentage float64) Color {
	return Color{
		R: ChannelLuminance(c.R, percentage),
		G: ChannelLuminance(c.G, percentage),
		B: ChannelLuminance(c.B, percentage),
	}
}

func clampByte(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
