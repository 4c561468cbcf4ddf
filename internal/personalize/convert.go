package personalize

import (
	"github.com/jmylchreest/bandtint/internal/colour"
	"github.com/jmylchreest/bandtint/internal/theme"
	"github.com/jmylchreest/bandtint/pkg/plugin"
)

// ToNativeColor converts a colour to the band's opaque ARGB form.
func ToNativeColor(c colour.Color) plugin.NativeColor {
	return plugin.NewNativeColor(c.R, c.G, c.B)
}

// FromNativeColor drops the alpha channel of a band colour.
func FromNativeColor(c plugin.NativeColor) colour.Color {
	r, g, b := c.RGB()
	return colour.New(r, g, b)
}

// ToNativeTheme converts each of the six slots.
func ToNativeTheme(t theme.RGBColorTheme) plugin.NativeTheme {
	return plugin.NativeTheme{
		Base:          ToNativeColor(t.Base),
		HighContrast:  ToNativeColor(t.HighContrast),
		Lowlight:      ToNativeColor(t.Lowlight),
		Highlight:     ToNativeColor(t.Highlight),
		Muted:         ToNativeColor(t.Muted),
		SecondaryText: ToNativeColor(t.SecondaryText),
	}
}

// FromNativeTheme converts a band theme back to colours.
func FromNativeTheme(n plugin.NativeTheme) theme.RGBColorTheme {
	return theme.RGBColorTheme{
		Base:          FromNativeColor(n.Base),
		HighContrast:  FromNativeColor(n.HighContrast),
		Lowlight:      FromNativeColor(n.Lowlight),
		Highlight:     FromNativeColor(n.Highlight),
		Muted:         FromNativeColor(n.Muted),
		SecondaryText: FromNativeColor(n.SecondaryText),
	}
}
