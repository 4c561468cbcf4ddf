package theme

import (
	"strings"

	"github.com/jmylchreest/bandtint/internal/colour"
	"github.com/jmylchreest/bandtint/internal/hardware"
	"github.com/jmylchreest/bandtint/internal/validation"
)

// Preset is a named stock theme.
type Preset struct {
	Name  string
	Theme RGBColorTheme
}

func preset(name, base, highContrast, lowlight, highlight, muted, secondaryText string) Preset {
	return Preset{
		Name: name,
		Theme: RGBColorTheme{
			Base:          colour.MustParse(base),
			HighContrast:  colour.MustParse(highContrast),
			Lowlight:      colour.MustParse(lowlight),
			Highlight:     colour.MustParse(highlight),
			Muted:         colour.MustParse(muted),
			SecondaryText: colour.MustParse(secondaryText),
		},
	}
}

// Stock theme catalogs, one per hardware generation.
var (
	bandPresets = []Preset{
		preset("Blue", "#3366CC", "#3F7FFF", "#2D5AB4", "#3F7FFF", "#2B4F99", "#A1A1A1"),
		preset("DiscreetBlue", "#1A3366", "#3F7FFF", "#162B57", "#2F5FBF", "#15294F", "#8A8A8A"),
		preset("DiscreetGrey", "#333333", "#E6E6E6", "#2B2B2B", "#999999", "#262626", "#8A8A8A"),
		preset("DiscreetYellow", "#4D4400", "#FFE600", "#403800", "#BFAC00", "#332D00", "#8A8A8A"),
		preset("Electric", "#00A3CC", "#00D2FF", "#008CB0", "#00D2FF", "#007592", "#A1A1A1"),
		preset("Lime", "#66A300", "#8AD900", "#578C00", "#8AD900", "#497500", "#A1A1A1"),
		preset("Orange", "#E05A00", "#FF7A1A", "#C24E00", "#FF7A1A", "#A34100", "#A1A1A1"),
		preset("Violet", "#7A33CC", "#9D5CFF", "#692CB0", "#9D5CFF", "#572492", "#A1A1A1"),
	}

	band2Presets = []Preset{
		preset("Blue", "#0072C6", "#3FA9F5", "#005EA3", "#3FA9F5", "#004C85", "#9E9E9E"),
		preset("DiscreetBlue", "#002C4D", "#3FA9F5", "#00243F", "#0072C6", "#001D33", "#858585"),
		preset("DiscreetGrey", "#2B2B2B", "#F2F2F2", "#242424", "#A6A6A6", "#1E1E1E", "#858585"),
		preset("DiscreetYellow", "#4A4000", "#FFE100", "#3D3500", "#C2AB00", "#302A00", "#858585"),
		preset("Electric", "#00B4D8", "#48E1FF", "#0097B5", "#48E1FF", "#007C94", "#9E9E9E"),
		preset("Coral", "#E8505B", "#FF7A83", "#C7424C", "#FF7A83", "#A6363F", "#9E9E9E"),
		preset("Forest", "#2E7D32", "#4CAF50", "#256628", "#4CAF50", "#1D511F", "#9E9E9E"),
		preset("Magenta", "#C2185B", "#EC407A", "#A1144B", "#EC407A", "#80103C", "#9E9E9E"),
		preset("Teal", "#00897B", "#26C6B4", "#007266", "#26C6B4", "#005B51", "#9E9E9E"),
	}
)

// Presets returns the stock themes for revision. Unknown has none; values
// outside the Revision set fail with an UnsupportedValueError.
// The returned slice is a copy.
func Presets(revision hardware.Revision) ([]Preset, error) {
	switch revision {
	case hardware.Unknown:
		return []Preset{}, nil
	case hardware.Band:
		return append([]Preset(nil), bandPresets...), nil
	case hardware.Band2:
		return append([]Preset(nil), band2Presets...), nil
	default:
		return nil, &validation.UnsupportedValueError{Kind: "hardware revision", Value: revision}
	}
}

// LookupPreset finds a preset by name (case-insensitive) in revision's catalog.
func LookupPreset(revision hardware.Revision, name string) (Preset, bool) {
	presets, err := Presets(revision)
	if err != nil {
		return Preset{}, false
	}
	for _, p := range presets {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Preset{}, false
}

// BandPresets returns a copy of the first generation catalog.
func BandPresets() []Preset { return append([]Preset(nil), bandPresets...) }

// Band2Presets returns a copy of the second generation catalog.
func Band2Presets() []Preset { return append([]Preset(nil), band2Presets...) }
