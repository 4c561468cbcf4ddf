// Package theme defines the six-colour band theme, its slots and the preset catalogs.
package theme

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/bandtint/internal/colour"
)

// RGBColorTheme is a band colour theme. Any combination of colours is valid.
type RGBColorTheme struct {
	Base          colour.Color `json:"base"`
	HighContrast  colour.Color `json:"high_contrast"`
	Lowlight      colour.Color `json:"lowlight"`
	Highlight     colour.Color `json:"highlight"`
	Muted         colour.Color `json:"muted"`
	SecondaryText colour.Color `json:"secondary_text"`
}

// Slot names one of the six colour roles of a theme.
type Slot int

// Theme slots in display order.
const (
	SlotBase Slot = iota
	SlotHighContrast
	SlotLowlight
	SlotHighlight
	SlotMuted
	SlotSecondaryText
)

var slotNames = [...]string{
	SlotBase:          "base",
	SlotHighContrast:  "high-contrast",
	SlotLowlight:      "lowlight",
	SlotHighlight:     "highlight",
	SlotMuted:         "muted",
	SlotSecondaryText: "secondary-text",
}

// Slots returns every slot in display order.
func Slots() []Slot {
	return []Slot{SlotBase, SlotHighContrast, SlotLowlight, SlotHighlight, SlotMuted, SlotSecondaryText}
}

// String returns the slot's kebab-case name, as used for CLI flags.
func (s Slot) String() string {
	if s < 0 || int(s) >= len(slotNames) {
		return fmt.Sprintf("Slot(%d)", int(s))
	}
	return slotNames[s]
}

// ParseSlot parses a slot name. Dashes, underscores and case are ignored.
func ParseSlot(name string) (Slot, error) {
	normalise := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		return strings.NewReplacer("-", "", "_", "").Replace(s)
	}
	want := normalise(name)
	for _, s := range Slots() {
		if normalise(s.String()) == want {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown theme slot: %q", name)
}

// Get returns the colour held in slot.
func (t RGBColorTheme) Get(slot Slot) colour.Color {
	switch slot {
	case SlotBase:
		return t.Base
	case SlotHighContrast:
		return t.HighContrast
	case SlotLowlight:
		return t.Lowlight
	case SlotHighlight:
		return t.Highlight
	case SlotMuted:
		return t.Muted
	case SlotSecondaryText:
		return t.SecondaryText
	default:
		return colour.Color{}
	}
}

// With returns a copy of t with slot set to c. Unknown slots leave t unchanged.
func (t RGBColorTheme) With(slot Slot, c colour.Color) RGBColorTheme {
	switch slot {
	case SlotBase:
		t.Base = c
	case SlotHighContrast:
		t.HighContrast = c
	case SlotLowlight:
		t.Lowlight = c
	case SlotHighlight:
		t.Highlight = c
	case SlotMuted:
		t.Muted = c
	case SlotSecondaryText:
		t.SecondaryText = c
	}
	return t
}

// Luminance returns a copy of t with every slot lightened (or darkened) by percentage.
func (t RGBColorTheme) Luminance(percentage float64) RGBColorTheme {
	for _, s := range Slots() {
		t = t.With(s, t.Get(s).Luminance(percentage))
	}
	return t
}

// FromBase derives a full theme from a single base colour, keeping the
// relationships the stock presets use between their slots.
func FromBase(base colour.Color) RGBColorTheme {
	return RGBColorTheme{
		Base:          base,
		HighContrast:  base.Luminance(0.1),
		Lowlight:      base.Luminance(-0.1),
		Highlight:     base.Luminance(0.2),
		Muted:         base.Luminance(-0.2),
		SecondaryText: colour.New(0x99, 0x99, 0x99),
	}
}
