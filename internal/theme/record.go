package theme

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/jmylchreest/bandtint/internal/colour"
	"github.com/jmylchreest/bandtint/internal/validation"
)

// RGB24 is a colour packed as 0x00RRGGBB.
type RGB24 uint32

// PackRGB24 packs c.
func PackRGB24(c colour.Color) RGB24 {
	return RGB24(c.R)<<16 | RGB24(c.G)<<8 | RGB24(c.B)
}

// Color unpacks v. Bits above 24 are ignored.
func (v RGB24) Color() colour.Color {
	return colour.New(uint8(v>>16), uint8(v>>8), uint8(v))
}

// UnmarshalJSON accepts only values that fit in 24 bits.
func (v *RGB24) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var n uint64
	if err := json.Unmarshal(data, &n); err != nil || n > 0xFFFFFF {
		return &validation.FormatError{Input: string(data), Expected: "an integer from 0 to 16777215 (0xFFFFFF)"}
	}
	*v = RGB24(n)
	return nil
}

// Record is the shape of a theme handed to an external theme repository.
type Record struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Base          RGB24     `json:"base"`
	HighContrast  RGB24     `json:"high_contrast"`
	Lowlight      RGB24     `json:"lowlight"`
	Highlight     RGB24     `json:"highlight"`
	Muted         RGB24     `json:"muted"`
	SecondaryText RGB24     `json:"secondary_text"`
}

// NewRecord creates a record with a fresh random identifier.
func NewRecord(title string, t RGBColorTheme) Record {
	r := RecordFromTheme(t)
	r.ID = uuid.New()
	r.Title = strings.TrimSpace(title)
	return r
}

// RecordFromTheme packs t's colours. ID and Title are left empty.
func RecordFromTheme(t RGBColorTheme) Record {
	return Record{
		Base:          PackRGB24(t.Base),
		HighContrast:  PackRGB24(t.HighContrast),
		Lowlight:      PackRGB24(t.Lowlight),
		Highlight:     PackRGB24(t.Highlight),
		Muted:         PackRGB24(t.Muted),
		SecondaryText: PackRGB24(t.SecondaryText),
	}
}

// Theme unpacks the record's colours.
func (r Record) Theme() RGBColorTheme {
	return RGBColorTheme{
		Base:          r.Base.Color(),
		HighContrast:  r.HighContrast.Color(),
		Lowlight:      r.Lowlight.Color(),
		Highlight:     r.Highlight.Color(),
		Muted:         r.Muted.Color(),
		SecondaryText: r.SecondaryText.Color(),
	}
}
