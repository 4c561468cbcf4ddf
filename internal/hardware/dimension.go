package hardware

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimension2D is a width/height pair. It is comparable and deliberately
// unvalidated: zero and negative values are legal.
type Dimension2D struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewDimension2D creates a Dimension2D.
func NewDimension2D(width, height int) Dimension2D {
	return Dimension2D{Width: width, Height: height}
}

// String returns the dimension as "WIDTHxHEIGHT".
func (d Dimension2D) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// ParseDimension2D parses "WIDTHxHEIGHT".
func ParseDimension2D(s string) (Dimension2D, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Dimension2D{}, fmt.Errorf("invalid dimension %q (expected WIDTHxHEIGHT)", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return Dimension2D{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Dimension2D{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	return Dimension2D{Width: width, Height: height}, nil
}
