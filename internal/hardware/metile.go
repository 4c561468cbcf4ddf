package hardware

import (
	"slices"

	"github.com/jmylchreest/bandtint/internal/validation"
)

// Me Tile sizes. The last entry of each generation's list is its default.
var (
	bandMeTile  = Dimension2D{Width: 310, Height: 102}
	band2MeTile = Dimension2D{Width: 310, Height: 128}
)

// AllowedMeTileDimensions returns the Me Tile image sizes a revision accepts,
// ordered so that the last element is the preferred default.
// Unknown yields an empty list. The returned slice is a copy.
func AllowedMeTileDimensions(revision Revision) ([]Dimension2D, error) {
	switch revision {
	case Unknown:
		return []Dimension2D{}, nil
	case Band:
		return []Dimension2D{bandMeTile}, nil
	case Band2:
		return []Dimension2D{bandMeTile, band2MeTile}, nil
	default:
		return nil, &validation.UnsupportedValueError{Kind: "hardware revision", Value: revision}
	}
}

// DefaultMeTileDimensions returns the last allowed dimension for revision.
// ok is false when the revision has no allowed dimensions.
func DefaultMeTileDimensions(revision Revision) (d Dimension2D, ok bool, err error) {
	allowed, err := AllowedMeTileDimensions(revision)
	if err != nil {
		return Dimension2D{}, false, err
	}
	if len(allowed) == 0 {
		return Dimension2D{}, false, nil
	}
	return allowed[len(allowed)-1], true, nil
}

// IsAllowedMeTileDimension reports whether d is one of revision's Me Tile sizes.
func IsAllowedMeTileDimension(revision Revision, d Dimension2D) (bool, error) {
	allowed, err := AllowedMeTileDimensions(revision)
	if err != nil {
		return false, err
	}
	return slices.Contains(allowed, d), nil
}
