package personalize

import (
	"github.com/jmylchreest/bandtint/internal/hardware"
	"github.com/jmylchreest/bandtint/internal/validation"
	"github.com/jmylchreest/bandtint/pkg/plugin"
)

// Capabilities is what can be personalized on a band, derived from its descriptor alone.
type Capabilities struct {
	Revision      hardware.Revision       `json:"revision"`
	Connection    hardware.ConnectionType `json:"connection"`
	MeTileSizes   []hardware.Dimension2D  `json:"me_tile_sizes"`
	DefaultMeTile *hardware.Dimension2D   `json:"default_me_tile,omitempty"`
}

// Describe reports target's capabilities without contacting the band.
func Describe(target *plugin.Descriptor) (Capabilities, error) {
	if err := validation.Require(validation.Arg("target", target)); err != nil {
		return Capabilities{}, err
	}

	rev := hardware.RevisionFromOptionalVersion(target.HardwareVersion)
	sizes, err := hardware.AllowedMeTileDimensions(rev)
	if err != nil {
		return Capabilities{}, err
	}

	caps := Capabilities{
		Revision:    rev,
		Connection:  hardware.ConnectionTypeFromTransport(target.Transport),
		MeTileSizes: sizes,
	}
	if d, ok, err := hardware.DefaultMeTileDimensions(rev); err != nil {
		return Capabilities{}, err
	} else if ok {
		caps.DefaultMeTile = &d
	}
	return caps, nil
}
