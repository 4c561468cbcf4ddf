// Package hardware maps band hardware versions to generations and the
// Me Tile image dimensions each generation accepts.
package hardware

import (
	"strconv"
	"strings"
)

// Revision is a coarse band hardware generation.
type Revision int

const (
	// Unknown is used when no hardware version is available.
	Unknown Revision = iota
	// Band is the first generation band.
	Band
	// Band2 is the second generation band.
	Band2
)

// band2FirstVersion is the lowest hardware version reported by second generation bands.
const band2FirstVersion = 20

// String returns the revision name.
func (r Revision) String() string {
	switch r {
	case Unknown:
		return "Unknown"
	case Band:
		return "Band"
	case Band2:
		return "Band2"
	default:
		return "Revision(" + strconv.Itoa(int(r)) + ")"
	}
}

// RevisionFromVersion maps a hardware version to its generation.
// There is no lower bound: every version below 20, negative ones included, is a Band.
func RevisionFromVersion(version int) Revision {
	if version < band2FirstVersion {
		return Band
	}
	return Band2
}

// RevisionFromOptionalVersion maps an optional hardware version; nil is Unknown.
func RevisionFromOptionalVersion(version *int) Revision {
	if version == nil {
		return Unknown
	}
	return RevisionFromVersion(*version)
}

// Revisions lists every revision in declaration order.
func Revisions() []Revision {
	return []Revision{Unknown, Band, Band2}
}

// ParseRevision parses a revision name as returned by String, case-insensitively.
func ParseRevision(name string) (Revision, bool) {
	for _, r := range Revisions() {
		if strings.EqualFold(r.String(), strings.TrimSpace(name)) {
			return r, true
		}
	}
	return Unknown, false
}

// MarshalText implements encoding.TextMarshaler.
func (r Revision) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
