// Package zodiac holds the static tables of sidereal astrology: tracked
// bodies, signs, nakshatras and the Vimshottari lord cycle, along with the
// longitude arithmetic every other package builds on.
package zodiac

import (
	"fmt"
	"strings"
)

// Body identifies a tracked celestial body.
type Body int

// Tracked bodies in the fixed iteration order used by every report and by
// the prediction tiers.
const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Rahu // ascending (mean) lunar node
	Ketu // descending node, derived from Rahu
)

var bodyNames = [...]string{"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter", "Saturn", "Rahu", "Ketu"}

// bodies is the fixed iteration order.
var bodies = [...]Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Rahu, Ketu}

// Bodies returns every tracked body in fixed iteration order.
func Bodies() []Body {
	out := make([]Body, len(bodies))
	copy(out, bodies[:])
	return out
}

// Valid reports whether b is one of the tracked bodies.
func (b Body) Valid() bool {
	return b >= Sun && b <= Ketu
}

// String returns the conventional English name of the body.
func (b Body) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Body(%d)", int(b))
	}
	return bodyNames[b]
}

// MarshalText encodes the body by name.
func (b Body) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid body %d", int(b))
	}
	return []byte(bodyNames[b]), nil
}

// UnmarshalText decodes a body name, case-insensitively.
func (b *Body) UnmarshalText(text []byte) error {
	parsed, err := ParseBody(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBody resolves a body name, case-insensitively.
func ParseBody(name string) (Body, error) {
	for i, n := range bodyNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Body(i), nil
		}
	}
	return 0, fmt.Errorf("unknown body %q", name)
}

// SourceKind tells the chart builder how to obtain a body's longitude.
type SourceKind int

const (
	// SourceEphemeris bodies are queried from the position provider.
	SourceEphemeris SourceKind = iota
	// SourceOpposite bodies sit exactly opposite their reference body.
	SourceOpposite
)

// Source is the tagged variant describing where a body's position comes from.
type Source struct {
	Kind      SourceKind
	Reference Body // The body to query (SourceEphemeris) or to mirror (SourceOpposite).
}

// Source returns how the body's position is resolved.
func (b Body) Source() Source {
	if b == Ketu {
		return Source{Kind: SourceOpposite, Reference: Rahu}
	}
	return Source{Kind: SourceEphemeris, Reference: b}
}

// QueriedBodies returns the bodies that must be requested from a position
// provider, in iteration order.
func QueriedBodies() []Body {
	var out []Body
	for _, b := range bodies {
		if b.Source().Kind == SourceEphemeris {
			out = append(out, b)
		}
	}
	return out
}

// Luminary reports whether b is the Sun or Moon, which never retrograde.
func (b Body) Luminary() bool {
	return b == Sun || b == Moon
}

// Node reports whether b is one of the lunar nodes.
func (b Body) Node() bool {
	return b == Rahu || b == Ketu
}
