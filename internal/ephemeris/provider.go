// Package ephemeris defines the position-provider contract consumed by the
// chart builder and ships two implementations: a TOML snapshot table with
// interpolation and an in-memory static provider.
//
// Providers return tropical longitudes. The sidereal correction is always
// requested with an explicit Mode, so there is no process-wide sidereal
// setting anywhere in skyview.
package ephemeris

import (
	"fmt"
	"strings"
	"time"

	"github.com/papapumpkin/skyview/internal/zodiac"
)

// Reading is a provider's raw answer for one body at one instant.
type Reading struct {
	Longitude float64 `toml:"longitude"` // Tropical ecliptic longitude in degrees.
	Speed     float64 `toml:"speed"`     // Degrees per day; negative while retrograde.
}

// Retrograde reports whether the body is moving backwards.
func (r Reading) Retrograde() bool {
	return r.Speed < 0
}

// Observer is a point on the Earth's surface, east longitude positive.
type Observer struct {
	Latitude  float64
	Longitude float64
}

// HouseSystem is a single-letter house system code passed through to the
// provider's ascendant computation. Aspect and period logic always use
// whole-sign houses regardless of this code.
type HouseSystem string

const (
	HouseWholeSign HouseSystem = "W"
	HousePlacidus  HouseSystem = "P"
	HouseEqual     HouseSystem = "E"
	HouseAscEqual  HouseSystem = "A"
)

// ParseHouseSystem validates a house system code.
func ParseHouseSystem(s string) (HouseSystem, error) {
	switch hs := HouseSystem(strings.ToUpper(strings.TrimSpace(s))); hs {
	case HouseWholeSign, HousePlacidus, HouseEqual, HouseAscEqual:
		return hs, nil
	case "":
		return HouseWholeSign, nil
	default:
		return "", fmt.Errorf("unknown house system %q", s)
	}
}

// Provider supplies tropical positions, ascendants and ayanamsha values.
type Provider interface {
	// Name returns the provider name for display and logging.
	Name() string

	// Position returns the tropical longitude and speed of body at t.
	Position(t time.Time, body zodiac.Body) (Reading, error)

	// Ascendant returns the tropical ascendant longitude for obs at t.
	Ascendant(t time.Time, obs Observer, hs HouseSystem) (float64, error)

	// Ayanamsha returns the sidereal correction in degrees for mode at t.
	Ayanamsha(t time.Time, mode Mode) (float64, error)
}
