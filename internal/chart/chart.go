// Package chart turns raw provider output into an immutable sidereal chart
// with whole-sign houses and nakshatra placements for every tracked body.
package chart

import (
	"time"

	"github.com/papapumpkin/skyview/internal/ephemeris"
	"github.com/papapumpkin/skyview/internal/zodiac"
)

// Location is a geographic coordinate, east longitude positive.
type Location struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
}

// Observer converts the location for the position provider.
func (l Location) Observer() ephemeris.Observer {
	return ephemeris.Observer{Latitude: l.Latitude, Longitude: l.Longitude}
}

// PlanetPosition is one body's sidereal placement.
type PlanetPosition struct {
	Body          zodiac.Body
	Longitude     float64 // Sidereal, [0,360).
	Sign          zodiac.Sign
	Degree        float64 // Degrees into the sign, [0,30).
	House         int     // Whole-sign house, [1,12].
	Retrograde    bool
	Nakshatra     zodiac.Nakshatra
	NakshatraLord zodiac.Body
}

// Chart is a sidereal chart for one instant and location. All fields are
// unexported; a built Chart never changes.
type Chart struct {
	instant   time.Time
	location  Location
	mode      ephemeris.Mode
	ayanamsha float64
	ascendant float64
	ascSign   zodiac.Sign
	positions [len(bodyOrder)]PlanetPosition
}

var bodyOrder = [...]zodiac.Body{
	zodiac.Sun, zodiac.Moon, zodiac.Mercury, zodiac.Venus, zodiac.Mars,
	zodiac.Jupiter, zodiac.Saturn, zodiac.Rahu, zodiac.Ketu,
}

// Instant returns the chart instant in UTC.
func (c *Chart) Instant() time.Time { return c.instant }

// Location returns the chart location.
func (c *Chart) Location() Location { return c.location }

// Mode returns the ayanamsha mode the chart was built with.
func (c *Chart) Mode() ephemeris.Mode { return c.mode }

// Ayanamsha returns the sidereal correction applied, in degrees.
func (c *Chart) Ayanamsha() float64 { return c.ayanamsha }

// Ascendant returns the sidereal ascendant longitude.
func (c *Chart) Ascendant() float64 { return c.ascendant }

// AscendantSign returns the ascendant's sign, which is always house 1.
func (c *Chart) AscendantSign() zodiac.Sign { return c.ascSign }

// Position returns the placement of b. ok is false only for an invalid body.
func (c *Chart) Position(b zodiac.Body) (PlanetPosition, bool) {
	if !b.Valid() {
		return PlanetPosition{}, false
	}
	return c.positions[b], true
}

// Positions returns every placement in fixed body order.
func (c *Chart) Positions() []PlanetPosition {
	out := make([]PlanetPosition, len(c.positions))
	copy(out, c.positions[:])
	return out
}

// HouseOf returns the whole-sign house of sign in this chart.
func (c *Chart) HouseOf(sign zodiac.Sign) int {
	return zodiac.House(sign, c.ascSign)
}

// Relative returns this chart's placements with houses counted from
// frame's ascendant, e.g. transiting planets in natal houses.
func (c *Chart) Relative(frame *Chart) []PlanetPosition {
	out := c.Positions()
	for i := range out {
		out[i].House = frame.HouseOf(out[i].Sign)
	}
	return out
}
