package ephemeris

import (
	"math"
	"time"

	"github.com/papapumpkin/skyview/internal/zodiac"
)

// j2000 is the Julian Day of 2000-01-01T12:00:00 TT (treated as UT here).
const j2000 = 2451545.0

const deg = math.Pi / 180

// JulianDay converts an instant to a Julian Day number in UT.
func JulianDay(t time.Time) float64 {
	secs := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return secs/86400 + 2440587.5
}

// siderealTime returns Greenwich mean sidereal time in degrees (IAU 1982).
func siderealTime(jd float64) float64 {
	d := jd - j2000
	c := d / 36525
	gmst := 280.46061837 + 360.98564736629*d + 0.000387933*c*c - c*c*c/38710000
	return zodiac.Normalize(gmst)
}

// obliquity returns the mean obliquity of the ecliptic in degrees.
func obliquity(jd float64) float64 {
	c := (jd - j2000) / 36525
	return 23.439291 - 0.0130042*c
}

// AnalyticAscendant computes the tropical ascendant from local sidereal time,
// the obliquity of the ecliptic and the observer's latitude.
func AnalyticAscendant(t time.Time, obs Observer) float64 {
	jd := JulianDay(t)
	ramc := (siderealTime(jd) + obs.Longitude) * deg
	eps := obliquity(jd) * deg
	phi := obs.Latitude * deg

	y := math.Cos(ramc)
	x := -(math.Sin(ramc)*math.Cos(eps) + math.Tan(phi)*math.Sin(eps))
	return zodiac.Normalize(math.Atan2(y, x) / deg)
}

// arc returns the signed shortest angular distance from a to b, in (-180,180].
func arc(a, b float64) float64 {
	d := math.Mod(b-a, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}
