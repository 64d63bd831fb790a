package zodiac

import (
	"fmt"
	"math"
	"strings"
)

const (
	// FullCircle is the number of degrees in the zodiac.
	FullCircle = 360.0
	// SignSpan is the width of one sign in degrees.
	SignSpan = 30.0
	// SignCount is the number of signs (and whole-sign houses).
	SignCount = 12
	// NakshatraCount is the number of lunar mansions.
	NakshatraCount = 27
	// NakshatraSpan is the width of one nakshatra (13°20′).
	NakshatraSpan = FullCircle / NakshatraCount
)

var signNames = [SignCount]string{
	"Aries", "Taurus", "Gemini", "Cancer",
	"Leo", "Virgo", "Libra", "Scorpio",
	"Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var nakshatraNames = [NakshatraCount]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra", "Punarvasu",
	"Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni", "Hasta",
	"Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha", "Mula", "Purva Ashadha",
	"Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha", "Purva Bhadrapada",
	"Uttara Bhadrapada", "Revati",
}

// Sign is a zodiac sign index in [0,11], Aries = 0.
type Sign int

// String returns the sign name.
func (s Sign) String() string {
	if s < 0 || s >= SignCount {
		return fmt.Sprintf("Sign(%d)", int(s))
	}
	return signNames[s]
}

// MarshalText encodes the sign as its name.
func (s Sign) MarshalText() ([]byte, error) {
	if s < 0 || s >= SignCount {
		return nil, fmt.Errorf("invalid sign %d", int(s))
	}
	return []byte(signNames[s]), nil
}

// UnmarshalText decodes a sign name, case-insensitively.
func (s *Sign) UnmarshalText(text []byte) error {
	parsed, err := ParseSign(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSign resolves a sign name, case-insensitively.
func ParseSign(name string) (Sign, error) {
	for i, n := range signNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Sign(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sign %q", name)
}

// Nakshatra is a lunar mansion index in [0,26], Ashwini = 0.
type Nakshatra int

// String returns the nakshatra name.
func (n Nakshatra) String() string {
	if n < 0 || n >= NakshatraCount {
		return fmt.Sprintf("Nakshatra(%d)", int(n))
	}
	return nakshatraNames[n]
}

// Lord returns the Vimshottari lord ruling the nakshatra. The nine-lord
// cycle repeats three times across the 27 mansions.
func (n Nakshatra) Lord() Body {
	return lordOrder[int(n)%len(lordOrder)]
}

// Normalize maps any longitude into [0,360). It is idempotent.
func Normalize(lon float64) float64 {
	l := math.Mod(lon, FullCircle)
	if l < 0 {
		l += FullCircle
	}
	// A tiny negative input rounds up to exactly 360 after the addition.
	if l >= FullCircle {
		l = 0
	}
	return l
}

// SignOf returns the sign containing a normalized longitude.
func SignOf(lon float64) Sign {
	s := int(math.Floor(Normalize(lon) / SignSpan))
	if s > SignCount-1 {
		s = SignCount - 1
	}
	return Sign(s)
}

// DegreeInSign returns the offset of a longitude within its sign, in [0,30).
func DegreeInSign(lon float64) float64 {
	d := math.Mod(Normalize(lon), SignSpan)
	if d >= SignSpan {
		d = 0
	}
	return d
}

// NakshatraOf returns the nakshatra containing a longitude, clamped to [0,26].
func NakshatraOf(lon float64) Nakshatra {
	n := int(math.Floor(Normalize(lon) / NakshatraSpan))
	if n < 0 {
		n = 0
	}
	if n > NakshatraCount-1 {
		n = NakshatraCount - 1
	}
	return Nakshatra(n)
}

// DegreeInNakshatra returns how far a longitude has traversed its nakshatra.
func DegreeInNakshatra(lon float64) float64 {
	return math.Mod(Normalize(lon), NakshatraSpan)
}

// House returns the whole-sign house of sign counted from the ascendant
// sign: ((sign − asc) mod 12) + 1. The ascendant's own sign is house 1.
func House(sign, asc Sign) int {
	return SignOffset(asc, sign) + 1
}

// SignOffset returns how many signs "to" lies ahead of "from", in [0,11].
func SignOffset(from, to Sign) int {
	return ((int(to)-int(from))%SignCount + SignCount) % SignCount
}

// AddSigns advances a sign by n (which may be negative), wrapping around.
func AddSigns(s Sign, n int) Sign {
	return Sign(((int(s)+n)%SignCount + SignCount) % SignCount)
}
