// Package dasha generates Vimshottari Dasha periods: the Mahadasha sequence
// seeded by the natal Moon's nakshatra, Antardasha subdivisions of any
// period, and lookup of the period containing an instant.
package dasha

import (
	"fmt"
	"time"

	"github.com/papapumpkin/skyview/internal/zodiac"
)

// YearLength is the Dasha year used to convert period years into time.
const YearLength = 8766 * time.Hour // 365.25 days

var lordCount = len(zodiac.LordOrder())

// Level is the nesting depth of a period.
type Level int

const (
	LevelMahadasha  Level = 1
	LevelAntardasha Level = 2
)

// String returns the conventional name of the level.
func (l Level) String() string {
	switch l {
	case LevelMahadasha:
		return "mahadasha"
	case LevelAntardasha:
		return "antardasha"
	case 3:
		return "pratyantardasha"
	default:
		return fmt.Sprintf("level-%d", int(l))
	}
}

// Period is one Dasha period. Start and End are inclusive bounds for
// lookup; consecutive periods share their boundary instant.
type Period struct {
	Lord    zodiac.Body
	Start   time.Time
	End     time.Time
	Years   float64
	Level   Level
	Parent  *Period
	Balance bool // First Mahadasha, shortened by the Moon's progress through its nakshatra.
}

// Contains reports whether start <= t <= end.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Duration returns End - Start.
func (p Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

func (p Period) String() string {
	return fmt.Sprintf("%s %s %s..%s", p.Level, p.Lord,
		p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly))
}

// span converts years into a duration. Periods are bounded by the 20-year
// maximum weight, so the product never approaches the int64 limit.
func span(years float64) time.Duration {
	return time.Duration(years * float64(YearLength))
}
