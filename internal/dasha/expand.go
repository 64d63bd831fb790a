package dasha

import (
	"math"

	"github.com/papapumpkin/skyview/internal/skyerr"
	"github.com/papapumpkin/skyview/internal/zodiac"
)

// Expand subdivides p into its nine sub-periods, starting with p's own lord.
// Each sub-period lasts weight(lord) × p.Years / 120 years. The ninth always
// ends exactly at p.End, absorbing rounding drift.
func Expand(p Period) ([]Period, error) {
	const op = "dasha.Expand"
	switch {
	case !p.Lord.Valid():
		return nil, skyerr.Invalid(op, p.Lord.String(), "unknown lord")
	case p.End.Before(p.Start):
		return nil, skyerr.Invalid(op, p.String(), "end precedes start")
	case math.IsNaN(p.Years) || math.IsInf(p.Years, 0) || p.Years < 0:
		return nil, skyerr.Invalid(op, p.String(), "years must be a non-negative number")
	}

	parent := p
	subs := make([]Period, 0, lordCount)
	start := p.Start
	for i := 0; i < lordCount; i++ {
		lord := zodiac.NextLord(p.Lord, i)
		years := float64(zodiac.Years(lord)) * p.Years / zodiac.TotalYears
		end := start.Add(span(years))
		if i == lordCount-1 || end.After(p.End) {
			end = p.End
		}
		subs = append(subs, Period{
			Lord:   lord,
			Start:  start,
			End:    end,
			Years:  years,
			Level:  p.Level + 1,
			Parent: &parent,
		})
		start = end
	}

	if err := Verify(subs, &parent); err != nil {
		return nil, err
	}
	return subs, nil
}
