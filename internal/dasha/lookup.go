package dasha

import (
	"fmt"
	"math"
	"time"

	"github.com/papapumpkin/skyview/internal/skyerr"
)

// yearsTolerance bounds the drift allowed between a parent's years and the
// sum of its sub-periods' years.
const yearsTolerance = 1e-4

// Context is the Dasha state at one instant.
type Context struct {
	At         time.Time
	Mahadasha  Period
	Antardasha Period
}

// Find returns the first period with Start <= t <= End. A boundary instant
// therefore belongs to the earlier of the two periods sharing it.
func Find(periods []Period, t time.Time) (Period, error) {
	for _, p := range periods {
		if p.Contains(t) {
			return p, nil
		}
	}
	if len(periods) == 0 {
		return Period{}, noPeriod("dasha.Find", t, "empty period list")
	}
	return Period{}, noPeriod("dasha.Find", t, fmt.Sprintf("outside %s..%s",
		periods[0].Start.Format(time.RFC3339), periods[len(periods)-1].End.Format(time.RFC3339)))
}

// Resolve finds the Mahadasha and Antardasha containing t.
func Resolve(seq *Sequence, t time.Time) (Context, error) {
	t = t.UTC()
	maha, err := seq.At(t)
	if err != nil {
		return Context{}, err
	}
	subs, err := Expand(maha)
	if err != nil {
		return Context{}, err
	}
	antar, err := Find(subs, t)
	if err != nil {
		return Context{}, err
	}
	return Context{At: t, Mahadasha: maha, Antardasha: antar}, nil
}

// Verify checks that periods are ordered and gapless. When parent is
// non-nil it also checks that the list spans the parent exactly and that
// the sub-period years add up to the parent's.
func Verify(periods []Period, parent *Period) error {
	const op = "dasha.Verify"
	if len(periods) == 0 {
		return skyerr.New(skyerr.KindDataIntegrity, op, "", "empty period list")
	}
	for i, p := range periods {
		if p.End.Before(p.Start) {
			return skyerr.New(skyerr.KindDataIntegrity, op, p.String(), "end precedes start")
		}
		if i > 0 && !p.Start.Equal(periods[i-1].End) {
			return skyerr.New(skyerr.KindDataIntegrity, op, p.String(),
				"gap after "+periods[i-1].String())
		}
	}
	if parent == nil {
		return nil
	}

	if !periods[0].Start.Equal(parent.Start) {
		return skyerr.New(skyerr.KindDataIntegrity, op, parent.String(), "first sub-period does not start with parent")
	}
	if !periods[len(periods)-1].End.Equal(parent.End) {
		return skyerr.New(skyerr.KindDataIntegrity, op, parent.String(), "last sub-period does not end with parent")
	}
	var sum float64
	for _, p := range periods {
		sum += p.Years
	}
	if math.Abs(sum-parent.Years) > yearsTolerance {
		return skyerr.New(skyerr.KindDataIntegrity, op, parent.String(),
			fmt.Sprintf("sub-period years sum to %.6f, want %.6f", sum, parent.Years))
	}
	return nil
}

func noPeriod(op string, t time.Time, detail string) error {
	return skyerr.New(skyerr.KindNoContainingPeriod, op, t.Format(time.RFC3339), detail)
}
