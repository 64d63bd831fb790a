package aspect

import (
	"math"

	"github.com/papapumpkin/skyview/internal/chart"
	"github.com/papapumpkin/skyview/internal/zodiac"
)

// Band buckets a house strength for display.
type Band int

const (
	Mild Band = iota
	Moderate
	Strong
)

func (b Band) String() string {
	switch b {
	case Strong:
		return "strong"
	case Moderate:
		return "moderate"
	default:
		return "mild"
	}
}

// BandOf returns the band for a house strength.
func BandOf(strength float64) Band {
	switch {
	case strength > 70:
		return Strong
	case strength > 40:
		return Moderate
	default:
		return Mild
	}
}

// HouseActivity is the transit activity in one natal house.
type HouseActivity struct {
	House      int
	Sign       zodiac.Sign
	Transiting []zodiac.Body // Transiting bodies in the house, counted in the natal frame.
	Natal      []zodiac.Body // Natal bodies in the house.
	Aspects    int           // Relations landing on natal bodies in the house.
	Strength   float64
	Band       Band
}

// Houses aggregates transit activity for natal houses 1 to 12:
//
//	min(100, 25×transiting + 0.4×average strength of relations landing on
//	natal bodies in the house)
func Houses(transit, natal *chart.Chart) []HouseActivity {
	return Aggregate(Compute(transit, natal), transit, natal)
}

// Aggregate is Houses over precomputed relations.
func Aggregate(relations []Relation, transit, natal *chart.Chart) []HouseActivity {
	out := make([]HouseActivity, zodiac.SignCount)
	for i := range out {
		out[i].House = i + 1
		out[i].Sign = zodiac.AddSigns(natal.AscendantSign(), i)
	}
	for _, p := range transit.Relative(natal) {
		out[p.House-1].Transiting = append(out[p.House-1].Transiting, p.Body)
	}

	natalHouse := make(map[zodiac.Body]int, len(zodiac.Bodies()))
	for _, p := range natal.Positions() {
		natalHouse[p.Body] = p.House
		out[p.House-1].Natal = append(out[p.House-1].Natal, p.Body)
	}

	sums := make([]float64, zodiac.SignCount)
	for _, r := range relations {
		h := natalHouse[r.Target]
		sums[h-1] += r.Strength
		out[h-1].Aspects++
	}

	for i := range out {
		var avg float64
		if out[i].Aspects > 0 {
			avg = sums[i] / float64(out[i].Aspects)
		}
		out[i].Strength = math.Min(100, 25*float64(len(out[i].Transiting))+0.4*avg)
		out[i].Band = BandOf(out[i].Strength)
	}
	return out
}

// Casting lists the houses one body's drishti falls on within its chart.
type Casting struct {
	Body    zodiac.Body
	House   int
	Offsets []int
	Houses  []int
}

// Cast returns, for every body of c in fixed order, the houses its drishti
// lands on.
func Cast(c *chart.Chart) []Casting {
	positions := c.Positions()
	out := make([]Casting, 0, len(positions))
	for _, p := range positions {
		cs := Casting{Body: p.Body, House: p.House, Offsets: Offsets(p.Body)}
		for _, o := range cs.Offsets {
			cs.Houses = append(cs.Houses, (p.House-1+o)%zodiac.SignCount+1)
		}
		out = append(out, cs)
	}
	return out
}
