// Package aspect relates transiting planets to natal planets using
// whole-sign conjunction and drishti (sign-offset) rules, and aggregates
// the result per natal house.
package aspect

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/skyview/internal/chart"
	"github.com/papapumpkin/skyview/internal/zodiac"
)

// FullStrength is the strength of every recorded relation. The model is
// binary: a relation exists at full strength or not at all.
const FullStrength = 100.0

// Kind classifies a relation.
type Kind int

const (
	Conjunction Kind = iota + 1
	Drishti
)

var kindNames = map[Kind]string{
	Conjunction: "conjunction",
	Drishti:     "drishti",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown aspect kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	for kind, name := range kindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown aspect kind %q", text)
}

// Relation is one transiting body's relation to one natal body.
type Relation struct {
	Source   zodiac.Body // Transiting.
	Target   zodiac.Body // Natal.
	Kind     Kind
	Offset   int // Signs from source to target, 0 for a conjunction.
	Strength float64
}

// offsets lists the forward sign offsets each body casts full drishti on.
// An offset of 6 is the 7th sign from the caster.
var offsets = [...][]int{
	zodiac.Sun:     {6},
	zodiac.Moon:    {6},
	zodiac.Mercury: {6},
	zodiac.Venus:   {6},
	zodiac.Mars:    {3, 6, 7},
	zodiac.Jupiter: {4, 6, 8},
	zodiac.Saturn:  {2, 6, 9},
	zodiac.Rahu:    {6},
	zodiac.Ketu:    {6},
}

// Offsets returns the sign offsets b casts drishti on, ascending.
func Offsets(b zodiac.Body) []int {
	if !b.Valid() {
		return nil
	}
	out := make([]int, len(offsets[b]))
	copy(out, offsets[b])
	return out
}

func casts(b zodiac.Body, offset int) bool {
	for _, o := range offsets[b] {
		if o == offset {
			return true
		}
	}
	return false
}

// Relate classifies the relation from source in sign from to a body in
// sign to. ok is false when no relation exists.
func Relate(source zodiac.Body, from, to zodiac.Sign) (kind Kind, offset int, ok bool) {
	if from == to {
		return Conjunction, 0, true
	}
	offset = zodiac.SignOffset(from, to)
	if casts(source, offset) {
		return Drishti, offset, true
	}
	return 0, 0, false
}

// Compute returns every relation from a transiting body to a natal body,
// transiting bodies outermost, both in fixed body order.
func Compute(transit, natal *chart.Chart) []Relation {
	var out []Relation
	natalPositions := natal.Positions()
	for _, tp := range transit.Positions() {
		for _, np := range natalPositions {
			kind, offset, ok := Relate(tp.Body, tp.Sign, np.Sign)
			if !ok {
				continue
			}
			out = append(out, Relation{
				Source:   tp.Body,
				Target:   np.Body,
				Kind:     kind,
				Offset:   offset,
				Strength: FullStrength,
			})
		}
	}
	return out
}
