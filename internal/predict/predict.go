// Package predict weighs transits against the running Dasha periods and
// groups the result into priority tiers.
package predict

import (
	"fmt"

	"github.com/papapumpkin/skyview/internal/aspect"
	"github.com/papapumpkin/skyview/internal/chart"
	"github.com/papapumpkin/skyview/internal/dasha"
	"github.com/papapumpkin/skyview/internal/skyerr"
	"github.com/papapumpkin/skyview/internal/zodiac"
)

// Tier is a prediction's priority.
type Tier int

const (
	General Tier = iota
	High         // Involves the Antardasha lord.
	Highest      // Involves the Mahadasha lord.
)

// Tiers lists tiers from most to least important.
func Tiers() []Tier { return []Tier{Highest, High, General} }

func (t Tier) String() string {
	switch t {
	case Highest:
		return "highest"
	case High:
		return "high"
	case General:
		return "general"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Weight is the tier's importance score.
func (t Tier) Weight() int {
	switch t {
	case Highest:
		return 10
	case High:
		return 7
	default:
		return 3
	}
}

// RecordKind distinguishes transit placements from aspect relations.
type RecordKind int

const (
	TransitRecord RecordKind = iota
	AspectRecord
)

func (k RecordKind) String() string {
	if k == AspectRecord {
		return "aspect"
	}
	return "transit"
}

// MarshalText implements encoding.TextMarshaler.
func (k RecordKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Record is one prediction. Transit records describe where a transiting
// body sits in the natal frame; aspect records add the natal target.
type Record struct {
	Kind       RecordKind
	Tier       Tier
	Body       zodiac.Body // Transiting body.
	Sign       zodiac.Sign
	House      int // Natal-frame house of the transiting body.
	Retrograde bool

	// Aspect records only.
	Target      zodiac.Body
	TargetHouse int
	Aspect      aspect.Kind
	Offset      int
}

// Weight is the record's tier weight.
func (r Record) Weight() int { return r.Tier.Weight() }

// Set is the immutable output of Compose.
type Set struct {
	context dasha.Context
	records []Record
}

// Context returns the Dasha context the set was composed against.
func (s *Set) Context() dasha.Context { return s.context }

// Records returns every record in emission order.
func (s *Set) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Tier returns the records of one tier in emission order.
func (s *Set) Tier(t Tier) []Record {
	var out []Record
	for _, r := range s.records {
		if r.Tier == t {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of records.
func (s *Set) Len() int { return len(s.records) }

// Compose classifies every transiting body and every aspect it casts on the
// natal chart. A transit record is HIGHEST when its body is the Mahadasha
// lord and HIGH when it is the Antardasha lord. An aspect record is
// promoted the same way by its natal target, whoever casts it; otherwise it
// is GENERAL.
func Compose(natal, transit *chart.Chart, ctx dasha.Context) (*Set, error) {
	const op = "predict.Compose"
	switch {
	case natal == nil:
		return nil, skyerr.Invalid(op, "natal", "nil chart")
	case transit == nil:
		return nil, skyerr.Invalid(op, "transit", "nil chart")
	case ctx.Mahadasha.Start.IsZero() || ctx.Antardasha.Start.IsZero():
		return nil, skyerr.Invalid(op, "dasha context", "unresolved")
	}

	maha, antar := ctx.Mahadasha.Lord, ctx.Antardasha.Lord
	classify := func(b zodiac.Body) Tier {
		switch b {
		case maha:
			return Highest
		case antar:
			return High
		default:
			return General
		}
	}

	relations := aspect.Compute(transit, natal)
	bySource := make(map[zodiac.Body][]aspect.Relation, len(zodiac.Bodies()))
	for _, r := range relations {
		bySource[r.Source] = append(bySource[r.Source], r)
	}

	records := make([]Record, 0, len(zodiac.Bodies())+len(relations))
	for _, tp := range transit.Relative(natal) {
		records = append(records, Record{
			Kind:       TransitRecord,
			Tier:       classify(tp.Body),
			Body:       tp.Body,
			Sign:       tp.Sign,
			House:      tp.House,
			Retrograde: tp.Retrograde,
		})
		for _, r := range bySource[tp.Body] {
			np, _ := natal.Position(r.Target)
			records = append(records, Record{
				Kind:        AspectRecord,
				Tier:        classify(r.Target),
				Body:        tp.Body,
				Sign:        tp.Sign,
				House:       tp.House,
				Retrograde:  tp.Retrograde,
				Target:      r.Target,
				TargetHouse: np.House,
				Aspect:      r.Kind,
				Offset:      r.Offset,
			})
		}
	}
	return &Set{context: ctx, records: records}, nil
}
