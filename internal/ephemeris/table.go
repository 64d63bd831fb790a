package ephemeris

import (
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/skyview/internal/skyerr"
	"github.com/papapumpkin/skyview/internal/zodiac"
)

// DefaultTablePath is the conventional location of the snapshot table.
const DefaultTablePath = "ephemeris.toml"

// observerTolerance is how close (degrees) a query location must be to a
// stored ascendant's location for the stored value to be used.
const observerTolerance = 1e-4

// tableFile mirrors the on-disk TOML layout:
//
//	name = "daily 2000"
//
//	[[snapshot]]
//	instant = 2000-06-16T05:11:00Z
//	bodies.sun  = { longitude = 85.12, speed = 0.953 }
//	bodies.rahu = { longitude = 124.9, speed = -0.053 }
//	ayanamsha.lahiri = 23.86
//
//	[[snapshot.ascendant]]
//	latitude = 33.0383
//	longitude = -85.0319
//	value = 14.2
type tableFile struct {
	Name      string          `toml:"name"`
	Snapshots []snapshotEntry `toml:"snapshot"`
}

type snapshotEntry struct {
	Instant    time.Time          `toml:"instant"`
	Bodies     map[string]Reading `toml:"bodies"`
	Ascendants []ascendantEntry   `toml:"ascendant"`
	Ayanamsha  map[string]float64 `toml:"ayanamsha"`
}

type ascendantEntry struct {
	Latitude  float64 `toml:"latitude"`
	Longitude float64 `toml:"longitude"`
	Value     float64 `toml:"value"`
}

type snapshot struct {
	instant    time.Time
	bodies     map[zodiac.Body]Reading
	ascendants []ascendantEntry
	ayanamsha  map[ModeKind]float64
}

// Table is a Provider backed by a time-ordered list of snapshots. Between
// two snapshots, longitudes are interpolated linearly along the shortest
// arc; outside the covered range every position query fails.
type Table struct {
	name      string
	snapshots []snapshot
}

// LoadTable reads and parses a snapshot table from path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ephemeris table: %w", err)
	}
	tbl, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if tbl.name == "" {
		tbl.name = path
	}
	return tbl, nil
}

// ParseTable decodes a snapshot table from TOML.
func ParseTable(data []byte) (*Table, error) {
	var f tableFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing ephemeris table: %w", err)
	}
	if len(f.Snapshots) == 0 {
		return nil, fmt.Errorf("ephemeris table has no snapshots")
	}

	tbl := &Table{name: f.Name, snapshots: make([]snapshot, 0, len(f.Snapshots))}
	for i, e := range f.Snapshots {
		if e.Instant.IsZero() {
			return nil, fmt.Errorf("snapshot %d: missing instant", i)
		}
		s := snapshot{
			instant:    e.Instant.UTC(),
			bodies:     make(map[zodiac.Body]Reading, len(e.Bodies)),
			ascendants: e.Ascendants,
			ayanamsha:  make(map[ModeKind]float64, len(e.Ayanamsha)),
		}
		for name, r := range e.Bodies {
			b, err := zodiac.ParseBody(name)
			if err != nil {
				return nil, fmt.Errorf("snapshot %d: %w", i, err)
			}
			if b.Source().Kind != zodiac.SourceEphemeris {
				return nil, fmt.Errorf("snapshot %d: %s is derived and must not be listed", i, b)
			}
			r.Longitude = zodiac.Normalize(r.Longitude)
			s.bodies[b] = r
		}
		for j := range s.ascendants {
			s.ascendants[j].Value = zodiac.Normalize(s.ascendants[j].Value)
		}
		for name, v := range e.Ayanamsha {
			m, err := ParseMode(name)
			if err != nil || m.Kind == ModeFixed {
				return nil, fmt.Errorf("snapshot %d: unknown ayanamsha mode %q", i, name)
			}
			s.ayanamsha[m.Kind] = v
		}
		tbl.snapshots = append(tbl.snapshots, s)
	}

	sort.Slice(tbl.snapshots, func(i, j int) bool {
		return tbl.snapshots[i].instant.Before(tbl.snapshots[j].instant)
	})
	for i := 1; i < len(tbl.snapshots); i++ {
		if tbl.snapshots[i].instant.Equal(tbl.snapshots[i-1].instant) {
			return nil, fmt.Errorf("duplicate snapshot instant %s", tbl.snapshots[i].instant.Format(time.RFC3339))
		}
	}
	return tbl, nil
}

// Name implements Provider.
func (tb *Table) Name() string {
	if tb.name == "" {
		return "table"
	}
	return tb.name
}

// Len returns the number of snapshots.
func (tb *Table) Len() int { return len(tb.snapshots) }

// Range returns the first and last snapshot instants.
func (tb *Table) Range() (first, last time.Time) {
	return tb.snapshots[0].instant, tb.snapshots[len(tb.snapshots)-1].instant
}

// locate returns the index of the snapshot exactly at t (exact=true), or the
// index of the first snapshot after t. ok is false when t lies outside the
// covered range.
func (tb *Table) locate(t time.Time) (i int, exact, ok bool) {
	i = sort.Search(len(tb.snapshots), func(k int) bool {
		return !tb.snapshots[k].instant.Before(t)
	})
	if i < len(tb.snapshots) && tb.snapshots[i].instant.Equal(t) {
		return i, true, true
	}
	if i == 0 || i == len(tb.snapshots) {
		return i, false, false
	}
	return i, false, true
}

// Position implements Provider.
func (tb *Table) Position(t time.Time, body zodiac.Body) (Reading, error) {
	const op = "ephemeris.Position"
	t = t.UTC()

	i, exact, ok := tb.locate(t)
	if !ok {
		first, last := tb.Range()
		return Reading{}, skyerr.Missing(op, body.String()+" at "+t.Format(time.RFC3339),
			fmt.Sprintf("outside table range %s..%s", first.Format(time.RFC3339), last.Format(time.RFC3339)))
	}
	if exact {
		r, found := tb.snapshots[i].bodies[body]
		if !found {
			return Reading{}, skyerr.Missing(op, body.String()+" at "+t.Format(time.RFC3339), "body absent from snapshot")
		}
		return r, nil
	}

	a, b := tb.snapshots[i-1], tb.snapshots[i]
	ra, okA := a.bodies[body]
	rb, okB := b.bodies[body]
	if !okA || !okB {
		return Reading{}, skyerr.Missing(op, body.String()+" at "+t.Format(time.RFC3339), "body absent from bracketing snapshot")
	}

	span := b.instant.Sub(a.instant).Seconds()
	frac := t.Sub(a.instant).Seconds() / span
	return Reading{
		Longitude: zodiac.Normalize(ra.Longitude + frac*arc(ra.Longitude, rb.Longitude)),
		Speed:     ra.Speed + frac*(rb.Speed-ra.Speed),
	}, nil
}

// Ascendant implements Provider. A stored ascendant is used when a snapshot
// sits exactly at t for the same location; otherwise the ascendant is
// computed analytically, since it sweeps the whole zodiac each day and
// cannot be interpolated between snapshots.
func (tb *Table) Ascendant(t time.Time, obs Observer, _ HouseSystem) (float64, error) {
	t = t.UTC()
	if i, exact, _ := tb.locate(t); exact {
		for _, a := range tb.snapshots[i].ascendants {
			if math.Abs(a.Latitude-obs.Latitude) <= observerTolerance &&
				math.Abs(a.Longitude-obs.Longitude) <= observerTolerance {
				return a.Value, nil
			}
		}
	}
	return AnalyticAscendant(t, obs), nil
}

// Ayanamsha implements Provider. Snapshot overrides take precedence over
// the mode's model at their exact instant.
func (tb *Table) Ayanamsha(t time.Time, mode Mode) (float64, error) {
	t = t.UTC()
	if mode.Kind != ModeFixed {
		if i, exact, _ := tb.locate(t); exact {
			if v, found := tb.snapshots[i].ayanamsha[mode.Kind]; found {
				return v, nil
			}
		}
	}
	return mode.Model(t), nil
}
