package dasha

import (
	"math"
	"sync"
	"time"

	"github.com/papapumpkin/skyview/internal/skyerr"
	"github.com/papapumpkin/skyview/internal/zodiac"
)

// Sequence is the Mahadasha sequence for one birth. It starts with the
// balance period and extends forward one 120-year cycle at a time as later
// instants are requested. A Sequence is safe for concurrent use.
type Sequence struct {
	birth     time.Time
	moon      float64
	nakshatra zodiac.Nakshatra

	mu      sync.Mutex
	periods []Period
}

// NewSequence seeds the Mahadasha sequence from the natal Moon's sidereal
// longitude and the birth instant. The first period belongs to the birth
// nakshatra's lord and lasts the untraversed fraction of that lord's years.
func NewSequence(moonLongitude float64, birth time.Time) (*Sequence, error) {
	const op = "dasha.NewSequence"
	if math.IsNaN(moonLongitude) || math.IsInf(moonLongitude, 0) {
		return nil, skyerr.Invalid(op, "moon longitude", "not a finite number")
	}
	if birth.IsZero() {
		return nil, skyerr.Invalid(op, "birth", "zero time")
	}

	lon := zodiac.Normalize(moonLongitude)
	nak := zodiac.NakshatraOf(lon)
	lord := nak.Lord()
	remaining := (zodiac.NakshatraSpan - zodiac.DegreeInNakshatra(lon)) / zodiac.NakshatraSpan
	years := remaining * float64(zodiac.Years(lord))

	birth = birth.UTC()
	s := &Sequence{
		birth:     birth,
		moon:      lon,
		nakshatra: nak,
	}
	s.periods = append(s.periods, Period{
		Lord:    lord,
		Start:   birth,
		End:     birth.Add(span(years)),
		Years:   years,
		Level:   LevelMahadasha,
		Balance: true,
	})
	if err := s.extend(); err != nil {
		return nil, err
	}
	return s, nil
}

// Birth returns the birth instant in UTC.
func (s *Sequence) Birth() time.Time { return s.birth }

// MoonLongitude returns the normalized natal Moon longitude.
func (s *Sequence) MoonLongitude() float64 { return s.moon }

// BirthNakshatra returns the natal Moon's nakshatra.
func (s *Sequence) BirthNakshatra() zodiac.Nakshatra { return s.nakshatra }

// BalanceYears returns the length of the first, shortened Mahadasha.
func (s *Sequence) BalanceYears() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.periods[0].Years
}

// extend appends one full cycle of nine lords after the last period and
// checks the seam. Callers hold mu, except NewSequence.
func (s *Sequence) extend() error {
	last := s.periods[len(s.periods)-1]
	from := len(s.periods) - 1
	start := last.End
	for i := 1; i <= lordCount; i++ {
		lord := zodiac.NextLord(last.Lord, i)
		years := float64(zodiac.Years(lord))
		end := start.Add(span(years))
		s.periods = append(s.periods, Period{
			Lord:  lord,
			Start: start,
			End:   end,
			Years: years,
			Level: LevelMahadasha,
		})
		start = end
	}
	return Verify(s.periods[from:], nil)
}

// Through returns every Mahadasha up to and including the one containing t,
// extending the sequence as needed. The returned slice is a copy.
func (s *Sequence) Through(t time.Time) ([]Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.periods[len(s.periods)-1].End.Before(t) {
		if err := s.extend(); err != nil {
			return nil, err
		}
	}
	out := make([]Period, len(s.periods))
	copy(out, s.periods)
	return out, nil
}

// Periods returns the first n Mahadashas, extending the sequence as needed.
func (s *Sequence) Periods(n int) ([]Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.periods) < n {
		if err := s.extend(); err != nil {
			return nil, err
		}
	}
	if n < 0 {
		n = 0
	}
	out := make([]Period, n)
	copy(out, s.periods[:n])
	return out, nil
}

// At returns the Mahadasha containing t. Instants before birth fail with
// NO_CONTAINING_PERIOD.
func (s *Sequence) At(t time.Time) (Period, error) {
	if t.Before(s.birth) {
		return Period{}, noPeriod("dasha.At", t, "precedes birth "+s.birth.Format(time.RFC3339))
	}
	periods, err := s.Through(t)
	if err != nil {
		return Period{}, err
	}
	return Find(periods, t)
}
