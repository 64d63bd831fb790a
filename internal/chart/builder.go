package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/papapumpkin/skyview/internal/ephemeris"
	"github.com/papapumpkin/skyview/internal/skyerr"
	"github.com/papapumpkin/skyview/internal/validation"
	"github.com/papapumpkin/skyview/internal/zodiac"
)

// Input is everything needed to assemble a chart without a provider:
// tropical readings for every queried body, the tropical ascendant and the
// ayanamsha already evaluated for the instant.
type Input struct {
	Instant   time.Time
	Location  Location
	Mode      ephemeris.Mode
	Ayanamsha float64
	Ascendant float64 // Tropical. NaN means the provider returned nothing.
	Readings  map[zodiac.Body]ephemeris.Reading
}

// Builder queries a Provider and assembles charts.
type Builder struct {
	provider ephemeris.Provider
	mode     ephemeris.Mode
	houses   ephemeris.HouseSystem
	log      zerolog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithMode sets the ayanamsha mode threaded through every provider call.
func WithMode(m ephemeris.Mode) Option {
	return func(b *Builder) { b.mode = m }
}

// WithHouseSystem sets the house system code passed to the provider's
// ascendant computation.
func WithHouseSystem(hs ephemeris.HouseSystem) Option {
	return func(b *Builder) { b.houses = hs }
}

// WithLogger attaches a logger for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// NewBuilder returns a Builder using Lahiri ayanamsha and whole-sign houses
// unless overridden.
func NewBuilder(p ephemeris.Provider, opts ...Option) *Builder {
	b := &Builder{
		provider: p,
		mode:     ephemeris.Lahiri(),
		houses:   ephemeris.HouseWholeSign,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build queries the provider for t and loc and assembles the chart.
func (b *Builder) Build(t time.Time, loc Location) (*Chart, error) {
	const op = "chart.Build"
	if err := checkInput(op, t, loc); err != nil {
		return nil, err
	}
	t = t.UTC()

	aya, err := b.provider.Ayanamsha(t, b.mode)
	if err != nil {
		return nil, fmt.Errorf("%s: ayanamsha: %w", op, err)
	}
	asc, err := b.provider.Ascendant(t, loc.Observer(), b.houses)
	if err != nil {
		return nil, fmt.Errorf("%s: ascendant: %w", op, err)
	}

	in := Input{
		Instant:   t,
		Location:  loc,
		Mode:      b.mode,
		Ayanamsha: aya,
		Ascendant: asc,
		Readings:  make(map[zodiac.Body]ephemeris.Reading, len(bodyOrder)),
	}
	for _, body := range zodiac.QueriedBodies() {
		r, err := b.provider.Position(t, body)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, body, err)
		}
		in.Readings[body] = r
	}

	c, err := Assemble(in)
	if err != nil {
		return nil, err
	}
	b.log.Debug().
		Str("provider", b.provider.Name()).
		Time("instant", t).
		Str("ayanamsha_mode", b.mode.String()).
		Float64("ayanamsha", aya).
		Str("ascendant", c.ascSign.String()).
		Msg("chart built")
	return c, nil
}

// Assemble converts raw readings into a chart. It fails with
// INVALID_INPUT for a bad instant or location and MISSING_POSITION when a
// queried body or the ascendant is absent.
func Assemble(in Input) (*Chart, error) {
	const op = "chart.Assemble"
	if err := checkInput(op, in.Instant, in.Location); err != nil {
		return nil, err
	}
	if math.IsNaN(in.Ascendant) || math.IsInf(in.Ascendant, 0) {
		return nil, skyerr.Missing(op, "ascendant", "no ascendant value")
	}
	if math.IsNaN(in.Ayanamsha) || math.IsInf(in.Ayanamsha, 0) {
		return nil, skyerr.Invalid(op, "ayanamsha", "not a finite number")
	}

	asc := sidereal(in.Ascendant, in.Ayanamsha)
	c := &Chart{
		instant:   in.Instant.UTC(),
		location:  in.Location,
		mode:      in.Mode,
		ayanamsha: in.Ayanamsha,
		ascendant: asc,
		ascSign:   zodiac.SignOf(asc),
	}

	for _, body := range bodyOrder {
		src := body.Source()
		r, ok := in.Readings[src.Reference]
		if !ok || math.IsNaN(r.Longitude) || math.IsInf(r.Longitude, 0) {
			return nil, skyerr.Missing(op, body.String(), "no finite longitude for "+src.Reference.String())
		}

		lon := sidereal(r.Longitude, in.Ayanamsha)
		retro := r.Retrograde() && !body.Luminary()
		if src.Kind == zodiac.SourceOpposite {
			lon = zodiac.Normalize(lon + 180)
			retro = false
		}
		c.positions[body] = place(body, lon, retro, c.ascSign)
	}
	return c, nil
}

func checkInput(op string, t time.Time, loc Location) error {
	if t.IsZero() {
		return skyerr.Invalid(op, "instant", "zero time")
	}
	if err := validation.Struct(loc); err != nil {
		return skyerr.Invalid(op, fmt.Sprintf("location=(%g, %g)", loc.Latitude, loc.Longitude), err.Error())
	}
	return nil
}

func sidereal(tropical, ayanamsha float64) float64 {
	return zodiac.Normalize(tropical - ayanamsha)
}

func place(body zodiac.Body, lon float64, retro bool, asc zodiac.Sign) PlanetPosition {
	sign := zodiac.SignOf(lon)
	nak := zodiac.NakshatraOf(lon)
	return PlanetPosition{
		Body:          body,
		Longitude:     lon,
		Sign:          sign,
		Degree:        zodiac.DegreeInSign(lon),
		House:         zodiac.House(sign, asc),
		Retrograde:    retro,
		Nakshatra:     nak,
		NakshatraLord: nak.Lord(),
	}
}
