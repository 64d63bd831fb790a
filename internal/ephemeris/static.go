package ephemeris

import (
	"time"

	"github.com/papapumpkin/skyview/internal/skyerr"
	"github.com/papapumpkin/skyview/internal/zodiac"
)

// StaticProvider answers every query with the same fixed values, whatever
// the instant. It suits tests and hosts that compute positions elsewhere.
// A nil AscendantValue makes Ascendant fall back to AnalyticAscendant; a nil
// AyanamshaValue (or a fixed mode) makes Ayanamsha evaluate the mode's model.
type StaticProvider struct {
	Readings       map[zodiac.Body]Reading
	AscendantValue *float64
	AyanamshaValue *float64
}

// NewStatic returns a provider with the given tropical readings, ascendant
// and ayanamsha.
func NewStatic(readings map[zodiac.Body]Reading, asc, ayanamsha float64) *StaticProvider {
	return &StaticProvider{
		Readings:       readings,
		AscendantValue: &asc,
		AyanamshaValue: &ayanamsha,
	}
}

// Name implements Provider.
func (p *StaticProvider) Name() string { return "static" }

// Position implements Provider.
func (p *StaticProvider) Position(_ time.Time, body zodiac.Body) (Reading, error) {
	r, ok := p.Readings[body]
	if !ok {
		return Reading{}, skyerr.Missing("ephemeris.Position", body.String(), "no static reading")
	}
	return r, nil
}

// Ascendant implements Provider.
func (p *StaticProvider) Ascendant(t time.Time, obs Observer, _ HouseSystem) (float64, error) {
	if p.AscendantValue == nil {
		return AnalyticAscendant(t, obs), nil
	}
	return *p.AscendantValue, nil
}

// Ayanamsha implements Provider.
func (p *StaticProvider) Ayanamsha(t time.Time, mode Mode) (float64, error) {
	if p.AyanamshaValue == nil || mode.Kind == ModeFixed {
		return mode.Model(t), nil
	}
	return *p.AyanamshaValue, nil
}
