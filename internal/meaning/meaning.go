// Package meaning holds display text for houses, planets and signs. It is
// used only by the report layer.
package meaning

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/skyview/internal/zodiac"
)

//go:embed meanings.toml
var defaultCatalog []byte

// House describes a whole-sign house.
type House struct {
	Number   int      `toml:"number"`
	Name     string   `toml:"name"`
	Short    string   `toml:"short"`
	Keywords []string `toml:"keywords"`
	Summary  string   `toml:"summary"`
}

// Planet describes a body.
type Planet struct {
	Body     zodiac.Body `toml:"body"`
	Name     string      `toml:"name"`
	Nature   string      `toml:"nature"` // benefic, malefic or neutral.
	Keywords []string    `toml:"keywords"`
	Themes   []string    `toml:"themes"`
	Summary  string      `toml:"summary"`
}

// Sign describes a sign and the temperament it gives as ascendant.
type Sign struct {
	Sign     zodiac.Sign `toml:"name"`
	Element  string      `toml:"element"`
	Modality string      `toml:"modality"`
	Keywords []string    `toml:"keywords"`
	Rising   string      `toml:"rising"`
}

type catalogFile struct {
	Houses  []House  `toml:"houses"`
	Planets []Planet `toml:"planets"`
	Signs   []Sign   `toml:"signs"`
}

// Catalog is a complete set of display text.
type Catalog struct {
	houses  [zodiac.SignCount]House
	planets [9]Planet
	signs   [zodiac.SignCount]Sign
}

// Parse decodes a catalog and checks that every house, body and sign is
// described exactly once.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing meanings: %w", err)
	}

	c := &Catalog{}
	var seenHouse [zodiac.SignCount]bool
	for _, h := range f.Houses {
		if h.Number < 1 || h.Number > zodiac.SignCount {
			return nil, fmt.Errorf("house %d out of range", h.Number)
		}
		if seenHouse[h.Number-1] {
			return nil, fmt.Errorf("house %d described twice", h.Number)
		}
		seenHouse[h.Number-1] = true
		c.houses[h.Number-1] = h
	}

	var seenBody [9]bool
	for _, p := range f.Planets {
		if seenBody[p.Body] {
			return nil, fmt.Errorf("%s described twice", p.Body)
		}
		seenBody[p.Body] = true
		c.planets[p.Body] = p
	}

	var seenSign [zodiac.SignCount]bool
	for _, s := range f.Signs {
		if seenSign[s.Sign] {
			return nil, fmt.Errorf("%s described twice", s.Sign)
		}
		seenSign[s.Sign] = true
		c.signs[s.Sign] = s
	}

	for i, ok := range seenHouse {
		if !ok {
			return nil, fmt.Errorf("house %d missing", i+1)
		}
	}
	for i, ok := range seenBody {
		if !ok {
			return nil, fmt.Errorf("%s missing", zodiac.Body(i))
		}
	}
	for i, ok := range seenSign {
		if !ok {
			return nil, fmt.Errorf("%s missing", zodiac.Sign(i))
		}
	}
	return c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Data returns a copy of the embedded catalog source.
func Data() []byte {
	return append([]byte(nil), defaultCatalog...)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultCatalog)
		if err != nil {
			panic("meaning: embedded catalog: " + err.Error())
		}
		defaultCat = c
	})
	return defaultCat
}

// House returns the description of house n in [1,12].
func (c *Catalog) House(n int) (House, bool) {
	if n < 1 || n > zodiac.SignCount {
		return House{}, false
	}
	return c.houses[n-1], true
}

// Planet returns the description of b.
func (c *Catalog) Planet(b zodiac.Body) (Planet, bool) {
	if !b.Valid() {
		return Planet{}, false
	}
	return c.planets[b], true
}

// Sign returns the description of s.
func (c *Catalog) Sign(s zodiac.Sign) (Sign, bool) {
	if s < 0 || s >= zodiac.SignCount {
		return Sign{}, false
	}
	return c.signs[s], true
}

// signLords is the classical rulership of each sign.
var signLords = [zodiac.SignCount]zodiac.Body{
	zodiac.Mars, zodiac.Venus, zodiac.Mercury, zodiac.Moon,
	zodiac.Sun, zodiac.Mercury, zodiac.Venus, zodiac.Mars,
	zodiac.Jupiter, zodiac.Saturn, zodiac.Saturn, zodiac.Jupiter,
}

// SignLord returns the ruler of s.
func SignLord(s zodiac.Sign) zodiac.Body {
	return signLords[zodiac.AddSigns(s, 0)]
}

// HouseLord returns the ruler of house n for a chart rising in asc.
func HouseLord(asc zodiac.Sign, n int) zodiac.Body {
	return SignLord(zodiac.AddSigns(asc, n-1))
}
