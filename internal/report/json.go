package report

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/papapumpkin/skyview/internal/chart"
	"github.com/papapumpkin/skyview/internal/dasha"
	"github.com/papapumpkin/skyview/internal/meaning"
	"github.com/papapumpkin/skyview/internal/predict"
)

// JSONReport renders a document as indented JSON for other tools.
type JSONReport struct {
	Catalog *meaning.Catalog
}

type jsonOutput struct {
	Title       string           `json:"title,omitempty"`
	Natal       *jsonChart       `json:"natal,omitempty"`
	Transit     *jsonChart       `json:"transit,omitempty"`
	Dasha       *jsonDasha       `json:"dasha,omitempty"`
	Aspects     []jsonRelation   `json:"aspects,omitempty"`
	Castings    []jsonCasting    `json:"castings,omitempty"`
	Houses      []jsonHouse      `json:"houses,omitempty"`
	Predictions *jsonPredictions `json:"predictions,omitempty"`
}

type jsonChart struct {
	Instant       string       `json:"instant"`
	Latitude      float64      `json:"latitude"`
	Longitude     float64      `json:"longitude"`
	AyanamshaMode string       `json:"ayanamsha_mode"`
	Ayanamsha     float64      `json:"ayanamsha"`
	Ascendant     float64      `json:"ascendant"`
	AscendantSign string       `json:"ascendant_sign"`
	Planets       []jsonPlanet `json:"planets"`
}

type jsonPlanet struct {
	Body          string  `json:"body"`
	Longitude     float64 `json:"longitude"`
	Sign          string  `json:"sign"`
	Degree        float64 `json:"degree"`
	House         int     `json:"house"`
	NatalHouse    int     `json:"natal_house,omitempty"`
	Retrograde    bool    `json:"retrograde"`
	Nakshatra     string  `json:"nakshatra"`
	NakshatraLord string  `json:"nakshatra_lord"`
}

type jsonPeriod struct {
	Lord    string  `json:"lord"`
	Level   string  `json:"level"`
	Start   string  `json:"start"`
	End     string  `json:"end"`
	Years   float64 `json:"years"`
	Balance bool    `json:"balance,omitempty"`
}

type jsonContext struct {
	At         string     `json:"at"`
	Mahadasha  jsonPeriod `json:"mahadasha"`
	Antardasha jsonPeriod `json:"antardasha"`
}

type jsonDasha struct {
	BirthNakshatra     string       `json:"birth_nakshatra"`
	BirthNakshatraLord string       `json:"birth_nakshatra_lord"`
	Mahadashas         []jsonPeriod `json:"mahadashas"`
	Current            *jsonContext `json:"current,omitempty"`
	Antardashas        []jsonPeriod `json:"antardashas,omitempty"`
}

type jsonRelation struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Kind     string  `json:"kind"`
	Offset   int     `json:"offset"`
	Strength float64 `json:"strength"`
}

type jsonCasting struct {
	Body   string `json:"body"`
	House  int    `json:"house"`
	Houses []int  `json:"houses"`
}

type jsonHouse struct {
	House      int      `json:"house"`
	Sign       string   `json:"sign"`
	Lord       string   `json:"lord"`
	Transiting []string `json:"transiting"`
	Natal      []string `json:"natal"`
	Aspects    int      `json:"aspects"`
	Strength   float64  `json:"strength"`
	Band       string   `json:"band"`
}

type jsonRecord struct {
	Kind        string `json:"kind"`
	Weight      int    `json:"weight"`
	Body        string `json:"body"`
	Sign        string `json:"sign"`
	House       int    `json:"house"`
	Retrograde  bool   `json:"retrograde"`
	Target      string `json:"target,omitempty"`
	TargetHouse int    `json:"target_house,omitempty"`
	Aspect      string `json:"aspect,omitempty"`
	Offset      int    `json:"offset,omitempty"`
	Text        string `json:"text"`
}

type jsonPredictions struct {
	Context jsonContext  `json:"dasha_context"`
	Highest []jsonRecord `json:"highest"`
	High    []jsonRecord `json:"high"`
	General []jsonRecord `json:"general"`
}

// Render implements Format.
func (r *JSONReport) Render(doc *Document) (string, error) {
	if err := checkDocument(doc); err != nil {
		return "", err
	}
	cat := r.Catalog
	if cat == nil {
		cat = meaning.Default()
	}

	out := jsonOutput{Title: doc.Title}
	if doc.Sections.Has(SectionNatal) {
		out.Natal = toJSONChart(doc.Natal, nil)
	}
	if doc.Sections.Has(SectionTransit) {
		out.Transit = toJSONChart(doc.Transit, doc.Natal)
	}
	if doc.Sections.Has(SectionDasha) {
		d := doc.Dasha
		jd := &jsonDasha{
			BirthNakshatra:     d.BirthNakshatra.String(),
			BirthNakshatraLord: d.BirthNakshatra.Lord().String(),
			Mahadashas:         toJSONPeriods(d.Mahadashas),
		}
		if d.Current != nil {
			c := toJSONContext(*d.Current)
			jd.Current = &c
			jd.Antardashas = toJSONPeriods(d.Antardashas)
		}
		out.Dasha = jd
	}
	if doc.Sections.Has(SectionAspects) {
		out.Aspects = make([]jsonRelation, 0, len(doc.Relations))
		for _, rel := range doc.Relations {
			out.Aspects = append(out.Aspects, jsonRelation{
				Source:   rel.Source.String(),
				Target:   rel.Target.String(),
				Kind:     rel.Kind.String(),
				Offset:   rel.Offset,
				Strength: rel.Strength,
			})
		}
		for _, c := range doc.Castings {
			out.Castings = append(out.Castings, jsonCasting{Body: c.Body.String(), House: c.House, Houses: emptyIfNilInts(c.Houses)})
		}
	}
	if doc.Sections.Has(SectionHouses) {
		out.Houses = make([]jsonHouse, 0, len(doc.Houses))
		for _, h := range doc.Houses {
			out.Houses = append(out.Houses, jsonHouse{
				House:      h.House,
				Sign:       h.Sign.String(),
				Lord:       meaning.SignLord(h.Sign).String(),
				Transiting: bodyNames(h.Transiting),
				Natal:      bodyNames(h.Natal),
				Aspects:    h.Aspects,
				Strength:   h.Strength,
				Band:       h.Band.String(),
			})
		}
	}
	if doc.Sections.Has(SectionPredictions) {
		set := doc.Predictions
		out.Predictions = &jsonPredictions{
			Context: toJSONContext(set.Context()),
			Highest: toJSONRecords(set.Tier(predict.Highest), cat),
			High:    toJSONRecords(set.Tier(predict.High), cat),
			General: toJSONRecords(set.Tier(predict.General), cat),
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON report: %w", err)
	}
	return string(data) + "\n", nil
}

func toJSONChart(c *chart.Chart, frame *chart.Chart) *jsonChart {
	loc := c.Location()
	jc := &jsonChart{
		Instant:       c.Instant().Format(time.RFC3339),
		Latitude:      loc.Latitude,
		Longitude:     loc.Longitude,
		AyanamshaMode: c.Mode().String(),
		Ayanamsha:     c.Ayanamsha(),
		Ascendant:     c.Ascendant(),
		AscendantSign: c.AscendantSign().String(),
	}
	for _, p := range c.Positions() {
		jp := jsonPlanet{
			Body:          p.Body.String(),
			Longitude:     p.Longitude,
			Sign:          p.Sign.String(),
			Degree:        p.Degree,
			House:         p.House,
			Retrograde:    p.Retrograde,
			Nakshatra:     p.Nakshatra.String(),
			NakshatraLord: p.NakshatraLord.String(),
		}
		if frame != nil {
			jp.NatalHouse = frame.HouseOf(p.Sign)
		}
		jc.Planets = append(jc.Planets, jp)
	}
	return jc
}

func toJSONPeriod(p dasha.Period) jsonPeriod {
	return jsonPeriod{
		Lord:    p.Lord.String(),
		Level:   p.Level.String(),
		Start:   p.Start.Format(time.RFC3339),
		End:     p.End.Format(time.RFC3339),
		Years:   p.Years,
		Balance: p.Balance,
	}
}

func toJSONPeriods(ps []dasha.Period) []jsonPeriod {
	out := make([]jsonPeriod, 0, len(ps))
	for _, p := range ps {
		out = append(out, toJSONPeriod(p))
	}
	return out
}

func toJSONContext(c dasha.Context) jsonContext {
	return jsonContext{
		At:         c.At.Format(time.RFC3339),
		Mahadasha:  toJSONPeriod(c.Mahadasha),
		Antardasha: toJSONPeriod(c.Antardasha),
	}
}

func toJSONRecords(rs []predict.Record, cat *meaning.Catalog) []jsonRecord {
	out := make([]jsonRecord, 0, len(rs))
	for _, r := range rs {
		jr := jsonRecord{
			Kind:       r.Kind.String(),
			Weight:     r.Weight(),
			Body:       r.Body.String(),
			Sign:       r.Sign.String(),
			House:      r.House,
			Retrograde: r.Retrograde,
			Text:       Describe(r, cat),
		}
		if r.Kind == predict.AspectRecord {
			jr.Target = r.Target.String()
			jr.TargetHouse = r.TargetHouse
			jr.Aspect = r.Aspect.String()
			jr.Offset = r.Offset
		}
		out = append(out, jr)
	}
	return out
}

// emptyIfNilInts returns an empty slice for nil so JSON renders [] rather
// than null.
func emptyIfNilInts(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
