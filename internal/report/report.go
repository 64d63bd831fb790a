// Package report renders charts, Dasha periods, aspects and predictions as
// styled terminal text or JSON.
package report

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/skyview/internal/aspect"
	"github.com/papapumpkin/skyview/internal/chart"
	"github.com/papapumpkin/skyview/internal/dasha"
	"github.com/papapumpkin/skyview/internal/meaning"
	"github.com/papapumpkin/skyview/internal/predict"
	"github.com/papapumpkin/skyview/internal/skyerr"
	"github.com/papapumpkin/skyview/internal/zodiac"
)

// Section selects a part of the report.
type Section uint8

const (
	SectionNatal Section = 1 << iota
	SectionTransit
	SectionDasha
	SectionAspects
	SectionHouses
	SectionPredictions
)

// Has reports whether s includes every bit of other.
func (s Section) Has(other Section) bool { return s&other == other }

// DashaSection is the Dasha part of a report.
type DashaSection struct {
	BirthNakshatra zodiac.Nakshatra
	Mahadashas     []dasha.Period
	Current        *dasha.Context
	Antardashas    []dasha.Period // Sub-periods of Current.Mahadasha.
}

// Document is everything a report can show. Sections decides what is
// rendered; the matching fields must be set.
type Document struct {
	Title       string
	Sections    Section
	Natal       *chart.Chart
	Transit     *chart.Chart
	Dasha       *DashaSection
	Relations   []aspect.Relation
	Houses      []aspect.HouseActivity
	Castings    []aspect.Casting
	Predictions *predict.Set
}

// Format renders a document.
type Format interface {
	Render(doc *Document) (string, error)
}

// Options configures the formats returned by FormatByName.
type Options struct {
	Color   bool
	Catalog *meaning.Catalog
}

// FormatByName returns the Format for name. Supported names: text, json.
func FormatByName(name string, opts Options) (Format, error) {
	cat := opts.Catalog
	if cat == nil {
		cat = meaning.Default()
	}
	switch strings.ToLower(name) {
	case "", "text":
		return &TextReport{Color: opts.Color, Catalog: cat}, nil
	case "json":
		return &JSONReport{Catalog: cat}, nil
	default:
		return nil, fmt.Errorf("unknown report format: %q", name)
	}
}

// FormatNames returns the supported format names.
func FormatNames() []string {
	return []string{"text", "json"}
}

func checkDocument(doc *Document) error {
	const op = "report.Render"
	if doc == nil {
		return skyerr.Invalid(op, "document", "document is nil")
	}
	switch {
	case doc.Sections.Has(SectionNatal) && doc.Natal == nil:
		return skyerr.Invalid(op, "natal", "section requested without a natal chart")
	case doc.Sections.Has(SectionTransit) && doc.Transit == nil:
		return skyerr.Invalid(op, "transit", "section requested without a transit chart")
	case doc.Sections.Has(SectionDasha) && doc.Dasha == nil:
		return skyerr.Invalid(op, "dasha", "section requested without periods")
	case doc.Sections.Has(SectionPredictions) && doc.Predictions == nil:
		return skyerr.Invalid(op, "predictions", "section requested without predictions")
	}
	return nil
}

// Describe renders one prediction record as a sentence.
func Describe(r predict.Record, cat *meaning.Catalog) string {
	planet, _ := cat.Planet(r.Body)
	var sb strings.Builder

	switch r.Kind {
	case predict.TransitRecord:
		house, _ := cat.House(r.House)
		fmt.Fprintf(&sb, "%s transits %s in house %d: %s.", r.Body, r.Sign, r.House, house.Short)
		switch r.Tier {
		case predict.Highest:
			fmt.Fprintf(&sb, " As Mahadasha lord its themes are strongly active: %s.", strings.Join(planet.Themes, ", "))
		case predict.High:
			fmt.Fprintf(&sb, " As Antardasha lord it activates %s.", strings.Join(firstN(planet.Themes, 3), ", "))
		}
		if r.Retrograde {
			sb.WriteString(" Retrograde.")
		}

	case predict.AspectRecord:
		if r.Aspect == aspect.Conjunction {
			fmt.Fprintf(&sb, "%s conjoins natal %s in house %d.", r.Body, r.Target, r.TargetHouse)
		} else {
			fmt.Fprintf(&sb, "%s aspects natal %s in house %d (%s sign).", r.Body, r.Target, r.TargetHouse, Ordinal(r.Offset+1))
		}
		switch r.Tier {
		case predict.Highest:
			sb.WriteString(" This touches your natal Mahadasha lord.")
		case predict.High:
			sb.WriteString(" This touches your natal Antardasha lord.")
		}
	}
	return sb.String()
}

// Ordinal formats n as 1st, 2nd, 3rd, 4th and so on.
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func firstN(s []string, n int) []string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func bodyNames(bs []zodiac.Body) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.String()
	}
	return out
}

func ints(ns []int) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = fmt.Sprint(n)
	}
	return out
}
