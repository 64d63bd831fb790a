package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"github.com/papapumpkin/skyview/internal/chart"
	"github.com/papapumpkin/skyview/internal/dasha"
	"github.com/papapumpkin/skyview/internal/meaning"
	"github.com/papapumpkin/skyview/internal/predict"
)

const (
	colorAccent  = lipgloss.Color("#7D56F4")
	colorHighest = lipgloss.Color("#FF5F87")
	colorHigh    = lipgloss.Color("#FFAF00")
	colorMuted   = lipgloss.Color("#767676")
	colorCurrent = lipgloss.Color("#5FD75F")
)

// TextReport renders a document as styled terminal text.
type TextReport struct {
	Color   bool
	Catalog *meaning.Catalog
}

type textStyles struct {
	r       *lipgloss.Renderer
	title   lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	current lipgloss.Style
	tiers   map[predict.Tier]lipgloss.Style
}

func newTextStyles(color bool) textStyles {
	r := lipgloss.NewRenderer(io.Discard)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return textStyles{
		r:       r,
		title:   r.NewStyle().Bold(true).Foreground(colorAccent),
		heading: r.NewStyle().Bold(true).Foreground(colorAccent).MarginTop(1),
		muted:   r.NewStyle().Foreground(colorMuted),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		current: r.NewStyle().Padding(0, 1).Bold(true).Foreground(colorCurrent),
		tiers: map[predict.Tier]lipgloss.Style{
			predict.Highest: r.NewStyle().Bold(true).Foreground(colorHighest),
			predict.High:    r.NewStyle().Bold(true).Foreground(colorHigh),
			predict.General: r.NewStyle().Bold(true),
		},
	}
}

// Render implements Format.
func (t *TextReport) Render(doc *Document) (string, error) {
	if err := checkDocument(doc); err != nil {
		return "", err
	}
	cat := t.Catalog
	if cat == nil {
		cat = meaning.Default()
	}
	st := newTextStyles(t.Color)

	var sb strings.Builder
	if doc.Title != "" {
		sb.WriteString(st.title.Render(doc.Title) + "\n")
	}
	if doc.Sections.Has(SectionNatal) {
		writeChart(&sb, st, cat, "Natal chart", doc.Natal, nil)
	}
	if doc.Sections.Has(SectionTransit) {
		writeChart(&sb, st, cat, "Transits", doc.Transit, doc.Natal)
	}
	if doc.Sections.Has(SectionDasha) {
		writeDasha(&sb, st, doc.Dasha)
	}
	if doc.Sections.Has(SectionAspects) {
		writeAspects(&sb, st, doc)
	}
	if doc.Sections.Has(SectionHouses) {
		writeHouses(&sb, st, cat, doc)
	}
	if doc.Sections.Has(SectionPredictions) {
		writePredictions(&sb, st, cat, doc.Predictions)
	}
	return sb.String(), nil
}

func (st textStyles) table(headers []string, rows [][]string, highlight func(row int) bool) string {
	tb := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.header
			case highlight != nil && highlight(row):
				return st.current
			default:
				return st.cell
			}
		})
	return tb.String() + "\n"
}

// writeChart renders one chart. A non-nil frame adds a column with houses
// counted from frame's ascendant.
func writeChart(sb *strings.Builder, st textStyles, cat *meaning.Catalog, title string, c *chart.Chart, frame *chart.Chart) {
	sb.WriteString(st.heading.Render(title) + "\n")
	loc := c.Location()
	fmt.Fprintf(sb, "%s  (%.4f, %.4f)  %s ayanamsha %.4f°\n",
		c.Instant().Format("2006-01-02 15:04 MST"), loc.Latitude, loc.Longitude, c.Mode(), c.Ayanamsha())

	asc := c.AscendantSign()
	fmt.Fprintf(sb, "Ascendant: %s %.2f°", asc, c.Ascendant()-float64(asc)*30)
	if frame == nil {
		if s, ok := cat.Sign(asc); ok {
			sb.WriteString("  " + st.muted.Render(s.Rising))
		}
	}
	sb.WriteString("\n")

	headers := []string{"Planet", "Sign", "Degree", "House", "Nakshatra", "Lord", "R"}
	if frame != nil {
		headers = append(headers, "Natal house")
	}
	var rows [][]string
	for _, p := range c.Positions() {
		row := []string{
			p.Body.String(),
			p.Sign.String(),
			fmt.Sprintf("%.2f°", p.Degree),
			fmt.Sprint(p.House),
			p.Nakshatra.String(),
			p.NakshatraLord.String(),
			retroMark(p.Retrograde),
		}
		if frame != nil {
			row = append(row, fmt.Sprint(frame.HouseOf(p.Sign)))
		}
		rows = append(rows, row)
	}
	sb.WriteString(st.table(headers, rows, nil))
}

func writeDasha(sb *strings.Builder, st textStyles, d *DashaSection) {
	sb.WriteString(st.heading.Render("Vimshottari Dasha") + "\n")
	fmt.Fprintf(sb, "Birth nakshatra: %s (%s)\n", d.BirthNakshatra, d.BirthNakshatra.Lord())

	var current *dasha.Period
	if d.Current != nil {
		current = &d.Current.Mahadasha
	}
	sb.WriteString(st.periodTable(d.Mahadashas, current))

	if d.Current == nil {
		return
	}
	fmt.Fprintf(sb, "\nAntardashas of %s Mahadasha (at %s)\n",
		d.Current.Mahadasha.Lord, d.Current.At.Format(time.DateOnly))
	sb.WriteString(st.periodTable(d.Antardashas, &d.Current.Antardasha))
	fmt.Fprintf(sb, "%s Mahadasha ends %s; %s Antardasha ends %s\n",
		d.Current.Mahadasha.Lord, until(d.Current.At, d.Current.Mahadasha.End),
		d.Current.Antardasha.Lord, until(d.Current.At, d.Current.Antardasha.End))
}

// until formats end as a date plus its distance from at.
func until(at, end time.Time) string {
	return fmt.Sprintf("%s (%s)", end.Format(time.DateOnly), humanize.RelTime(end, at, "ago", "from now"))
}

func (st textStyles) periodTable(periods []dasha.Period, current *dasha.Period) string {
	rows := make([][]string, 0, len(periods))
	for _, p := range periods {
		lord := p.Lord.String()
		if p.Balance {
			lord += " (balance)"
		}
		mark := ""
		if isCurrent(p, current) {
			mark = "◀ current"
		}
		rows = append(rows, []string{
			lord,
			p.Start.Format(time.DateOnly),
			p.End.Format(time.DateOnly),
			fmt.Sprintf("%.2f", p.Years),
			mark,
		})
	}
	return st.table([]string{"Lord", "Start", "End", "Years", ""}, rows, func(row int) bool {
		return row >= 0 && row < len(periods) && isCurrent(periods[row], current)
	})
}

func isCurrent(p dasha.Period, current *dasha.Period) bool {
	return current != nil && p.Lord == current.Lord && p.Start.Equal(current.Start)
}

func writeAspects(sb *strings.Builder, st textStyles, doc *Document) {
	sb.WriteString(st.heading.Render("Transit aspects") + "\n")
	if len(doc.Relations) == 0 {
		sb.WriteString(st.muted.Render("No aspects at this time.") + "\n")
	} else {
		rows := make([][]string, 0, len(doc.Relations))
		for _, r := range doc.Relations {
			reach := "same sign"
			if r.Offset > 0 {
				reach = Ordinal(r.Offset+1) + " sign"
			}
			rows = append(rows, []string{r.Source.String(), r.Target.String(), r.Kind.String(), reach, fmt.Sprintf("%.0f", r.Strength)})
		}
		sb.WriteString(st.table([]string{"Transit", "Natal", "Kind", "Reach", "Strength"}, rows, nil))
	}

	if len(doc.Castings) > 0 {
		sb.WriteString("\nDrishti cast by transiting planets\n")
		rows := make([][]string, 0, len(doc.Castings))
		for _, c := range doc.Castings {
			rows = append(rows, []string{c.Body.String(), fmt.Sprint(c.House), strings.Join(ints(c.Houses), ", ")})
		}
		sb.WriteString(st.table([]string{"Planet", "From house", "Houses aspected"}, rows, nil))
	}
}

func writeHouses(sb *strings.Builder, st textStyles, cat *meaning.Catalog, doc *Document) {
	sb.WriteString(st.heading.Render("House activity") + "\n")
	rows := make([][]string, 0, len(doc.Houses))
	for _, h := range doc.Houses {
		info, _ := cat.House(h.House)
		rows = append(rows, []string{
			fmt.Sprint(h.House),
			h.Sign.String(),
			meaning.SignLord(h.Sign).String(),
			strings.Join(bodyNames(h.Transiting), ", "),
			strings.Join(bodyNames(h.Natal), ", "),
			fmt.Sprintf("%.0f", h.Strength),
			h.Band.String(),
			info.Short,
		})
	}
	sb.WriteString(st.table([]string{"House", "Sign", "Lord", "Transiting", "Natal", "Strength", "Activity", "Meaning"}, rows, nil))
}

func writePredictions(sb *strings.Builder, st textStyles, cat *meaning.Catalog, set *predict.Set) {
	sb.WriteString(st.heading.Render("Dasha-weighted predictions") + "\n")
	ctx := set.Context()
	fmt.Fprintf(sb, "Mahadasha:  %s (%s to %s)\n", ctx.Mahadasha.Lord,
		ctx.Mahadasha.Start.Format(time.DateOnly), ctx.Mahadasha.End.Format(time.DateOnly))
	fmt.Fprintf(sb, "Antardasha: %s (%s to %s)\n", ctx.Antardasha.Lord,
		ctx.Antardasha.Start.Format(time.DateOnly), ctx.Antardasha.End.Format(time.DateOnly))

	titles := map[predict.Tier]string{
		predict.Highest: "Highest priority: Mahadasha lord " + ctx.Mahadasha.Lord.String(),
		predict.High:    "High priority: Antardasha lord " + ctx.Antardasha.Lord.String(),
		predict.General: "General transits",
	}
	for _, tier := range predict.Tiers() {
		sb.WriteString("\n" + st.tiers[tier].Render(titles[tier]) + "\n")
		records := set.Tier(tier)
		if len(records) == 0 {
			sb.WriteString(st.muted.Render("  nothing in this tier") + "\n")
			continue
		}
		for _, r := range records {
			indent := "  • "
			if r.Kind == predict.AspectRecord {
				indent = "      "
			}
			sb.WriteString(indent + Describe(r, cat) + "\n")
		}
	}
}

func retroMark(r bool) string {
	if r {
		return "R"
	}
	return ""
}
