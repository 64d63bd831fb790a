package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/skyview/internal/aspect"
	"github.com/papapumpkin/skyview/internal/chart"
	"github.com/papapumpkin/skyview/internal/config"
	"github.com/papapumpkin/skyview/internal/dasha"
	"github.com/papapumpkin/skyview/internal/ephemeris"
	"github.com/papapumpkin/skyview/internal/logging"
	"github.com/papapumpkin/skyview/internal/predict"
	"github.com/papapumpkin/skyview/internal/profile"
	"github.com/papapumpkin/skyview/internal/report"
	"github.com/papapumpkin/skyview/internal/skyerr"
	"github.com/papapumpkin/skyview/internal/zodiac"
)

// needsTransit lists the sections computed from a transit chart.
const needsTransit = report.SectionTransit | report.SectionAspects | report.SectionHouses | report.SectionPredictions

// session is one loaded profile and ephemeris with the natal chart and
// Dasha sequence already built.
type session struct {
	cfg     config.Config
	profile *profile.Profile
	table   *ephemeris.Table
	builder *chart.Builder
	natal   *chart.Chart
	seq     *dasha.Sequence
	log     zerolog.Logger
}

func openSession(cfg config.Config) (*session, error) {
	log := logging.With().Str("component", "session").Logger()

	p, err := profile.Load(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}
	tbl, err := ephemeris.LoadTable(cfg.EphemerisPath)
	if err != nil {
		return nil, err
	}
	first, last := tbl.Range()
	log.Debug().
		Str("profile", p.Name).
		Str("table", tbl.Name()).
		Int("snapshots", tbl.Len()).
		Time("from", first).
		Time("to", last).
		Msg("inputs loaded")

	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}
	hs, err := cfg.Houses()
	if err != nil {
		return nil, err
	}
	b := chart.NewBuilder(tbl, chart.WithMode(mode), chart.WithHouseSystem(hs), chart.WithLogger(log))

	birth, err := p.Instant()
	if err != nil {
		return nil, err
	}
	natal, err := b.Build(birth, p.Location())
	if err != nil {
		return nil, fmt.Errorf("natal chart: %w", err)
	}
	moon, ok := natal.Position(zodiac.Moon)
	if !ok {
		return nil, skyerr.Missing("session.open", "Moon", "natal chart has no Moon")
	}
	seq, err := dasha.NewSequence(moon.Longitude, birth)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("nakshatra", seq.BirthNakshatra().String()).
		Float64("balance_years", seq.BalanceYears()).
		Msg("dasha sequence started")

	return &session{cfg: cfg, profile: p, table: tbl, builder: b, natal: natal, seq: seq, log: log}, nil
}

func (s *session) title() string {
	if s.profile.Name != "" {
		return "skyview · " + s.profile.Name
	}
	return "skyview"
}

// document computes what the requested sections need at the transit
// instant at.
func (s *session) document(sections report.Section, at time.Time) (*report.Document, error) {
	doc := &report.Document{
		Title:    s.title(),
		Sections: sections,
		Natal:    s.natal,
	}

	if sections&needsTransit != 0 {
		transit, err := s.builder.Build(at, s.profile.Location())
		if err != nil {
			return nil, fmt.Errorf("transit chart: %w", err)
		}
		doc.Transit = transit
	}

	var ctx *dasha.Context
	if sections&(report.SectionDasha|report.SectionPredictions) != 0 {
		c, err := dasha.Resolve(s.seq, at)
		switch {
		case err == nil:
			ctx = &c
		case errors.Is(err, skyerr.ErrNoContainingPeriod) && !sections.Has(report.SectionPredictions):
			s.log.Warn().Time("at", at).Msg("instant precedes birth, no current period")
		default:
			return nil, err
		}
	}

	if sections.Has(report.SectionDasha) {
		d, err := s.dashaSection(ctx, at)
		if err != nil {
			return nil, err
		}
		doc.Dasha = d
	}
	if sections&(report.SectionAspects|report.SectionHouses) != 0 {
		doc.Relations = aspect.Compute(doc.Transit, s.natal)
		doc.Houses = aspect.Aggregate(doc.Relations, doc.Transit, s.natal)
		doc.Castings = aspect.Cast(doc.Transit)
	}
	if sections.Has(report.SectionPredictions) {
		set, err := predict.Compose(s.natal, doc.Transit, *ctx)
		if err != nil {
			return nil, err
		}
		s.log.Debug().
			Str("mahadasha", ctx.Mahadasha.Lord.String()).
			Str("antardasha", ctx.Antardasha.Lord.String()).
			Int("records", set.Len()).
			Msg("predictions composed")
		doc.Predictions = set
	}
	return doc, nil
}

// dashaSection lists cycles_shown full cycles of Mahadashas, extended to
// reach the current one.
func (s *session) dashaSection(ctx *dasha.Context, at time.Time) (*report.DashaSection, error) {
	n := s.cfg.Dasha.CyclesShown * len(zodiac.LordOrder())
	mahas, err := s.seq.Periods(n)
	if err != nil {
		return nil, err
	}
	if ctx != nil && mahas[len(mahas)-1].End.Before(at) {
		if mahas, err = s.seq.Through(at); err != nil {
			return nil, err
		}
	}
	d := &report.DashaSection{
		BirthNakshatra: s.seq.BirthNakshatra(),
		Mahadashas:     mahas,
		Current:        ctx,
	}
	if ctx != nil {
		if d.Antardashas, err = dasha.Expand(ctx.Mahadasha); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// transitInstant resolves --at, then the profile's pinned transit, then now.
func transitInstant(cmd *cobra.Command, p *profile.Profile, now time.Time) (time.Time, error) {
	at, _ := cmd.Flags().GetString("at")
	if at == "" {
		return p.TransitInstant(now)
	}
	return parseInstant(at)
}

func parseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, skyerr.Invalid("cmd.parseInstant", s, "want RFC3339 or YYYY-MM-DD")
}

// useColor reports whether w is a terminal and colour is not disabled.
func useColor(cfg config.Config, w io.Writer) bool {
	if cfg.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func writeReport(w io.Writer, cfg config.Config, doc *report.Document) error {
	f, err := report.FormatByName(cfg.Format, report.Options{Color: useColor(cfg, w)})
	if err != nil {
		return err
	}
	out, err := f.Render(doc)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// runReport is the shared body of the report commands.
func runReport(cmd *cobra.Command, sections report.Section) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	at, err := transitInstant(cmd, s.profile, time.Now())
	if err != nil {
		return err
	}
	doc, err := s.document(sections, at)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), cfg, doc)
}
