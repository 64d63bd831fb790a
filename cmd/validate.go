package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/skyview/internal/ephemeris"
	"github.com/papapumpkin/skyview/internal/meaning"
	"github.com/papapumpkin/skyview/internal/profile"
	"github.com/papapumpkin/skyview/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration, profile and ephemeris table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		printer := ui.NewWriter(cmd.ErrOrStderr(), useColor(cfg, cmd.ErrOrStderr()))
		ok := true
		check := func(label string, err error) {
			printer.Check(label, err)
			if err != nil {
				ok = false
			}
		}

		_, err = meaning.Parse(meaning.Data())
		check("interpretation tables", err)

		p, perr := profile.Load(cfg.ProfilePath)
		check("profile "+cfg.ProfilePath, perr)

		tbl, terr := ephemeris.LoadTable(cfg.EphemerisPath)
		check("ephemeris "+cfg.EphemerisPath, terr)

		if perr == nil && terr == nil {
			check("ephemeris covers birth", covers(tbl, p, nil))
			if at, _ := cmd.Flags().GetString("at"); at != "" || p.Transit != nil {
				check("ephemeris covers transit", covers(tbl, p, cmd))
			}
		}
		if ok {
			_, err := openSession(cfg)
			check("natal chart and dasha sequence", err)
		}

		if !ok {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

// covers checks that the table spans the birth instant, or the transit
// instant when cmd is non-nil.
func covers(tbl *ephemeris.Table, p *profile.Profile, cmd *cobra.Command) error {
	var (
		t   time.Time
		err error
	)
	if cmd == nil {
		t, err = p.Instant()
	} else {
		t, err = transitInstant(cmd, p, time.Now())
	}
	if err != nil {
		return err
	}
	first, last := tbl.Range()
	if t.Before(first) || t.After(last) {
		return fmt.Errorf("%s outside %s to %s", t.Format(time.RFC3339), first.Format(time.RFC3339), last.Format(time.RFC3339))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
