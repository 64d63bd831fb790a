package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/skyview/internal/config"
	"github.com/papapumpkin/skyview/internal/journal"
	"github.com/papapumpkin/skyview/internal/logging"
	"github.com/papapumpkin/skyview/internal/predict"
	"github.com/papapumpkin/skyview/internal/profile"
	"github.com/papapumpkin/skyview/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the full reading when the profile or ephemeris changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Duration("every", 0, "also refresh on this interval so transits follow the clock (0 disables)")
	watchCmd.Flags().String("journal", "", "append a JSONL record of every re-render to this file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	every, _ := cmd.Flags().GetDuration("every")
	printer := ui.NewWriter(cmd.ErrOrStderr(), useColor(cfg, cmd.ErrOrStderr()))

	w, err := profile.NewWatcher(cfg.ProfilePath, cfg.EphemerisPath)
	if err != nil {
		return err
	}
	defer w.Stop()
	if err := w.Start(); err != nil {
		return err
	}

	var jr *journal.Journal
	if path, _ := cmd.Flags().GetString("journal"); path != "" {
		if jr, err = journal.Open(path); err != nil {
			return err
		}
		defer jr.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	render := func() error {
		reading, err := renderOnce(cmd, cfg)
		if err != nil {
			_ = jr.Emit(journal.Event{Kind: journal.KindRenderFailed, Error: err.Error()})
			return err
		}
		return jr.Emit(journal.Event{Kind: journal.KindRender, Reading: reading})
	}

	_ = jr.Emit(journal.Event{Kind: journal.KindWatchStart})
	defer func() { _ = jr.Emit(journal.Event{Kind: journal.KindWatchStop}) }()

	if err := render(); err != nil {
		printer.Error(err.Error())
	}
	printer.Watching(w.Files)

	return watchLoop(ctx, w.Changes, every, printer, jr, render)
}

// renderOnce reloads every input, writes a full report and summarizes it.
func renderOnce(cmd *cobra.Command, cfg config.Config) (*journal.Reading, error) {
	s, err := openSession(cfg)
	if err != nil {
		return nil, err
	}
	at, err := transitInstant(cmd, s.profile, time.Now())
	if err != nil {
		return nil, err
	}
	doc, err := s.document(fullReport, at)
	if err != nil {
		return nil, err
	}
	if err := writeReport(cmd.OutOrStdout(), cfg, doc); err != nil {
		return nil, err
	}
	return summarize(doc.Predictions), nil
}

func summarize(set *predict.Set) *journal.Reading {
	ctx := set.Context()
	return &journal.Reading{
		At:         ctx.At,
		Mahadasha:  ctx.Mahadasha.Lord.String(),
		Antardasha: ctx.Antardasha.Lord.String(),
		Highest:    len(set.Tier(predict.Highest)),
		High:       len(set.Tier(predict.High)),
		General:    len(set.Tier(predict.General)),
	}
}

// watchLoop re-renders on every settled change and, when every is positive,
// on each tick. It returns when ctx is done or changes is closed. Render
// failures are reported and the loop keeps going so a half-saved file does
// not end the session.
func watchLoop(ctx context.Context, changes <-chan profile.Change, every time.Duration, printer *ui.Printer, jr *journal.Journal, render func() error) error {
	var tick <-chan time.Time
	if every > 0 {
		t := time.NewTicker(every)
		defer t.Stop()
		tick = t.C
	}
	log := logging.With().Str("component", "watch").Logger()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			printer.ClearScreen()
			if err := render(); err != nil {
				printer.Error(err.Error())
			}
		case ch, ok := <-changes:
			if !ok {
				return nil
			}
			log.Debug().Str("file", ch.File).Stringer("kind", ch.Kind).Msg("file changed")
			_ = jr.Emit(journal.Event{Kind: journal.KindFileChanged, File: ch.File})
			if ch.Kind == profile.ChangeRemoved {
				printer.Warn(fmt.Sprintf("%s was removed; keeping the last report", ch.File))
				continue
			}
			printer.ClearScreen()
			if err := render(); err != nil {
				printer.Error(err.Error())
				continue
			}
			printer.Reloaded(ch.File, time.Now())
		}
	}
}
