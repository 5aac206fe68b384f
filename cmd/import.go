package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"stationport/internal/shared"
	"stationport/internal/sources"
	"stationport/internal/tasks"
	"stationport/internal/ui"
)

// ImportRun resolves a playlist reference and runs the full reconciliation
// pipeline against AudioStation.
func (r *Runner) ImportRun(ctx context.Context, cmd *cli.Command) error {
	reference := cmd.StringArg("reference")
	if reference == "" {
		return fmt.Errorf("%w: playlist reference", shared.ErrMissingArgument)
	}

	threshold := float64(cmd.Int("threshold"))

	source, err := sources.Detect(reference)
	if err != nil {
		return err
	}

	r.logger.Info("resolving playlist", "source", source.Name(), "reference", reference)
	r.writePlain("Resolving playlist via %s...\n", source.Name())

	playlist, err := source.Resolve(ctx, reference)
	if err != nil {
		return err
	}

	for _, line := range playlist.Skipped {
		r.logger.Warn("skipped invalid entry", "line", line)
	}

	name := cmd.String("name")
	if name == "" {
		name = playlist.Name
	}

	r.writePlain("Found %q: %d entries (%d skipped)\n", playlist.Name, len(playlist.Entries), len(playlist.Skipped))
	r.writePlain("Destination: %s (threshold %.0f)\n\n", name, threshold)

	if err := r.authenticate(ctx, cmd.String("otp")); err != nil {
		return err
	}

	engine := r.engine
	if pageSize := cmd.Int("page-size"); pageSize > 0 {
		engine = tasks.NewEngine(r.station, tasks.EngineOpts{
			PageSize: pageSize,
			Workers:  r.config.Import.Workers,
		})
	}

	var report *tasks.ImportReport
	if cmd.Bool("ui") {
		report, err = r.runWithUI(ctx, engine, playlist, name, threshold)
	} else {
		report, err = r.runWithPlainProgress(ctx, engine, playlist, name, threshold)
	}
	if err != nil {
		return err
	}

	r.printReport(report, name)

	if !cmd.Bool("no-history") {
		if err := r.recordRun(report, name, threshold); err != nil {
			r.logger.Warn("failed to record run history", "error", err)
		}
	}

	if report.Err != nil {
		return report.Err
	}
	return nil
}

// runWithPlainProgress drives the engine while a goroutine prints progress
// lines to the output writer.
func (r *Runner) runWithPlainProgress(ctx context.Context, engine *tasks.Engine, playlist *sources.Playlist, name string, threshold float64) (*tasks.ImportReport, error) {
	progressCh := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.Fetching:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.Matching:
				r.writePlain("   %s\n", update.Message)
			case tasks.Creating, tasks.Populating:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	report := engine.Import(ctx, playlist.Entries, name, threshold, progressCh)
	close(progressCh)
	<-done

	return report, nil
}

// runWithUI drives the engine on a worker goroutine and renders progress in
// an interactive bubbletea view on the calling goroutine.
func (r *Runner) runWithUI(ctx context.Context, engine *tasks.Engine, playlist *sources.Playlist, name string, threshold float64) (*tasks.ImportReport, error) {
	progressCh := make(chan tasks.ProgressUpdate, 64)
	resultCh := make(chan *tasks.ImportReport, 1)

	go func() {
		report := engine.Import(ctx, playlist.Entries, name, threshold, progressCh)
		close(progressCh)
		resultCh <- report
	}()

	program := tea.NewProgram(ui.NewProgressModel(progressCh))
	if _, err := program.Run(); err != nil {
		return nil, fmt.Errorf("progress UI failed: %w", err)
	}

	return <-resultCh, nil
}

func (r *Runner) printReport(report *tasks.ImportReport, name string) {
	r.writePlain("\n")
	r.writePlainHeader("Import Report")
	r.writePlain("Phase: %s\n", report.Phase)
	r.writePlain("Requested: %d\n", report.Requested)
	r.writePlain("Matched: %d\n", report.Matched)
	if report.CreatedPlaylistID != "" {
		r.writePlain("Playlist: %s (ID: %s)\n", name, report.CreatedPlaylistID)
		r.writePlain("Added: %d\n", report.AddedCount)
	}
	if report.Err != nil {
		r.writePlain("Error: %v\n", report.Err)
	}

	if len(report.Unmatched) > 0 {
		r.writePlain("\nUnmatched entries (best scores for threshold tuning):\n")
		for i, entry := range report.Unmatched {
			r.writePlain("  %d. %s (%.2f)\n", i+1, entry.Entry, entry.BestScore)
		}
	}
}

// recordRun persists the finished run in the history database.
func (r *Runner) recordRun(report *tasks.ImportReport, name string, threshold float64) error {
	repo, closeDB, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeDB()

	run := reportToRun(report, name, threshold)
	return repo.Create(run, report.Unmatched)
}
