package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"stationport/internal/models"
	"stationport/internal/shared"
	"stationport/internal/tasks"
)

// reportToRun converts a terminal report into a persistable run row.
func reportToRun(report *tasks.ImportReport, name string, threshold float64) *models.ImportRun {
	return &models.ImportRun{
		RunID:             shared.GenerateID(),
		PlaylistName:      name,
		CreatedPlaylistID: report.CreatedPlaylistID,
		Requested:         report.Requested,
		Matched:           report.Matched,
		Added:             report.AddedCount,
		Threshold:         threshold,
		Phase:             report.Phase.String(),
		CreatedAt:         time.Now().UTC(),
	}
}

// HistoryList prints recent import runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeDB()

	runs, err := repo.List(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		r.writePlain("No runs recorded yet.\n")
		return nil
	}

	r.writePlainHeader("Import Runs")
	for _, run := range runs {
		r.writePlain("%s  %s\n", run.CreatedAt.Format(time.DateTime), run.PlaylistName)
		r.writePlain("    id=%s phase=%s matched=%d/%d added=%d threshold=%.0f\n",
			run.RunID, run.Phase, run.Matched, run.Requested, run.Added, run.Threshold)
	}

	return nil
}

// HistoryUnmatched prints a run's unmatched entries with their best scores.
func (r *Runner) HistoryUnmatched(ctx context.Context, cmd *cli.Command) error {
	runID := cmd.StringArg("run-id")
	if runID == "" {
		return fmt.Errorf("%w: run id", shared.ErrMissingArgument)
	}

	repo, closeDB, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeDB()

	run, err := repo.Get(runID)
	if err != nil {
		return err
	}

	entries, err := repo.UnmatchedFor(runID)
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Unmatched in %s", run.PlaylistName))
	if len(entries) == 0 {
		r.writePlain("Every entry matched.\n")
		return nil
	}

	for i, entry := range entries {
		r.writePlain("  %d. %s (%.2f)\n", i+1, entry.Entry, entry.BestScore)
	}

	return nil
}
