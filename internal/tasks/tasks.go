package tasks

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"stationport/internal/catalog"
	"stationport/internal/match"
	"stationport/internal/models"
	"stationport/internal/services"
)

// ImportReport is the terminal artifact of one reconciliation run.
type ImportReport struct {
	Requested         int                     // Input entries submitted
	Matched           int                     // Catalog ids resolved (duplicates preserved)
	Unmatched         []models.UnmatchedEntry // Entries that failed both orientations, with best scores
	CreatedPlaylistID string                  // Remote playlist id, set once Creating succeeds
	AddedCount        int                     // Songs submitted to the playlist
	Phase             Phase                   // Terminal phase: Done or Failed
	Err               error                   // Populated when Phase is Failed
}

// Engine orchestrates the reconciliation pipeline: fetch the catalog once,
// score every input entry against the snapshot, then create and populate
// the destination playlist.
type Engine struct {
	client   services.CatalogClient
	cache    *catalog.Cache
	pageSize int
	workers  int
}

// EngineOpts contains configuration options for creating an Engine.
type EngineOpts struct {
	PageSize int // Catalog rows per page request; defaults to 500
	Workers  int // Matching workers; defaults to one per available CPU
}

// NewEngine creates an Engine backed by the given catalog client.
func NewEngine(client services.CatalogClient, opts EngineOpts) *Engine {
	if opts.PageSize <= 0 {
		opts.PageSize = 500
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	return &Engine{
		client:   client,
		cache:    catalog.NewCache(client),
		pageSize: opts.PageSize,
		workers:  opts.Workers,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks the
// run; safe to call from concurrent matching workers.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Import runs the full pipeline for the given entries and returns the
// report. Phases run strictly sequentially; the first failure is terminal.
//
// The destination playlist is created only when at least one entry matched;
// a zero-match run never mutates remote state. Matched ids are submitted in
// input order and duplicates are preserved: two references resolving to the
// same catalog song are added twice. Re-invoking Import after a failure is
// not idempotent once Creating has succeeded.
func (e *Engine) Import(ctx context.Context, entries []models.SongEntry, playlistName string, threshold float64, progress chan<- ProgressUpdate) *ImportReport {
	report := &ImportReport{Requested: len(entries), Phase: Idle}

	fail := func(err error) *ImportReport {
		report.Phase = Failed
		report.Err = err
		return report
	}

	// Fetching
	report.Phase = Fetching
	e.sendProgress(progress, fetchStartUpdate())

	snapshot, err := e.cache.FetchAll(ctx, e.pageSize, func(fetched, total int) {
		e.sendProgress(progress, fetchPageUpdate(fetched, total))
	})
	if err != nil {
		return fail(&CatalogFetchError{Err: err})
	}
	e.sendProgress(progress, fetchDoneUpdate(len(snapshot)))

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	// Matching: the snapshot is read-only from here on.
	report.Phase = Matching
	e.sendProgress(progress, matchStartUpdate(len(entries)))

	outcomes := e.matchAll(ctx, entries, snapshot, threshold, progress)
	if err := ctx.Err(); err != nil {
		// Discard in-flight and completed matches; nothing was committed.
		return fail(err)
	}

	var matchedIDs []string
	for i, outcome := range outcomes {
		if outcome.result.Matched {
			matchedIDs = append(matchedIDs, outcome.result.CatalogID)
		} else {
			report.Unmatched = append(report.Unmatched, models.UnmatchedEntry{
				Entry:     entries[i],
				BestScore: outcome.bestScore,
			})
		}
	}
	report.Matched = len(matchedIDs)

	if len(matchedIDs) == 0 {
		return fail(ErrNoMatches)
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	// Creating
	report.Phase = Creating
	e.sendProgress(progress, creatingUpdate(playlistName))

	playlistID, err := e.client.CreatePlaylist(ctx, playlistName)
	if err != nil {
		return fail(&PlaylistCreationError{Name: playlistName, Err: err})
	}
	report.CreatedPlaylistID = playlistID
	e.sendProgress(progress, createdUpdate(playlistName, playlistID))

	if err := ctx.Err(); err != nil {
		// The playlist already exists remotely and cannot be retracted.
		return fail(fmt.Errorf("%w: %v", ErrCancelledAfterMutation, err))
	}

	// Populating
	report.Phase = Populating
	if err := e.client.AddSongsToPlaylist(ctx, playlistID, matchedIDs); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fail(fmt.Errorf("%w: %v", ErrCancelledAfterMutation, err))
		}
		return fail(&PopulationError{PlaylistID: playlistID, Err: err})
	}

	report.AddedCount = len(matchedIDs)
	report.Phase = Done
	e.sendProgress(progress, populatedUpdate(len(matchedIDs), playlistID))

	return report
}

type matchOutcome struct {
	result    models.MatchResult
	bestScore float64
}

// matchAll scores every entry against the snapshot using a bounded worker
// pool. Results are written back by input index so the matched-id list and
// unmatched report stay deterministic regardless of completion order. An
// entry that misses is retried with title and artist exchanged, recovering
// references whose raw string had the fields reversed.
func (e *Engine) matchAll(ctx context.Context, entries []models.SongEntry, snapshot []models.CatalogEntry, threshold float64, progress chan<- ProgressUpdate) []matchOutcome {
	outcomes := make([]matchOutcome, len(entries))
	if len(entries) == 0 {
		return outcomes
	}

	workers := e.workers
	if workers > len(entries) {
		workers = len(entries)
	}

	total := len(entries)
	jobs := make(chan int)
	var completed atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				entry := entries[i]

				primary := match.Match(entry.Title, entry.Artist, snapshot, threshold)
				outcome := matchOutcome{result: primary, bestScore: primary.Score}

				if !primary.Matched {
					swapped := match.Match(entry.Artist, entry.Title, snapshot, threshold)
					if swapped.Score > outcome.bestScore {
						outcome.bestScore = swapped.Score
					}
					if swapped.Matched {
						outcome.result = swapped
					}
				}

				outcomes[i] = outcome

				step := int(completed.Add(1))
				if outcome.result.Matched {
					e.sendProgress(progress, matchHitUpdate(step, total, entry, outcome.result.Score))
				} else {
					e.sendProgress(progress, matchMissUpdate(step, total, entry, outcome.bestScore))
				}
			}
		}()
	}

feed:
	for i := range entries {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return outcomes
}
