package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"stationport/internal/catalog"
	"stationport/internal/match"
	"stationport/internal/models"
	"stationport/internal/shared"
)

// CatalogFetch caches the full catalog and prints stats without touching
// any playlist. Useful for verifying connectivity and page sizing.
func (r *Runner) CatalogFetch(ctx context.Context, cmd *cli.Command) error {
	if err := r.authenticate(ctx, cmd.String("otp")); err != nil {
		return err
	}

	cache := catalog.NewCache(r.station)

	r.writePlain("Fetching catalog...\n")
	entries, err := cache.FetchAll(ctx, cmd.Int("page-size"), func(fetched, total int) {
		r.writePlain("  %d/%d songs\n", fetched, total)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCatalogIncomplete, err)
	}

	artists := map[string]bool{}
	for _, entry := range entries {
		artists[entry.Artist] = true
	}

	r.writePlainHeader("Catalog")
	r.writePlain("Songs: %d\n", len(entries))
	r.writePlain("Distinct artists: %d\n", len(artists))

	return nil
}

// MatchOne scores a single "title - artist" reference against the catalog,
// reporting both orientations.
func (r *Runner) MatchOne(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("entry")
	if raw == "" {
		return fmt.Errorf("%w: \"title - artist\" entry", shared.ErrMissingArgument)
	}

	entry, err := models.ParseSongEntry(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidEntryFormat, err)
	}

	if err := r.authenticate(ctx, cmd.String("otp")); err != nil {
		return err
	}

	cache := catalog.NewCache(r.station)
	snapshot, err := cache.FetchAll(ctx, r.config.Import.PageSize, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCatalogIncomplete, err)
	}

	threshold := float64(cmd.Int("threshold"))
	result := match.Match(entry.Title, entry.Artist, snapshot, threshold)
	swapped := match.Match(entry.Artist, entry.Title, snapshot, threshold)

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"entry":   entry.String(),
			"primary": result,
			"swapped": swapped,
		}, true)
	}

	r.writePlain("Entry: %s\n", entry)
	r.writePlain("Primary:  matched=%v id=%s score=%.2f\n", result.Matched, result.CatalogID, result.Score)
	r.writePlain("Swapped:  matched=%v id=%s score=%.2f\n", swapped.Matched, swapped.CatalogID, swapped.Score)

	return nil
}
