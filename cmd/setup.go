package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"stationport/internal/shared"
)

// SetupConfig writes the embedded example configuration to disk.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("Wrote %s — fill in your AudioStation credentials.\n", path)
	return nil
}

// SetupDatabase initializes the run-history database schema.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	_, closeDB, err := r.openHistory()
	if err != nil {
		return err
	}
	defer closeDB()

	r.logger.Info("database initialized", "path", r.config.Database.Path)
	r.writePlain("Database ready at %s\n", r.config.Database.Path)
	return nil
}
