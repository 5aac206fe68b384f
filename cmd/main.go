package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"stationport/internal/services"
	"stationport/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	station := services.NewAudioStationService(stationOpts(config))

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Station: station,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "stationport",
		Usage:    "Import NetEase / QQ Music / plain-file playlists into Synology AudioStation",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrOTPRequired) {
			logger.Error("second factor required; re-run with --otp <code>")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
