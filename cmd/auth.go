package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"stationport/internal/shared"
)

// authenticate establishes the AudioStation session, resuming a challenged
// login with the supplied one-time password when present.
func (r *Runner) authenticate(ctx context.Context, otp string) error {
	err := r.station.Login(ctx)
	if err == nil {
		return nil
	}

	if errors.Is(err, shared.ErrOTPRequired) {
		if otp == "" {
			return err
		}
		r.logger.Info("login challenged, retrying with one-time password")
		return r.station.LoginOTP(ctx, otp)
	}

	return err
}

// Login verifies the configured credentials yield a usable session.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	if r.config.AudioStation.Host == "" {
		return fmt.Errorf("%w: audiostation host", shared.ErrMissingConfig)
	}

	if err := r.authenticate(ctx, cmd.String("otp")); err != nil {
		return err
	}

	r.logger.Info("login succeeded", "host", r.config.AudioStation.Host)
	r.writePlain("✓ Logged in to %s (session %s)\n", r.config.AudioStation.Host, r.station.SessionID())
	return nil
}
