package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"disability-jobs/internal/app"
	"disability-jobs/internal/config"
	"disability-jobs/internal/database/seeder"
	"disability-jobs/internal/logging"
	"disability-jobs/internal/scheduler"

	"github.com/spf13/cobra"
)

var errSyncFailed = errors.New("sync failed")

// withContainer loads config, connects every dependency and runs fn with a
// context cancelled on SIGINT/SIGTERM.
func withContainer(cmd *cobra.Command, migrate bool, fn func(ctx context.Context, c *app.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Warn().Err(err).Msg("close container")
		}
	}()

	if migrate {
		if err := c.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return fn(ctx, c)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one full sync from data.go.kr",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, true, func(ctx context.Context, c *app.Container) error {
				res := c.Sync.Run(ctx)
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
				if !res.Success {
					return fmt.Errorf("%w: %s", errSyncFailed, res.Error)
				}
				return nil
			})
		},
	}
}

func newGeocodePendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "geocode-pending",
		Short: "Geocode one batch of companies still marked PENDING",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, true, func(ctx context.Context, c *app.Container) error {
				res, err := c.Sweep.Run(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newGeocodeBatchCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "geocode-batch",
		Short: "Geocode companies without coordinates",
		Long:  "Geocodes a batch of companies that have no coordinates. With --reset every stored coordinate is cleared first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, true, func(ctx context.Context, c *app.Container) error {
				res, err := c.GeocodeUC.Batch(ctx, reset)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "clear all coordinates before geocoding")
	return cmd
}

func newScheduleCmd() *cobra.Command {
	var noInitial bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the cron trigger for sync and the pending-geocode sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, true, func(ctx context.Context, c *app.Container) error {
				cfg := schedulerConfig(c.Config.Sync, noInitial)
				s, err := scheduler.New(c.Sync, c.Sweep, cfg, c.Logger)
				if err != nil {
					return err
				}
				if err := s.Start(ctx); err != nil {
					return err
				}
				<-ctx.Done()
				s.Stop()
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noInitial, "no-initial", false, "skip the sync that runs shortly after start")
	return cmd
}

func schedulerConfig(sc config.SyncConfig, noInitial bool) scheduler.Config {
	cfg := scheduler.Config{
		SyncSpec:     sc.CronSync,
		SweepSpec:    sc.CronGeocodePending,
		TimeZone:     sc.CronTimeZone,
		InitialDelay: sc.InitialRunDelay,
	}
	if noInitial {
		cfg.InitialDelay = -1
	}
	return cfg
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, true, func(ctx context.Context, c *app.Container) error {
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample companies and jobs for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, true, func(ctx context.Context, c *app.Container) error {
				r := seeder.Runner{
					Seeders: seeder.Defaults(c.DB, c.Companies, c.Jobs),
					Logger:  c.Logger,
				}
				if err := r.Run(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
				return nil
			})
		},
	}
}
