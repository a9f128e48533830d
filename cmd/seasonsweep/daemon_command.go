package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"seasonsweep/internal/daemon"
	"seasonsweep/internal/metrics"
	"seasonsweep/internal/schedule"
	"seasonsweep/internal/sweep"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	var scheduleFlag string
	var listenFlag string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run passes on a schedule",
		Long: `Run in the foreground, sweeping on the configured cron schedule until
interrupted. Scheduled passes are dry runs unless daemon.delete_files is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("schedule") {
				cfg.Daemon.Schedule = strings.TrimSpace(scheduleFlag)
				if err := schedule.Validate(cfg.Daemon.Schedule); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("listen") {
				cfg.Daemon.Listen = strings.TrimSpace(listenFlag)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			trackers, err := sweep.NewTrackers(cfg, logger)
			if err != nil {
				return err
			}
			collector := metrics.NewCollector(true)
			runner, err := sweep.NewRunner(cfg, trackers.Sonarr, trackers.Watch, logger, sweep.WithMetrics(collector))
			if err != nil {
				return err
			}
			d, err := daemon.New(cfg, runner, logger,
				daemon.WithMetricsHandler(collector.Handler()),
				daemon.WithVersion(version),
			)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}

			runCtx := cmd.Context()
			if err := d.Start(runCtx); err != nil {
				return err
			}
			<-runCtx.Done()
			logger.Info("seasonsweep daemon shutting down")
			d.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleFlag, "schedule", "", "Override daemon.schedule (five-field cron expression)")
	cmd.Flags().StringVar(&listenFlag, "listen", "", "Override daemon.listen (empty disables the HTTP server)")
	return cmd
}
