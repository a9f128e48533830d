package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"seasonsweep/internal/cleanup"
	"seasonsweep/internal/metrics"
	"seasonsweep/internal/report"
	"seasonsweep/internal/runlock"
	"seasonsweep/internal/sweep"
	"seasonsweep/internal/timespan"
)

func newTVCommand(ctx *commandContext) *cobra.Command {
	var deleteFiles bool
	var jsonOut bool
	var failFast bool
	var retainFor timespan.Duration

	cmd := &cobra.Command{
		Use:   "tv",
		Short: "Clean up fully watched TV seasons",
		Long: `Select fully watched seasons whose last episode aired longer ago than the
retention period, unmonitor them in Sonarr, and delete their files.

Without --delete-files nothing is changed; the seasons that would be removed
are listed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			lock := runlock.New(cfg.LockPath())
			if err := lock.Acquire(); err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			trackers, err := sweep.NewTrackers(cfg, logger)
			if err != nil {
				return err
			}
			runner, err := sweep.NewRunner(cfg, trackers.Sonarr, trackers.Watch, logger,
				sweep.WithMetrics(metrics.NewCollector(false)),
			)
			if err != nil {
				return err
			}

			opts := sweep.Options{
				DeleteFiles: deleteFiles,
				FailFast:    failFast,
				Trigger:     sweep.TriggerCLI,
			}
			if cmd.Flags().Changed("retain-for") {
				value := retainFor.Std()
				opts.RetainFor = &value
			}

			out := cmd.OutOrStdout()
			if !jsonOut {
				opts.Reporter = cleanup.ReporterFunc(func(line report.Line) {
					fmt.Fprintln(out, line.String())
				})
			}

			result, runErr := runner.Run(cmd.Context(), opts)
			switch {
			case jsonOut:
				if err := report.WriteJSON(out, result.Document()); err != nil {
					return err
				}
			case len(result.Summary.Lines) > 0:
				fmt.Fprintln(out)
				fmt.Fprintln(out, report.RenderTable(result.Summary.Lines))
				if result.DryRun {
					fmt.Fprintln(out, "Dry run: pass -f/--delete-files to apply.")
				}
			case runErr == nil:
				fmt.Fprintln(out, "Nothing to clean up.")
			}
			return runErr
		},
	}

	cmd.Flags().BoolVarP(&deleteFiles, "delete-files", "f", false, "Unmonitor seasons and delete their files")
	cmd.Flags().Var(&retainFor, "retain-for", "Override retention.retain_duration (e.g. \"12 days\", \"36h\")")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Write a JSON report to stdout")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first failed series")
	return cmd
}
