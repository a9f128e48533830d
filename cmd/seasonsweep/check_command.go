package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"seasonsweep/internal/notifications"
	"seasonsweep/internal/preflight"
	"seasonsweep/internal/sweep"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var notify bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify connectivity and configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			trackers, err := sweep.NewTrackers(cfg, logger)
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Trackers", statusError, err.Error(), colorize))
				return err
			}
			targets := preflight.Targets{Sonarr: trackers.Sonarr, Watch: trackers.Watch}

			if ctx.configPath != "" {
				fmt.Fprintln(out, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
			}
			results := preflight.RunAll(cmd.Context(), cfg, targets)
			renderCheckResults(out, "Preflight", results, colorize)

			if notify {
				if cfg.Notifications.NtfyTopic == "" {
					fmt.Fprintln(out, renderStatusLine("Notifications", statusWarn, "ntfy topic not configured", colorize))
				} else if err := notifications.NewService(cfg).Publish(cmd.Context(), notifications.EventTest, nil); err != nil {
					fmt.Fprintln(out, renderStatusLine("Notifications", statusError, err.Error(), colorize))
					return fmt.Errorf("send test notification: %w", err)
				} else {
					fmt.Fprintln(out, renderStatusLine("Notifications", statusOK, "Test notification sent", colorize))
				}
			}

			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&notify, "notify", false, "Also send a test notification")
	return cmd
}
