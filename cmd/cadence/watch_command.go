package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cadence/internal/api"
	"cadence/internal/logging"
	"cadence/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var opts calendarOptions
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the calendar whenever metadata or the release queue changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(ctx)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				out := cmd.OutOrStdout()
				render := func(rc context.Context) {
					resp, err := svc.Calendar(rc, req)
					if err != nil {
						logging.WarnWithContext(logger, "calendar refresh failed", "calendar_refresh_failed",
							logging.Error(err))
						return
					}
					if opts.jsonOutput {
						_ = writeJSON(cmd, resp)
						return
					}
					renderCalendar(out, resp, svc.Location())
				}

				render(c)
				watcher := watch.New(cfg.Paths.ContentDir, cfg.Queue.File, debounce, logger)
				return watcher.Run(c, func(rc context.Context, paths []string) {
					if !opts.jsonOutput {
						fmt.Fprintf(out, "\n%d document(s) changed\n", len(paths))
					}
					render(rc)
				})
			})
		},
	}
	opts.bind(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before re-rendering")
	return cmd
}
