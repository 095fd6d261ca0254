package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cadence/internal/api"
	"cadence/internal/calendar"
)

type calendarOptions struct {
	filter     string
	days       int
	jsonOutput bool
}

func (o *calendarOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.filter, "filter", "", "all | upcoming | released (defaults to calendar.default_filter)")
	cmd.Flags().IntVar(&o.days, "days", 0, "Only show this many days starting today (0 for no limit)")
	cmd.Flags().BoolVar(&o.jsonOutput, "json", false, "Output as JSON")
}

func (o *calendarOptions) request(ctx *commandContext) (api.CalendarRequest, error) {
	filter := strings.TrimSpace(o.filter)
	if filter == "" {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return api.CalendarRequest{}, err
		}
		filter = cfg.Calendar.DefaultFilter
	}
	return api.CalendarRequest{Filter: filter, Days: o.days}, nil
}

func newCalendarCommand(ctx *commandContext) *cobra.Command {
	var opts calendarOptions
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show scheduled and released events by day",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(ctx)
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				resp, err := svc.Calendar(c, req)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(cmd, resp)
				}
				renderCalendar(cmd.OutOrStdout(), resp, svc.Location())
				return nil
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func renderCalendar(out io.Writer, resp api.CalendarResponse, loc *time.Location) {
	colorize := shouldColorize(out)
	if resp.Count == 0 {
		fmt.Fprintf(out, "No %s events\n", resp.Filter)
		return
	}
	for _, day := range resp.Days {
		printLines(out, renderSectionHeader(day.Day, colorize)...)
		for _, event := range day.Events {
			fmt.Fprintf(out, "  %-5s %-15s %-9s %s\n",
				eventClock(event.Date, loc),
				titleCase(calendar.EventType(event.Type).Label()),
				paint(event.Status, colorForStatus(event.Status), colorize),
				eventSummary(event),
			)
		}
	}
	fmt.Fprintf(out, "%d event(s), %s, %s\n", resp.Count, resp.Filter, resp.Timezone)
}

// eventClock renders the local time of day, leaving bare dates blank.
func eventClock(value string, loc *time.Location) string {
	parsed, ok := calendar.ParseDate(value, loc)
	if !ok {
		return ""
	}
	local := parsed.In(loc)
	if local.Equal(calendar.StartOfDay(local, loc)) {
		return ""
	}
	return local.Format("15:04")
}

func eventSummary(event api.CalendarEvent) string {
	parts := []string{event.Title}
	if event.Title != event.Ref {
		parts = append(parts, "("+event.Ref+")")
	}
	if event.Detail != "" {
		parts = append(parts, "- "+event.Detail)
	}
	if len(event.Platforms) > 0 {
		parts = append(parts, "["+strings.Join(event.Platforms, ", ")+"]")
	}
	return strings.Join(parts, " ")
}
