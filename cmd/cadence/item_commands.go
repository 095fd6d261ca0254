package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cadence/internal/api"
	"cadence/internal/calendar"
	"cadence/internal/content"
	"cadence/internal/services"
)

func newItemCommand(ctx *commandContext) *cobra.Command {
	itemCmd := &cobra.Command{
		Use:   "item",
		Short: "Manage episode metadata",
	}
	itemCmd.AddCommand(newItemCreateCommand(ctx))
	itemCmd.AddCommand(newItemListCommand(ctx))
	itemCmd.AddCommand(newItemShowCommand(ctx))
	itemCmd.AddCommand(newItemScheduleCommand(ctx))
	itemCmd.AddCommand(newItemPublishCommand(ctx))
	return itemCmd
}

func newItemCreateCommand(ctx *commandContext) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "create <series> <slug>",
		Short: "Create a draft item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				item, err := svc.CreateItem(c, args[0], args[1], title)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", item.ID, item.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Episode title")
	return cmd
}

func newItemListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items",
		RunE: func(cmd *cobra.Command, args []string) error {
			var only content.Status
			if strings.TrimSpace(statusFilter) != "" {
				parsed, ok := content.ParseStatus(statusFilter)
				if !ok {
					return services.Wrap(services.ErrInvalidStatus, "cli", "item list",
						fmt.Sprintf("%q is not one of %s", statusFilter, statusChoices()), nil)
				}
				only = parsed
			}
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				items, err := svc.ListItems(c, only)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, items)
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No items found")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						item.ID,
						item.Title,
						item.Status,
						valueOrDash(item.TargetDate),
						valueOrDash(item.ReleaseGroupID),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"id", "title", "status", "target_date", "group"}, rows, nil))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&statusFilter, "status", "", "Only list items with this status")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newItemShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one item with its resolved platforms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				item, err := svc.GetItem(c, args[0])
				if err != nil {
					return err
				}
				platforms, resolveErr := svc.ResolveItemPlatforms(c, item.ID)
				if resolveErr != nil && !errors.Is(resolveErr, services.ErrUnknownProfile) {
					return resolveErr
				}
				if jsonOutput {
					return writeJSON(cmd, struct {
						Item      api.Item              `json:"item"`
						Platforms api.PlatformsResponse `json:"platforms"`
					}{item, platforms})
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				lines := []string{
					renderStatusLine("Item", statusInfo, item.ID, colorize),
					renderStatusLine("Title", statusInfo, item.Title, colorize),
					renderStatusLine("Status", itemStatusKind(item.Status), item.Status, colorize),
					renderStatusLine("Target date", statusInfo, valueOrDash(item.TargetDate), colorize),
					renderStatusLine("Release group", statusInfo, valueOrDash(item.ReleaseGroupID), colorize),
				}
				if len(item.DependsOn) > 0 {
					lines = append(lines, renderStatusLine("Depends on", statusInfo, strings.Join(item.DependsOn, ", "), colorize))
				}
				switch {
				case resolveErr != nil:
					lines = append(lines, renderStatusLine("Platforms", statusWarn, platforms.Error, colorize))
				case platforms.Directive == "":
					lines = append(lines, renderStatusLine("Platforms", statusInfo, "no distribution selected", colorize))
				default:
					lines = append(lines, renderStatusLine("Platforms", statusOK,
						fmt.Sprintf("%s (%s)", strings.Join(platforms.Platforms, ", "), platforms.Directive), colorize))
				}
				if item.PublishedAt != "" {
					lines = append(lines, renderStatusLine("Published", statusOK, item.PublishedAt, colorize))
				}
				printLines(out, lines...)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newItemScheduleCommand(ctx *commandContext) *cobra.Command {
	var (
		targetDate string
		groupID    string
		dependsOn  []string
		clearAll   bool
	)
	cmd := &cobra.Command{
		Use:   "schedule <item-id>",
		Short: "Set an item's target date, dependencies, or release group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				var scheduling content.Scheduling
				if !clearAll {
					current, err := svc.GetItem(c, args[0])
					if err != nil {
						return err
					}
					scheduling = content.Scheduling{
						TargetDate:     current.TargetDate,
						DependsOn:      current.DependsOn,
						ReleaseGroupID: current.ReleaseGroupID,
					}
					flags := cmd.Flags()
					if flags.Changed("date") {
						if targetDate != "" {
							if _, ok := calendar.ParseDate(targetDate, svc.Location()); !ok {
								return services.Wrap(services.ErrValidation, "cli", "item schedule",
									fmt.Sprintf("unrecognized date %q", targetDate), nil)
							}
						}
						scheduling.TargetDate = targetDate
					}
					if flags.Changed("group") {
						scheduling.ReleaseGroupID = strings.TrimSpace(groupID)
					}
					if flags.Changed("depends-on") {
						scheduling.DependsOn = dependsOn
					}
				}
				item, err := svc.Schedule(c, args[0], scheduling)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %s (target %s, group %s)\n",
					item.ID, valueOrDash(item.TargetDate), valueOrDash(item.ReleaseGroupID))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&targetDate, "date", "", "Target date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&groupID, "group", "", "Release group id (empty to detach)")
	cmd.Flags().StringSliceVar(&dependsOn, "depends-on", nil, "Item ids this item depends on")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Remove all scheduling information")
	return cmd
}

func newItemPublishCommand(ctx *commandContext) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "publish <item-id>",
		Short: "Record that an item was published on its platforms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				var when time.Time
				if strings.TrimSpace(at) != "" {
					parsed, ok := calendar.ParseDate(at, svc.Location())
					if !ok {
						return services.Wrap(services.ErrValidation, "cli", "item publish",
							fmt.Sprintf("unrecognized time %q", at), nil)
					}
					when = parsed
				}
				item, err := svc.ConfirmPublished(c, args[0], when)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s published at %s\n", item.ID, item.PublishedAt)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Publish time (defaults to now)")
	return cmd
}
