package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cadence/internal/api"
	"cadence/internal/queue"
	"cadence/internal/release"
)

func newGroupCommand(ctx *commandContext) *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Manage release groups",
	}
	groupCmd.AddCommand(newGroupCreateCommand(ctx))
	groupCmd.AddCommand(newGroupUpdateCommand(ctx))
	groupCmd.AddCommand(newGroupAddCommand(ctx))
	groupCmd.AddCommand(newGroupRemoveCommand(ctx))
	groupCmd.AddCommand(newGroupStatusCommand(ctx))
	groupCmd.AddCommand(newGroupReleaseCommand(ctx))
	groupCmd.AddCommand(newGroupArchiveCommand(ctx))
	groupCmd.AddCommand(newGroupListCommand(ctx))
	groupCmd.AddCommand(newGroupShowCommand(ctx))
	return groupCmd
}

func newGroupCreateCommand(ctx *commandContext) *cobra.Command {
	var spec release.GroupSpec
	var members []string
	cmd := &cobra.Command{
		Use:   "create <group-id>",
		Short: "Create a draft release group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec.Items = parseMembers(members)
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				group, err := svc.CreateGroup(c, args[0], spec)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created group %s with %d item(s)\n", group.ID, len(group.Items))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&spec.Name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&spec.Description, "description", "", "Description")
	cmd.Flags().StringVar(&spec.TargetDate, "date", "", "Target date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringArrayVar(&members, "item", nil, "Member as <item-id> or <item-id>=<distribution> (repeatable)")
	cmd.Flags().StringSliceVar(&spec.Dependencies, "depends-on", nil, "Group or item ids this group depends on")
	cmd.Flags().StringSliceVar(&spec.ReleaseOrder, "order", nil, "Platform publish order")
	return cmd
}

func newGroupUpdateCommand(ctx *commandContext) *cobra.Command {
	var (
		name         string
		description  string
		targetDate   string
		dependencies []string
		order        []string
	)
	cmd := &cobra.Command{
		Use:   "update <group-id>",
		Short: "Edit a release group's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch release.GroupPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("date") {
				patch.TargetDate = &targetDate
			}
			if flags.Changed("depends-on") {
				patch.Dependencies = &dependencies
			}
			if flags.Changed("order") {
				patch.ReleaseOrder = &order
			}
			if patch == (release.GroupPatch{}) {
				return errNoChanges
			}
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				group, err := svc.UpdateGroup(c, args[0], patch)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated group %s\n", group.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&targetDate, "date", "", "Target date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringSliceVar(&dependencies, "depends-on", nil, "Group or item ids this group depends on")
	cmd.Flags().StringSliceVar(&order, "order", nil, "Platform publish order")
	return cmd
}

func newGroupAddCommand(ctx *commandContext) *cobra.Command {
	var directive string
	cmd := &cobra.Command{
		Use:   "add <group-id> <item-id>",
		Short: "Add an item to a release group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				group, err := svc.AddGroupItem(c, args[0], args[1], directive)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Group %s now has %d item(s)\n", group.ID, len(group.Items))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&directive, "distribution", "", "Profile name or platforms:<a,b,...>")
	return cmd
}

func newGroupRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <group-id> <item-id>",
		Short: "Remove an item from a release group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				group, err := svc.RemoveGroupItem(c, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Group %s now has %d item(s)\n", group.ID, len(group.Items))
				return nil
			})
		},
	}
}

func newGroupStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <group-id> <draft|staged|released>",
		Short: "Set a release group's status without touching its items",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				group, err := svc.SetGroupStatus(c, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Group %s is now %s\n", group.ID, group.Status)
				return nil
			})
		},
	}
}

func newGroupReleaseCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "release <group-id>",
		Short: "Mark a group and all its items released",
		Long: "Marks the group released, then each member item. Members already released are skipped,\n" +
			"so the command can be re-run after a partial failure.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				report, err := svc.ReleaseGroup(c, args[0])
				if report.GroupID == "" && err != nil {
					if jsonOutput {
						return writeJSONError(cmd, err)
					}
					return err
				}
				if jsonOutput {
					if encErr := writeJSON(cmd, report); encErr != nil {
						return encErr
					}
					return err
				}
				renderReleaseReport(cmd, report)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderReleaseReport(cmd *cobra.Command, report api.ReleaseReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	printLines(out, renderSectionHeader("Release "+report.GroupID, colorize)...)
	for _, path := range report.Succeeded {
		printLines(out, renderStatusLine(path, statusOK, "released", colorize))
	}
	for _, path := range report.Skipped {
		printLines(out, renderStatusLine(path, statusInfo, "already released", colorize))
	}
	for _, failure := range report.Failed {
		printLines(out, renderStatusLine(failure.Path, statusError, failure.Error, colorize))
	}
	fmt.Fprintf(out, "%d released, %d skipped, %d failed (run %s)\n",
		len(report.Succeeded), len(report.Skipped), len(report.Failed), report.CorrelationID)
	if len(report.Failed) > 0 {
		fmt.Fprintf(out, "Re-run `cadence group release %s` to retry the failed items.\n", report.GroupID)
	}
}

func newGroupArchiveCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "archive <group-id>",
		Short: "Move a released group into the release history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				entries, err := svc.ArchiveGroup(c, args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, entries)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Archived group %s (%d history entries)\n", args[0], len(entries))
				if len(entries) > 0 {
					fmt.Fprintln(out, renderHistory(entries))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderHistory(entries []api.HistoryEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Path,
			valueOrDash(entry.GroupID),
			entry.ReleasedAt,
			valueOrDash(strings.Join(entry.Platforms, ", ")),
		})
	}
	return renderTable([]string{"item", "group", "released_at", "platforms"}, rows, nil)
}

func newGroupListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List release groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				groups, err := svc.ListGroups(c)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, groups)
				}
				out := cmd.OutOrStdout()
				if len(groups) == 0 {
					fmt.Fprintln(out, "No release groups")
					return nil
				}
				rows := make([][]string, 0, len(groups))
				for _, group := range groups {
					rows = append(rows, []string{
						group.ID,
						group.Name,
						group.Status,
						valueOrDash(group.TargetDate),
						strconv.Itoa(len(group.Items)),
					})
				}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight}
				fmt.Fprintln(out, renderTable([]string{"id", "name", "status", "target_date", "items"}, rows, aligns))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newGroupShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <group-id>",
		Short: "Show a release group and its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				group, err := svc.GetGroup(c, args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, group)
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				printLines(out, renderSectionHeader(group.Name, colorize)...)
				printLines(out,
					renderStatusLine("Id", statusInfo, group.ID, colorize),
					renderStatusLine("Status", groupStatusKind(group.Status), group.Status, colorize),
					renderStatusLine("Target date", statusInfo, valueOrDash(group.TargetDate), colorize),
				)
				if group.Description != "" {
					printLines(out, renderStatusLine("Description", statusInfo, group.Description, colorize))
				}
				if len(group.Dependencies) > 0 {
					printLines(out, renderStatusLine("Depends on", statusInfo, strings.Join(group.Dependencies, ", "), colorize))
				}
				if group.ReleasedAt != "" {
					printLines(out, renderStatusLine("Released", statusOK, group.ReleasedAt, colorize))
				}
				if len(group.Items) == 0 {
					return nil
				}
				rows := make([][]string, 0, len(group.Items))
				for _, member := range group.Items {
					item, err := svc.GetItem(c, member.Path)
					itemStatus := item.Status
					if err != nil {
						itemStatus = "missing"
					}
					platformText := "-"
					if member.Distribution != "" {
						platforms, resolveErr := svc.ResolvePlatforms(member.Distribution)
						platformText = strings.Join(platforms.Platforms, ", ")
						if resolveErr != nil {
							platformText = "unknown profile"
						}
					}
					rows = append(rows, []string{member.Path, itemStatus, valueOrDash(member.Distribution), platformText})
				}
				fmt.Fprintln(out, renderTable([]string{"item", "status", "distribution", "platforms"}, rows, nil))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func groupStatusKind(status string) statusKind {
	switch queue.GroupStatus(status) {
	case queue.GroupReleased:
		return statusOK
	case queue.GroupStaged:
		return statusWarn
	default:
		return statusInfo
	}
}

// parseMembers splits "<item-id>=<distribution>" flag values.
func parseMembers(values []string) []queue.GroupItem {
	members := make([]queue.GroupItem, 0, len(values))
	for _, value := range values {
		path, directive, _ := strings.Cut(value, "=")
		members = append(members, queue.GroupItem{
			Path:         strings.TrimSpace(path),
			Distribution: strings.TrimSpace(directive),
		})
	}
	return members
}

var errNoChanges = errors.New("no changes requested; pass at least one flag")
