package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cadence/internal/api"
	"cadence/internal/content"
	"cadence/internal/services"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Inspect or change an item's workflow status",
	}
	statusCmd.AddCommand(newStatusSetCommand(ctx))
	statusCmd.AddCommand(newStatusShowCommand(ctx))
	return statusCmd
}

func newStatusSetCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "set <item-id> <status>",
		Short: "Set an item's status (" + statusChoices() + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				item, err := svc.SetStatus(c, args[0], args[1])
				if err != nil {
					if jsonOutput {
						return writeJSONError(cmd, err)
					}
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, item)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", item.ID, item.Status)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newStatusShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show an item's status and release group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				item, err := svc.GetItem(c, args[0])
				if err != nil {
					return err
				}
				group, hasGroup, groupErr := svc.ItemGroup(c, item.ID)
				if groupErr != nil && !errors.Is(groupErr, services.ErrNotFound) {
					return groupErr
				}

				if jsonOutput {
					payload := struct {
						Item  api.Item   `json:"item"`
						Group *api.Group `json:"group,omitempty"`
						Error string     `json:"groupError,omitempty"`
					}{Item: item}
					if hasGroup {
						payload.Group = &group
					}
					if groupErr != nil {
						payload.Error = groupErr.Error()
					}
					return writeJSON(cmd, payload)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				printLines(out,
					renderStatusLine("Item", statusInfo, item.ID, colorize),
					renderStatusLine("Status", itemStatusKind(item.Status), item.Status, colorize),
				)
				switch {
				case groupErr != nil:
					printLines(out, renderStatusLine("Release group", statusError,
						fmt.Sprintf("%s (missing)", item.ReleaseGroupID), colorize))
				case hasGroup:
					printLines(out, renderStatusLine("Release group", statusInfo,
						fmt.Sprintf("%s (%s)", group.ID, group.Status), colorize))
				}
				if item.PublishedAt != "" {
					printLines(out, renderStatusLine("Published", statusOK, item.PublishedAt, colorize))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func itemStatusKind(status string) statusKind {
	switch content.Status(status) {
	case content.StatusReleased:
		return statusOK
	case content.StatusStaged, content.StatusReady:
		return statusWarn
	default:
		return statusInfo
	}
}

func statusChoices() string {
	statuses := content.AllStatuses()
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
