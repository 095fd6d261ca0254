package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cadence/internal/api"
	"cadence/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Maintain staged and blocked entries of the release queue",
	}
	queueCmd.AddCommand(newQueueStageCommand(ctx))
	queueCmd.AddCommand(newQueueUnstageCommand(ctx))
	queueCmd.AddCommand(newQueueBlockCommand(ctx))
	queueCmd.AddCommand(newQueueUnblockCommand(ctx))
	queueCmd.AddCommand(newQueueShowCommand(ctx))
	return queueCmd
}

func newQueueStageCommand(ctx *commandContext) *cobra.Command {
	var entry queue.StagedEntry
	cmd := &cobra.Command{
		Use:   "stage <item-id>",
		Short: "Stage an item outside any release group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry.Path = args[0]
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				staged, err := svc.Stage(c, entry)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Staged %s (target %s)\n", staged.Path, valueOrDash(staged.TargetDate))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&entry.TargetDate, "date", "", "Target date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringSliceVar(&entry.DependsOn, "depends-on", nil, "Item ids this item depends on")
	cmd.Flags().StringVar(&entry.Distribution, "distribution", "", "Profile name or platforms:<a,b,...>")
	return cmd
}

func newQueueUnstageCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unstage <item-id>",
		Short: "Remove a staged entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				if err := svc.Unstage(c, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Unstaged %s\n", args[0])
				return nil
			})
		},
	}
}

func newQueueBlockCommand(ctx *commandContext) *cobra.Command {
	var entry queue.BlockedEntry
	cmd := &cobra.Command{
		Use:   "block <item-id>",
		Short: "Record what an item is waiting on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry.Path = args[0]
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				blocked, err := svc.Block(c, entry)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Blocked %s by %s since %s\n", blocked.Path, blocked.BlockedBy, blocked.BlockedSince)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&entry.BlockedBy, "by", "", "What the item is waiting on (required)")
	cmd.Flags().StringVar(&entry.BlockedSince, "since", "", "Date the block started (defaults to today)")
	cmd.Flags().StringVar(&entry.Notes, "notes", "", "Free-form notes")
	return cmd
}

func newQueueUnblockCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unblock <item-id>",
		Short: "Remove a blocked entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				if err := svc.Unblock(c, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Unblocked %s\n", args[0])
				return nil
			})
		},
	}
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show staged, blocked, and released entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				doc, err := svc.Queue(c)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, doc)
				}
				renderQueue(cmd, doc)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderQueue(cmd *cobra.Command, doc *queue.Document) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	printLines(out, renderSectionHeader("Staged", colorize)...)
	if len(doc.Staged) == 0 {
		fmt.Fprintln(out, "  none")
	} else {
		rows := make([][]string, 0, len(doc.Staged))
		for _, entry := range doc.Staged {
			rows = append(rows, []string{
				entry.Path,
				valueOrDash(entry.TargetDate),
				valueOrDash(entry.Distribution),
				valueOrDash(strings.Join(entry.DependsOn, ", ")),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"item", "target_date", "distribution", "depends_on"}, rows, nil))
	}

	printLines(out, renderSectionHeader("Blocked", colorize)...)
	if len(doc.Blocked) == 0 {
		fmt.Fprintln(out, "  none")
	} else {
		rows := make([][]string, 0, len(doc.Blocked))
		for _, entry := range doc.Blocked {
			rows = append(rows, []string{entry.Path, entry.BlockedBy, valueOrDash(entry.BlockedSince), valueOrDash(entry.Notes)})
		}
		fmt.Fprintln(out, renderTable([]string{"item", "blocked_by", "since", "notes"}, rows, nil))
	}

	printLines(out, renderSectionHeader("Released", colorize)...)
	if len(doc.Released) == 0 {
		fmt.Fprintln(out, "  none")
		return
	}
	fmt.Fprintln(out, renderHistory(api.FromReleasedEntries(doc.Released)))
}
