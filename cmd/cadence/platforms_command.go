package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cadence/internal/api"
	"cadence/internal/services"
)

func newPlatformsCommand(ctx *commandContext) *cobra.Command {
	var itemID string
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "platforms [profile | platforms:<a,b,...>]",
		Short: "Resolve a distribution directive or list the profile table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				if len(args) == 0 && strings.TrimSpace(itemID) == "" {
					return renderProfiles(cmd, svc.Profiles(), jsonOutput)
				}

				var (
					resp api.PlatformsResponse
					err  error
				)
				if len(args) == 1 {
					resp, err = svc.ResolvePlatforms(args[0])
				} else {
					resp, err = svc.ResolveItemPlatforms(c, itemID)
				}
				if err != nil && !errors.Is(err, services.ErrUnknownProfile) {
					return err
				}
				if jsonOutput {
					if encErr := writeJSON(cmd, resp); encErr != nil {
						return encErr
					}
					return err
				}
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if resp.Directive == "" {
					fmt.Fprintln(out, "No distribution selected")
					return nil
				}
				for _, platform := range resp.Platforms {
					fmt.Fprintln(out, platform)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&itemID, "item", "", "Resolve the distribution stored on this item")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderProfiles(cmd *cobra.Command, profiles []api.Profile, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(cmd, profiles)
	}
	rows := make([][]string, 0, len(profiles))
	for _, profile := range profiles {
		rows = append(rows, []string{
			profile.Key,
			profile.Name,
			valueOrDash(profile.Description),
			strings.Join(profile.Platforms, ", "),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"key", "name", "description", "platforms"}, rows, nil))
	return nil
}
