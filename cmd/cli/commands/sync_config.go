package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/shiftdesk/shiftdesk/pkg/core/engine"
)

// SyncConfigCmd creates the syncConfig command
func SyncConfigCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "syncConfig",
		Short: "Show or update the roster sync configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch engine.SyncConfigPatch

			if cmd.Flags().Changed("auto-sync") {
				v, _ := cmd.Flags().GetBool("auto-sync")
				patch.AutoSyncEnabled = &v
			}
			if cmd.Flags().Changed("from-links") {
				v, _ := cmd.Flags().GetBool("from-links")
				patch.SyncFromLinks = &v
			}
			if cmd.Flags().Changed("link") {
				link, _ := cmd.Flags().GetStringToString("link")
				patch.Links = link
			}

			if patch.AutoSyncEnabled != nil || patch.SyncFromLinks != nil || patch.Links != nil {
				if err := app.Engine.SetSyncConfig(app.Ctx, patch); err != nil {
					return err
				}
				fmt.Println("✓ Sync configuration updated")
			}

			cfg := app.Engine.GetSyncConfig()
			fmt.Printf("\nAuto sync:       %v\n", cfg.AutoSyncEnabled)
			fmt.Printf("Sync from links: %v\n", cfg.SyncFromLinks)
			fmt.Printf("Current month:   %s\n", cfg.CurrentMonth)
			fmt.Printf("Months:          %v\n", cfg.AvailableMonths)

			if len(cfg.Links) > 0 {
				months := make([]string, 0, len(cfg.Links))
				for m := range cfg.Links {
					months = append(months, m)
				}
				sort.Strings(months)
				fmt.Printf("Links:\n")
				for _, m := range months {
					fmt.Printf("  %s: %s\n", m, cfg.Links[m])
				}
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("auto-sync", false, "Enable or disable scheduled syncing")
	cmd.Flags().Bool("from-links", false, "Enable or disable syncing from configured links")
	cmd.Flags().StringToString("link", nil, "Set roster links as month=url pairs (replaces the link set)")

	return cmd
}

// ResetOverrideCmd creates the resetOverride command
func ResetOverrideCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resetOverride",
		Short: "Discard manual edits by resetting the working roster to the authoritative data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Engine.ResetOverrideToAuthoritative(app.Ctx); err != nil {
				return err
			}

			fmt.Printf("\n✓ Working roster reset to authoritative data\n\n")
			return nil
		},
	}
}
