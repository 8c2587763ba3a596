package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shiftdesk/shiftdesk/internal/config"
	"github.com/shiftdesk/shiftdesk/pkg/clients/sheetsclient"
)

// SyncSheetsCmd creates the syncSheets command
func SyncSheetsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "syncSheets",
		Short: "Fetch every configured roster link and install each as its month's authoritative data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			useAPI, _ := cmd.Flags().GetBool("api")

			if useAPI {
				oauthCfg, err := config.LoadOAuthClient()
				if err != nil {
					return fmt.Errorf("failed to load OAuth client config: %w", err)
				}
				client, err := sheetsclient.NewClient(app.Ctx, oauthCfg)
				if err != nil {
					return fmt.Errorf("failed to create sheets client: %w", err)
				}
				timeout := time.Duration(app.Cfg.FetchTimeoutSeconds) * time.Second
				if timeout <= 0 {
					timeout = 30 * time.Second
				}
				app.Engine.SetFetcher(sheetsclient.NewFetcher(client, timeout))
			}

			result, err := app.Engine.SyncFromLinks(app.Ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Sync completed!\n\n")
			fmt.Printf("Sheets synced: %d\n", result.Sheets)
			fmt.Printf("Employees:     %d\n", result.Employees)
			fmt.Printf("Months:        %v\n", result.Months)
			if result.Failed > 0 {
				fmt.Printf("⚠️  Failed links: %d (see logs)\n", result.Failed)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("api", false, "Read Google Sheets links through the authenticated Sheets API instead of plain HTTP")

	return cmd
}
