package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExportCsvCmd creates the exportCsv command
func ExportCsvCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "exportCsv [file]",
		Short: "Export the composed roster view as CSV (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return app.Engine.ExportCSV(os.Stdout)
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			defer f.Close()

			if err := app.Engine.ExportCSV(f); err != nil {
				return err
			}

			fmt.Printf("\n✓ Roster exported to %s\n\n", args[0])
			return nil
		},
	}
}
