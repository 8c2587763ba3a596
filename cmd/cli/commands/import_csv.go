package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ImportCsvCmd creates the importCsv command
func ImportCsvCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importCsv <file>",
		Short: "Import a schedule CSV into the current month's authoritative roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read csv file: %w", err)
			}

			result, err := app.Engine.MergeCSVImport(app.Ctx, string(raw))
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ CSV imported successfully!\n\n")
			fmt.Printf("Detected month: %s\n", result.DetectedMonth)
			fmt.Printf("Date columns:   %d\n", len(result.Headers))
			if result.SkippedRows > 0 {
				fmt.Printf("Skipped rows:   %d\n", result.SkippedRows)
			}
			if result.Degraded {
				fmt.Println("⚠️  Parser fell back to naive line splitting; check quoted cells.")
			}
			fmt.Println()

			return nil
		},
	}
}
