package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ReloadCmd creates the reload command
func ReloadCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload all roster data from the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Engine.LoadAll(app.Ctx); err != nil {
				return err
			}

			display := app.Engine.GetDisplay()
			fmt.Printf("\n✓ Data reloaded: %d employees across %d teams\n\n",
				len(display.AllEmployees), len(display.Teams))
			return nil
		},
	}
}
