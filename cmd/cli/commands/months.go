package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// MonthsCmd creates the months command
func MonthsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List the months with stored roster data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			months, err := app.Engine.ListAvailableMonths(app.Ctx)
			if err != nil {
				return err
			}

			if len(months) == 0 {
				fmt.Println("No roster months stored yet.")
				return nil
			}

			current := app.Engine.GetSyncConfig().CurrentMonth
			fmt.Println()
			for _, m := range months {
				marker := " "
				if m == current {
					marker = "*"
				}
				fmt.Printf("  %s %s\n", marker, m)
			}
			fmt.Println()

			return nil
		},
	}
}

// SetMonthCmd creates the setMonth command
func SetMonthCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setMonth <YYYY-MM>",
		Short: "Switch the engine to another month's roster data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Engine.SetCurrentMonth(app.Ctx, args[0]); err != nil {
				return err
			}

			fmt.Printf("\n✓ Current month set to %s\n\n", args[0])
			return nil
		},
	}
}
