package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shiftdesk/shiftdesk/pkg/core/model"
)

// EditShiftCmd creates the editShift command
func EditShiftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editShift <employee_id> <date> <shift>",
		Short: "Set one employee's shift for a date in the working roster",
		Long: `Set one employee's shift for a date in the working roster.

The date is matched against the roster's date headers ("1-Oct" and
"1Oct" are equivalent). Valid shift codes: ` + strings.Join(model.ShiftCodes, ", ") + `.
An empty string clears the cell.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			employeeID, date, shift := args[0], args[1], args[2]
			actorFlag, _ := cmd.Flags().GetString("actor")

			dateIndex, err := app.Engine.HeaderIndex(date)
			if err != nil {
				return err
			}

			if err := app.Engine.RecordManualEdit(app.Ctx, employeeID, dateIndex, shift, app.actor(actorFlag)); err != nil {
				return err
			}

			fmt.Printf("\n✓ Shift updated: %s on %s -> %q\n\n", employeeID, date, shift)
			return nil
		},
	}

	cmd.Flags().String("actor", "", "Who is making the edit (defaults to the configured admin actor)")

	return cmd
}
