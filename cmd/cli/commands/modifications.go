package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// ModificationsCmd creates the modifications command
func ModificationsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modifications",
		Short: "Show the shift modification history and monthly stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			log := app.Engine.GetModificationLog()
			if len(log.Modifications) == 0 {
				fmt.Println("No modifications recorded.")
				return nil
			}

			records := log.Modifications
			if limit > 0 && len(records) > limit {
				records = records[len(records)-limit:]
			}

			fmt.Printf("\n%d of %d modifications (oldest first):\n\n", len(records), len(log.Modifications))
			for _, r := range records {
				fmt.Printf("  %s  %s (%s) %s: %q -> %q by %s\n",
					r.Timestamp.Format("2006-01-02 15:04"),
					r.EmployeeName, r.EmployeeID, r.DateHeader,
					r.OldShift, r.NewShift, r.ModifiedBy)
			}

			months := make([]string, 0, len(log.MonthlyStats))
			for m := range log.MonthlyStats {
				months = append(months, m)
			}
			sort.Strings(months)

			fmt.Printf("\nMonthly stats:\n")
			for _, m := range months {
				stats := log.MonthlyStats[m]
				fmt.Printf("  %s: %d modifications across %d employees\n",
					m, stats.TotalModifications, len(stats.EmployeesModified))
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Show only the most recent N records (0 for all)")

	return cmd
}
