package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shiftdesk/shiftdesk/pkg/core/engine"
	"github.com/shiftdesk/shiftdesk/pkg/core/model"
)

// RequestsCmd creates the requests command
func RequestsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "List schedule requests (pending by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")

			if all {
				summaries := app.Engine.AllRequestsSorted()
				if len(summaries) == 0 {
					fmt.Println("No schedule requests.")
					return nil
				}
				fmt.Printf("\n%d schedule requests (newest first):\n\n", len(summaries))
				for _, s := range summaries {
					fmt.Printf("  %-20s %-12s %-9s %s\n", s.ID, s.Type, s.Status, s.Date)
				}
				fmt.Println()
				return nil
			}

			changes, swaps := app.Engine.PendingRequests()
			if len(changes) == 0 && len(swaps) == 0 {
				fmt.Println("No pending requests.")
				return nil
			}

			if len(changes) > 0 {
				fmt.Printf("\nPending shift changes:\n")
				for _, r := range changes {
					fmt.Printf("  %s: %s on %s, %q -> %q\n", r.ID, r.EmployeeID, r.Date, r.CurrentShift, r.RequestedShift)
				}
			}
			if len(swaps) > 0 {
				fmt.Printf("\nPending swaps:\n")
				for _, r := range swaps {
					fmt.Printf("  %s: %s <-> %s on %s\n", r.ID, r.RequesterID, r.TargetEmployeeID, r.Date)
				}
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Include approved and rejected requests")

	return cmd
}

// SubmitChangeCmd creates the submitChange command
func SubmitChangeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submitChange <employee_id> <date> <requested_shift>",
		Short: "Submit a shift change request",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, _ := cmd.Flags().GetString("current")
			reason, _ := cmd.Flags().GetString("reason")

			req, err := app.Engine.SubmitShiftChange(app.Ctx, engine.ShiftChangeInput{
				EmployeeID:     args[0],
				Date:           args[1],
				RequestedShift: args[2],
				CurrentShift:   current,
				Reason:         reason,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Request submitted: %s\n\n", req.ID)
			return nil
		},
	}

	cmd.Flags().String("current", "", "The shift currently on the roster")
	cmd.Flags().String("reason", "", "Why the change is needed")

	return cmd
}

// SubmitSwapCmd creates the submitSwap command
func SubmitSwapCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submitSwap <requester_id> <target_employee_id> <date>",
		Short: "Submit a swap request between two employees for a date",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reason, _ := cmd.Flags().GetString("reason")

			req, err := app.Engine.SubmitSwap(app.Ctx, engine.SwapInput{
				RequesterID:      args[0],
				TargetEmployeeID: args[1],
				Date:             args[2],
				Reason:           reason,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Request submitted: %s\n\n", req.ID)
			return nil
		},
	}

	cmd.Flags().String("reason", "", "Why the swap is needed")

	return cmd
}

// DecideCmd creates the decide command
func DecideCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decide <request_id> <approve|reject>",
		Short: "Approve or reject a pending schedule request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actorFlag, _ := cmd.Flags().GetString("actor")

			var status model.RequestStatus
			switch args[1] {
			case "approve":
				status = model.StatusApproved
			case "reject":
				status = model.StatusRejected
			default:
				return fmt.Errorf("decision must be approve or reject, got %q", args[1])
			}

			if err := app.Engine.SetRequestStatus(app.Ctx, args[0], status, app.actor(actorFlag)); err != nil {
				return err
			}

			fmt.Printf("\n✓ Request %s %s\n\n", args[0], status)
			return nil
		},
	}

	cmd.Flags().String("actor", "", "Who is deciding (defaults to the configured admin actor)")

	return cmd
}
