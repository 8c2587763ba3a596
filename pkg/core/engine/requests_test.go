package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftdesk/shiftdesk/pkg/core/model"
)

func TestSubmitShiftChange(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)

	req, err := e.SubmitShiftChange(context.Background(), ShiftChangeInput{
		EmployeeID:     "E1",
		Date:           "1Oct",
		CurrentShift:   "M2",
		RequestedShift: "DO",
		Reason:         "appointment",
	})
	require.NoError(t, err)

	assert.Equal(t, "shift_change_1", req.ID)
	assert.Equal(t, model.TypeShiftChange, req.Type)
	assert.Equal(t, model.StatusPending, req.Status)
	assert.Nil(t, req.ApprovedAt)

	ledger := e.GetRequests()
	assert.Equal(t, 1, ledger.PendingCount)
	assert.Equal(t, 1, ledger.NextShiftChangeID)
}

func TestSubmitShiftChange_Validation(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.SubmitShiftChange(context.Background(), ShiftChangeInput{EmployeeID: "E1"})
	assert.Error(t, err)
}

func TestSubmitSwap_RejectsSelfSwap(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.SubmitSwap(context.Background(), SwapInput{
		RequesterID:      "E1",
		TargetEmployeeID: "E1",
		Date:             "1Oct",
	})
	assert.Error(t, err)
}

func TestRequestIDsKeepGrowing(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	first, err := e.SubmitShiftChange(ctx, ShiftChangeInput{EmployeeID: "E1", Date: "1Oct", RequestedShift: "DO"})
	require.NoError(t, err)
	second, err := e.SubmitShiftChange(ctx, ShiftChangeInput{EmployeeID: "E2", Date: "1Oct", RequestedShift: "DO"})
	require.NoError(t, err)

	assert.Equal(t, "shift_change_1", first.ID)
	assert.Equal(t, "shift_change_2", second.ID)

	swap, err := e.SubmitSwap(ctx, SwapInput{RequesterID: "E1", TargetEmployeeID: "E2", Date: "1Oct"})
	require.NoError(t, err)
	assert.Equal(t, "swap_1", swap.ID)
}

func TestApproveShiftChange(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)
	ctx := context.Background()

	req, err := e.SubmitShiftChange(ctx, ShiftChangeInput{
		EmployeeID:     "E1",
		Date:           "1-Oct", // matches the normalized "1Oct" header
		RequestedShift: "DO",
	})
	require.NoError(t, err)

	require.NoError(t, e.SetRequestStatus(ctx, req.ID, model.StatusApproved, "admin"))

	display := e.GetDisplay()
	emp, _ := display.FindEmployee("E1")
	require.NotNil(t, emp)
	assert.Equal(t, "DO", emp.Schedule[0])

	ledger := e.GetRequests()
	assert.Equal(t, 1, ledger.ApprovedCount)
	assert.Equal(t, 0, ledger.PendingCount)
	require.Len(t, ledger.ShiftChangeRequests, 1)
	final := ledger.ShiftChangeRequests[0]
	assert.Equal(t, model.StatusApproved, final.Status)
	assert.Equal(t, "admin", final.ApprovedBy)
	require.NotNil(t, final.ApprovedAt)

	log := e.GetModificationLog()
	require.Len(t, log.Modifications, 1)
	assert.Equal(t, "M2", log.Modifications[0].OldShift)
	assert.Equal(t, "DO", log.Modifications[0].NewShift)
	assert.Equal(t, "admin", log.Modifications[0].ModifiedBy)
}

func TestRejectShiftChange_LeavesRosterUntouched(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)
	ctx := context.Background()

	req, err := e.SubmitShiftChange(ctx, ShiftChangeInput{
		EmployeeID: "E1", Date: "1Oct", RequestedShift: "DO",
	})
	require.NoError(t, err)

	require.NoError(t, e.SetRequestStatus(ctx, req.ID, model.StatusRejected, "admin"))

	display := e.GetDisplay()
	emp, _ := display.FindEmployee("E1")
	require.NotNil(t, emp)
	assert.Equal(t, "M2", emp.Schedule[0])
	assert.Empty(t, e.GetModificationLog().Modifications)

	ledger := e.GetRequests()
	assert.Equal(t, model.StatusRejected, ledger.ShiftChangeRequests[0].Status)
	assert.Equal(t, 0, ledger.ApprovedCount)
}

func TestApproveSwap_ExchangesBothCells(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)
	ctx := context.Background()

	req, err := e.SubmitSwap(ctx, SwapInput{
		RequesterID:      "E1",
		TargetEmployeeID: "E2",
		Date:             "2Oct",
	})
	require.NoError(t, err)

	require.NoError(t, e.SetRequestStatus(ctx, req.ID, model.StatusApproved, "admin"))

	display := e.GetDisplay()
	jane, _ := display.FindEmployee("E1")
	bob, _ := display.FindEmployee("E2")
	require.NotNil(t, jane)
	require.NotNil(t, bob)

	// Jane had D1 and Bob had M3 on 2Oct.
	assert.Equal(t, "M3", jane.Schedule[1])
	assert.Equal(t, "D1", bob.Schedule[1])

	// Both sides of the swap are audited.
	log := e.GetModificationLog()
	require.Len(t, log.Modifications, 2)
	assert.Equal(t, "E1", log.Modifications[0].EmployeeID)
	assert.Equal(t, "D1", log.Modifications[0].OldShift)
	assert.Equal(t, "M3", log.Modifications[0].NewShift)
	assert.Equal(t, "E2", log.Modifications[1].EmployeeID)
	assert.Equal(t, "M3", log.Modifications[1].OldShift)
	assert.Equal(t, "D1", log.Modifications[1].NewShift)
}

func TestApproveSwap_UnknownEmployeeLeavesEverythingUntouched(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)
	ctx := context.Background()

	req, err := e.SubmitSwap(ctx, SwapInput{
		RequesterID:      "E1",
		TargetEmployeeID: "E9",
		Date:             "2Oct",
	})
	require.NoError(t, err)

	err = e.SetRequestStatus(ctx, req.ID, model.StatusApproved, "admin")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	// The request stays pending and no cell moved.
	ledger := e.GetRequests()
	assert.Equal(t, model.StatusPending, ledger.SwapRequests[0].Status)
	display := e.GetDisplay()
	jane, _ := display.FindEmployee("E1")
	assert.Equal(t, "D1", jane.Schedule[1])
	assert.Empty(t, e.GetModificationLog().Modifications)
}

func TestSetRequestStatus_FinalizedRequestIsImmutable(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)
	ctx := context.Background()

	req, err := e.SubmitShiftChange(ctx, ShiftChangeInput{
		EmployeeID: "E1", Date: "1Oct", RequestedShift: "DO",
	})
	require.NoError(t, err)
	require.NoError(t, e.SetRequestStatus(ctx, req.ID, model.StatusRejected, "admin"))

	err = e.SetRequestStatus(ctx, req.ID, model.StatusApproved, "admin")
	assert.ErrorIs(t, err, ErrRequestFinalized)

	// The rejection stands and the roster never changed.
	display := e.GetDisplay()
	emp, _ := display.FindEmployee("E1")
	assert.Equal(t, "M2", emp.Schedule[0])
}

func TestSetRequestStatus_UnknownID(t *testing.T) {
	e := newTestEngine(t)

	err := e.SetRequestStatus(context.Background(), "shift_change_99", model.StatusApproved, "admin")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestSetRequestStatus_UnknownDate(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)
	ctx := context.Background()

	req, err := e.SubmitShiftChange(ctx, ShiftChangeInput{
		EmployeeID: "E1", Date: "25-Dec", RequestedShift: "DO",
	})
	require.NoError(t, err)

	err = e.SetRequestStatus(ctx, req.ID, model.StatusApproved, "admin")
	assert.ErrorIs(t, err, ErrUnknownDateHeader)
}

func TestAllRequestsSorted_NewestFirst(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.SubmitShiftChange(ctx, ShiftChangeInput{EmployeeID: "E1", Date: "1Oct", RequestedShift: "DO"})
	require.NoError(t, err)
	swap, err := e.SubmitSwap(ctx, SwapInput{RequesterID: "E1", TargetEmployeeID: "E2", Date: "1Oct"})
	require.NoError(t, err)

	all := e.AllRequestsSorted()
	require.Len(t, all, 2)
	assert.Equal(t, swap.ID, all[0].ID)
}

func TestRequestCountersSurviveReload(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.SubmitShiftChange(ctx, ShiftChangeInput{EmployeeID: "E1", Date: "1Oct", RequestedShift: "DO"})
	require.NoError(t, err)

	require.NoError(t, e.LoadAll(ctx))

	next, err := e.SubmitShiftChange(ctx, ShiftChangeInput{EmployeeID: "E2", Date: "1Oct", RequestedShift: "DO"})
	require.NoError(t, err)
	assert.Equal(t, "shift_change_2", next.ID)
}
