package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shiftdesk/shiftdesk/pkg/core/model"
)

// trackModification appends one audit record and updates that month's
// rolling statistics. The month key is stamped from the current
// wall-clock month, not the shift's own date. The tracker is a pure
// audit sink: it never fails the mutation that triggered it, so
// persistence errors are logged and swallowed. Callers must hold the
// write lock.
func (e *Engine) trackModification(ctx context.Context, employeeID string, dateIndex int, oldShift, newShift, employeeName, teamName, dateHeader, actor string) {
	now := time.Now().UTC()
	rec := model.ModifiedShiftRecord{
		ID:           uuid.New().String(),
		EmployeeID:   employeeID,
		DateIndex:    dateIndex,
		OldShift:     oldShift,
		NewShift:     newShift,
		EmployeeName: employeeName,
		TeamName:     teamName,
		DateHeader:   dateHeader,
		ModifiedBy:   actor,
		Timestamp:    now,
		MonthYear:    now.Format("2006-01"),
	}
	e.modLog.Append(rec)

	if err := e.store.SaveModifications(ctx, e.modLog); err != nil {
		e.logger.Error("Failed to persist modification log",
			zap.String("employee_id", employeeID),
			zap.String("date_header", dateHeader),
			zap.Error(err))
	}
}
