package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shiftdesk/shiftdesk/pkg/core/model"
	"github.com/shiftdesk/shiftdesk/pkg/core/roster"
)

// ShiftChangeInput carries an employee's request to change one shift.
type ShiftChangeInput struct {
	EmployeeID     string `validate:"required"`
	Date           string `validate:"required"`
	CurrentShift   string
	RequestedShift string `validate:"required"`
	Reason         string
}

// SwapInput carries a request to exchange two employees' shifts on a
// shared date.
type SwapInput struct {
	RequesterID      string `validate:"required"`
	TargetEmployeeID string `validate:"required,nefield=RequesterID"`
	Date             string `validate:"required"`
	RequesterShift   string
	TargetShift      string
	Reason           string
}

// SubmitShiftChange creates a pending shift-change request. The id is
// derived from a persisted monotonic counter, so it stays unique even
// if earlier requests are ever deleted.
func (e *Engine) SubmitShiftChange(ctx context.Context, in ShiftChangeInput) (model.ShiftChangeRequest, error) {
	if err := e.validate.Struct(in); err != nil {
		return model.ShiftChangeRequest{}, fmt.Errorf("invalid shift change request: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.requests.NextShiftChangeID++
	req := model.ShiftChangeRequest{
		ID:             fmt.Sprintf("shift_change_%d", e.requests.NextShiftChangeID),
		Type:           model.TypeShiftChange,
		Status:         model.StatusPending,
		EmployeeID:     in.EmployeeID,
		Date:           in.Date,
		CurrentShift:   in.CurrentShift,
		RequestedShift: in.RequestedShift,
		Reason:         in.Reason,
		CreatedAt:      time.Now().UTC(),
	}
	e.requests.ShiftChangeRequests = append(e.requests.ShiftChangeRequests, req)
	e.requests.RecountPending()

	if err := e.store.SaveRequests(ctx, e.requests); err != nil {
		return model.ShiftChangeRequest{}, fmt.Errorf("failed to save schedule requests: %w", err)
	}
	e.logger.Info("Shift change request submitted",
		zap.String("id", req.ID), zap.String("employee_id", req.EmployeeID), zap.String("date", req.Date))
	return req, nil
}

// SubmitSwap creates a pending swap request.
func (e *Engine) SubmitSwap(ctx context.Context, in SwapInput) (model.SwapRequest, error) {
	if err := e.validate.Struct(in); err != nil {
		return model.SwapRequest{}, fmt.Errorf("invalid swap request: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.requests.NextSwapID++
	req := model.SwapRequest{
		ID:               fmt.Sprintf("swap_%d", e.requests.NextSwapID),
		Type:             model.TypeSwap,
		Status:           model.StatusPending,
		RequesterID:      in.RequesterID,
		TargetEmployeeID: in.TargetEmployeeID,
		Date:             in.Date,
		RequesterShift:   in.RequesterShift,
		TargetShift:      in.TargetShift,
		Reason:           in.Reason,
		CreatedAt:        time.Now().UTC(),
	}
	e.requests.SwapRequests = append(e.requests.SwapRequests, req)
	e.requests.RecountPending()

	if err := e.store.SaveRequests(ctx, e.requests); err != nil {
		return model.SwapRequest{}, fmt.Errorf("failed to save schedule requests: %w", err)
	}
	e.logger.Info("Swap request submitted",
		zap.String("id", req.ID),
		zap.String("requester_id", req.RequesterID),
		zap.String("target_employee_id", req.TargetEmployeeID),
		zap.String("date", req.Date))
	return req, nil
}

// SetRequestStatus finalises a pending request. Rejection only flips
// the status. Approval additionally applies the requested mutation to
// the override dataset and records it in the modification log, all
// under the engine lock so no half-applied state is ever observable;
// for a swap both cells are exchanged before any tracker entry is
// written. Unknown ids and already-finalised requests fail without
// mutating anything.
func (e *Engine) SetRequestStatus(ctx context.Context, id string, status model.RequestStatus, actor string) error {
	if status != model.StatusApproved && status != model.StatusRejected {
		return fmt.Errorf("invalid target status %q", status)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.requests.ShiftChangeRequests {
		if e.requests.ShiftChangeRequests[i].ID != id {
			continue
		}
		return e.finalizeShiftChangeLocked(ctx, &e.requests.ShiftChangeRequests[i], status, actor)
	}
	for i := range e.requests.SwapRequests {
		if e.requests.SwapRequests[i].ID != id {
			continue
		}
		return e.finalizeSwapLocked(ctx, &e.requests.SwapRequests[i], status, actor)
	}
	return fmt.Errorf("%w: %s", ErrRequestNotFound, id)
}

func (e *Engine) finalizeShiftChangeLocked(ctx context.Context, req *model.ShiftChangeRequest, status model.RequestStatus, actor string) error {
	if req.Status.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrRequestFinalized, req.ID, req.Status)
	}

	if status == model.StatusApproved {
		emp, team := e.override.FindEmployee(req.EmployeeID)
		if emp == nil {
			return fmt.Errorf("%w: %s", ErrEmployeeNotFound, req.EmployeeID)
		}
		idx, err := e.headerIndexLocked(req.Date)
		if err != nil {
			return err
		}
		padSchedule(emp, len(e.override.Headers))
		oldShift := emp.Schedule[idx]
		emp.Schedule[idx] = req.RequestedShift

		now := time.Now().UTC()
		req.Status = model.StatusApproved
		req.ApprovedAt = &now
		req.ApprovedBy = actor
		e.requests.ApprovedCount++

		e.trackModification(ctx, emp.ID, idx, oldShift, req.RequestedShift,
			emp.Name, team, e.override.Headers[idx], actor)

		if err := e.store.SaveOverride(ctx, e.override); err != nil {
			return fmt.Errorf("failed to save override roster: %w", err)
		}
	} else {
		req.Status = model.StatusRejected
	}

	e.requests.RecountPending()
	if err := e.store.SaveRequests(ctx, e.requests); err != nil {
		return fmt.Errorf("failed to save schedule requests: %w", err)
	}
	e.recompose()

	e.logger.Info("Shift change request finalised",
		zap.String("id", req.ID), zap.String("status", string(status)), zap.String("actor", actor))
	return nil
}

func (e *Engine) finalizeSwapLocked(ctx context.Context, req *model.SwapRequest, status model.RequestStatus, actor string) error {
	if req.Status.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrRequestFinalized, req.ID, req.Status)
	}

	if status == model.StatusApproved {
		requester, requesterTeam := e.override.FindEmployee(req.RequesterID)
		if requester == nil {
			return fmt.Errorf("%w: %s", ErrEmployeeNotFound, req.RequesterID)
		}
		target, targetTeam := e.override.FindEmployee(req.TargetEmployeeID)
		if target == nil {
			return fmt.Errorf("%w: %s", ErrEmployeeNotFound, req.TargetEmployeeID)
		}
		idx, err := e.headerIndexLocked(req.Date)
		if err != nil {
			return err
		}
		padSchedule(requester, len(e.override.Headers))
		padSchedule(target, len(e.override.Headers))

		// Exchange both cells before any audit entry is written, so
		// the swap is never observable half-applied.
		requesterOld := requester.Schedule[idx]
		targetOld := target.Schedule[idx]
		requester.Schedule[idx] = targetOld
		target.Schedule[idx] = requesterOld

		now := time.Now().UTC()
		req.Status = model.StatusApproved
		req.ApprovedAt = &now
		req.ApprovedBy = actor
		e.requests.ApprovedCount++

		header := e.override.Headers[idx]
		e.trackModification(ctx, requester.ID, idx, requesterOld, targetOld,
			requester.Name, requesterTeam, header, actor)
		e.trackModification(ctx, target.ID, idx, targetOld, requesterOld,
			target.Name, targetTeam, header, actor)

		if err := e.store.SaveOverride(ctx, e.override); err != nil {
			return fmt.Errorf("failed to save override roster: %w", err)
		}
	} else {
		req.Status = model.StatusRejected
	}

	e.requests.RecountPending()
	if err := e.store.SaveRequests(ctx, e.requests); err != nil {
		return fmt.Errorf("failed to save schedule requests: %w", err)
	}
	e.recompose()

	e.logger.Info("Swap request finalised",
		zap.String("id", req.ID), zap.String("status", string(status)), zap.String("actor", actor))
	return nil
}

// headerIndexLocked resolves a request date against the override
// headers, comparing normalized tokens so "1-Oct" matches "1Oct".
func (e *Engine) headerIndexLocked(date string) (int, error) {
	want := strings.ToLower(roster.NormalizeDateHeader(date))
	for i, h := range e.override.Headers {
		if strings.ToLower(roster.NormalizeDateHeader(h)) == want {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDateHeader, date)
}

// HeaderIndex resolves a date header to its column index, using the
// same normalized comparison the approval path uses.
func (e *Engine) HeaderIndex(date string) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.headerIndexLocked(date)
}

func padSchedule(emp *model.Employee, n int) {
	for len(emp.Schedule) < n {
		emp.Schedule = append(emp.Schedule, "")
	}
}

// GetRequests returns a snapshot of the full request ledger.
func (e *Engine) GetRequests() model.RequestLedger {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := e.requests
	out.ShiftChangeRequests = append([]model.ShiftChangeRequest(nil), e.requests.ShiftChangeRequests...)
	out.SwapRequests = append([]model.SwapRequest(nil), e.requests.SwapRequests...)
	return out
}

// PendingRequests returns both pending lists.
func (e *Engine) PendingRequests() ([]model.ShiftChangeRequest, []model.SwapRequest) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var changes []model.ShiftChangeRequest
	for _, r := range e.requests.ShiftChangeRequests {
		if r.Status == model.StatusPending {
			changes = append(changes, r)
		}
	}
	var swaps []model.SwapRequest
	for _, r := range e.requests.SwapRequests {
		if r.Status == model.StatusPending {
			swaps = append(swaps, r)
		}
	}
	return changes, swaps
}

// RequestSummary is one row in the flattened, newest-first request
// listing used by admin views.
type RequestSummary struct {
	ID        string
	Type      model.RequestType
	Status    model.RequestStatus
	Date      string
	CreatedAt time.Time
}

// AllRequestsSorted flattens both lists, newest first.
func (e *Engine) AllRequestsSorted() []RequestSummary {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]RequestSummary, 0, len(e.requests.ShiftChangeRequests)+len(e.requests.SwapRequests))
	for _, r := range e.requests.ShiftChangeRequests {
		out = append(out, RequestSummary{ID: r.ID, Type: r.Type, Status: r.Status, Date: r.Date, CreatedAt: r.CreatedAt})
	}
	for _, r := range e.requests.SwapRequests {
		out = append(out, RequestSummary{ID: r.ID, Type: r.Type, Status: r.Status, Date: r.Date, CreatedAt: r.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
