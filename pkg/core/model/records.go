package model

import "time"

// ModifiedShiftRecord is one immutable audit log entry for a manually
// changed shift cell. MonthYear is stamped from the wall-clock month at
// record time, not from the shift's own date.
type ModifiedShiftRecord struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	DateIndex    int       `json:"date_index"`
	OldShift     string    `json:"old_shift"`
	NewShift     string    `json:"new_shift"`
	EmployeeName string    `json:"employee_name"`
	TeamName     string    `json:"team_name"`
	DateHeader   string    `json:"date_header"`
	ModifiedBy   string    `json:"modified_by"`
	Timestamp    time.Time `json:"timestamp"`
	MonthYear    string    `json:"month_year"`
}

// MonthlyStats aggregates modification activity for one month key.
// It is maintained incrementally from each new record, never recomputed
// from the full log.
type MonthlyStats struct {
	TotalModifications  int            `json:"total_modifications"`
	EmployeesModified   []string       `json:"employees_modified"`
	ModificationsByUser map[string]int `json:"modifications_by_user"`
}

// ModificationLog is the append-only modification history plus its
// rolling per-month statistics, persisted as one document.
type ModificationLog struct {
	Modifications []ModifiedShiftRecord   `json:"modifications"`
	MonthlyStats  map[string]MonthlyStats `json:"monthly_stats"`
}

// NewModificationLog returns an empty log with initialised maps.
func NewModificationLog() ModificationLog {
	return ModificationLog{
		Modifications: []ModifiedShiftRecord{},
		MonthlyStats:  map[string]MonthlyStats{},
	}
}

// Append records one modification and updates that month's stats.
func (l *ModificationLog) Append(rec ModifiedShiftRecord) {
	l.Modifications = append(l.Modifications, rec)
	if l.MonthlyStats == nil {
		l.MonthlyStats = map[string]MonthlyStats{}
	}
	stats, ok := l.MonthlyStats[rec.MonthYear]
	if !ok {
		stats = MonthlyStats{
			EmployeesModified:   []string{},
			ModificationsByUser: map[string]int{},
		}
	}
	stats.TotalModifications++
	seen := false
	for _, id := range stats.EmployeesModified {
		if id == rec.EmployeeID {
			seen = true
			break
		}
	}
	if !seen {
		stats.EmployeesModified = append(stats.EmployeesModified, rec.EmployeeID)
	}
	if stats.ModificationsByUser == nil {
		stats.ModificationsByUser = map[string]int{}
	}
	stats.ModificationsByUser[rec.ModifiedBy]++
	l.MonthlyStats[rec.MonthYear] = stats
}

// RequestStatus is the lifecycle state of a schedule request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Terminal reports whether the status permits no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// RequestType discriminates the two schedule request variants.
type RequestType string

const (
	TypeShiftChange RequestType = "shift_change"
	TypeSwap        RequestType = "swap"
)

// ShiftChangeRequest asks for one employee's shift on one date to be
// replaced with a different code.
type ShiftChangeRequest struct {
	ID             string        `json:"id"`
	Type           RequestType   `json:"type"`
	Status         RequestStatus `json:"status"`
	EmployeeID     string        `json:"employee_id"`
	Date           string        `json:"date"`
	CurrentShift   string        `json:"current_shift"`
	RequestedShift string        `json:"requested_shift"`
	Reason         string        `json:"reason"`
	CreatedAt      time.Time     `json:"created_at"`
	ApprovedAt     *time.Time    `json:"approved_at"`
	ApprovedBy     string        `json:"approved_by,omitempty"`
}

// SwapRequest asks for two employees' shifts on a shared date to be
// exchanged.
type SwapRequest struct {
	ID               string        `json:"id"`
	Type             RequestType   `json:"type"`
	Status           RequestStatus `json:"status"`
	RequesterID      string        `json:"requester_id"`
	TargetEmployeeID string        `json:"target_employee_id"`
	Date             string        `json:"date"`
	RequesterShift   string        `json:"requester_shift"`
	TargetShift      string        `json:"target_shift"`
	Reason           string        `json:"reason"`
	CreatedAt        time.Time     `json:"created_at"`
	ApprovedAt       *time.Time    `json:"approved_at"`
	ApprovedBy       string        `json:"approved_by,omitempty"`
}

// RequestLedger holds both request lists, the derived counters, and the
// monotonic id counters. The id counters only ever grow, so an id is
// never reused even if a request is later deleted from its list.
type RequestLedger struct {
	ShiftChangeRequests []ShiftChangeRequest `json:"shift_change_requests"`
	SwapRequests        []SwapRequest        `json:"swap_requests"`
	ApprovedCount       int                  `json:"approved_count"`
	PendingCount        int                  `json:"pending_count"`
	NextShiftChangeID   int                  `json:"next_shift_change_id"`
	NextSwapID          int                  `json:"next_swap_id"`
}

// NewRequestLedger returns an empty ledger with initialised lists.
func NewRequestLedger() RequestLedger {
	return RequestLedger{
		ShiftChangeRequests: []ShiftChangeRequest{},
		SwapRequests:        []SwapRequest{},
	}
}

// RecountPending recomputes the pending counter from both lists.
func (l *RequestLedger) RecountPending() {
	n := 0
	for _, r := range l.ShiftChangeRequests {
		if r.Status == StatusPending {
			n++
		}
	}
	for _, r := range l.SwapRequests {
		if r.Status == StatusPending {
			n++
		}
	}
	l.PendingCount = n
}

// SyncConfig is the process-wide synchronisation configuration,
// persisted on every mutation. Links maps a month key (YYYY-MM) to the
// source it is imported from: a plain CSV URL or a Google Sheet
// reference.
type SyncConfig struct {
	AutoSyncEnabled bool              `json:"autoSyncEnabled"`
	SyncFromLinks   bool              `json:"syncFromLinks"`
	CurrentMonth    string            `json:"currentMonth"`
	AvailableMonths []string          `json:"availableMonths"`
	Links           map[string]string `json:"links"`
}

// NewSyncConfig returns an empty configuration with initialised maps.
func NewSyncConfig() SyncConfig {
	return SyncConfig{
		AvailableMonths: []string{},
		Links:           map[string]string{},
	}
}
