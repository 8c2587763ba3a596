package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/shiftdesk/shiftdesk/pkg/core/model"
	"github.com/shiftdesk/shiftdesk/pkg/core/roster"
	"github.com/shiftdesk/shiftdesk/pkg/db"
)

// Engine owns the in-memory roster state and serialises every mutation
// behind one lock. All datasets are loaded fully into memory by LoadAll
// and written back to the store on every mutation, after which the
// composed display view is recomputed. Reads hand out snapshots of the
// last composed value and never recompose.
type Engine struct {
	mu     sync.RWMutex
	store  db.Store
	logger *zap.Logger

	authoritative model.RosterData
	override      model.RosterData
	display       model.RosterData

	modLog   model.ModificationLog
	requests model.RequestLedger
	syncCfg  model.SyncConfig

	fetcher  SourceFetcher
	validate *validator.Validate
}

// New constructs an engine over the given store. fetcher supplies CSV
// text for configured roster links; pass nil to use a plain HTTP
// fetcher.
func New(store db.Store, logger *zap.Logger, fetcher SourceFetcher) *Engine {
	if fetcher == nil {
		fetcher = NewHTTPFetcher(30 * time.Second)
	}
	return &Engine{
		store:         store,
		logger:        logger,
		authoritative: model.NewRosterData(),
		override:      model.NewRosterData(),
		display:       model.NewRosterData(),
		modLog:        model.NewModificationLog(),
		requests:      model.NewRequestLedger(),
		syncCfg:       model.NewSyncConfig(),
		fetcher:       fetcher,
		validate:      validator.New(),
	}
}

// SetFetcher swaps the link fetcher, e.g. to upgrade from plain HTTP
// downloads to an authenticated Sheets API reader.
func (e *Engine) SetFetcher(fetcher SourceFetcher) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fetcher != nil {
		e.fetcher = fetcher
	}
}

// LoadAll (re)populates all in-memory state from the store. Idempotent
// and safe to call repeatedly, e.g. on a reload-data action. Fresh and
// corrupt documents load as empty state; which ones were fresh is
// logged for diagnostics.
func (e *Engine) LoadAll(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	syncCfg, syncFresh, err := e.store.LoadSyncConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sync config: %w", err)
	}
	e.syncCfg = syncCfg

	months, err := e.store.ListMonths(ctx)
	if err != nil {
		return fmt.Errorf("failed to list months: %w", err)
	}
	e.syncCfg.AvailableMonths = months
	if e.syncCfg.CurrentMonth == "" && len(months) > 0 {
		e.syncCfg.CurrentMonth = months[len(months)-1]
	}

	auth, authFresh, err := e.store.LoadAuthoritative(ctx, e.syncCfg.CurrentMonth)
	if err != nil {
		return fmt.Errorf("failed to load authoritative roster: %w", err)
	}
	override, overrideFresh, err := e.store.LoadOverride(ctx)
	if err != nil {
		return fmt.Errorf("failed to load override roster: %w", err)
	}
	modLog, modFresh, err := e.store.LoadModifications(ctx)
	if err != nil {
		return fmt.Errorf("failed to load modification log: %w", err)
	}
	requests, reqFresh, err := e.store.LoadRequests(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedule requests: %w", err)
	}

	e.authoritative = auth
	e.override = override
	e.modLog = modLog
	e.requests = requests

	// Collapse any duplicate employees left over from team changes,
	// then persist the cleaned datasets.
	e.authoritative.DedupeTeamChanges()
	e.override.DedupeTeamChanges()
	if err := e.store.SaveAuthoritative(ctx, e.syncCfg.CurrentMonth, e.authoritative); err != nil {
		return fmt.Errorf("failed to save authoritative roster: %w", err)
	}
	if err := e.store.SaveOverride(ctx, e.override); err != nil {
		return fmt.Errorf("failed to save override roster: %w", err)
	}
	if err := e.store.SaveSyncConfig(ctx, e.syncCfg); err != nil {
		return fmt.Errorf("failed to save sync config: %w", err)
	}

	e.recompose()

	e.logger.Info("State loaded",
		zap.String("current_month", e.syncCfg.CurrentMonth),
		zap.Int("available_months", len(months)),
		zap.Int("teams", len(e.display.Teams)),
		zap.Int("employees", len(e.display.AllEmployees)),
		zap.Bool("fresh_sync_config", syncFresh),
		zap.Bool("fresh_authoritative", authFresh),
		zap.Bool("fresh_override", overrideFresh),
		zap.Bool("fresh_modifications", modFresh),
		zap.Bool("fresh_requests", reqFresh))
	return nil
}

// recompose rebuilds the display view. Callers must hold the write lock.
func (e *Engine) recompose() {
	e.display = roster.ComposeDisplay(e.authoritative, e.override)
}

// GetDisplay returns a snapshot of the composed display view.
func (e *Engine) GetDisplay() model.RosterData {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.display.Clone()
}

// GetAuthoritative returns a snapshot of the authoritative dataset.
func (e *Engine) GetAuthoritative() model.RosterData {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.authoritative.Clone()
}

// GetOverride returns a snapshot of the override dataset.
func (e *Engine) GetOverride() model.RosterData {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.override.Clone()
}

// SetAuthoritative installs a new authoritative dataset. When monthKey
// is non-empty the dataset is persisted under that month's partition
// and the month becomes current. Employees never seen by the override
// dataset are propagated into it so manual edits can target them.
func (e *Engine) SetAuthoritative(ctx context.Context, data model.RosterData, monthKey string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setAuthoritativeLocked(ctx, data, monthKey)
}

func (e *Engine) setAuthoritativeLocked(ctx context.Context, data model.RosterData, monthKey string) error {
	e.authoritative = data.Clone()
	e.authoritative.DedupeTeamChanges()

	if monthKey != "" {
		e.syncCfg.CurrentMonth = monthKey
		found := false
		for _, m := range e.syncCfg.AvailableMonths {
			if m == monthKey {
				found = true
				break
			}
		}
		if !found {
			e.syncCfg.AvailableMonths = append(e.syncCfg.AvailableMonths, monthKey)
			sort.Strings(e.syncCfg.AvailableMonths)
		}
		if err := e.store.SaveSyncConfig(ctx, e.syncCfg); err != nil {
			return fmt.Errorf("failed to save sync config: %w", err)
		}
	}

	if err := e.store.SaveAuthoritative(ctx, e.syncCfg.CurrentMonth, e.authoritative); err != nil {
		return fmt.Errorf("failed to save authoritative roster: %w", err)
	}

	if len(e.override.Headers) == 0 {
		e.override = e.authoritative.Clone()
	} else {
		// Keep the override positioned against the new header list so
		// manual edits under surviving headers carry over and freshly
		// imported columns become editable.
		roster.AlignHeaders(&e.override, e.authoritative.Headers)
		e.adoptNewEmployeesLocked()
		e.backfillOverrideLocked()
	}
	e.override.DedupeTeamChanges()
	if err := e.store.SaveOverride(ctx, e.override); err != nil {
		return fmt.Errorf("failed to save override roster: %w", err)
	}

	e.recompose()
	return nil
}

// adoptNewEmployeesLocked copies employees present in the authoritative
// dataset but unknown to the override dataset into the override, so the
// edit and request paths can reach them.
func (e *Engine) adoptNewEmployeesLocked() {
	known := map[string]bool{}
	for _, emps := range e.override.Teams {
		for _, emp := range emps {
			known[emp.ID] = true
		}
	}
	for team, emps := range e.authoritative.Teams {
		for _, emp := range emps {
			if known[emp.ID] {
				continue
			}
			copied := emp
			copied.Schedule = append([]string(nil), emp.Schedule...)
			e.override.Teams[team] = append(e.override.Teams[team], copied)
			known[emp.ID] = true
		}
	}
}

// backfillOverrideLocked copies authoritative cells into override cells
// that are still empty. Non-empty override cells are manual edits and
// always win; empty ones just haven't been touched, so freshly imported
// shifts flow through to the display.
func (e *Engine) backfillOverrideLocked() {
	n := len(e.override.Headers)
	for team, emps := range e.override.Teams {
		for i := range emps {
			src, _ := e.authoritative.FindEmployee(emps[i].ID)
			if src == nil {
				continue
			}
			emp := &e.override.Teams[team][i]
			for len(emp.Schedule) < n {
				emp.Schedule = append(emp.Schedule, "")
			}
			for j := 0; j < n && j < len(src.Schedule); j++ {
				if emp.Schedule[j] == "" && src.Schedule[j] != "" {
					emp.Schedule[j] = src.Schedule[j]
				}
			}
		}
	}
}

// SetOverride installs a new override dataset and recomposes.
func (e *Engine) SetOverride(ctx context.Context, data model.RosterData) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.override = data.Clone()
	e.override.DedupeTeamChanges()
	if err := e.store.SaveOverride(ctx, e.override); err != nil {
		return fmt.Errorf("failed to save override roster: %w", err)
	}
	e.recompose()
	return nil
}

// ResetOverrideToAuthoritative discards all manual edits, restoring the
// override dataset to a copy of the authoritative one.
func (e *Engine) ResetOverrideToAuthoritative(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.override = e.authoritative.Clone()
	e.override.DedupeTeamChanges()
	if err := e.store.SaveOverride(ctx, e.override); err != nil {
		return fmt.Errorf("failed to save override roster: %w", err)
	}
	e.recompose()
	e.logger.Info("Override roster reset to authoritative data")
	return nil
}

// ImportResult summarises one CSV import.
type ImportResult struct {
	Headers       []string
	DetectedMonth string
	SkippedRows   int
	Degraded      bool
}

// MergeCSVImport parses raw CSV text and merges it into the currently
// selected month's authoritative dataset. An import with no valid date
// headers is rejected atomically. Skipped rows and a degraded parse are
// reported in the result, not raised.
func (e *Engine) MergeCSVImport(ctx context.Context, text string) (ImportResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rows, degraded := roster.ParseCSV(text)
	if degraded {
		e.logger.Warn("CSV parse degraded to naive splitting; quoted content may be lost")
	}

	// Merge into a scratch copy so a rejected import leaves the
	// committed dataset untouched.
	merged := e.authoritative.Clone()
	summary, err := roster.MergeImport(&merged, rows)
	if err != nil {
		return ImportResult{}, err
	}
	if summary.SkippedRows > 0 {
		e.logger.Info("Skipped rows with invalid or missing shift data",
			zap.Int("count", summary.SkippedRows))
	}

	monthKey := e.syncCfg.CurrentMonth
	if summary.DetectedMonth != "" {
		fallback := monthKey
		if fallback == "" {
			fallback = time.Now().UTC().Format("2006-01")
		}
		monthKey = roster.MonthKeyFor(summary.DetectedMonth, fallback)
	}
	if err := e.setAuthoritativeLocked(ctx, merged, monthKey); err != nil {
		return ImportResult{}, err
	}

	e.logger.Info("CSV import merged",
		zap.String("detected_month", summary.DetectedMonth),
		zap.String("month_key", monthKey),
		zap.Int("headers", len(summary.Headers)),
		zap.Int("skipped_rows", summary.SkippedRows))

	return ImportResult{
		Headers:       summary.Headers,
		DetectedMonth: summary.DetectedMonth,
		SkippedRows:   summary.SkippedRows,
		Degraded:      degraded,
	}, nil
}

// RecordManualEdit sets one override cell and records the change in the
// modification log, attributing it to actor. The display view is
// recomposed before returning.
func (e *Engine) RecordManualEdit(ctx context.Context, employeeID string, dateIndex int, newShift, actor string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	emp, team := e.override.FindEmployee(employeeID)
	if emp == nil {
		return fmt.Errorf("%w: %s", ErrEmployeeNotFound, employeeID)
	}
	if dateIndex < 0 || dateIndex >= len(e.override.Headers) {
		return fmt.Errorf("date index %d out of range (have %d headers)", dateIndex, len(e.override.Headers))
	}
	if newShift != "" && !model.IsShiftCode(newShift) {
		return fmt.Errorf("unrecognised shift code %q", newShift)
	}

	for len(emp.Schedule) < len(e.override.Headers) {
		emp.Schedule = append(emp.Schedule, "")
	}
	oldShift := emp.Schedule[dateIndex]
	emp.Schedule[dateIndex] = newShift

	if err := e.store.SaveOverride(ctx, e.override); err != nil {
		return fmt.Errorf("failed to save override roster: %w", err)
	}

	e.trackModification(ctx, emp.ID, dateIndex, oldShift, newShift,
		emp.Name, team, e.override.Headers[dateIndex], actor)

	e.recompose()
	return nil
}

// SetCurrentMonth switches the engine to another month's authoritative
// partition and recomposes. It does not merge months together.
func (e *Engine) SetCurrentMonth(ctx context.Context, monthKey string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	auth, fresh, err := e.store.LoadAuthoritative(ctx, monthKey)
	if err != nil {
		return fmt.Errorf("failed to load authoritative roster for %s: %w", monthKey, err)
	}
	e.authoritative = auth
	e.authoritative.DedupeTeamChanges()
	e.syncCfg.CurrentMonth = monthKey
	if err := e.store.SaveSyncConfig(ctx, e.syncCfg); err != nil {
		return fmt.Errorf("failed to save sync config: %w", err)
	}
	e.recompose()

	e.logger.Info("Current month switched",
		zap.String("month", monthKey), zap.Bool("fresh", fresh))
	return nil
}

// ListAvailableMonths enumerates the month partitions present in the
// store.
func (e *Engine) ListAvailableMonths(ctx context.Context) ([]string, error) {
	return e.store.ListMonths(ctx)
}

// GetSyncConfig returns a snapshot of the sync configuration.
func (e *Engine) GetSyncConfig() model.SyncConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cfg := e.syncCfg
	cfg.AvailableMonths = append([]string(nil), cfg.AvailableMonths...)
	links := make(map[string]string, len(cfg.Links))
	for k, v := range cfg.Links {
		links[k] = v
	}
	cfg.Links = links
	return cfg
}

// SyncConfigPatch carries partial sync configuration updates; nil
// fields are left unchanged.
type SyncConfigPatch struct {
	AutoSyncEnabled *bool
	SyncFromLinks   *bool
	Links           map[string]string
}

// SetSyncConfig applies a partial update and persists the result.
func (e *Engine) SetSyncConfig(ctx context.Context, patch SyncConfigPatch) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if patch.AutoSyncEnabled != nil {
		e.syncCfg.AutoSyncEnabled = *patch.AutoSyncEnabled
	}
	if patch.SyncFromLinks != nil {
		e.syncCfg.SyncFromLinks = *patch.SyncFromLinks
	}
	if patch.Links != nil {
		e.syncCfg.Links = make(map[string]string, len(patch.Links))
		for k, v := range patch.Links {
			e.syncCfg.Links[k] = v
		}
	}
	if err := e.store.SaveSyncConfig(ctx, e.syncCfg); err != nil {
		return fmt.Errorf("failed to save sync config: %w", err)
	}
	return nil
}

// GetModificationLog returns a snapshot of the modification history and
// its monthly statistics.
func (e *Engine) GetModificationLog() model.ModificationLog {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := model.NewModificationLog()
	out.Modifications = append(out.Modifications, e.modLog.Modifications...)
	for month, stats := range e.modLog.MonthlyStats {
		copied := stats
		copied.EmployeesModified = append([]string(nil), stats.EmployeesModified...)
		copied.ModificationsByUser = make(map[string]int, len(stats.ModificationsByUser))
		for k, v := range stats.ModificationsByUser {
			copied.ModificationsByUser[k] = v
		}
		out.MonthlyStats[month] = copied
	}
	return out
}
