package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shiftdesk/shiftdesk/pkg/core/model"
	"github.com/shiftdesk/shiftdesk/pkg/core/roster"
	"github.com/shiftdesk/shiftdesk/pkg/db"
)

const octoberCSV = "Team,Name,ID,1-Oct,2-Oct\n" +
	"Alpha,Jane,E1,M2,D1\n" +
	"Beta,Bob,E2,DO,M3\n"

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	store, err := db.NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	e := New(store, zap.NewNop(), nil)
	require.NoError(t, e.LoadAll(context.Background()))
	return e
}

func importOctober(t *testing.T, e *Engine) {
	t.Helper()
	_, err := e.MergeCSVImport(context.Background(), octoberCSV)
	require.NoError(t, err)
}

func TestLoadAll_EmptyBootstrap(t *testing.T) {
	e := newTestEngine(t)

	assert.True(t, e.GetDisplay().IsEmpty())
	assert.True(t, e.GetAuthoritative().IsEmpty())
	assert.Empty(t, e.GetSyncConfig().CurrentMonth)
}

func TestMergeCSVImport(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.MergeCSVImport(context.Background(), octoberCSV)
	require.NoError(t, err)

	assert.Equal(t, []string{"1Oct", "2Oct"}, result.Headers)
	assert.Equal(t, "Oct", result.DetectedMonth)
	assert.False(t, result.Degraded)

	display := e.GetDisplay()
	assert.Equal(t, []string{"1Oct", "2Oct"}, display.Headers)
	assert.Len(t, display.AllEmployees, 2)

	// The detected month becomes the current partition.
	cfg := e.GetSyncConfig()
	assert.True(t, strings.HasSuffix(cfg.CurrentMonth, "-10"), "got %q", cfg.CurrentMonth)
	assert.Equal(t, []string{cfg.CurrentMonth}, cfg.AvailableMonths)
}

func TestMergeCSVImport_BootstrapsOverride(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)

	override := e.GetOverride()
	assert.Equal(t, []string{"1Oct", "2Oct"}, override.Headers)
	assert.Len(t, override.AllEmployees, 2)
}

func TestMergeCSVImport_RejectedImportLeavesStateUntouched(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)
	before := e.GetDisplay()

	_, err := e.MergeCSVImport(context.Background(), "Team,Name,ID,Notes\nAlpha,Jane,E1,M2\n")
	assert.ErrorIs(t, err, roster.ErrNoValidDateHeaders)

	assert.Equal(t, before, e.GetDisplay())
}

func TestMergeCSVImport_SecondMonthExtendsHeaders(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)

	_, err := e.MergeCSVImport(context.Background(), "Team,Name,ID,1-Nov\nAlpha,Jane,E1,M4\n")
	require.NoError(t, err)

	display := e.GetDisplay()
	assert.Equal(t, []string{"1Oct", "2Oct", "1Nov"}, display.Headers)

	emp, _ := display.FindEmployee("E1")
	require.NotNil(t, emp)
	assert.Equal(t, []string{"M2", "D1", "M4"}, emp.Schedule)

	months, err := e.ListAvailableMonths(context.Background())
	require.NoError(t, err)
	assert.Len(t, months, 2)
}

func TestRecordManualEdit(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)

	require.NoError(t, e.RecordManualEdit(context.Background(), "E1", 0, "DO", "admin"))

	display := e.GetDisplay()
	emp, _ := display.FindEmployee("E1")
	require.NotNil(t, emp)
	assert.Equal(t, "DO", emp.Schedule[0])

	// Authoritative data is untouched; only the override changed.
	auth := e.GetAuthoritative()
	authEmp, _ := auth.FindEmployee("E1")
	require.NotNil(t, authEmp)
	assert.Equal(t, "M2", authEmp.Schedule[0])

	log := e.GetModificationLog()
	require.Len(t, log.Modifications, 1)
	rec := log.Modifications[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "E1", rec.EmployeeID)
	assert.Equal(t, "M2", rec.OldShift)
	assert.Equal(t, "DO", rec.NewShift)
	assert.Equal(t, "Jane", rec.EmployeeName)
	assert.Equal(t, "Alpha", rec.TeamName)
	assert.Equal(t, "1Oct", rec.DateHeader)
	assert.Equal(t, "admin", rec.ModifiedBy)
	assert.NotEmpty(t, rec.MonthYear)

	stats := log.MonthlyStats[rec.MonthYear]
	assert.Equal(t, 1, stats.TotalModifications)
	assert.Equal(t, 1, stats.ModificationsByUser["admin"])
}

func TestRecordManualEdit_Validation(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)
	ctx := context.Background()

	assert.ErrorIs(t, e.RecordManualEdit(ctx, "nope", 0, "DO", "admin"), ErrEmployeeNotFound)
	assert.Error(t, e.RecordManualEdit(ctx, "E1", 99, "DO", "admin"))
	assert.Error(t, e.RecordManualEdit(ctx, "E1", 0, "XX", "admin"))

	// Clearing a cell with an empty code is allowed.
	assert.NoError(t, e.RecordManualEdit(ctx, "E1", 0, "", "admin"))
}

func TestResetOverrideToAuthoritative(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)
	ctx := context.Background()

	require.NoError(t, e.RecordManualEdit(ctx, "E1", 0, "DO", "admin"))
	require.NoError(t, e.ResetOverrideToAuthoritative(ctx))

	display := e.GetDisplay()
	emp, _ := display.FindEmployee("E1")
	require.NotNil(t, emp)
	assert.Equal(t, "M2", emp.Schedule[0])
}

func TestSetCurrentMonth(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)
	octMonth := e.GetSyncConfig().CurrentMonth

	_, err := e.MergeCSVImport(context.Background(), "Team,Name,ID,1-Nov\nAlpha,Jane,E1,M4\n")
	require.NoError(t, err)
	assert.NotEqual(t, octMonth, e.GetSyncConfig().CurrentMonth)

	require.NoError(t, e.SetCurrentMonth(context.Background(), octMonth))
	assert.Equal(t, octMonth, e.GetSyncConfig().CurrentMonth)

	auth := e.GetAuthoritative()
	assert.Equal(t, []string{"1Oct", "2Oct"}, auth.Headers)
}

func TestSetCurrentMonth_PersistsAcrossReload(t *testing.T) {
	store, err := db.NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	e := New(store, zap.NewNop(), nil)
	require.NoError(t, e.LoadAll(ctx))
	_, err = e.MergeCSVImport(ctx, octoberCSV)
	require.NoError(t, err)
	month := e.GetSyncConfig().CurrentMonth

	// A second engine over the same store resumes at the same month.
	e2 := New(store, zap.NewNop(), nil)
	require.NoError(t, e2.LoadAll(ctx))
	assert.Equal(t, month, e2.GetSyncConfig().CurrentMonth)
	assert.Len(t, e2.GetDisplay().AllEmployees, 2)
}

func TestSetSyncConfig(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	enabled := true
	require.NoError(t, e.SetSyncConfig(ctx, SyncConfigPatch{
		AutoSyncEnabled: &enabled,
		Links:           map[string]string{"2026-10": "https://example.com/oct.csv"},
	}))

	cfg := e.GetSyncConfig()
	assert.True(t, cfg.AutoSyncEnabled)
	assert.Equal(t, "https://example.com/oct.csv", cfg.Links["2026-10"])

	// Snapshot maps are copies; mutating one does not leak back.
	cfg.Links["2026-10"] = "tampered"
	assert.Equal(t, "https://example.com/oct.csv", e.GetSyncConfig().Links["2026-10"])
}

func TestGetDisplay_ReturnsIndependentSnapshot(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)

	display := e.GetDisplay()
	display.Teams["Alpha"][0].Schedule[0] = "tampered"

	fresh := e.GetDisplay()
	assert.Equal(t, "M2", fresh.Teams["Alpha"][0].Schedule[0])
}

func TestSetAuthoritative_AdoptsNewEmployees(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)
	ctx := context.Background()

	// Manual edit so the override diverges from authoritative.
	require.NoError(t, e.RecordManualEdit(ctx, "E1", 0, "DO", "admin"))

	next := model.NewRosterData()
	next.Headers = []string{"1Oct", "2Oct"}
	next.Teams["Alpha"] = []model.Employee{
		{ID: "E1", Name: "Jane", Schedule: []string{"M2", "D1"}},
		{ID: "E3", Name: "New Hire", Schedule: []string{"M3", "M3"}},
	}
	next.RebuildAllEmployees()
	require.NoError(t, e.SetAuthoritative(ctx, next, e.GetSyncConfig().CurrentMonth))

	display := e.GetDisplay()

	// The manual edit survives and the new employee is reachable.
	jane, _ := display.FindEmployee("E1")
	require.NotNil(t, jane)
	assert.Equal(t, "DO", jane.Schedule[0])

	hire, _ := display.FindEmployee("E3")
	require.NotNil(t, hire)
	assert.Equal(t, []string{"M3", "M3"}, hire.Schedule)

	require.NoError(t, e.RecordManualEdit(ctx, "E3", 1, "DO", "admin"))
}
