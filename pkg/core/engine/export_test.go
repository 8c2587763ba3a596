package engine

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)

	var buf bytes.Buffer
	require.NoError(t, e.ExportCSV(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Team", "Name", "ID", "1Oct", "2Oct"}, rows[0])
	assert.Equal(t, []string{"Alpha", "Jane", "E1", "M2", "D1"}, rows[1])
	assert.Equal(t, []string{"Beta", "Bob", "E2", "DO", "M3"}, rows[2])
}

func TestExportCSV_TeamCellOnFirstRowOnly(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.MergeCSVImport(context.Background(), "Team,Name,ID,1-Oct\n"+
		"Alpha,Jane,E1,M2\n"+
		"Alpha,Bob,E2,DO\n")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.ExportCSV(&buf))

	rows, readErr := csv.NewReader(&buf).ReadAll()
	require.NoError(t, readErr)
	require.Len(t, rows, 3)
	assert.Equal(t, "Alpha", rows[1][0])
	assert.Equal(t, "", rows[2][0])
}

func TestExportCSV_RoundTripsThroughImport(t *testing.T) {
	e := newTestEngine(t)
	importOctober(t, e)

	var buf bytes.Buffer
	require.NoError(t, e.ExportCSV(&buf))

	e2 := newTestEngine(t)
	_, err := e2.MergeCSVImport(context.Background(), buf.String())
	require.NoError(t, err)

	assert.ElementsMatch(t, e.GetDisplay().AllEmployees, e2.GetDisplay().AllEmployees)
}
