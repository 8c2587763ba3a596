package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftdesk/shiftdesk/pkg/core/model"
)

func octoberRows() [][]string {
	return [][]string{
		{"Team", "Name", "ID", "1-Oct", "2-Oct"},
		{"Alpha", "Jane", "E1", "M2", "D1"},
		{"Beta", "Bob", "E2", "DO", "M3"},
	}
}

func TestMergeImport_FreshRoster(t *testing.T) {
	data := model.NewRosterData()

	summary, err := MergeImport(&data, octoberRows())
	require.NoError(t, err)

	assert.Equal(t, []string{"1Oct", "2Oct"}, summary.Headers)
	assert.Equal(t, "Oct", summary.DetectedMonth)
	assert.Zero(t, summary.SkippedRows)

	assert.Equal(t, []string{"1Oct", "2Oct"}, data.Headers)
	require.Len(t, data.Teams["Alpha"], 1)
	assert.Equal(t, []string{"M2", "D1"}, data.Teams["Alpha"][0].Schedule)
	assert.Len(t, data.AllEmployees, 2)
}

func TestMergeImport_NoValidDateHeaders(t *testing.T) {
	data := model.NewRosterData()

	_, err := MergeImport(&data, [][]string{
		{"Team", "Name", "ID", "Notes", "Week 1"},
		{"Alpha", "Jane", "E1", "M2", "D1"},
	})

	assert.ErrorIs(t, err, ErrNoValidDateHeaders)
	assert.True(t, data.IsEmpty())
}

func TestMergeImport_InvalidHeadersDropped(t *testing.T) {
	data := model.NewRosterData()

	summary, err := MergeImport(&data, [][]string{
		{"Team", "Name", "ID", "1-Oct", "Notes", "2-Oct"},
		{"Alpha", "Jane", "E1", "M2", "ignore me", "D1"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"1Oct", "2Oct"}, summary.Headers)
	// Cells under the dropped header are skipped, not shifted.
	assert.Equal(t, []string{"M2", "D1"}, data.Teams["Alpha"][0].Schedule)
}

func TestMergeImport_SkipsRowsWithoutRecognisedShifts(t *testing.T) {
	data := model.NewRosterData()

	summary, err := MergeImport(&data, [][]string{
		{"Team", "Name", "ID", "1-Oct"},
		{"Alpha", "Jane", "E1", "M2"},
		{"Alpha", "Ghost", "E9", "??"},
		{"Alpha", "Empty", "E8", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.SkippedRows)
	assert.Len(t, data.AllEmployees, 1)
}

func TestMergeImport_ReimportReplacesMonth(t *testing.T) {
	data := model.NewRosterData()
	_, err := MergeImport(&data, octoberRows())
	require.NoError(t, err)

	// Re-import October with different shifts; the month is superseded.
	_, err = MergeImport(&data, [][]string{
		{"Team", "Name", "ID", "1-Oct", "2-Oct"},
		{"Alpha", "Jane", "E1", "D2", "DO"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"1Oct", "2Oct"}, data.Headers)
	assert.Equal(t, []string{"D2", "DO"}, data.Teams["Alpha"][0].Schedule)
}

func TestMergeImport_SecondMonthKeepsExistingCells(t *testing.T) {
	data := model.NewRosterData()
	_, err := MergeImport(&data, octoberRows())
	require.NoError(t, err)

	_, err = MergeImport(&data, [][]string{
		{"Team", "Name", "ID", "1-Nov"},
		{"Alpha", "Jane", "E1", "M4"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"1Oct", "2Oct", "1Nov"}, data.Headers)
	emp, team := data.FindEmployee("E1")
	require.NotNil(t, emp)
	assert.Equal(t, "Alpha", team)
	assert.Equal(t, []string{"M2", "D1", "M4"}, emp.Schedule)

	// Bob was not in the November import; his October cells survive and
	// the new column is padded empty.
	bob, _ := data.FindEmployee("E2")
	require.NotNil(t, bob)
	assert.Equal(t, []string{"DO", "M3", ""}, bob.Schedule)
}

func TestMergeImport_NameAlwaysWins(t *testing.T) {
	data := model.NewRosterData()
	_, err := MergeImport(&data, octoberRows())
	require.NoError(t, err)

	_, err = MergeImport(&data, [][]string{
		{"Team", "Name", "ID", "1-Nov"},
		{"Alpha", "Jane Smith", "E1", "M2"},
	})
	require.NoError(t, err)

	emp, _ := data.FindEmployee("E1")
	require.NotNil(t, emp)
	assert.Equal(t, "Jane Smith", emp.Name)
}

func TestMergeImport_TeamChangeRemovesOldEntry(t *testing.T) {
	data := model.NewRosterData()
	_, err := MergeImport(&data, octoberRows())
	require.NoError(t, err)

	_, err = MergeImport(&data, [][]string{
		{"Team", "Name", "ID", "1-Nov"},
		{"Beta", "Jane", "E1", "M2"},
	})
	require.NoError(t, err)

	assert.Empty(t, data.Teams["Alpha"])
	require.Len(t, data.Teams["Beta"], 2)

	emp, team := data.FindEmployee("E1")
	require.NotNil(t, emp)
	assert.Equal(t, "Beta", team)
	// The entry is re-created under its new team; October cells of the
	// old entry do not follow it.
	assert.Equal(t, []string{"", "", "M2"}, emp.Schedule)
}

func TestMergeImport_CodesUppercased(t *testing.T) {
	data := model.NewRosterData()

	_, err := MergeImport(&data, [][]string{
		{"Team", "Name", "ID", "1-Oct"},
		{"Alpha", "Jane", "E1", "m2"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"M2"}, data.Teams["Alpha"][0].Schedule)
}

func TestMergeHeaders_UnionWithoutDetectedMonth(t *testing.T) {
	out := mergeHeaders([]string{"1Oct", "2Oct"}, []string{"2Oct", "3Oct"}, "")
	assert.Equal(t, []string{"1Oct", "2Oct", "3Oct"}, out)
}
