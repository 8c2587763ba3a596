package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDateHeader(t *testing.T) {
	assert.Equal(t, "15Jan", NormalizeDateHeader("15-Jan"))
	assert.Equal(t, "15Jan", NormalizeDateHeader("15 jan"))
	assert.Equal(t, "15Jan", NormalizeDateHeader("15.JANUARY"))
	assert.Equal(t, "1Oct", NormalizeDateHeader("1Oct"))
	assert.Equal(t, "2Sep", NormalizeDateHeader("2-sept"))
}

func TestNormalizeDateHeader_NonDateLabels(t *testing.T) {
	// Labels that do not match day+month come back cleaned but intact.
	assert.Equal(t, "Notes", NormalizeDateHeader("Notes"))
	assert.Equal(t, "Week1", NormalizeDateHeader("Week 1"))
	assert.Equal(t, "15Xyz", NormalizeDateHeader("15-Xyz"))
}

func TestExtractDominantMonth(t *testing.T) {
	month := ExtractDominantMonth([]string{"1-Oct", "2-Oct", "3-Oct", "31-Sep"})
	assert.Equal(t, "Oct", month)
}

func TestExtractDominantMonth_FullNamesAndSubstrings(t *testing.T) {
	month := ExtractDominantMonth([]string{"1 November", "2 November", "nov extras"})
	assert.Equal(t, "Nov", month)
}

func TestExtractDominantMonth_TieBreaksToEarlierMonth(t *testing.T) {
	month := ExtractDominantMonth([]string{"30-Sep", "1-Oct"})
	assert.Equal(t, "Sep", month)
}

func TestExtractDominantMonth_NoMonths(t *testing.T) {
	assert.Equal(t, "", ExtractDominantMonth([]string{"Notes", "Week 1", ""}))
	assert.Equal(t, "", ExtractDominantMonth(nil))
}

func TestIsValidDateHeader(t *testing.T) {
	assert.True(t, IsValidDateHeader("1-Oct"))
	assert.True(t, IsValidDateHeader("15Jan"))
	assert.True(t, IsValidDateHeader("2 September"))

	assert.False(t, IsValidDateHeader(""))
	assert.False(t, IsValidDateHeader("   "))
	assert.False(t, IsValidDateHeader("Oct"))    // no day digit
	assert.False(t, IsValidDateHeader("12345"))  // no letters
	assert.False(t, IsValidDateHeader("15-Xyz")) // unknown month
}

func TestMonthKeyFor(t *testing.T) {
	assert.Equal(t, "2026-10", MonthKeyFor("Oct", "2026-08"))
	assert.Equal(t, "2026-01", MonthKeyFor("Jan", "2026-12"))

	// Unknown month or no year in the fallback leaves it unchanged.
	assert.Equal(t, "2026-08", MonthKeyFor("Xyz", "2026-08"))
	assert.Equal(t, "latest", MonthKeyFor("Oct", "latest"))
}
