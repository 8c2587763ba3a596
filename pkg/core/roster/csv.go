package roster

import (
	"encoding/csv"
	"strings"

	"github.com/shiftdesk/shiftdesk/pkg/core/model"
)

// ParseCSV splits raw delimited text into trimmed row records. Quoted
// fields may contain delimiters and newlines, doubled quotes escape a
// literal quote, and a leading byte-order mark is tolerated. Row lengths
// are not normalised; short and long rows are preserved for the caller
// to validate. When strict parsing fails the text is re-split naively on
// line breaks and commas; degraded reports that lossy fallback so the
// caller can log it instead of failing the import.
func ParseCSV(text string) (rows [][]string, degraded bool) {
	text = strings.TrimPrefix(text, "\ufeff")

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return naiveSplit(text), true
	}

	rows = make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(rec))
		empty := true
		for i, cell := range rec {
			row[i] = strings.TrimSpace(cell)
			if row[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}
	return rows, false
}

func naiveSplit(text string) [][]string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, ",")
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = strings.TrimSpace(c)
		}
		rows = append(rows, row)
	}
	return rows
}

// ParseRosterRows builds a roster directly from parsed CSV rows in the
// import layout: row 0 is `Team,Name,ID,<date>,...` and each later row
// is one employee. A blank team cell continues the previous team, which
// some export paths rely on; rows missing a name or id are dropped.
func ParseRosterRows(rows [][]string) model.RosterData {
	data := model.NewRosterData()
	if len(rows) < 2 {
		return data
	}

	header := rows[0]
	if len(header) > 3 {
		for _, h := range header[3:] {
			if strings.TrimSpace(h) != "" {
				data.Headers = append(data.Headers, strings.TrimSpace(h))
			}
		}
	}

	currentTeam := ""
	for _, row := range rows[1:] {
		if len(row) < 3 {
			continue
		}
		if t := strings.TrimSpace(row[0]); t != "" {
			currentTeam = t
		}
		if currentTeam == "" {
			continue
		}
		name := strings.TrimSpace(row[1])
		id := strings.TrimSpace(row[2])
		if name == "" || id == "" {
			continue
		}

		schedule := make([]string, len(data.Headers))
		for i := range schedule {
			if 3+i < len(row) {
				schedule[i] = strings.TrimSpace(row[3+i])
			}
		}
		data.Teams[currentTeam] = append(data.Teams[currentTeam], model.Employee{
			ID:       id,
			Name:     name,
			Team:     currentTeam,
			Schedule: schedule,
		})
	}

	data.RebuildAllEmployees()
	return data
}
