package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
)

// ExportCSV writes the composed display view in the import layout:
// a `Team,Name,ID,<date>,...` header row followed by one row per
// employee, with the team cell populated only on the first row of each
// team block. Teams are emitted in name order for a stable export.
func (e *Engine) ExportCSV(w io.Writer) error {
	display := e.GetDisplay()

	cw := csv.NewWriter(w)
	header := append([]string{"Team", "Name", "ID"}, display.Headers...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	teams := make([]string, 0, len(display.Teams))
	for team := range display.Teams {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	for _, team := range teams {
		for i, emp := range display.Teams[team] {
			teamCell := ""
			if i == 0 {
				teamCell = team
			}
			row := append([]string{teamCell, emp.Name, emp.ID}, emp.Schedule...)
			// Pad short schedules so every row spans the header width.
			for len(row) < len(header) {
				row = append(row, "")
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
