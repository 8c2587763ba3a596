package roster

import (
	"errors"
	"strings"

	"github.com/shiftdesk/shiftdesk/pkg/core/model"
)

// ErrNoValidDateHeaders rejects an import whose header row contains no
// usable date columns. The import is rejected atomically; no partial
// header set is ever committed.
var ErrNoValidDateHeaders = errors.New("no valid date headers found in CSV; headers must contain day and month (e.g. \"1Oct\", \"15-Jan\")")

// ImportSummary reports the outcome of one merge.
type ImportSummary struct {
	Headers       []string
	DetectedMonth string
	SkippedRows   int
}

// MergeImport merges freshly parsed CSV rows into an existing roster.
// Row 0 must be the `Team,Name,ID,<date>,...` header row. Headers
// failing date validation are dropped; if none survive the whole import
// fails. When a dominant month is detected, existing headers for that
// month are replaced outright (re-import supersedes); otherwise headers
// are unioned. Data rows missing identity fields or holding no
// recognised shift code are skipped and counted. The existing roster is
// mutated in place and is untouched when an error is returned.
func MergeImport(existing *model.RosterData, rows [][]string) (ImportSummary, error) {
	if len(rows) < 2 {
		return ImportSummary{}, errors.New("CSV too short: need a header row and at least one data row")
	}

	headerRow := rows[0]
	// Positions of surviving date headers within the raw row, offset
	// past the three identity columns.
	var rawOffsets []int
	var validRaw []string
	if len(headerRow) > 3 {
		for i, h := range headerRow[3:] {
			h = strings.TrimSpace(h)
			if h == "" || !IsValidDateHeader(h) {
				continue
			}
			rawOffsets = append(rawOffsets, i)
			validRaw = append(validRaw, h)
		}
	}
	if len(validRaw) == 0 {
		return ImportSummary{}, ErrNoValidDateHeaders
	}

	normalized := make([]string, len(validRaw))
	for i, h := range validRaw {
		normalized[i] = NormalizeDateHeader(h)
	}
	detectedMonth := ExtractDominantMonth(validRaw)
	newHeaders := mergeHeaders(existing.Headers, normalized, detectedMonth)

	type importedEmployee struct {
		name     string
		id       string
		schedule []string
	}
	importedTeams := map[string][]importedEmployee{}
	var teamOrder []string
	skipped := 0

	for _, row := range rows[1:] {
		if len(row) < 3 {
			continue
		}
		team := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		id := strings.TrimSpace(row[2])
		if team == "" || name == "" || id == "" {
			continue
		}

		shifts := make([]string, len(rawOffsets))
		hasValid := false
		for i, off := range rawOffsets {
			col := 3 + off
			if col < len(row) {
				s := strings.ToUpper(strings.TrimSpace(row[col]))
				shifts[i] = s
				if s != "" && model.IsShiftCode(s) {
					hasValid = true
				}
			}
		}
		if !hasValid {
			skipped++
			continue
		}

		if _, ok := importedTeams[team]; !ok {
			teamOrder = append(teamOrder, team)
		}
		importedTeams[team] = append(importedTeams[team], importedEmployee{name: name, id: id, schedule: shifts})
	}

	if existing.Teams == nil {
		existing.Teams = map[string][]model.Employee{}
	}

	headerIndex := map[string]int{}
	for i, h := range newHeaders {
		headerIndex[h] = i
	}

	// Re-align every existing schedule with the merged header list so
	// that cells for untouched months keep their header, not their old
	// position. Cells under replaced headers are superseded and drop.
	AlignHeaders(existing, newHeaders)

	for _, team := range teamOrder {
		for _, imp := range importedTeams[team] {
			// An id is unique across the whole dataset: drop the
			// employee from any other team before placing it here.
			for otherTeam, emps := range existing.Teams {
				if otherTeam == team {
					continue
				}
				out := emps[:0]
				for _, e := range emps {
					if e.ID != imp.id {
						out = append(out, e)
					}
				}
				existing.Teams[otherTeam] = out
			}

			emps := existing.Teams[team]
			pos := -1
			for i := range emps {
				if emps[i].ID == imp.id {
					pos = i
					break
				}
			}
			if pos == -1 {
				existing.Teams[team] = append(emps, model.Employee{
					ID:       imp.id,
					Name:     imp.name,
					Team:     team,
					Schedule: make([]string, len(newHeaders)),
				})
				pos = len(existing.Teams[team]) - 1
			}

			emp := &existing.Teams[team][pos]
			emp.Name = imp.name // import always wins on name
			emp.Team = team
			for len(emp.Schedule) < len(newHeaders) {
				emp.Schedule = append(emp.Schedule, "")
			}
			for i, hdr := range normalized {
				if idx, ok := headerIndex[hdr]; ok && imp.schedule[i] != "" {
					emp.Schedule[idx] = imp.schedule[i]
				}
			}
		}
	}

	existing.RebuildAllEmployees()

	return ImportSummary{
		Headers:       normalized,
		DetectedMonth: detectedMonth,
		SkippedRows:   skipped,
	}, nil
}

// AlignHeaders rewrites every schedule in data so that it is positioned
// against headers instead of data's current header list. Cells whose
// header survives keep their value; cells under dropped headers are
// discarded and new columns start empty. Headers is copied, not shared.
func AlignHeaders(data *model.RosterData, headers []string) {
	oldIndex := map[string]int{}
	for i, h := range data.Headers {
		if _, ok := oldIndex[h]; !ok {
			oldIndex[h] = i
		}
	}
	for team, emps := range data.Teams {
		for i := range emps {
			old := emps[i].Schedule
			remapped := make([]string, len(headers))
			for j, h := range headers {
				if oi, ok := oldIndex[h]; ok && oi < len(old) {
					remapped[j] = old[oi]
				}
			}
			data.Teams[team][i].Schedule = remapped
		}
	}
	data.Headers = append([]string(nil), headers...)
}

// mergeHeaders applies the month-scoped replacement policy: with a
// detected month, every existing header for that month is dropped and
// the new headers appended; without one, the sets are unioned in order.
func mergeHeaders(existing, incoming []string, detectedMonth string) []string {
	if detectedMonth == "" {
		seen := map[string]bool{}
		var out []string
		for _, h := range existing {
			if !seen[h] {
				seen[h] = true
				out = append(out, h)
			}
		}
		for _, h := range incoming {
			if !seen[h] {
				seen[h] = true
				out = append(out, h)
			}
		}
		return out
	}

	lower := strings.ToLower(detectedMonth)
	var out []string
	for _, h := range existing {
		if !strings.Contains(strings.ToLower(h), lower) {
			out = append(out, h)
		}
	}
	return append(out, incoming...)
}
