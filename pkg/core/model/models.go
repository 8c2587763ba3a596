package model

import "sort"

// ShiftCodes is the fixed vocabulary of recognised shift and absence codes.
var ShiftCodes = []string{"M2", "M3", "M4", "D1", "D2", "DO", "SL", "CL", "EL", "HL"}

// ShiftDescriptions maps each shift code to its human-readable meaning.
var ShiftDescriptions = map[string]string{
	"M2": "8 AM - 5 PM",
	"M3": "9 AM - 6 PM",
	"M4": "10 AM - 7 PM",
	"D1": "12 PM - 9 PM",
	"D2": "1 PM - 10 PM",
	"DO": "OFF",
	"SL": "Sick Leave",
	"CL": "Casual Leave",
	"EL": "Emergency Leave",
	"HL": "Holiday Leave",
	"":   "N/A",
}

// IsShiftCode reports whether code belongs to the recognised set.
func IsShiftCode(code string) bool {
	for _, c := range ShiftCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Employee is a single roster row. Schedule is aligned positionally with
// the owning RosterData's Headers and is padded with empty codes so that
// len(Schedule) == len(Headers).
type Employee struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Team     string   `json:"team"`
	Schedule []string `json:"schedule"`
}

// RosterData is one month's roster. Two independent instances exist per
// month: the authoritative dataset (CSV/sheet import) and the override
// dataset (administrator edits). AllEmployees is a derived projection,
// rebuilt wholesale from Teams and never hand-mutated.
type RosterData struct {
	Teams        map[string][]Employee `json:"teams"`
	Headers      []string              `json:"headers"`
	AllEmployees []Employee            `json:"allEmployees"`
}

// NewRosterData returns an empty roster with initialised maps.
func NewRosterData() RosterData {
	return RosterData{
		Teams:        map[string][]Employee{},
		Headers:      []string{},
		AllEmployees: []Employee{},
	}
}

// Clone returns a deep copy of the roster.
func (r RosterData) Clone() RosterData {
	out := RosterData{
		Teams:        make(map[string][]Employee, len(r.Teams)),
		Headers:      append([]string(nil), r.Headers...),
		AllEmployees: make([]Employee, 0, len(r.AllEmployees)),
	}
	for team, emps := range r.Teams {
		copied := make([]Employee, len(emps))
		for i, e := range emps {
			copied[i] = e.clone()
		}
		out.Teams[team] = copied
	}
	for _, e := range r.AllEmployees {
		out.AllEmployees = append(out.AllEmployees, e.clone())
	}
	if out.Headers == nil {
		out.Headers = []string{}
	}
	return out
}

func (e Employee) clone() Employee {
	e.Schedule = append([]string(nil), e.Schedule...)
	return e
}

// IsEmpty reports whether the roster carries no headers and no teams.
func (r RosterData) IsEmpty() bool {
	return len(r.Headers) == 0 && len(r.Teams) == 0
}

// FindEmployee locates an employee by id, returning the employee pointer
// and its team name, or nil if absent.
func (r *RosterData) FindEmployee(id string) (*Employee, string) {
	for team, emps := range r.Teams {
		for i := range emps {
			if emps[i].ID == id {
				return &r.Teams[team][i], team
			}
		}
	}
	return nil, ""
}

// RebuildAllEmployees regenerates the flattened employee projection from
// Teams. Duplicate ids across teams collapse to the last-seen entry, and
// each employee's Team field is stamped with its owning team.
func (r *RosterData) RebuildAllEmployees() {
	seen := make(map[string]int)
	all := make([]Employee, 0, len(r.AllEmployees))
	for team, emps := range r.Teams {
		for i := range emps {
			r.Teams[team][i].Team = team
			e := r.Teams[team][i]
			if idx, ok := seen[e.ID]; ok {
				all[idx] = e
				continue
			}
			seen[e.ID] = len(all)
			all = append(all, e)
		}
	}
	r.AllEmployees = all
}

// DedupeTeamChanges collapses employees that appear under multiple teams
// after a team change between months. The team holding the most recent
// non-empty schedule cell is promoted; schedule cells from every entry
// are merged into the promoted one, and the other entries are removed.
func (r *RosterData) DedupeTeamChanges() {
	if len(r.Headers) == 0 {
		return
	}

	type entry struct {
		team string
		emp  Employee
	}
	byID := make(map[string][]entry)
	teams := make([]string, 0, len(r.Teams))
	for team := range r.Teams {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	for _, team := range teams {
		for _, e := range r.Teams[team] {
			byID[e.ID] = append(byID[e.ID], entry{team: team, emp: e})
		}
	}

	// Decide the surviving entry per duplicated id.
	type resolution struct {
		team     string
		name     string
		schedule []string
	}
	resolved := make(map[string]resolution)
	for id, entries := range byID {
		if len(entries) <= 1 {
			continue
		}

		promoted := entries[len(entries)-1]
		latest := -1
		for _, en := range entries {
			for i := len(en.emp.Schedule) - 1; i >= 0; i-- {
				if en.emp.Schedule[i] != "" && en.emp.Schedule[i] != "N/A" {
					if i > latest {
						latest = i
						promoted = en
					}
					break
				}
			}
		}

		merged := make([]string, len(r.Headers))
		for _, en := range entries {
			for i, shift := range en.emp.Schedule {
				if i < len(merged) && shift != "" && shift != "N/A" {
					merged[i] = shift
				}
			}
		}

		resolved[id] = resolution{team: promoted.team, name: promoted.emp.Name, schedule: merged}
	}

	if len(resolved) == 0 {
		return
	}

	// Rebuild each team, keeping only the promoted entry of each
	// duplicated id in its original position.
	for team, emps := range r.Teams {
		out := emps[:0]
		for _, e := range emps {
			res, dup := resolved[e.ID]
			if !dup {
				out = append(out, e)
				continue
			}
			if res.team != team {
				continue
			}
			e.Name = res.name
			e.Team = team
			e.Schedule = res.schedule
			out = append(out, e)
		}
		r.Teams[team] = out
	}
}
