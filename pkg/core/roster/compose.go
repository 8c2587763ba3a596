package roster

import "github.com/shiftdesk/shiftdesk/pkg/core/model"

// ComposeDisplay derives the read-facing merged view by overlaying the
// override dataset onto the authoritative dataset team by team. The
// override is always more current at team granularity: its teams
// replace the authoritative ones wholesale, and authoritative teams
// with no override entry are treated as stale and dropped. Headers come
// from the override when it has any, else from the authoritative set.
// The result is independent of both inputs and safe to hand out.
func ComposeDisplay(authoritative, override model.RosterData) model.RosterData {
	if len(authoritative.Headers) == 0 {
		// Empty-bootstrap: nothing has been imported yet, the display
		// is just the override dataset.
		out := override.Clone()
		out.DedupeTeamChanges()
		out.RebuildAllEmployees()
		return out
	}

	out := authoritative.Clone()
	for team, emps := range override.Teams {
		copied := make([]model.Employee, len(emps))
		for i, e := range emps {
			copied[i] = e
			copied[i].Schedule = append([]string(nil), e.Schedule...)
		}
		out.Teams[team] = copied
	}
	for team := range out.Teams {
		if _, ok := override.Teams[team]; !ok {
			delete(out.Teams, team)
		}
	}
	if len(override.Headers) > 0 {
		out.Headers = append([]string(nil), override.Headers...)
	}
	out.DedupeTeamChanges()
	out.RebuildAllEmployees()
	return out
}
