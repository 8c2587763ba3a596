package roster

import (
	"regexp"
	"strings"
)

// monthAbbrevs maps lowercase three-letter month prefixes to the
// canonical capitalized abbreviation used in normalized headers,
// in calendar order.
var monthAbbrevs = []struct {
	key   string
	canon string
}{
	{"jan", "Jan"}, {"feb", "Feb"}, {"mar", "Mar"}, {"apr", "Apr"},
	{"may", "May"}, {"jun", "Jun"}, {"jul", "Jul"}, {"aug", "Aug"},
	{"sep", "Sep"}, {"oct", "Oct"}, {"nov", "Nov"}, {"dec", "Dec"},
}

// monthNames maps full lowercase month names to the canonical
// abbreviation, used as a substring fallback when a header does not
// match the day+month pattern.
var monthNames = map[string]string{
	"january": "Jan", "february": "Feb", "march": "Mar", "april": "Apr",
	"june": "Jun", "july": "Jul", "august": "Aug",
	"september": "Sep", "october": "Oct", "november": "Nov", "december": "Dec",
}

var (
	dayMonthPattern   = regexp.MustCompile(`^(\d+)([A-Za-z]+)`)
	looseDatePattern  = regexp.MustCompile(`(\d{1,2})[-.\s]*([A-Za-z]+)`)
	validHeaderNumber = regexp.MustCompile(`\d`)
	validHeaderLetter = regexp.MustCompile(`[A-Za-z]`)
)

func canonMonth(prefix string) (string, bool) {
	p := strings.ToLower(prefix)
	if len(p) > 3 {
		p = p[:3]
	}
	for _, m := range monthAbbrevs {
		if m.key == p {
			return m.canon, true
		}
	}
	return "", false
}

// NormalizeDateHeader canonicalizes a spreadsheet date-column label into
// the stable "<day><Mon>" token form, e.g. "15-jan" -> "15Jan". Labels
// that do not match a day+month shape are returned cleaned but otherwise
// unchanged; callers treat that as a soft failure.
func NormalizeDateHeader(raw string) string {
	cleaned := strings.NewReplacer("-", "", ".", "", " ", "", "\t", "").Replace(raw)
	m := dayMonthPattern.FindStringSubmatch(cleaned)
	if m == nil {
		return cleaned
	}
	if canon, ok := canonMonth(m[2]); ok {
		return m[1] + canon
	}
	return cleaned
}

// ExtractDominantMonth tallies the month of every header and returns the
// canonical abbreviation with the highest count, or "" when no header
// carries a recognisable month. Ties resolve to the earliest month in
// calendar order that reached the maximum.
func ExtractDominantMonth(headers []string) string {
	counts := map[string]int{}
	for _, h := range headers {
		if m := looseDatePattern.FindStringSubmatch(h); m != nil {
			if canon, ok := canonMonth(m[2]); ok {
				counts[canon]++
				continue
			}
		}
		lower := strings.ToLower(h)
		for _, m := range monthAbbrevs {
			if strings.Contains(lower, m.key) {
				counts[m.canon]++
			}
		}
		for name, canon := range monthNames {
			if strings.Contains(lower, name) {
				counts[canon]++
			}
		}
	}
	best, bestCount := "", 0
	for _, m := range monthAbbrevs {
		if c := counts[m.canon]; c > bestCount {
			best, bestCount = m.canon, c
		}
	}
	return best
}

// IsValidDateHeader reports whether a header looks like a date label:
// it must contain at least one digit, at least one letter, and a
// recognisable month abbreviation.
func IsValidDateHeader(header string) bool {
	if strings.TrimSpace(header) == "" {
		return false
	}
	if !validHeaderNumber.MatchString(header) || !validHeaderLetter.MatchString(header) {
		return false
	}
	lower := strings.ToLower(header)
	for _, m := range monthAbbrevs {
		if strings.Contains(lower, m.key) {
			return true
		}
	}
	return false
}

// MonthKeyFor converts a canonical month abbreviation plus a fallback
// month key into a YYYY-MM key, taking the year from the fallback when
// it carries one. An unknown month returns the fallback unchanged.
func MonthKeyFor(monthAbbrev, fallback string) string {
	var num string
	for i, m := range monthAbbrevs {
		if m.canon == monthAbbrev {
			num = []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12"}[i]
			break
		}
	}
	if num == "" {
		return fallback
	}
	year := ""
	if m := regexp.MustCompile(`\d{4}`).FindString(fallback); m != "" {
		year = m
	}
	if year == "" {
		return fallback
	}
	return year + "-" + num
}
