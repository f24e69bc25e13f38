// Package dateutils finds and normalizes the date layouts printed on UK bank statements.
package dateutils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fjacquet/statement-csv/internal/parsererror"
)

// Output layouts
const (
	DateLayoutISO = "2006-01-02"
	DateLayoutUK  = "02/01/2006"
)

// Style names accepted by Format.
const (
	StyleISO = "iso"
	StyleUK  = "uk"
)

// Each pattern captures the whole date in group 1 and is anchored on
// non-digits so that a year such as 2024/03/25 is never read as 24/03/25.
var datePatterns = []struct {
	name  string
	re    *regexp.Regexp
	parts func(m []string) (day, month, year string)
}{
	{
		name: "dd/mm/yy",
		re:   regexp.MustCompile(`(?:^|\D)((\d{1,2})[/\-\s](\d{1,2})[/\-\s](\d{2,4}))(?:\D|$)`),
		parts: func(m []string) (string, string, string) {
			return m[2], m[3], m[4]
		},
	},
	{
		name: "yyyy/mm/dd",
		re:   regexp.MustCompile(`(?:^|\D)((\d{4})[/\-](\d{1,2})[/\-](\d{1,2}))(?:\D|$)`),
		parts: func(m []string) (string, string, string) {
			return m[4], m[3], m[2]
		},
	},
	{
		name: "dd mon yy",
		re:   regexp.MustCompile(`(?i)(?:^|\D)((\d{1,2})\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{2,4}))(?:\D|$)`),
		parts: func(m []string) (string, string, string) {
			return m[2], m[3], m[4]
		},
	},
}

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

var ordinalSuffix = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\b`)

// DateMatch is a date found inside a line. Start and End delimit the matched
// text so callers can cut it out of the description.
type DateMatch struct {
	Date    time.Time
	Text    string
	Start   int
	End     int
	Pattern string
}

// FindDate returns the first statement date in line. Patterns are tried in
// fixed priority (DD/MM/YY, YYYY/MM/DD, DD Mon YY); only the first occurrence
// of each pattern is considered, and a pattern whose first occurrence is not a
// real calendar date gives way to the next one.
func FindDate(line string) (DateMatch, bool) {
	for _, p := range datePatterns {
		idx := p.re.FindStringSubmatchIndex(line)
		if idx == nil {
			continue
		}
		m := make([]string, len(idx)/2)
		for i := range m {
			if idx[2*i] >= 0 {
				m[i] = line[idx[2*i]:idx[2*i+1]]
			}
		}
		day, month, year := p.parts(m)
		date, err := buildDate(day, month, year)
		if err != nil {
			continue
		}
		return DateMatch{
			Date:    date,
			Text:    m[1],
			Start:   idx[2],
			End:     idx[3],
			Pattern: p.name,
		}, true
	}
	return DateMatch{}, false
}

// HasDate reports whether FindDate would succeed on line.
func HasDate(line string) bool {
	_, ok := FindDate(line)
	return ok
}

var (
	errYearDigits = errors.New("expected 2 or 4 digits")
	errNoSuchDay  = errors.New("no such day")
	errDateLayout = errors.New("expected YYYY-MM-DD or DD/MM/YYYY")
)

func dateError(day, month, year string) error {
	return &parsererror.ParseError{Parser: "dateutils", Field: "date", Value: day + "/" + month + "/" + year, Err: errNoSuchDay}
}

// NormalizeYear expands two-digit years into the 2000s; four-digit years pass through.
func NormalizeYear(year string) (int, error) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0, &parsererror.ParseError{Parser: "dateutils", Field: "year", Value: year, Err: err}
	}
	switch len(year) {
	case 2:
		return 2000 + y, nil
	case 4:
		return y, nil
	default:
		return 0, &parsererror.ParseError{Parser: "dateutils", Field: "year", Value: year, Err: errYearDigits}
	}
}

func buildDate(day, month, year string) (time.Time, error) {
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, &parsererror.ParseError{Parser: "dateutils", Field: "day", Value: day, Err: err}
	}

	var mon time.Month
	if n, err := strconv.Atoi(month); err == nil {
		mon = time.Month(n)
	} else {
		mon = monthNames[strings.ToLower(month)[:3]]
	}

	y, err := NormalizeYear(year)
	if err != nil {
		return time.Time{}, err
	}

	if d < 1 || d > 31 || mon < time.January || mon > time.December {
		return time.Time{}, dateError(day, month, year)
	}

	date := time.Date(y, mon, d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 31/02 into March; a real date round-trips unchanged.
	if date.Day() != d || date.Month() != mon {
		return time.Time{}, dateError(day, month, year)
	}
	return date, nil
}

// StripOrdinals turns "3rd Dec 2024" into "3 Dec 2024".
func StripOrdinals(s string) string {
	return ordinalSuffix.ReplaceAllString(s, "$1")
}

// IsPlausible reports whether t can be a statement booking date.
func IsPlausible(t time.Time) bool {
	return !t.IsZero() && t.Year() >= 1900 && t.Year() < 2100
}

// Format renders a date in the given style; unknown styles fall back to ISO.
func Format(t time.Time, style string) string {
	if strings.EqualFold(style, StyleUK) {
		return t.Format(DateLayoutUK)
	}
	return t.Format(DateLayoutISO)
}

// ParseExportDate reads back a date written by Format in either style.
func ParseExportDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayoutISO, DateLayoutUK} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &parsererror.ParseError{Parser: "dateutils", Field: "date", Value: s, Err: errDateLayout}
}
