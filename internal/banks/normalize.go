package banks

import (
	"regexp"
	"strconv"
	"time"

	"fjacquet/statement-csv/internal/currencyutils"
	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/models"
)

// dayMonth matches a leading "3 Mar" and, when present, the year after it.
var dayMonth = regexp.MustCompile(`(?i)^(\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?)(\s+\d{2}(?:\d{2})?)?(?:\s|$)`)

func stripOrdinals(s string) string {
	return dateutils.StripOrdinals(s)
}

func stripCurrencyCodes(s string) string {
	return currencyutils.StripCurrencyCodes(s)
}

// carryDates rewrites layouts that print the date once per day.
//
// A leading "3 Mar" without a year takes the year that puts it nearest the
// last full date seen (usually the statement period), so a "15 Dec" row under
// a period ending in January lands in the previous year. An undated line
// carrying an amount takes the last date, unless the previous dated line is
// still waiting for its amount: that line is a continuation and is left alone.
func carryDates(lines []models.TextLine) []models.TextLine {
	var (
		lastDate string
		ref      time.Time
		awaiting bool
	)
	for i := range lines {
		text := lines[i].Text

		if m := dayMonth.FindStringSubmatchIndex(text); m != nil && m[4] < 0 && !ref.IsZero() {
			text = withYear(text, m[3], nearestYear(text, m[3], ref))
			lines[i].Text = text
		}

		if d, ok := dateutils.FindDate(text); ok {
			lastDate = d.Text
			ref = d.Date
			awaiting = !hasAmountBesides(text, d)
			continue
		}

		if lastDate == "" {
			continue
		}
		if _, ok := currencyutils.FindAmount(text); !ok {
			continue
		}
		if awaiting {
			awaiting = false
			continue
		}
		lines[i].Text = lastDate + " " + text
	}
	return lines
}

func withYear(text string, at, year int) string {
	return text[:at] + " " + strconv.Itoa(year) + text[at:]
}

// nearestYear picks the year, next to ref's, that keeps the day-month at
// text[:at] within six months of ref.
func nearestYear(text string, at int, ref time.Time) int {
	year := ref.Year()
	d, ok := dateutils.FindDate(withYear(text, at, year))
	if !ok {
		return year
	}
	switch diff := int(d.Date.Month()) - int(ref.Month()); {
	case diff > 6:
		return year - 1
	case diff < -6:
		return year + 1
	}
	return year
}

func hasAmountBesides(text string, d dateutils.DateMatch) bool {
	_, ok := currencyutils.FindAmount(text[:d.Start] + " " + text[d.End:])
	return ok
}
