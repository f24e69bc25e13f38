// Package currencyutils finds and parses the sterling amounts printed on statements.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// amountPattern matches the token only; the digit boundaries on both sides and
// a trailing CR/DR marker are checked in FindAmount because RE2 has no lookaround.
// Accounting statements print debits in parentheses: "(12.50)".
var amountPattern = regexp.MustCompile(`(\(\s?)?(-\s?)?(£\s?)?(-\s?)?(\d{1,3}(?:,\d{3})+|\d+)\.(\d{2})(\s?£)?(\s?\))?`)

var (
	markerPattern = regexp.MustCompile(`^\s?(?i:(CR|DR))\b`)
	currencyCodes = regexp.MustCompile(`(?i)(\d\.\d{2})\s?(?:GBP)\b`)
)

// Marker is an explicit credit/debit indicator printed next to an amount.
type Marker string

const (
	MarkerNone   Marker = ""
	MarkerCredit Marker = "CR"
	MarkerDebit  Marker = "DR"
)

// AmountMatch is a monetary amount found in a line.
type AmountMatch struct {
	Value    decimal.Decimal // unsigned magnitude
	Negative bool            // a minus sign preceded the digits or parentheses enclosed them
	Marker   Marker
	Text     string // matched text, sign, symbol and marker included
	Start    int
	End      int
}

// FindAmount returns the first non-zero amount in line with exactly two
// decimals, an optional £ before or after and optional thousands separators.
func FindAmount(line string) (AmountMatch, bool) {
	for _, idx := range amountPattern.FindAllStringSubmatchIndex(line, -1) {
		start, end := idx[0], idx[1]

		// digits directly before the token mean we are inside a longer number
		if start > 0 {
			prev := line[start-1]
			if (prev >= '0' && prev <= '9') || prev == '.' || prev == ',' {
				continue
			}
		}
		// a third decimal digit means this is not a two-decimal amount
		decEnd := idx[13]
		if decEnd < len(line) && line[decEnd] >= '0' && line[decEnd] <= '9' {
			continue
		}

		digits := strings.ReplaceAll(line[idx[10]:idx[11]], ",", "")
		value, err := decimal.NewFromString(digits + "." + line[idx[12]:idx[13]])
		if err != nil || value.IsZero() {
			continue
		}

		// an unbalanced parenthesis belongs to the surrounding text
		opened, closed := idx[2] >= 0, idx[16] >= 0
		if opened && !closed {
			start = idx[3]
		}
		if closed && !opened {
			end = idx[16]
		}

		m := AmountMatch{
			Value:    value,
			Negative: idx[4] >= 0 || idx[8] >= 0 || (opened && closed),
		}
		if mk := markerPattern.FindStringSubmatchIndex(line[end:]); mk != nil {
			m.Marker = Marker(strings.ToUpper(line[end+mk[2] : end+mk[3]]))
			end += mk[1]
		}
		m.Start, m.End = start, end
		m.Text = line[start:end]
		return m, true
	}
	return AmountMatch{}, false
}

// StripCurrencyCodes removes a GBP code printed right after an amount.
func StripCurrencyCodes(line string) string {
	return currencyCodes.ReplaceAllString(line, "$1")
}

// ParseAmount parses a signed amount such as "-1,234.56" or "£12.00".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '£' || r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, amountStr)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// FormatAmount renders an amount with exactly two decimals and no separators.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
