// Package textutils provides text extraction and manipulation utilities.
package textutils

import (
	"regexp"
	"strings"
)

var (
	accountNumberPattern = regexp.MustCompile(`(?i)\b(?:account|acc|a/c)(?:\s*(?:number|no\.?|num))?[:\s]*(\d{8})\b`)
	sortCodePattern      = regexp.MustCompile(`(?i)\b(?:sort\s*code|sort|sc)[:\s]*(\d{2}[-\s]?\d{2}[-\s]?\d{2})\b`)
	sortCodeSeparators   = strings.NewReplacer("-", "", " ", "")
)

// ExtractAccountNumber returns the first eight-digit UK account number that
// follows an account label, or "" when there is none.
func ExtractAccountNumber(text string) string {
	if m := accountNumberPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// ExtractSortCode returns the first sort code found after a sort-code label,
// as six bare digits.
func ExtractSortCode(text string) string {
	if m := sortCodePattern.FindStringSubmatch(text); m != nil {
		return sortCodeSeparators.Replace(m[1])
	}
	return ""
}

// FormatSortCode renders six digits as 12-34-56. Anything else is returned unchanged.
func FormatSortCode(code string) string {
	if len(code) != 6 {
		return code
	}
	return code[0:2] + "-" + code[2:4] + "-" + code[4:6]
}

// SanitizeAccountID makes an account identifier safe to use in a file name.
func SanitizeAccountID(accountID string) string {
	var result strings.Builder
	for _, r := range strings.TrimSpace(accountID) {
		if (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '-' {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}

	sanitized := result.String()
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_")

	if sanitized == "" {
		return "UNKNOWN"
	}
	return sanitized
}
