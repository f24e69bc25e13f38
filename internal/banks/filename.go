package banks

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// minCompactLen is the shortest name that may match inside a longer file name
// token, and the shortest that tolerates a typo. Shorter names such as "tsb"
// or "rbs" must be a whole token.
const minCompactLen = 5

// filenameVariants returns the compacted names of def ("first direct" becomes
// "firstdirect") followed by its explicit filename variants.
func filenameVariants(def Definition) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range append(append([]string{}, def.Variants...), def.FilenameVariants...) {
		c := compact(v)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// matchFilename checks the base name of filename against variants. A variant
// matches a whole token, a run of adjacent tokens, or, when long enough, any
// part of the compacted name or a token one edit away.
func matchFilename(filename string, variants []string) bool {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	tokens := strings.FieldsFunc(strings.ToLower(base), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) == 0 {
		return false
	}
	whole := strings.Join(tokens, "")

	for _, v := range variants {
		for i := range tokens {
			run := ""
			for j := i; j < len(tokens) && len(run) < len(v); j++ {
				run += tokens[j]
				if run == v {
					return true
				}
			}
		}
		if len(v) < minCompactLen {
			continue
		}
		if strings.Contains(whole, v) {
			return true
		}
		for _, tok := range tokens {
			if len(tok) >= minCompactLen && fuzzy.LevenshteinDistance(tok, v) <= 1 {
				return true
			}
		}
	}
	return false
}

func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}
