// Package keywords matches many case-insensitive keywords against a text in a
// single pass using an Aho-Corasick automaton.
package keywords

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
)

// Set is an immutable keyword dictionary. It is safe for concurrent use.
type Set struct {
	words   []string
	matcher *ahocorasick.Matcher
}

// NewSet builds a Set. Keywords are lower-cased and trimmed; blanks and
// duplicates are dropped, the first occurrence keeping its position.
func NewSet(words ...string) *Set {
	seen := make(map[string]bool, len(words))
	s := &Set{}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		s.words = append(s.words, w)
	}
	if len(s.words) > 0 {
		s.matcher = ahocorasick.NewStringMatcher(s.words)
	}
	return s
}

// Contains reports whether any keyword occurs in text.
func (s *Set) Contains(text string) bool {
	return len(s.hits(text)) > 0
}

// Matches returns the keywords found in text, in dictionary order.
func (s *Set) Matches(text string) []string {
	hits := s.hits(text)
	out := make([]string, len(hits))
	for i, idx := range hits {
		out[i] = s.words[idx]
	}
	return out
}

// MatchWords is Matches restricted to keywords that occur as whole words:
// the characters around an occurrence must not be letters or digits.
func (s *Set) MatchWords(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, w := range s.Matches(lower) {
		if hasWord(lower, w) {
			out = append(out, w)
		}
	}
	return out
}

// ContainsWord reports whether any keyword occurs in text as a whole word.
func (s *Set) ContainsWord(text string) bool {
	return len(s.MatchWords(text)) > 0
}

// Longest returns the longest keyword found in text as a whole word, or ""
// if none is.
func (s *Set) Longest(text string) string {
	best := ""
	for _, w := range s.MatchWords(text) {
		if len(w) > len(best) {
			best = w
		}
	}
	return best
}

// Words returns the normalized dictionary.
func (s *Set) Words() []string {
	out := make([]string, len(s.words))
	copy(out, s.words)
	return out
}

// Len returns the number of keywords.
func (s *Set) Len() int {
	return len(s.words)
}

func (s *Set) hits(text string) []int {
	if s == nil || s.matcher == nil || text == "" {
		return nil
	}
	raw := s.matcher.MatchThreadSafe([]byte(strings.ToLower(text)))
	seen := make(map[int]bool, len(raw))
	hits := make([]int, 0, len(raw))
	for _, idx := range raw {
		if idx < 0 || idx >= len(s.words) || seen[idx] {
			continue
		}
		seen[idx] = true
		hits = append(hits, idx)
	}
	sort.Ints(hits)
	return hits
}

func hasWord(text, word string) bool {
	for from := 0; from <= len(text)-len(word); {
		i := strings.Index(text[from:], word)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(word)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		from = start + 1
	}
	return false
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
