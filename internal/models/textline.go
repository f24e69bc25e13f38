package models

// TextLine is one line of extracted statement text. Page is 1-based; Index is
// the 0-based position of the line in the whole document.
type TextLine struct {
	Text  string
	Page  int
	Index int
}

// Texts flattens lines back to plain strings, keeping their order.
func Texts(lines []TextLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}
