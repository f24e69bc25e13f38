package textutils_test

import (
	"testing"

	"fjacquet/statement-csv/internal/textutils"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	text := "first\r\nsecond\rthird\n\n   \nfourth  "
	assert.Equal(t, []string{"first", "second", "third", "fourth"}, textutils.SplitLines(text))
	assert.Empty(t, textutils.SplitLines("\r\n\r\n"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "office", textutils.Normalize("o\ufb03ce"), "ligature is decomposed")
	assert.Equal(t, "12 Mar 2024", textutils.Normalize("12\u00a0Mar\u00a02024"), "non-breaking spaces become spaces")
	assert.Equal(t, "£12.50", textutils.Normalize("£\uff11\uff12.\uff15\uff10"), "full-width digits fold")
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "TESCO STORES 2041", textutils.CollapseWhitespace("  TESCO \t STORES   2041 "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", textutils.Truncate("abcdef", 3))
	assert.Equal(t, "abc", textutils.Truncate("abc", 10))
	assert.Equal(t, "caf", textutils.Truncate("café au lait", 3))
	assert.Equal(t, "café", textutils.Truncate("café au lait", 4))
	assert.Equal(t, "abcdef", textutils.Truncate("abcdef", 0))
}

func TestCountVisible(t *testing.T) {
	assert.Equal(t, 6, textutils.CountVisible([]string{"ab c", " def "}))
}
