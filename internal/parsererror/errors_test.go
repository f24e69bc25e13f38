package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentUnreadableError(t *testing.T) {
	tests := []struct {
		name     string
		err      *DocumentUnreadableError
		expected string
	}{
		{
			name:     "with filename and cause",
			err:      &DocumentUnreadableError{Filename: "statement.pdf", Reason: "corrupt PDF", Err: errors.New("malformed xref")},
			expected: "document 'statement.pdf' unreadable: corrupt PDF: malformed xref",
		},
		{
			name:     "without filename",
			err:      &DocumentUnreadableError{Reason: "unrecognized binary content"},
			expected: "document unreadable: unrecognized binary content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDocumentUnreadableError_Is(t *testing.T) {
	cause := errors.New("eof")
	err := fmt.Errorf("convert: %w", &DocumentUnreadableError{Reason: "truncated", Err: cause})

	assert.True(t, errors.Is(err, ErrDocumentUnreadable))
	assert.True(t, errors.Is(err, cause))

	var target *DocumentUnreadableError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "truncated", target.Reason)
}

func TestParseError(t *testing.T) {
	originalErr := errors.New("invalid decimal")
	parseErr := &ParseError{
		Parser: "lineparser",
		Field:  "amount",
		Value:  "12.3x",
		Err:    originalErr,
	}

	assert.Equal(t, "lineparser: failed to parse amount='12.3x': invalid decimal", parseErr.Error())
	assert.True(t, errors.Is(parseErr, originalErr))
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{FilePath: "/tmp/in", Reason: "path is a directory"}
	assert.Equal(t, "validation failed for /tmp/in: path is a directory", err.Error())
}

func TestInvalidFormatError(t *testing.T) {
	withSnippet := &InvalidFormatError{
		FilePath:             "banks.yaml",
		ExpectedFormat:       "bank definitions",
		ActualContentSnippet: "banks: 3",
		Msg:                  "banks must be a list",
	}
	assert.Equal(t, "invalid format in file 'banks.yaml': banks must be a list. Expected: bank definitions. Content snippet: 'banks: 3'", withSnippet.Error())

	withoutSnippet := &InvalidFormatError{FilePath: "banks.yaml", ExpectedFormat: "bank definitions", Msg: "empty"}
	assert.Equal(t, "invalid format in file 'banks.yaml': empty. Expected: bank definitions", withoutSnippet.Error())
}

func TestUnsupportedFormatError(t *testing.T) {
	err := &UnsupportedFormatError{Format: "mt940", Supported: []string{"csv", "qif"}}
	assert.Equal(t, `unsupported export format: "mt940" (supported: csv, qif)`, err.Error())
	assert.Equal(t, `unsupported export format: "x"`, (&UnsupportedFormatError{Format: "x"}).Error())
}

func TestExportError(t *testing.T) {
	cause := errors.New("disk full")
	err := &ExportError{Format: "xlsx", Err: cause}
	assert.Equal(t, "xlsx export failed: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}
