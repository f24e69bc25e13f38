// Package parsererror defines the typed errors returned across the conversion
// pipeline. Only DocumentUnreadableError is meant to reach callers of a
// conversion; every other pipeline condition is reported as data.
package parsererror

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDocumentUnreadable is matched by every DocumentUnreadableError through errors.Is.
var ErrDocumentUnreadable = errors.New("document unreadable")

// DocumentUnreadableError means the buffer could not be opened as a document at all.
// Retrying the same bytes cannot help.
type DocumentUnreadableError struct {
	Filename string
	Reason   string
	Err      error
}

func (e *DocumentUnreadableError) Error() string {
	msg := fmt.Sprintf("document unreadable: %s", e.Reason)
	if e.Filename != "" {
		msg = fmt.Sprintf("document '%s' unreadable: %s", e.Filename, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DocumentUnreadableError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrDocumentUnreadable) succeed for any instance.
func (e *DocumentUnreadableError) Is(target error) bool {
	return target == ErrDocumentUnreadable
}

// ParseError represents an error during parsing
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// InvalidFormatError represents an error where an input file does not conform
// to the format it is expected to have.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// UnsupportedFormatError is returned when an export format name is not known.
type UnsupportedFormatError struct {
	Format    string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	if len(e.Supported) == 0 {
		return fmt.Sprintf("unsupported export format: %q", e.Format)
	}
	return fmt.Sprintf("unsupported export format: %q (supported: %s)", e.Format, strings.Join(e.Supported, ", "))
}

// ExportError wraps a failure while rendering transactions in a given format.
type ExportError struct {
	Format string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("%s export failed: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
