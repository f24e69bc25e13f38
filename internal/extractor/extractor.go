// Package extractor turns a raw statement buffer into an ordered stream of
// text lines. It knows nothing about banks or transactions.
package extractor

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parsererror"
	"fjacquet/statement-csv/internal/textutils"
)

// Kind identifies how a buffer was read.
type Kind string

const (
	KindPDF    Kind = "pdf"
	KindLayout Kind = "layout-json"
	KindText   Kind = "text"
)

var pdfMagic = []byte("%PDF-")

// PageExtractor produces statement lines from a document buffer. It allows the
// conversion pipeline to be tested without real documents.
type PageExtractor interface {
	Extract(buf []byte, filename string) ([]models.TextLine, models.QualityReport, error)
}

// Extractor is the production PageExtractor.
type Extractor struct {
	minTextChars int
	logger       logging.Logger
}

// New creates an Extractor. minTextChars below 1 falls back to the default.
func New(minTextChars int, logger logging.Logger) *Extractor {
	if minTextChars < 1 {
		minTextChars = models.DefaultMinTextChars
	}
	return &Extractor{minTextChars: minTextChars, logger: logging.OrDiscard(logger)}
}

// Sniff reports the kind of document held in buf, or false when the bytes are
// neither a PDF, a layout document nor text.
func Sniff(buf []byte) (Kind, bool) {
	trimmed := bytes.TrimLeft(buf, " \t\r\n\ufeff")
	switch {
	case bytes.HasPrefix(buf, pdfMagic):
		return KindPDF, true
	case bytes.HasPrefix(trimmed, []byte("{")):
		return KindLayout, true
	case len(buf) > 0 && utf8.Valid(buf) && !bytes.ContainsRune(buf, 0):
		return KindText, true
	}
	return "", false
}

// Extract reads buf and returns its lines in document order. Only an
// unreadable buffer is an error; a document with almost no text succeeds with
// LowText set.
func (e *Extractor) Extract(buf []byte, filename string) ([]models.TextLine, models.QualityReport, error) {
	var quality models.QualityReport

	kind, ok := Sniff(buf)
	if !ok {
		return nil, quality, &parsererror.DocumentUnreadableError{
			Filename: filename,
			Reason:   "unrecognised content",
			Err: &parsererror.InvalidFormatError{
				FilePath:             filename,
				ExpectedFormat:       "PDF, layout JSON or text",
				ActualContentSnippet: snippet(buf),
				Msg:                  "binary content",
			},
		}
	}

	var (
		pages [][]string
		err   error
	)
	switch kind {
	case KindPDF:
		pages, err = readPDF(buf)
	case KindLayout:
		pages, err = readLayout(buf)
	default:
		pages = [][]string{{string(bytes.TrimPrefix(buf, []byte("\ufeff")))}}
	}
	if err != nil {
		return nil, quality, &parsererror.DocumentUnreadableError{
			Filename: filename,
			Reason:   "cannot read " + string(kind),
			Err:      err,
		}
	}

	lines := toLines(pages)
	visible := textutils.CountVisible(models.Texts(lines))
	quality.LowText = visible < e.minTextChars

	e.logger.Debug("Extracted statement text",
		logging.F(logging.FieldFile, filename),
		logging.F(logging.FieldFormat, string(kind)),
		logging.F(logging.FieldCount, len(lines)),
		logging.F("pages", len(pages)),
		logging.F("low_text", quality.LowText))

	return lines, quality, nil
}

// snippet quotes the first bytes of buf for error messages.
func snippet(buf []byte) string {
	const limit = 16
	if len(buf) > limit {
		buf = buf[:limit]
	}
	return fmt.Sprintf("%q", buf)
}

// toLines normalizes page chunks and numbers the resulting lines.
func toLines(pages [][]string) []models.TextLine {
	var lines []models.TextLine
	for p, chunks := range pages {
		for _, chunk := range chunks {
			for _, text := range textutils.SplitLines(textutils.Normalize(chunk)) {
				text = textutils.CollapseWhitespace(text)
				if text == "" {
					continue
				}
				lines = append(lines, models.TextLine{Text: text, Page: p + 1, Index: len(lines)})
			}
		}
	}
	return lines
}
