// Package export renders normalized transactions in the interchange formats
// read by accounting software: CSV, QIF, OFX, JSON and XLSX.
//
// Every serializer is deterministic: the same transactions and options always
// produce the same bytes.
package export

import (
	"sort"
	"strings"
	"time"

	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parsererror"
)

// Options tune the rendering. The zero value is usable: ISO dates, comma
// delimiter, GBP and no statement metadata.
type Options struct {
	// DateStyle is dateutils.StyleISO or dateutils.StyleUK. JSON and OFX use
	// their own fixed date formats and ignore it.
	DateStyle string
	// Delimiter separates CSV fields.
	Delimiter rune
	// IncludeCategory adds a Category column to CSV and XLSX output and an L
	// line to QIF records.
	IncludeCategory bool

	BankName      string
	AccountNumber string
	SortCode      string
	Currency      string

	// ValidateJSON checks JSON output against the embedded schema before
	// returning it.
	ValidateJSON bool
	// GeneratedAt stamps OFX headers. When zero the latest transaction date is
	// used so output stays reproducible.
	GeneratedAt time.Time
}

// DefaultOptions returns the options used by the CLI when nothing is configured.
func DefaultOptions() Options {
	return Options{
		DateStyle:    dateutils.StyleISO,
		Delimiter:    ',',
		Currency:     models.CurrencyGBP,
		ValidateJSON: true,
	}
}

func (o Options) withDefaults() Options {
	if o.DateStyle == "" {
		o.DateStyle = dateutils.StyleISO
	}
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.Currency == "" {
		o.Currency = models.CurrencyGBP
	}
	return o
}

// Serializer renders transactions in a single format.
type Serializer interface {
	Format() string
	Serialize(txs []models.Transaction, opts Options) ([]byte, error)
}

// Exporter dispatches to the serializer registered for a format name.
type Exporter struct {
	serializers map[string]Serializer
	logger      logging.Logger
}

// NewExporter creates an Exporter with every built-in serializer registered.
func NewExporter(logger logging.Logger) *Exporter {
	e := &Exporter{
		serializers: make(map[string]Serializer),
		logger:      logging.OrDiscard(logger).WithField(logging.FieldComponent, "export"),
	}
	for _, s := range []Serializer{csvSerializer{}, qifSerializer{}, ofxSerializer{}, jsonSerializer{}, xlsxSerializer{}} {
		e.Register(s)
	}
	return e
}

// Register adds s, replacing any serializer already bound to the same format.
func (e *Exporter) Register(s Serializer) {
	e.serializers[strings.ToLower(s.Format())] = s
}

// Formats lists the registered format names in sorted order.
func (e *Exporter) Formats() []string {
	names := make([]string, 0, len(e.serializers))
	for name := range e.serializers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Serialize renders txs in format. An unknown format returns
// *parsererror.UnsupportedFormatError; a rendering failure returns
// *parsererror.ExportError.
func (e *Exporter) Serialize(txs []models.Transaction, format string, opts Options) ([]byte, error) {
	name := strings.ToLower(strings.TrimSpace(format))
	s, ok := e.serializers[name]
	if !ok {
		return nil, &parsererror.UnsupportedFormatError{Format: format, Supported: e.Formats()}
	}

	out, err := s.Serialize(txs, opts.withDefaults())
	if err != nil {
		e.logger.WithError(err).Error("Export failed", logging.F(logging.FieldFormat, name))
		return nil, &parsererror.ExportError{Format: name, Err: err}
	}
	e.logger.Debug("Transactions exported",
		logging.F(logging.FieldFormat, name),
		logging.F(logging.FieldCount, len(txs)))
	return out, nil
}

var defaultExporter = NewExporter(nil)

// Serialize renders txs with the built-in serializers and no logging.
func Serialize(txs []models.Transaction, format string, opts Options) ([]byte, error) {
	return defaultExporter.Serialize(txs, format, opts)
}

// Extension returns the file extension, with its dot, for a format name.
func Extension(format string) string {
	return "." + strings.ToLower(strings.TrimSpace(format))
}
