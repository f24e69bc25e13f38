// Package converter is the public entry point of the statement pipeline:
// document bytes in, validated transactions out, with detection metadata and
// a quality report.
package converter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/statement-csv/internal/banks"
	"fjacquet/statement-csv/internal/export"
	"fjacquet/statement-csv/internal/extractor"
	"fjacquet/statement-csv/internal/fileutils"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parser"
	"fjacquet/statement-csv/internal/textutils"
	"fjacquet/statement-csv/internal/validation"
)

// Bank describes one supported institution.
type Bank struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Detection is the result of identifying a statement without parsing it.
type Detection struct {
	models.FormatMatch
	AccountNumber string `json:"accountNumber,omitempty"`
	SortCode      string `json:"sortCode,omitempty"`
	LowText       bool   `json:"lowText"`
}

// Converter runs extraction, detection, parsing and validation. It holds no
// per-call state and is safe for concurrent use.
type Converter struct {
	extractor extractor.PageExtractor
	registry  *parser.Registry
	validator *validation.Validator
	exporter  *export.Exporter
	logger    logging.Logger
}

// NewConverter wires a Converter from its parts. Nil parts get their defaults,
// except registry, which is required.
func NewConverter(ext extractor.PageExtractor, registry *parser.Registry, validator *validation.Validator, exporter *export.Exporter, logger logging.Logger) (*Converter, error) {
	logger = logging.OrDiscard(logger)
	if registry == nil {
		return nil, fmt.Errorf("converter requires a bank registry")
	}
	if ext == nil {
		ext = extractor.New(models.DefaultMinTextChars, logger)
	}
	if validator == nil {
		validator = validation.NewValidator(logger)
	}
	if exporter == nil {
		exporter = export.NewExporter(logger)
	}
	return &Converter{
		extractor: ext,
		registry:  registry,
		validator: validator,
		exporter:  exporter,
		logger:    logger.WithField(logging.FieldComponent, "converter"),
	}, nil
}

// New returns a Converter using the embedded bank catalogue and default
// settings.
func New(logger logging.Logger) (*Converter, error) {
	registry, err := banks.DefaultRegistry(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build bank registry: %w", err)
	}
	return NewConverter(nil, registry, nil, nil, logger)
}

// Convert turns one statement into transactions. The only error is an
// unreadable document (parsererror.ErrDocumentUnreadable); a statement
// without transactions is a successful, empty result.
//
// When the detected bank's strategy finds nothing, the generic strategy is
// tried on the same lines before giving up.
func (c *Converter) Convert(buf []byte, filename string) (*models.ConversionResult, error) {
	start := time.Now()

	lines, quality, err := c.extractor.Extract(buf, filename)
	if err != nil {
		c.logger.WithError(err).Debug("Statement could not be read", logging.F(logging.FieldFile, filename))
		return nil, err
	}

	match := c.registry.Detect(lines, filename)
	strategy, ok := c.registry.Strategy(match.StrategyID)
	if !ok {
		strategy = c.registry.Fallback()
	}

	txs := strategy.Parse(lines)
	if len(txs) == 0 && strategy.ID() != c.registry.Fallback().ID() {
		fallback := c.registry.Fallback()
		if recovered := fallback.Parse(lines); len(recovered) > 0 {
			c.logger.Debug("Bank strategy found no transactions, using generic parser",
				logging.F(logging.FieldFile, filename),
				logging.F(logging.FieldBank, match.BankName),
				logging.F(logging.FieldCount, len(recovered)))
			txs = recovered
			match.StrategyID = fallback.ID()
		}
	}

	valid, report := c.validator.Validate(txs)
	report.LowText = quality.LowText

	account, sortCode := accountDetails(lines)
	result := &models.ConversionResult{
		BankName:            match.BankName,
		DetectionConfidence: match.Confidence,
		StrategyID:          match.StrategyID,
		Transactions:        valid,
		AccountNumber:       account,
		SortCode:            sortCode,
		Quality:             report,
	}

	c.logger.Debug("Statement converted",
		logging.F(logging.FieldFile, filename),
		logging.F(logging.FieldBank, result.BankName),
		logging.F(logging.FieldConfidence, string(result.DetectionConfidence)),
		logging.F(logging.FieldStrategy, result.StrategyID),
		logging.F(logging.FieldCount, len(valid)),
		logging.F(logging.FieldRejected, report.Rejected),
		logging.F(logging.FieldDuplicates, report.DuplicatesRemoved),
		logging.F("low_text", report.LowText),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return result, nil
}

// ConvertFile reads path and converts it. It matches batch.ConvertFunc.
func (c *Converter) ConvertFile(ctx context.Context, path string) (*models.ConversionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := fileutils.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.Convert(buf, filepath.Base(path))
}

// Detect identifies the bank and account of a statement without parsing
// transactions.
func (c *Converter) Detect(buf []byte, filename string) (*Detection, error) {
	lines, quality, err := c.extractor.Extract(buf, filename)
	if err != nil {
		return nil, err
	}
	account, sortCode := accountDetails(lines)
	return &Detection{
		FormatMatch:   c.registry.Detect(lines, filename),
		AccountNumber: account,
		SortCode:      sortCode,
		LowText:       quality.LowText,
	}, nil
}

// Export serializes transactions in the named format.
func (c *Converter) Export(txs []models.Transaction, format string, opts export.Options) ([]byte, error) {
	return c.exporter.Serialize(txs, strings.ToLower(format), opts)
}

// Formats lists the export formats, sorted.
func (c *Converter) Formats() []string {
	return c.exporter.Formats()
}

// Banks lists the supported institutions in detection priority order.
func (c *Converter) Banks() []Bank {
	strategies := c.registry.Strategies()
	out := make([]Bank, len(strategies))
	for i, s := range strategies {
		out[i] = Bank{ID: s.ID(), Name: s.BankName()}
	}
	return out
}

// accountDetails finds the first labelled account number and sort code.
func accountDetails(lines []models.TextLine) (string, string) {
	text := strings.Join(models.Texts(lines), "\n")
	return textutils.ExtractAccountNumber(text), textutils.ExtractSortCode(text)
}
