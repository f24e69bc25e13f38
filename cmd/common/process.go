// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"io"

	"fjacquet/statement-csv/internal/container"
	"fjacquet/statement-csv/internal/export"
	"fjacquet/statement-csv/internal/fileutils"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/report"
)

// StdoutPath selects standard output instead of a file.
const StdoutPath = "-"

// ExportOptions returns the configured export options completed with the
// statement's bank and account details.
func ExportOptions(c *container.Container, result *models.ConversionResult, dateStyle string, withCategory bool) export.Options {
	opts := c.ExportOptions()
	if dateStyle != "" {
		opts.DateStyle = dateStyle
	}
	opts.IncludeCategory = withCategory
	opts.BankName = result.BankName
	opts.AccountNumber = result.AccountNumber
	opts.SortCode = result.SortCode
	return opts
}

// Categorize assigns categories to the result's transactions in place and
// logs the statistics.
func Categorize(ctx context.Context, c *container.Container, result *models.ConversionResult, source string) error {
	txs, stats, err := c.GetCategorizer().CategorizeAll(ctx, result.Transactions)
	if err != nil {
		return err
	}
	result.Transactions = txs
	stats.LogSummary(c.GetLogger(), source)
	return nil
}

// WriteResult serializes the result's transactions and writes them to path,
// or to stdout when path is StdoutPath.
func WriteResult(c *container.Container, result *models.ConversionResult, format, path string, opts export.Options, stdout io.Writer) error {
	data, err := c.GetConverter().Export(result.Transactions, format, opts)
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", format, err)
	}

	if path == StdoutPath {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := fileutils.WriteOutput(path, data); err != nil {
		return err
	}
	c.GetLogger().Info("Wrote output",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldFormat, format),
		logging.F(logging.FieldCount, len(result.Transactions)))
	return nil
}

// WriteSummary renders the result's summary as text to w.
func WriteSummary(c *container.Container, result *models.ConversionResult, w io.Writer) error {
	summary, err := report.FromResult(result, c.ExportOptions().Currency)
	if err != nil {
		return fmt.Errorf("failed to summarize statement: %w", err)
	}
	text, err := c.GetReportGenerator().GenerateReport(summary, "text")
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
