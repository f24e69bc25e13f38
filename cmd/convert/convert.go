// Package convert handles single statement conversion
package convert

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fjacquet/statement-csv/cmd/common"
	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/internal/container"
	"fjacquet/statement-csv/internal/export"
	"fjacquet/statement-csv/internal/fileutils"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/validation"

	"github.com/spf13/cobra"
)

// Options are the convert command's inputs.
type Options struct {
	Input      string
	Output     string
	Format     string
	DateStyle  string
	Categorize bool
	Summary    bool
}

var flags Options

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a statement PDF to CSV, QIF, OFX, JSON or XLSX",
	Long: `Convert one bank statement. The bank is detected from the statement text
(or its file name), transactions are extracted, validated and deduplicated.

Without -o the output is written next to the input with the format's extension.
Use -o - to write to standard output.

Example:
  statement-csv convert -i march.pdf -o march.csv
  statement-csv convert -i march.pdf --format ofx --categorize --summary`,
	Run: convertFunc,
}

func init() {
	Cmd.Flags().StringVarP(&flags.Format, "format", "f", "", "Output format: csv, qif, ofx, json or xlsx (default from export.format)")
	Cmd.Flags().StringVar(&flags.DateStyle, "date-style", "", "Date style for CSV, QIF and XLSX: iso or uk (default from export.date_style)")
	Cmd.Flags().BoolVar(&flags.Categorize, "categorize", false, "Assign categories to transactions")
	Cmd.Flags().BoolVar(&flags.Summary, "summary", false, "Print a statement summary")
}

func convertFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogger()
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
	}

	opts := flags
	opts.Input = root.SharedFlags.Input
	opts.Output = root.SharedFlags.Output
	if err := Run(cmd.Context(), appContainer, opts, cmd.OutOrStdout()); err != nil {
		logger.Fatalf("Error converting statement: %v", err)
	}
}

// Run converts opts.Input and writes the export. The summary, when
// requested, goes to stdout.
func Run(ctx context.Context, c *container.Container, opts Options, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Input == "" {
		return fmt.Errorf("input file must be specified")
	}
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = strings.ToLower(c.GetConfig().Export.Format)
	}
	if err := validation.IsValidOutputFormat(format); err != nil {
		return err
	}
	input, err := filepath.Abs(opts.Input)
	if err != nil {
		return fmt.Errorf("failed to resolve input path: %w", err)
	}
	if err := validation.IsValidPath(input); err != nil {
		return err
	}
	output := opts.Output
	if output == "" {
		output = fileutils.ReplaceExtension(opts.Input, export.Extension(format))
	}

	logger := c.GetLogger()
	logger.Info("Converting statement",
		logging.F(logging.FieldInputFile, opts.Input),
		logging.F(logging.FieldFormat, format))

	result, err := c.GetConverter().ConvertFile(ctx, opts.Input)
	if err != nil {
		return err
	}
	logger.Info("Statement converted",
		logging.F(logging.FieldInputFile, opts.Input),
		logging.F(logging.FieldBank, result.BankName),
		logging.F(logging.FieldConfidence, string(result.DetectionConfidence)),
		logging.F(logging.FieldCount, len(result.Transactions)),
		logging.F(logging.FieldRejected, result.Quality.Rejected))
	if result.Quality.LowText {
		logger.Warn("Very little text found, the document may be a scan",
			logging.F(logging.FieldInputFile, opts.Input))
	}
	if len(result.Transactions) == 0 {
		logger.Warn("No transactions found", logging.F(logging.FieldInputFile, opts.Input))
	}

	if opts.Categorize {
		if err := common.Categorize(ctx, c, result, filepath.Base(opts.Input)); err != nil {
			return err
		}
	}

	exportOpts := common.ExportOptions(c, result, opts.DateStyle, opts.Categorize)
	if err := common.WriteResult(c, result, format, output, exportOpts, stdout); err != nil {
		return err
	}

	if opts.Summary {
		return common.WriteSummary(c, result, stdout)
	}
	return nil
}
