// Package batch handles batch processing of files
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/statement-csv/cmd/common"
	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/internal/batch"
	"fjacquet/statement-csv/internal/container"
	"fjacquet/statement-csv/internal/export"
	"fjacquet/statement-csv/internal/fileutils"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/validation"

	"github.com/spf13/cobra"
)

// InputExtensions are the statement files picked up from the input directory.
var InputExtensions = []string{".pdf", ".txt"}

// Options are the batch command's inputs.
type Options struct {
	InputDir    string
	OutputDir   string
	Format      string
	Recursive   bool
	Categorize  bool
	Consolidate bool
}

// Outcome reports what a batch run did.
type Outcome struct {
	Files   int
	Failed  []string
	Written []string
}

var (
	format     string
	recursive  bool
	categorize bool
	perFile    bool
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process statements from a directory",
	Long: `Batch process every statement in an input directory and write the exports to
another directory.

Files are converted concurrently (batch.workers). Unless --per-file is given or
batch.consolidate is false, statements of the same account are merged into one
export, in date order, with transactions repeated across overlapping statements
removed. Statements without an account number are exported on their own.

Example:
  statement-csv batch -i statements/ -o exports/ --format csv`,
	Run: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: csv, qif, ofx, json or xlsx (default from export.format)")
	Cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Include statements in subdirectories")
	Cmd.Flags().BoolVar(&categorize, "categorize", false, "Assign categories to transactions")
	Cmd.Flags().BoolVar(&perFile, "per-file", false, "Write one export per statement instead of per account")
}

func batchFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogger()
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
	}

	opts := Options{
		InputDir:    root.SharedFlags.Input,
		OutputDir:   root.SharedFlags.Output,
		Format:      format,
		Recursive:   recursive,
		Categorize:  categorize,
		Consolidate: appContainer.GetConfig().Batch.Consolidate && !perFile,
	}
	outcome, err := Run(cmd.Context(), appContainer, opts)
	if err != nil {
		logger.Fatalf("Error during batch conversion: %v", err)
	}
	logger.Info(fmt.Sprintf("Batch processing completed. %d files written.", len(outcome.Written)),
		logging.F(logging.FieldCount, outcome.Files),
		logging.F("failed", len(outcome.Failed)))
}

// Run converts every statement in opts.InputDir and writes the exports to
// opts.OutputDir. Individual failures are logged and reported in the
// Outcome; an error is returned only when nothing could be converted or the
// run was cancelled.
func Run(ctx context.Context, c *container.Container, opts Options) (*Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.InputDir == "" || opts.OutputDir == "" {
		return nil, fmt.Errorf("input and output directories must be specified")
	}
	logger := c.GetLogger()

	f := strings.ToLower(opts.Format)
	if f == "" {
		f = strings.ToLower(c.GetConfig().Export.Format)
	}
	if err := validation.IsValidOutputFormat(f); err != nil {
		return nil, err
	}

	files, err := fileutils.ListFilesWithExtension(opts.InputDir, opts.Recursive, InputExtensions...)
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{Files: len(files)}
	if len(files) == 0 {
		logger.Warn("No supported files found in input directory",
			logging.F(logging.FieldFile, opts.InputDir))
		return outcome, nil
	}
	if err := fileutils.EnsureDirectoryExists(opts.OutputDir); err != nil {
		return nil, err
	}

	logger.Info("Found files for processing", logging.F(logging.FieldCount, len(files)))

	results, err := c.NewBatchProcessor().Run(ctx, files)
	if err != nil {
		return nil, err
	}

	var ok []batch.FileResult
	for _, r := range results {
		if r.Err != nil {
			logger.WithError(r.Err).Warn("Failed to convert statement",
				logging.F(logging.FieldInputFile, filepath.Base(r.File)))
			outcome.Failed = append(outcome.Failed, r.File)
			continue
		}
		if r.Result.Quality.LowText {
			logger.Warn("Very little text found, the document may be a scan",
				logging.F(logging.FieldInputFile, filepath.Base(r.File)))
		}
		ok = append(ok, r)
	}
	if len(ok) == 0 {
		return outcome, fmt.Errorf("none of the %d files could be converted", len(files))
	}

	for _, unit := range exportUnits(c, ok, opts.Consolidate, export.Extension(f)) {
		if opts.Categorize {
			if err := common.Categorize(ctx, c, unit.result, unit.name); err != nil {
				return outcome, err
			}
		}
		path := filepath.Join(opts.OutputDir, unit.name)
		exportOpts := common.ExportOptions(c, unit.result, "", opts.Categorize)
		if err := common.WriteResult(c, unit.result, f, path, exportOpts, nil); err != nil {
			logger.WithError(err).Error("Failed to write export",
				logging.F(logging.FieldOutputFile, path))
			continue
		}
		outcome.Written = append(outcome.Written, path)
	}
	return outcome, nil
}

type exportUnit struct {
	name   string
	result *models.ConversionResult
}

// exportUnits decides which results are written and under which name. Two
// statements sharing a base name ("march.pdf", "march.txt") get the source
// extension appended to the second name.
func exportUnits(c *container.Container, results []batch.FileResult, consolidate bool, ext string) []exportUnit {
	names := outputNames{used: make(map[string]bool), ext: ext}
	if !consolidate {
		units := make([]exportUnit, len(results))
		for i, r := range results {
			units[i] = exportUnit{
				name:   names.claim(fileutils.ReplaceExtension(filepath.Base(r.File), ext), r.File),
				result: r.Result,
			}
		}
		return units
	}

	groups := c.GetAggregator().Consolidate(results)
	units := make([]exportUnit, 0, len(groups))
	for _, g := range groups {
		name := batch.GenerateOutputFilename(g.AccountID, g.DateRange, ext)
		if !g.Identified {
			name = fileutils.ReplaceExtension(filepath.Base(g.Files[0]), ext)
		}
		units = append(units, exportUnit{name: names.claim(name, g.Files[0]), result: g.Result()})
	}
	return units
}

type outputNames struct {
	used map[string]bool
	ext  string
}

func (n outputNames) claim(name, source string) string {
	candidate := name
	if n.used[candidate] {
		stem := strings.TrimSuffix(name, n.ext)
		candidate = stem + "_" + strings.TrimPrefix(filepath.Ext(source), ".") + n.ext
		for i := 2; n.used[candidate]; i++ {
			candidate = fmt.Sprintf("%s_%d%s", stem, i, n.ext)
		}
	}
	n.used[candidate] = true
	return candidate
}
