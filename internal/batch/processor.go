package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"

	"golang.org/x/sync/errgroup"
)

// ConvertFunc converts one statement file.
type ConvertFunc func(ctx context.Context, file string) (*models.ConversionResult, error)

// FileResult is the outcome of converting one file.
type FileResult struct {
	File   string
	Result *models.ConversionResult
	Err    error
}

// Processor runs a ConvertFunc over many files with bounded concurrency.
type Processor struct {
	convert ConvertFunc
	workers int
	logger  logging.Logger
}

// NewProcessor creates a Processor. workers below 1 means 1.
func NewProcessor(convert ConvertFunc, workers int, logger logging.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		convert: convert,
		workers: workers,
		logger:  logging.OrDiscard(logger).WithField(logging.FieldComponent, "batch"),
	}
}

// Run converts every file and returns one FileResult per file, in input
// order. A failing file does not stop the others; only cancellation of ctx
// does, in which case the context error is returned and unstarted files are
// reported with it.
func (p *Processor) Run(ctx context.Context, files []string) ([]FileResult, error) {
	results := make([]FileResult, len(files))
	for i, f := range files {
		results[i].File = f
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return err
			}

			start := time.Now()
			result, err := p.convert(gctx, files[i])
			if err == nil && result == nil {
				err = fmt.Errorf("no result for %s", files[i])
			}
			results[i].Result = result
			results[i].Err = err

			if err != nil {
				p.logger.WithError(err).Debug("Failed to convert statement",
					logging.F(logging.FieldInputFile, filepath.Base(files[i])))
				return nil
			}
			p.logger.Debug("Converted statement",
				logging.F(logging.FieldInputFile, filepath.Base(files[i])),
				logging.F(logging.FieldBank, result.BankName),
				logging.F(logging.FieldCount, len(result.Transactions)),
				logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	p.logger.Debug("Batch conversion finished",
		logging.F(logging.FieldCount, len(files)),
		logging.F("failed", failed))
	return results, ctx.Err()
}
