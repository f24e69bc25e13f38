// Package container provides dependency injection for the statement-csv
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"time"

	"fjacquet/statement-csv/internal/banks"
	"fjacquet/statement-csv/internal/batch"
	"fjacquet/statement-csv/internal/categorizer"
	"fjacquet/statement-csv/internal/config"
	"fjacquet/statement-csv/internal/export"
	"fjacquet/statement-csv/internal/extractor"
	"fjacquet/statement-csv/internal/lineparser"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/report"
	"fjacquet/statement-csv/internal/store"
	"fjacquet/statement-csv/internal/validation"
	"fjacquet/statement-csv/pkg/converter"

	"github.com/shopspring/decimal"
)

// Option customizes container construction.
type Option func(*options)

type options struct {
	logger   logging.Logger
	aiClient categorizer.AIClient
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithAIClient replaces the Gemini client, whatever ai.enabled says.
func WithAIClient(client categorizer.AIClient) Option {
	return func(o *options) { o.aiClient = client }
}

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	converter *converter.Converter
	exporter  *export.Exporter
	store     *store.CategoryStore
	aiClient  categorizer.AIClient

	categorizer *categorizer.Categorizer
	reports     *report.ReportGenerator
	aggregator  *batch.BatchAggregator
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	catalogue, err := loadCatalogue(cfg.Banks.File)
	if err != nil {
		return nil, err
	}

	engine := lineparser.New(lineparser.Options{
		CreditThreshold:      decimal.NewFromFloat(cfg.Extraction.CreditThreshold),
		MaxDescriptionLength: cfg.Extraction.MaxDescriptionLength,
	}, logger)

	registry, err := banks.NewRegistry(catalogue, engine, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build bank registry: %w", err)
	}

	exporter := export.NewExporter(logger)
	conv, err := converter.NewConverter(
		extractor.New(cfg.Extraction.MinTextChars, logger),
		registry,
		validation.NewValidator(logger),
		exporter,
		logger,
	)
	if err != nil {
		return nil, err
	}

	categoryStore := store.NewCategoryStore(cfg.Categories.File, cfg.Categories.MappingsFile, logger)

	aiClient := o.aiClient
	if aiClient == nil && cfg.AI.Enabled {
		aiClient, err = newGeminiClient(cfg, categoryStore, logger)
		if err != nil {
			return nil, err
		}
	}
	if aiClient != nil {
		logger.Info("AI categorization enabled", logging.F("model", cfg.AI.Model))
	} else {
		logger.Debug("AI categorization disabled")
	}

	c := &Container{
		logger:      logger,
		config:      cfg,
		converter:   conv,
		exporter:    exporter,
		store:       categoryStore,
		aiClient:    aiClient,
		categorizer: categorizer.NewCategorizer(categoryStore, aiClient, logger),
		reports:     report.NewReportGenerator(logger, cfg.Export.DateStyle),
		aggregator:  batch.NewBatchAggregator(logger),
	}

	logger.Debug("Container initialized successfully",
		logging.F("banks", len(catalogue.Banks)),
		logging.F("ai_enabled", aiClient != nil))
	return c, nil
}

func loadCatalogue(path string) (*banks.Catalogue, error) {
	if path == "" {
		cat, err := banks.DefaultCatalogue()
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in bank catalogue: %w", err)
		}
		return cat, nil
	}
	return banks.LoadCatalogueFile(path)
}

func newGeminiClient(cfg *config.Config, categoryStore *store.CategoryStore, logger logging.Logger) (*categorizer.GeminiClient, error) {
	categories, err := categoryStore.LoadCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories for AI: %w", err)
	}
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}

	client, err := categorizer.NewGeminiClient(context.Background(), cfg.AI.APIKey, cfg.AI.Model,
		names, time.Duration(cfg.AI.TimeoutSeconds)*time.Second, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	return client, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetConverter returns the statement converter.
func (c *Container) GetConverter() *converter.Converter {
	return c.converter
}

// GetExporter returns the exporter shared with the converter.
func (c *Container) GetExporter() *export.Exporter {
	return c.exporter
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetStore returns the container's category store instance.
func (c *Container) GetStore() *store.CategoryStore {
	return c.store
}

// GetAIClient returns the container's AI client instance.
// Returns nil if AI is not enabled.
func (c *Container) GetAIClient() categorizer.AIClient {
	return c.aiClient
}

// GetReportGenerator returns the summary renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reports
}

// GetAggregator returns the batch aggregator.
func (c *Container) GetAggregator() *batch.BatchAggregator {
	return c.aggregator
}

// NewBatchProcessor returns a processor converting files with the
// container's converter and the configured worker count.
func (c *Container) NewBatchProcessor() *batch.Processor {
	return batch.NewProcessor(c.converter.ConvertFile, c.config.Batch.Workers, c.logger)
}

// ExportOptions returns the export options derived from the configuration.
func (c *Container) ExportOptions() export.Options {
	opts := export.DefaultOptions()
	opts.DateStyle = c.config.Export.DateStyle
	opts.Currency = c.config.Export.Currency
	opts.ValidateJSON = c.config.Export.ValidateJSON
	return opts
}

// Close saves learned category mappings and releases the AI client.
func (c *Container) Close() error {
	var firstErr error
	if err := c.categorizer.SaveMappings(); err != nil {
		c.logger.WithError(err).Warn("Failed to save learned mappings")
		firstErr = err
	}
	if closer, ok := c.aiClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.logger.Debug("Container closed")
	return firstErr
}
