// Package categorizer assigns UK tax-oriented categories to transactions using,
// in order:
// 1. Learned description-to-category mappings from a YAML file
// 2. Keyword rules from the category definitions
// 3. Gemini as a fallback, when an AI client is configured
//
// Categorization is a caller-side step: conversion never invokes it.
package categorizer

import (
	"context"
	"fmt"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
)

// Categorizer runs the strategies in order and learns from the AI fallback.
type Categorizer struct {
	strategies []CategorizationStrategy
	direct     *DirectMappingStrategy
	keyword    *KeywordStrategy
	logger     logging.Logger
}

// NewCategorizer builds the strategy chain. aiClient may be nil.
func NewCategorizer(store CategoryStoreInterface, aiClient AIClient, logger logging.Logger) *Categorizer {
	logger = logging.OrDiscard(logger).WithField(logging.FieldComponent, "categorizer")

	c := &Categorizer{
		direct:  NewDirectMappingStrategy(store, logger),
		keyword: NewKeywordStrategy(store, logger),
		logger:  logger,
	}
	c.strategies = []CategorizationStrategy{c.direct, c.keyword}
	if aiClient != nil {
		c.strategies = append(c.strategies, NewAIStrategy(aiClient, logger))
	}
	return c
}

// Strategies returns the names of the active strategies, in order.
func (c *Categorizer) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Categories returns the names of the configured categories.
func (c *Categorizer) Categories() []string {
	configs := c.keyword.Categories()
	names := make([]string, len(configs))
	for i, cfg := range configs {
		names[i] = cfg.Name
	}
	return names
}

// CategorizeTransaction returns the first category any strategy finds, or
// Uncategorized. Strategy errors are collected and returned only when no
// strategy succeeded.
func (c *Categorizer) CategorizeTransaction(ctx context.Context, tx models.Transaction) (models.Category, error) {
	category, _, err := c.categorize(ctx, tx)
	return category, err
}

func (c *Categorizer) categorize(ctx context.Context, tx models.Transaction) (models.Category, string, error) {
	var results StrategyResults
	for _, strategy := range c.strategies {
		if err := ctx.Err(); err != nil {
			return uncategorized(), "", err
		}
		category, found, err := strategy.Categorize(ctx, tx)
		results.Add(strategy.Name(), category, found, err)
		if found && err == nil {
			break
		}
	}

	c.logger.Debug("Categorization attempts",
		logging.F(logging.FieldTransactionID, tx.ID),
		logging.F("attempts", results.Summary()))

	if best, ok := results.GetBestResult(); ok {
		// AI answers cost a request each; remember them.
		if best.Strategy == "AI" {
			c.direct.Learn(tx.Description, best.Category.Name)
		}
		return best.Category, best.Strategy, nil
	}

	if errs := results.GetErrors(); len(errs) > 0 {
		return uncategorized(), "", errs[0]
	}
	return uncategorized(), "", nil
}

// CategorizeAll returns a categorized copy of txs together with statistics.
// A strategy failure leaves that transaction Uncategorized and is counted;
// only context cancellation aborts the run.
func (c *Categorizer) CategorizeAll(ctx context.Context, txs []models.Transaction) ([]models.Transaction, *models.CategorizationStats, error) {
	stats := models.NewCategorizationStats()
	out := make([]models.Transaction, len(txs))
	copy(out, txs)

	for i := range out {
		category, strategy, err := c.categorize(ctx, out[i])
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, stats, fmt.Errorf("categorization cancelled: %w", ctxErr)
		}

		out[i].Category = category.Name
		switch {
		case err != nil:
			c.logger.WithError(err).Warn("Categorization failed",
				logging.F(logging.FieldTransactionID, out[i].ID))
			stats.RecordFailure()
		case strategy == "":
			stats.RecordUncategorized()
		default:
			stats.RecordSuccess(strategy)
		}
	}
	return out, stats, nil
}

// Learn records a manual description-to-category mapping.
func (c *Categorizer) Learn(description, category string) {
	c.direct.Learn(description, category)
}

// SaveMappings persists learned mappings if any were added.
func (c *Categorizer) SaveMappings() error {
	if err := c.direct.Save(); err != nil {
		return fmt.Errorf("failed to save learned mappings: %w", err)
	}
	return nil
}

func uncategorized() models.Category {
	return models.Category{
		Name:        models.CategoryUncategorized,
		Description: categoryDescriptionFromName(models.CategoryUncategorized),
	}
}

func categoryDescriptionFromName(name string) string {
	return fmt.Sprintf("Category: %s", name)
}
