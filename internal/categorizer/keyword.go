package categorizer

import (
	"context"
	"strings"

	"fjacquet/statement-csv/internal/keywords"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
)

// KeywordStrategy categorizes transactions by matching category keywords as
// whole words in the description. When several keywords match, the longest
// one decides, so "google ads" beats "google".
type KeywordStrategy struct {
	categories []models.CategoryConfig
	owners     map[string]string
	set        *keywords.Set
	store      CategoryStoreInterface
	logger     logging.Logger
}

// NewKeywordStrategy creates a KeywordStrategy from the store's categories.
func NewKeywordStrategy(store CategoryStoreInterface, logger logging.Logger) *KeywordStrategy {
	s := &KeywordStrategy{
		store:  store,
		logger: logging.OrDiscard(logger),
	}
	s.loadCategories()
	return s
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Categorize attempts to categorize a transaction using keyword matching.
func (s *KeywordStrategy) Categorize(_ context.Context, tx models.Transaction) (models.Category, bool, error) {
	if strings.TrimSpace(tx.Description) == "" || s.set == nil {
		return models.Category{}, false, nil
	}

	best := ""
	for _, w := range s.set.MatchWords(tx.Description) {
		if len(w) > len(best) {
			best = w
		}
	}
	if best == "" {
		return models.Category{}, false, nil
	}

	name := s.owners[best]
	s.logger.Debug("Transaction categorized using keyword matching",
		logging.F(logging.FieldStrategy, s.Name()),
		logging.F(logging.FieldTransactionID, tx.ID),
		logging.F("keyword", best),
		logging.F(logging.FieldCategory, name))
	return models.Category{Name: name, Description: s.describe(name)}, true, nil
}

// Categories returns the loaded category definitions.
func (s *KeywordStrategy) Categories() []models.CategoryConfig {
	return s.categories
}

// ReloadCategories reloads the categories from the store.
func (s *KeywordStrategy) ReloadCategories() {
	s.loadCategories()
}

func (s *KeywordStrategy) describe(name string) string {
	for _, c := range s.categories {
		if c.Name == name && c.Description != "" {
			return c.Description
		}
	}
	return categoryDescriptionFromName(name)
}

func (s *KeywordStrategy) loadCategories() {
	if s.store == nil {
		return
	}
	categories, err := s.store.LoadCategories()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load categories for KeywordStrategy")
		return
	}

	// A keyword listed under two categories belongs to the first.
	owners := make(map[string]string)
	var words []string
	for _, c := range categories {
		for _, k := range c.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" {
				continue
			}
			if _, taken := owners[k]; taken {
				continue
			}
			owners[k] = c.Name
			words = append(words, k)
		}
	}

	s.categories = categories
	s.owners = owners
	s.set = keywords.NewSet(words...)
	s.logger.Debug("Loaded categories for KeywordStrategy",
		logging.F(logging.FieldCount, len(categories)),
		logging.F("keywords", s.set.Len()))
}
