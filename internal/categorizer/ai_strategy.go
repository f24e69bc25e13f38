package categorizer

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
)

// AIStrategy implements categorization using AI services.
type AIStrategy struct {
	aiClient AIClient
	logger   logging.Logger
}

// NewAIStrategy creates a new AIStrategy instance. A nil client makes the
// strategy a permanent no-match.
func NewAIStrategy(aiClient AIClient, logger logging.Logger) *AIStrategy {
	return &AIStrategy{
		aiClient: aiClient,
		logger:   logging.OrDiscard(logger),
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *AIStrategy) Name() string {
	return "AI"
}

// Categorize asks the AI client for a category. An Uncategorized or empty
// answer is a no-match; a client failure is returned as an error.
func (s *AIStrategy) Categorize(ctx context.Context, tx models.Transaction) (models.Category, bool, error) {
	if s.aiClient == nil {
		return models.Category{}, false, nil
	}
	if strings.TrimSpace(tx.Description) == "" {
		return models.Category{}, false, nil
	}

	categorized, err := s.aiClient.Categorize(ctx, tx)
	if err != nil {
		return models.Category{}, false, fmt.Errorf("ai categorization: %w", err)
	}

	name := strings.TrimSpace(categorized.Category)
	if name == "" || name == models.CategoryUncategorized {
		s.logger.Debug("AI returned uncategorized result",
			logging.F(logging.FieldStrategy, s.Name()),
			logging.F(logging.FieldTransactionID, tx.ID))
		return models.Category{}, false, nil
	}

	s.logger.Debug("Transaction categorized using AI",
		logging.F(logging.FieldStrategy, s.Name()),
		logging.F(logging.FieldTransactionID, tx.ID),
		logging.F(logging.FieldCategory, name))
	return models.Category{Name: name, Description: categoryDescriptionFromName(name)}, true, nil
}
