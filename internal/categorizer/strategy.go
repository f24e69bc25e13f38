package categorizer

import (
	"context"

	"fjacquet/statement-csv/internal/models"
)

// CategorizationStrategy defines a method for categorizing transactions.
// Each strategy implements a specific approach to categorization (learned
// mappings, keywords, AI).
type CategorizationStrategy interface {
	// Categorize attempts to categorize a transaction using this strategy.
	// Returns the category, whether categorization was successful, and any
	// error encountered. A strategy that simply has no answer returns
	// (Category{}, false, nil).
	Categorize(ctx context.Context, tx models.Transaction) (models.Category, bool, error)

	// Name returns the name of this strategy for logging and statistics.
	Name() string
}
