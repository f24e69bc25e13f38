package categorizer

import (
	"context"

	"fjacquet/statement-csv/internal/models"
)

// AIClient defines the interface for AI-based categorization services.
type AIClient interface {
	// Categorize returns a copy of transaction with Category filled in, or
	// an error if the service could not be reached or answered nonsense.
	Categorize(ctx context.Context, transaction models.Transaction) (models.Transaction, error)
}
