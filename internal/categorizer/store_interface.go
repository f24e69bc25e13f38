package categorizer

import "fjacquet/statement-csv/internal/models"

// CategoryStoreInterface defines the interface for category data storage.
// store.CategoryStore and store.MockCategoryStore both satisfy it.
type CategoryStoreInterface interface {
	LoadCategories() ([]models.CategoryConfig, error)
	LoadMappings() (map[string]string, error)
	SaveMappings(mappings map[string]string) error
}
