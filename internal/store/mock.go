package store

import (
	"sync"

	"fjacquet/statement-csv/internal/models"
)

// MockCategoryStore is a mock implementation of CategoryStore for testing.
type MockCategoryStore struct {
	Categories []models.CategoryConfig
	Mappings   map[string]string

	// Error flags for testing error conditions
	LoadCategoriesError error
	LoadMappingsError   error
	SaveMappingsError   error

	mu    sync.Mutex
	Saved []map[string]string
}

// LoadCategories returns the mock categories.
func (m *MockCategoryStore) LoadCategories() ([]models.CategoryConfig, error) {
	if m.LoadCategoriesError != nil {
		return nil, m.LoadCategoriesError
	}
	return m.Categories, nil
}

// LoadMappings returns a copy of the mock mappings.
func (m *MockCategoryStore) LoadMappings() (map[string]string, error) {
	if m.LoadMappingsError != nil {
		return nil, m.LoadMappingsError
	}
	return copyMappings(m.Mappings), nil
}

// SaveMappings records a copy of every save.
func (m *MockCategoryStore) SaveMappings(mappings map[string]string) error {
	if m.SaveMappingsError != nil {
		return m.SaveMappingsError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saved = append(m.Saved, copyMappings(mappings))
	return nil
}

func copyMappings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
