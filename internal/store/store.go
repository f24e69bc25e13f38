// Package store provides functionality for storing and retrieving application data.
package store

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/statement-csv/internal/fileutils"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var defaultCategories []byte

// ConfigDirName is the per-user directory searched for category files.
const ConfigDirName = ".statement-csv"

// CategoryStore manages loading and saving of category data. An empty
// CategoriesFile selects the embedded UK categories; an empty MappingsFile
// disables learned mappings.
type CategoryStore struct {
	CategoriesFile string
	MappingsFile   string
	logger         logging.Logger
}

// NewCategoryStore creates a new store for category-related data
func NewCategoryStore(categoriesFile, mappingsFile string, logger logging.Logger) *CategoryStore {
	return &CategoryStore{
		CategoriesFile: categoriesFile,
		MappingsFile:   mappingsFile,
		logger:         logging.OrDiscard(logger).WithField(logging.FieldComponent, "store"),
	}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ConfigDirName, filename))
	}

	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadCategories loads the category definitions. A configured file that
// cannot be found falls back to the embedded defaults with a warning.
func (s *CategoryStore) LoadCategories() ([]models.CategoryConfig, error) {
	if s.CategoriesFile == "" {
		return ParseCategories(defaultCategories)
	}

	filePath, err := s.FindConfigFile(s.CategoriesFile)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Categories file not found, using built-in categories",
			logging.F(logging.FieldFile, s.CategoriesFile))
		return ParseCategories(defaultCategories)
	}

	data, err := fileutils.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}
	categories, err := ParseCategories(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing categories file %s: %w", filePath, err)
	}
	s.logger.Debug("Loaded categories",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(categories)))
	return categories, nil
}

// ParseCategories reads either the `categories:` document form or a bare list
// of categories. Every category needs a name.
func ParseCategories(data []byte) ([]models.CategoryConfig, error) {
	var categoriesConfig models.CategoriesConfig
	if err := yaml.Unmarshal(data, &categoriesConfig); err == nil && len(categoriesConfig.Categories) > 0 {
		return checkCategories(categoriesConfig.Categories)
	}

	var categories []models.CategoryConfig
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	return checkCategories(categories)
}

func checkCategories(categories []models.CategoryConfig) ([]models.CategoryConfig, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories defined")
	}
	for i, c := range categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("category #%d has no name", i+1)
		}
	}
	return categories, nil
}

// LoadMappings loads learned description-to-category mappings. A missing
// file yields an empty map.
func (s *CategoryStore) LoadMappings() (map[string]string, error) {
	mappings := make(map[string]string)
	if s.MappingsFile == "" {
		return mappings, nil
	}

	filePath, err := s.FindConfigFile(s.MappingsFile)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("Mappings file not found, starting empty", logging.F(logging.FieldFile, s.MappingsFile))
		return mappings, nil
	}

	data, err := fileutils.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading mappings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("error parsing mappings: %w", err)
	}
	if mappings == nil {
		mappings = make(map[string]string)
	}

	s.logger.Debug("Loaded mappings",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(mappings)))
	return mappings, nil
}

// SaveMappings writes the mappings back to MappingsFile, next to an existing
// copy when one is found. Without a configured file it does nothing.
func (s *CategoryStore) SaveMappings(mappings map[string]string) error {
	if s.MappingsFile == "" {
		return nil
	}

	filePath, err := s.FindConfigFile(s.MappingsFile)
	if err != nil {
		filePath = s.MappingsFile
	}

	data, err := yaml.Marshal(mappings)
	if err != nil {
		return fmt.Errorf("error marshaling mappings: %w", err)
	}
	if err := fileutils.WriteFile(filePath, data, models.PermissionOutputFile); err != nil {
		return fmt.Errorf("error writing mappings: %w", err)
	}

	s.logger.Debug("Saved mappings",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(mappings)))
	return nil
}
