package models

import (
	"fjacquet/statement-csv/internal/logging"
)

// UK tax-oriented spending categories.
const (
	CategoryOfficeCosts          = "Office Costs"
	CategoryTravel               = "Travel"
	CategoryMarketing            = "Marketing"
	CategoryProfessionalServices = "Professional Services"
	CategoryUtilities            = "Utilities"
	CategoryEquipment            = "Equipment"
	CategoryTraining             = "Training"
	CategoryInsurance            = "Insurance"
	CategoryIncome               = "Income"
	CategoryPersonal             = "Personal"
	CategoryUncategorized        = "Uncategorized"
)

// Category represents a transaction category
type Category struct {
	Name        string
	Description string
}

// CategoryConfig represents a category configuration in the YAML file
type CategoryConfig struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
}

// CategoriesConfig represents the structure of the categories YAML file
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// CategorizationStats tracks statistics for transaction categorization
type CategorizationStats struct {
	Total         int            // Total number of transactions processed
	Successful    int            // Number of transactions successfully categorized
	Failed        int            // Number of transactions whose categorization returned an error
	Uncategorized int            // Number of transactions left uncategorized
	ByStrategy    map[string]int // Successful categorizations per strategy name
}

// NewCategorizationStats creates a new CategorizationStats instance
func NewCategorizationStats() *CategorizationStats {
	return &CategorizationStats{ByStrategy: make(map[string]int)}
}

// RecordSuccess counts a transaction categorized by the named strategy.
func (cs *CategorizationStats) RecordSuccess(strategy string) {
	cs.Total++
	cs.Successful++
	if cs.ByStrategy == nil {
		cs.ByStrategy = make(map[string]int)
	}
	cs.ByStrategy[strategy]++
}

// RecordUncategorized counts a transaction no strategy could place.
func (cs *CategorizationStats) RecordUncategorized() {
	cs.Total++
	cs.Uncategorized++
}

// RecordFailure counts a transaction whose categorization errored.
func (cs *CategorizationStats) RecordFailure() {
	cs.Total++
	cs.Failed++
}

// GetSuccessRate calculates the success rate as a percentage
func (cs CategorizationStats) GetSuccessRate() float64 {
	if cs.Total == 0 {
		return 0.0
	}
	return float64(cs.Successful) / float64(cs.Total) * 100.0
}

// LogSummary logs a summary of categorization statistics
func (cs CategorizationStats) LogSummary(logger logging.Logger, source string) {
	if logger == nil {
		return
	}

	logger.Info("Categorization summary",
		logging.F("source", source),
		logging.F("total_transactions", cs.Total),
		logging.F("successful", cs.Successful),
		logging.F("failed", cs.Failed),
		logging.F("uncategorized", cs.Uncategorized),
		logging.F("success_rate", cs.GetSuccessRate()),
	)
}
