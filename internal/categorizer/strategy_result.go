package categorizer

import (
	"fmt"
	"strings"

	"fjacquet/statement-csv/internal/models"
)

// StrategyResult represents the result of a categorization strategy attempt
type StrategyResult struct {
	Strategy string
	Category models.Category
	Found    bool
	Error    error
}

// StrategyResults collects the attempts made for one transaction, in order.
type StrategyResults struct {
	Results []StrategyResult
}

// Add records one attempt.
func (sr *StrategyResults) Add(strategy string, category models.Category, found bool, err error) {
	sr.Results = append(sr.Results, StrategyResult{Strategy: strategy, Category: category, Found: found, Error: err})
}

// GetBestResult returns the first successful result and the strategy that produced it.
func (sr StrategyResults) GetBestResult() (StrategyResult, bool) {
	for _, r := range sr.Results {
		if r.Found && r.Error == nil {
			return r, true
		}
	}
	return StrategyResult{}, false
}

// GetErrors returns all errors encountered during strategy execution
func (sr StrategyResults) GetErrors() []error {
	var errs []error
	for _, result := range sr.Results {
		if result.Error != nil {
			errs = append(errs, fmt.Errorf("%s strategy: %w", result.Strategy, result.Error))
		}
	}
	return errs
}

// Summary returns a compact trace such as "Direct:no_match, Keyword:success".
func (sr StrategyResults) Summary() string {
	parts := make([]string, 0, len(sr.Results))
	for _, result := range sr.Results {
		status := "failed"
		if result.Error == nil {
			status = "no_match"
			if result.Found {
				status = "success"
			}
		}
		parts = append(parts, fmt.Sprintf("%s:%s", result.Strategy, status))
	}
	return strings.Join(parts, ", ")
}
