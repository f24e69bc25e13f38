// Package batch converts many statements concurrently and consolidates the
// results per bank account.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/textutils"
	"fjacquet/statement-csv/internal/validation"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format(models.DateLayoutISO),
		dr.End.Format(models.DateLayoutISO))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// AccountGroup holds the consolidated transactions of one account.
type AccountGroup struct {
	// AccountID is "sortcode-account" when both are known, the account
	// number alone, or the file path for unidentified statements.
	AccountID     string
	Identified    bool
	BankName      string
	AccountNumber string
	SortCode      string
	Files         []string
	Transactions  []models.Transaction
	DateRange     DateRange
	Quality       models.QualityReport
}

// Result converts the group back into a single conversion result, so it can
// be exported and summarized like one statement.
func (g AccountGroup) Result() *models.ConversionResult {
	return &models.ConversionResult{
		BankName:            g.BankName,
		DetectionConfidence: models.ConfidenceCertain,
		Transactions:        g.Transactions,
		AccountNumber:       g.AccountNumber,
		SortCode:            g.SortCode,
		Quality:             g.Quality,
	}
}

// BatchAggregator handles the aggregation of multiple statements by account
type BatchAggregator struct {
	logger logging.Logger
}

// NewBatchAggregator creates a new BatchAggregator instance
func NewBatchAggregator(logger logging.Logger) *BatchAggregator {
	return &BatchAggregator{
		logger: logging.OrDiscard(logger).WithField(logging.FieldComponent, "batch"),
	}
}

// AccountKey returns the identifier statements of one account share, and
// whether the statement carried one at all.
func AccountKey(file string, result *models.ConversionResult) (string, bool) {
	switch {
	case result != nil && result.AccountNumber != "" && result.SortCode != "":
		return result.SortCode + "-" + result.AccountNumber, true
	case result != nil && result.AccountNumber != "":
		return result.AccountNumber, true
	}
	return filepath.Clean(file), false
}

// Consolidate groups successful results by account, merges their
// transactions chronologically and removes duplicates from overlapping
// statements. Failed files are skipped. Identified accounts come first, each
// part sorted by AccountID. Unidentified statements are never merged.
func (ba *BatchAggregator) Consolidate(results []FileResult) []AccountGroup {
	groups := make(map[string]*AccountGroup)

	for _, fr := range results {
		if fr.Err != nil || fr.Result == nil {
			continue
		}
		key, identified := AccountKey(fr.File, fr.Result)

		ba.logger.Debug("File mapped to account",
			logging.F(logging.FieldFile, filepath.Base(fr.File)),
			logging.F(logging.FieldAccount, key))

		group, exists := groups[key]
		if !exists {
			group = &AccountGroup{
				AccountID:     key,
				Identified:    identified,
				BankName:      fr.Result.BankName,
				AccountNumber: fr.Result.AccountNumber,
				SortCode:      fr.Result.SortCode,
			}
			groups[key] = group
		}

		group.Files = append(group.Files, fr.File)
		group.DateRange = group.DateRange.Merge(CalculateDateRange(fr.Result.Transactions))
		group.Transactions = append(group.Transactions, fr.Result.Transactions...)
		group.Quality.TotalFound += fr.Result.Quality.TotalFound
		group.Quality.Rejected += fr.Result.Quality.Rejected
		group.Quality.DuplicatesRemoved += fr.Result.Quality.DuplicatesRemoved
		group.Quality.LowText = group.Quality.LowText || fr.Result.Quality.LowText
	}

	out := make([]AccountGroup, 0, len(groups))
	for _, group := range groups {
		sort.Strings(group.Files)
		sortTransactionsChronologically(group.Transactions)

		deduped, removed := validation.Deduplicate(group.Transactions)
		if removed > 0 {
			ba.logger.Debug("Removed transactions repeated across statements",
				logging.F(logging.FieldAccount, group.AccountID),
				logging.F(logging.FieldDuplicates, removed))
		}
		group.Transactions = deduped
		group.Quality.DuplicatesRemoved += removed

		ba.logger.Debug("Aggregated transactions for account",
			logging.F(logging.FieldAccount, group.AccountID),
			logging.F(logging.FieldCount, len(deduped)),
			logging.F("source_files", len(group.Files)))
		out = append(out, *group)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Identified != out[j].Identified {
			return out[i].Identified
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out
}

// sortTransactionsChronologically sorts by date, keeping statement order
// within a day.
func sortTransactionsChronologically(transactions []models.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.Before(transactions[j].Date)
	})
}

// GenerateOutputFilename creates the file name of a consolidated export:
// {account}_{start}_{end}{ext}, or {account}{ext} without a date range.
func GenerateOutputFilename(accountID string, dateRange DateRange, ext string) string {
	sanitized := textutils.SanitizeAccountID(accountID)
	if sanitized == "" {
		sanitized = "statement"
	}
	if r := dateRange.String(); r != "" {
		return fmt.Sprintf("%s_%s%s", sanitized, r, ext)
	}
	return sanitized + ext
}

// CalculateDateRange calculates the overall date range of transactions.
func CalculateDateRange(transactions []models.Transaction) DateRange {
	if len(transactions) == 0 {
		return DateRange{}
	}

	start := transactions[0].Date
	end := transactions[0].Date
	for _, tx := range transactions {
		if tx.Date.Before(start) {
			start = tx.Date
		}
		if tx.Date.After(end) {
			end = tx.Date
		}
	}
	return DateRange{Start: start, End: end}
}
