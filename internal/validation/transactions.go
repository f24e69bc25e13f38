package validation

import (
	"strings"

	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
)

// Rejection reasons, logged with each dropped transaction.
const (
	ReasonAmount = "amount not positive"
	ReasonDate   = "date not plausible"
	ReasonType   = "unknown transaction type"
)

// Validator enforces the transaction invariants and removes duplicates.
type Validator struct {
	logger logging.Logger
}

// NewValidator creates a Validator. A nil logger discards output.
func NewValidator(logger logging.Logger) *Validator {
	return &Validator{logger: logging.OrDiscard(logger).WithField(logging.FieldComponent, "validator")}
}

// Validate drops transactions with a non-positive amount, an implausible date
// or an unknown type, then removes exact (date, amount, description)
// duplicates keeping the first. Order is preserved and the input slice is not
// modified. It never fails; the counts land in the report.
func (v *Validator) Validate(txs []models.Transaction) ([]models.Transaction, models.QualityReport) {
	report := models.QualityReport{TotalFound: len(txs)}

	kept := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if reason := rejectReason(tx); reason != "" {
			report.Rejected++
			v.logger.Debug("Transaction rejected",
				logging.F(logging.FieldTransactionID, tx.ID),
				logging.F(logging.FieldReason, reason))
			continue
		}
		if strings.TrimSpace(tx.Description) == "" {
			tx.Description = models.PlaceholderDescription
		}
		kept = append(kept, tx)
	}

	valid, removed := Deduplicate(kept)
	report.DuplicatesRemoved = removed

	v.logger.Debug("Validation finished",
		logging.F(logging.FieldCount, len(valid)),
		logging.F(logging.FieldRejected, report.Rejected),
		logging.F(logging.FieldDuplicates, report.DuplicatesRemoved))
	return valid, report
}

// Deduplicate keeps the first transaction of every DedupKey and returns how
// many were dropped.
func Deduplicate(txs []models.Transaction) ([]models.Transaction, int) {
	seen := make(map[string]bool, len(txs))
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		key := tx.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tx)
	}
	return out, len(txs) - len(out)
}

func rejectReason(tx models.Transaction) string {
	switch {
	case !tx.Amount.IsPositive():
		return ReasonAmount
	case !dateutils.IsPlausible(tx.Date):
		return ReasonDate
	case !tx.Type.Valid():
		return ReasonType
	}
	return ""
}
