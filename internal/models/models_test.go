package models

import (
	"testing"
	"time"

	"fjacquet/statement-csv/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_SignedAmount(t *testing.T) {
	debit := Transaction{Amount: decimal.RequireFromString("156.78"), Type: Debit}
	credit := Transaction{Amount: decimal.RequireFromString("20"), Type: Credit}

	assert.Equal(t, "-156.78", debit.SignedAmount().StringFixed(2))
	assert.Equal(t, "20.00", credit.SignedAmount().StringFixed(2))
	assert.True(t, debit.IsDebit())
	assert.True(t, credit.IsCredit())
}

func TestTransaction_DedupKey(t *testing.T) {
	a := Transaction{ID: "1", Date: time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC), Description: "TESCO", Amount: decimal.RequireFromString("10.5")}
	b := a
	b.ID = "2"
	b.Amount = decimal.RequireFromString("10.50")

	assert.Equal(t, "2024-03-25|10.50|TESCO", a.DedupKey())
	assert.Equal(t, a.DedupKey(), b.DedupKey(), "ID and amount scale do not matter")

	b.Description = "tesco"
	assert.NotEqual(t, a.DedupKey(), b.DedupKey())
}

func TestTransactionType_Valid(t *testing.T) {
	assert.True(t, Credit.Valid())
	assert.True(t, Debit.Valid())
	assert.False(t, TransactionType("transfer").Valid())
	assert.False(t, TransactionType("").Valid())
}

func TestFormatMatch_NeedsReview(t *testing.T) {
	assert.False(t, FormatMatch{Confidence: ConfidenceCertain}.NeedsReview())
	assert.True(t, FormatMatch{Confidence: ConfidenceHeuristic}.NeedsReview())
	assert.True(t, FormatMatch{Confidence: ConfidenceUnknown}.NeedsReview())
}

func TestTexts(t *testing.T) {
	lines := []TextLine{{Text: "a", Page: 1}, {Text: "b", Page: 2, Index: 1}}
	assert.Equal(t, []string{"a", "b"}, Texts(lines))
	assert.Empty(t, Texts(nil))
}

func TestCategorizationStats(t *testing.T) {
	stats := NewCategorizationStats()
	assert.Zero(t, stats.GetSuccessRate())

	stats.RecordSuccess("Keyword")
	stats.RecordSuccess("Keyword")
	stats.RecordSuccess("AI")
	stats.RecordUncategorized()
	stats.RecordFailure()

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 3, stats.Successful)
	assert.Equal(t, map[string]int{"Keyword": 2, "AI": 1}, stats.ByStrategy)
	assert.InDelta(t, 60.0, stats.GetSuccessRate(), 0.001)

	logger := logging.NewMockLogger()
	stats.LogSummary(logger, "statement.pdf")
	assert.True(t, logger.HasEntry("INFO", "Categorization summary"))

	var zero CategorizationStats
	zero.RecordSuccess("Direct")
	assert.Equal(t, 1, zero.ByStrategy["Direct"])
}
