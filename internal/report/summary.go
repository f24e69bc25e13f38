// Package report builds statement summaries: credit and debit totals, net
// movement and covered date range.
package report

import (
	"fmt"
	"time"

	"fjacquet/statement-csv/internal/models"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Summary is the totals view of one converted statement. Money values are
// kept in minor units so repeated additions never drift.
type Summary struct {
	BankName      string
	AccountNumber string
	SortCode      string
	Currency      string

	TransactionCount int
	CreditCount      int
	DebitCount       int

	TotalCredits *money.Money
	TotalDebits  *money.Money
	Net          *money.Money

	From time.Time
	To   time.Time

	Quality *models.QualityReport
}

// Summarize totals txs in the given currency (GBP when empty). Amounts are
// rounded to the currency's minor unit before they are added.
func Summarize(txs []models.Transaction, currency string) (*Summary, error) {
	if currency == "" {
		currency = models.CurrencyGBP
	}
	unit := money.GetCurrency(currency)
	if unit == nil {
		return nil, fmt.Errorf("unknown currency code: %s", currency)
	}

	s := &Summary{
		Currency:         unit.Code,
		TransactionCount: len(txs),
		TotalCredits:     money.New(0, unit.Code),
		TotalDebits:      money.New(0, unit.Code),
	}

	var err error
	for _, tx := range txs {
		amount := toMinor(tx.Amount, unit.Fraction, unit.Code)
		switch tx.Type {
		case models.Credit:
			s.CreditCount++
			s.TotalCredits, err = s.TotalCredits.Add(amount)
		case models.Debit:
			s.DebitCount++
			s.TotalDebits, err = s.TotalDebits.Add(amount)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to add transaction %s: %w", tx.ID, err)
		}

		if tx.Date.IsZero() {
			continue
		}
		if s.From.IsZero() || tx.Date.Before(s.From) {
			s.From = tx.Date
		}
		if tx.Date.After(s.To) {
			s.To = tx.Date
		}
	}

	s.Net, err = s.TotalCredits.Subtract(s.TotalDebits)
	if err != nil {
		return nil, fmt.Errorf("failed to compute net movement: %w", err)
	}
	return s, nil
}

// FromResult summarizes a conversion result and copies its statement metadata.
func FromResult(result *models.ConversionResult, currency string) (*Summary, error) {
	s, err := Summarize(result.Transactions, currency)
	if err != nil {
		return nil, err
	}
	s.BankName = result.BankName
	s.AccountNumber = result.AccountNumber
	s.SortCode = result.SortCode
	quality := result.Quality
	s.Quality = &quality
	return s, nil
}

// HasDateRange reports whether at least one dated transaction was summed.
func (s *Summary) HasDateRange() bool {
	return !s.From.IsZero()
}

func toMinor(amount decimal.Decimal, fraction int, code string) *money.Money {
	minor := amount.Shift(int32(fraction)).Round(0).IntPart()
	return money.New(minor, code)
}
