// Package lineparser turns statement lines into transactions using date and
// amount tokens. It is the engine shared by every bank strategy.
package lineparser

import (
	"strings"

	"fjacquet/statement-csv/internal/currencyutils"
	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/keywords"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/textutils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Default classification keywords, checked credit first.
var (
	DefaultCreditKeywords = []string{"credit", "deposit", "transfer in", "salary", "payment received", "refund"}
	DefaultDebitKeywords  = []string{"debit", "withdrawal", "payment", "direct debit", "card payment", "fee"}
)

// Options tune extraction. The zero value is not usable; start from DefaultOptions.
type Options struct {
	CreditThreshold      decimal.Decimal
	MaxDescriptionLength int
	CreditKeywords       *keywords.Set
	DebitKeywords        *keywords.Set
}

// DefaultOptions returns the stock keyword sets, a 500.00 credit threshold and
// 100-character descriptions.
func DefaultOptions() Options {
	return Options{
		CreditThreshold:      decimal.NewFromInt(models.DefaultCreditThreshold),
		MaxDescriptionLength: models.DefaultMaxDescriptionLength,
		CreditKeywords:       keywords.NewSet(DefaultCreditKeywords...),
		DebitKeywords:        keywords.NewSet(DefaultDebitKeywords...),
	}
}

// Hint carries bank knowledge into a single extraction.
type Hint struct {
	// TypeCodes maps upper-case transaction type codes (FPI, DD, SO...) to the
	// type they imply. Codes match whole tokens only.
	TypeCodes map[string]models.TransactionType

	// CreditPhrases and DebitPhrases are the bank's own wording ("payment
	// from", "transfer to"), matched as whole words. The longer match wins
	// and a tie counts as a debit.
	CreditPhrases *keywords.Set
	DebitPhrases  *keywords.Set
}

// Parser extracts transactions from lines. It holds no per-call state and is
// safe for concurrent use.
type Parser struct {
	opts   Options
	logger logging.Logger
}

// New creates a Parser. Missing option fields are filled from DefaultOptions.
func New(opts Options, logger logging.Logger) *Parser {
	def := DefaultOptions()
	if !opts.CreditThreshold.IsPositive() {
		opts.CreditThreshold = def.CreditThreshold
	}
	if opts.MaxDescriptionLength <= 0 {
		opts.MaxDescriptionLength = def.MaxDescriptionLength
	}
	if opts.CreditKeywords == nil {
		opts.CreditKeywords = def.CreditKeywords
	}
	if opts.DebitKeywords == nil {
		opts.DebitKeywords = def.DebitKeywords
	}
	return &Parser{opts: opts, logger: logging.OrDiscard(logger)}
}

// Extract returns one transaction per dated line that has an amount on the
// same line or on an adjacent undated line. Output follows line order; an
// empty result is not an error.
func (p *Parser) Extract(lines []models.TextLine, hint Hint) []models.Transaction {
	var txs []models.Transaction
	used := make(map[int]bool)

	for i, line := range lines {
		date, ok := dateutils.FindDate(line.Text)
		if !ok {
			continue
		}

		amountLine, amount, found := p.findAmount(lines, i, date, used)
		if !found {
			p.logger.Debug("Dated line without amount skipped",
				logging.F(logging.FieldLine, line.Index),
				logging.F(logging.FieldPage, line.Page))
			continue
		}
		used[amountLine] = true

		window := line.Text
		if amountLine != i {
			window += " " + lines[amountLine].Text
		}

		tx := models.Transaction{
			ID:          uuid.NewString(),
			Date:        date.Date,
			Description: p.describe(line.Text, date),
			Amount:      amount.Value,
			Type:        p.classify(window, amount, hint),
		}
		txs = append(txs, tx)
	}

	p.logger.Debug("Line extraction finished",
		logging.F(logging.FieldCount, len(txs)),
		logging.F("lines", len(lines)))
	return txs
}

// findAmount looks in the date line (with the date blanked out), then the
// next line, then the previous one. Neighbours only count when they carry no
// date of their own and were not already claimed by another transaction.
func (p *Parser) findAmount(lines []models.TextLine, i int, date dateutils.DateMatch, used map[int]bool) (int, currencyutils.AmountMatch, bool) {
	text := lines[i].Text
	blanked := text[:date.Start] + strings.Repeat(" ", date.End-date.Start) + text[date.End:]
	if m, ok := currencyutils.FindAmount(blanked); ok {
		return i, m, true
	}

	for _, j := range []int{i + 1, i - 1} {
		if j < 0 || j >= len(lines) || used[j] || dateutils.HasDate(lines[j].Text) {
			continue
		}
		if m, ok := currencyutils.FindAmount(lines[j].Text); ok {
			return j, m, true
		}
	}
	return 0, currencyutils.AmountMatch{}, false
}

// classify applies, in order: explicit sign or CR/DR marker, bank type
// codes, bank phrases, credit keywords, debit keywords, then the magnitude
// threshold.
func (p *Parser) classify(window string, amount currencyutils.AmountMatch, hint Hint) models.TransactionType {
	switch {
	case amount.Marker == currencyutils.MarkerCredit:
		return models.Credit
	case amount.Marker == currencyutils.MarkerDebit, amount.Negative:
		return models.Debit
	}

	if t, ok := typeFromCodes(window, hint.TypeCodes); ok {
		return t
	}

	if t, ok := typeFromPhrases(window, hint); ok {
		return t
	}

	lower := strings.ToLower(window)
	if p.opts.CreditKeywords.Contains(lower) {
		return models.Credit
	}
	if p.opts.DebitKeywords.Contains(lower) {
		return models.Debit
	}

	if amount.Value.GreaterThan(p.opts.CreditThreshold) {
		return models.Credit
	}
	return models.Debit
}

func typeFromCodes(text string, codes map[string]models.TransactionType) (models.TransactionType, bool) {
	if len(codes) == 0 {
		return "", false
	}
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for _, tok := range tokens {
		if t, ok := codes[tok]; ok {
			return t, true
		}
	}
	return "", false
}

func typeFromPhrases(text string, hint Hint) (models.TransactionType, bool) {
	credit := hint.CreditPhrases.Longest(text)
	debit := hint.DebitPhrases.Longest(text)
	switch {
	case credit == "" && debit == "":
		return "", false
	case len(credit) > len(debit):
		return models.Credit, true
	default:
		return models.Debit, true
	}
}

// describe strips the date, every amount token (markers included) and stray
// pound signs from the date line.
func (p *Parser) describe(text string, date dateutils.DateMatch) string {
	desc := text[:date.Start] + " " + text[date.End:]
	for {
		m, ok := currencyutils.FindAmount(desc)
		if !ok {
			break
		}
		desc = desc[:m.Start] + " " + desc[m.End:]
	}

	desc = strings.ReplaceAll(desc, "£", " ")
	desc = textutils.CollapseWhitespace(desc)
	desc = textutils.Truncate(desc, p.opts.MaxDescriptionLength)
	if desc == "" {
		return models.PlaceholderDescription
	}
	return desc
}
