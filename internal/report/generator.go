package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/textutils"
)

// Report output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ReportGenerator renders statement summaries for the terminal or for tools.
type ReportGenerator struct {
	logger    logging.Logger
	dateStyle string
}

// NewReportGenerator creates a new instance of ReportGenerator. Dates in the
// text rendering follow dateStyle (iso or uk).
func NewReportGenerator(logger logging.Logger, dateStyle string) *ReportGenerator {
	return &ReportGenerator{
		logger:    logging.OrDiscard(logger).WithField(logging.FieldComponent, "report"),
		dateStyle: dateStyle,
	}
}

// GenerateReport renders the summary in the specified format (text or json).
func (g *ReportGenerator) GenerateReport(summary *Summary, format string) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("summary cannot be nil")
	}
	switch strings.ToLower(format) {
	case FormatText, "":
		return g.generateTextReport(summary), nil
	case FormatJSON:
		return g.generateJSONReport(summary)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

type jsonMoney struct {
	Minor   int64   `json:"minorUnits"`
	Major   float64 `json:"amount"`
	Display string  `json:"display"`
}

type jsonSummary struct {
	BankName         string                `json:"bankName,omitempty"`
	AccountNumber    string                `json:"accountNumber,omitempty"`
	SortCode         string                `json:"sortCode,omitempty"`
	Currency         string                `json:"currency"`
	TransactionCount int                   `json:"transactionCount"`
	CreditCount      int                   `json:"creditCount"`
	DebitCount       int                   `json:"debitCount"`
	TotalCredits     jsonMoney             `json:"totalCredits"`
	TotalDebits      jsonMoney             `json:"totalDebits"`
	Net              jsonMoney             `json:"net"`
	From             string                `json:"from,omitempty"`
	To               string                `json:"to,omitempty"`
	Quality          *models.QualityReport `json:"quality,omitempty"`
}

// generateJSONReport generates the summary in JSON format. Dates are always ISO.
func (g *ReportGenerator) generateJSONReport(s *Summary) ([]byte, error) {
	out := jsonSummary{
		BankName:         s.BankName,
		AccountNumber:    s.AccountNumber,
		SortCode:         s.SortCode,
		Currency:         s.Currency,
		TransactionCount: s.TransactionCount,
		CreditCount:      s.CreditCount,
		DebitCount:       s.DebitCount,
		TotalCredits:     jsonMoney{s.TotalCredits.Amount(), s.TotalCredits.AsMajorUnits(), s.TotalCredits.Display()},
		TotalDebits:      jsonMoney{s.TotalDebits.Amount(), s.TotalDebits.AsMajorUnits(), s.TotalDebits.Display()},
		Net:              jsonMoney{s.Net.Amount(), s.Net.AsMajorUnits(), s.Net.Display()},
		Quality:          s.Quality,
	}
	if s.HasDateRange() {
		out.From = s.From.Format(models.DateLayoutISO)
		out.To = s.To.Format(models.DateLayoutISO)
	}

	jsonReport, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return jsonReport, nil
}

// generateTextReport lays the summary out as aligned label/value lines.
func (g *ReportGenerator) generateTextReport(s *Summary) []byte {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%-20s %s\n", label+":", value)
	}

	if s.BankName != "" {
		line("Bank", s.BankName)
	}
	if s.AccountNumber != "" {
		line("Account number", s.AccountNumber)
	}
	if s.SortCode != "" {
		line("Sort code", textutils.FormatSortCode(s.SortCode))
	}
	line("Transactions", fmt.Sprintf("%d (%d credits, %d debits)", s.TransactionCount, s.CreditCount, s.DebitCount))
	line("Total credits", s.TotalCredits.Display())
	line("Total debits", s.TotalDebits.Display())
	line("Net", s.Net.Display())
	if s.HasDateRange() {
		line("Period", dateutils.Format(s.From, g.dateStyle)+" to "+dateutils.Format(s.To, g.dateStyle))
	}
	if q := s.Quality; q != nil {
		line("Found", fmt.Sprintf("%d", q.TotalFound))
		line("Duplicates removed", fmt.Sprintf("%d", q.DuplicatesRemoved))
		line("Rejected", fmt.Sprintf("%d", q.Rejected))
		if q.LowText {
			line("Warning", "very little text found, the document may be a scan")
		}
	}
	return []byte(b.String())
}
