package export

import (
	"fmt"

	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/report"
	"fjacquet/statement-csv/internal/textutils"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetTransactions = "Transactions"
	SheetSummary      = "Summary"
)

type xlsxSerializer struct{}

func (xlsxSerializer) Format() string { return models.FormatXLSX }

// Serialize builds a workbook with the CSV columns on the Transactions sheet
// and the statement totals on the Summary sheet. Amounts are numeric cells.
func (xlsxSerializer) Serialize(txs []models.Transaction, opts Options) ([]byte, error) {
	summary, err := report.Summarize(txs, opts.Currency)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetTransactions); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	if err := writeTransactionsSheet(f, txs, opts, bold); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, summary, opts, bold); err != nil {
		return nil, err
	}

	index, err := f.GetSheetIndex(SheetTransactions)
	if err != nil {
		return nil, fmt.Errorf("locate sheet: %w", err)
	}
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTransactionsSheet(f *excelize.File, txs []models.Transaction, opts Options, headerStyle int) error {
	headers := []interface{}{"Date", "Description", "Amount", "Type"}
	if opts.IncludeCategory {
		headers = append(headers, "Category")
	}
	if err := f.SetSheetRow(SheetTransactions, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(SheetTransactions, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, tx := range txs {
		row := []interface{}{
			dateutils.Format(tx.Date, opts.DateStyle),
			tx.Description,
			tx.SignedAmount().InexactFloat64(),
			string(tx.Type),
		}
		if opts.IncludeCategory {
			row = append(row, tx.Category)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetTransactions, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(SheetTransactions, "A", "A", 12)
	_ = f.SetColWidth(SheetTransactions, "B", "B", 48)
	_ = f.SetColWidth(SheetTransactions, "C", "D", 12)
	if opts.IncludeCategory {
		_ = f.SetColWidth(SheetTransactions, "E", "E", 24)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s *report.Summary, opts Options, labelStyle int) error {
	rows := [][]interface{}{
		{"Bank", opts.BankName},
		{"Account number", opts.AccountNumber},
		{"Sort code", textutils.FormatSortCode(opts.SortCode)},
		{"Currency", s.Currency},
		{"Transactions", s.TransactionCount},
		{"Credits", s.CreditCount},
		{"Debits", s.DebitCount},
		{"Total credits", s.TotalCredits.AsMajorUnits()},
		{"Total debits", s.TotalDebits.AsMajorUnits()},
		{"Net", s.Net.AsMajorUnits()},
	}
	if s.HasDateRange() {
		rows = append(rows,
			[]interface{}{"From", dateutils.Format(s.From, opts.DateStyle)},
			[]interface{}{"To", dateutils.Format(s.To, opts.DateStyle)})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(1, len(rows))
	if err := f.SetCellStyle(SheetSummary, "A1", last, labelStyle); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 18)
	_ = f.SetColWidth(SheetSummary, "B", "B", 24)
	return nil
}
