package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"fjacquet/statement-csv/internal/currencyutils"
	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/models"

	"github.com/gocarina/gocsv"
)

// csvRow is the column layout of the CSV export.
type csvRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Type        string `csv:"Type"`
}

type csvCategorizedRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Type        string `csv:"Type"`
	Category    string `csv:"Category"`
}

type csvSerializer struct{}

func (csvSerializer) Format() string { return models.FormatCSV }

// Serialize writes the header Date,Description,Amount,Type followed by one
// row per transaction. Debits carry a leading minus sign; fields holding the
// delimiter or quotes are quoted by encoding/csv.
func (csvSerializer) Serialize(txs []models.Transaction, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	csvWriter.Comma = opts.Delimiter

	var rows interface{}
	if opts.IncludeCategory {
		categorized := make([]csvCategorizedRow, 0, len(txs))
		for _, tx := range txs {
			row := toCSVRow(tx, opts)
			categorized = append(categorized, csvCategorizedRow{
				Date:        row.Date,
				Description: row.Description,
				Amount:      row.Amount,
				Type:        row.Type,
				Category:    tx.Category,
			})
		}
		rows = categorized
	} else {
		plain := make([]csvRow, 0, len(txs))
		for _, tx := range txs {
			plain = append(plain, toCSVRow(tx, opts))
		}
		rows = plain
	}

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return nil, fmt.Errorf("error writing CSV: %w", err)
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func toCSVRow(tx models.Transaction, opts Options) csvRow {
	return csvRow{
		Date:        dateutils.Format(tx.Date, opts.DateStyle),
		Description: tx.Description,
		Amount:      currencyutils.FormatAmount(tx.SignedAmount()),
		Type:        string(tx.Type),
	}
}
