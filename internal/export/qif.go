package export

import (
	"bytes"
	"strings"

	"fjacquet/statement-csv/internal/currencyutils"
	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/models"
)

const qifHeader = "!Type:Bank"

var qifLineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

type qifSerializer struct{}

func (qifSerializer) Format() string { return models.FormatQIF }

// Serialize writes a bank-account QIF file: the !Type:Bank header, then D, T,
// P (and L when categories are requested) lines closed by ^ for each
// transaction. There are no blank lines.
func (qifSerializer) Serialize(txs []models.Transaction, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(qifHeader + "\n")
	for _, tx := range txs {
		buf.WriteString("D" + dateutils.Format(tx.Date, opts.DateStyle) + "\n")
		buf.WriteString("T" + currencyutils.FormatAmount(tx.SignedAmount()) + "\n")
		buf.WriteString("P" + qifLineBreaks.Replace(tx.Description) + "\n")
		if opts.IncludeCategory && tx.Category != "" {
			buf.WriteString("L" + qifLineBreaks.Replace(tx.Category) + "\n")
		}
		buf.WriteString("^\n")
	}
	return buf.Bytes(), nil
}
