package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"fjacquet/statement-csv/internal/dateutils"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parsererror"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/xmlpath.v2"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sample() []models.Transaction {
	return []models.Transaction{
		{ID: "a1", Date: day(2024, time.March, 25), Description: "OFFICE SUPPLIES LTD", Amount: decimal.RequireFromString("156.78"), Type: models.Debit},
		{ID: "a2", Date: day(2024, time.March, 28), Description: "ACME CONSULTING, INVOICE 42", Amount: decimal.RequireFromString("1200"), Type: models.Credit, Category: "Income"},
	}
}

// parseCSV is the inverse of the CSV serializer, used to check round trips.
func parseCSV(t *testing.T, data []byte) []models.Transaction {
	t.Helper()
	var rows []csvRow
	require.NoError(t, gocsv.UnmarshalBytes(data, &rows))

	out := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		date, err := dateutils.ParseExportDate(row.Date)
		require.NoError(t, err)
		amount, err := decimal.NewFromString(row.Amount)
		require.NoError(t, err)
		out = append(out, models.Transaction{
			Date:        date,
			Description: row.Description,
			Amount:      amount.Abs(),
			Type:        models.TransactionType(row.Type),
		})
	}
	return out
}

func TestExporter_UnsupportedFormat(t *testing.T) {
	_, err := Serialize(sample(), "pdf", DefaultOptions())
	require.Error(t, err)

	var unsupported *parsererror.UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "pdf", unsupported.Format)
	assert.Equal(t, []string{"csv", "json", "ofx", "qif", "xlsx"}, unsupported.Supported)
}

type failingSerializer struct{}

func (failingSerializer) Format() string { return "csv" }
func (failingSerializer) Serialize([]models.Transaction, Options) ([]byte, error) {
	return nil, fmt.Errorf("disk on fire")
}

func TestExporter_WrapsFailures(t *testing.T) {
	logger := logging.NewMockLogger()
	e := NewExporter(logger)
	e.Register(failingSerializer{})

	_, err := e.Serialize(sample(), "CSV", Options{})
	var exportErr *parsererror.ExportError
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, "csv", exportErr.Format)
	assert.True(t, logger.HasEntry("ERROR", "Export failed"))
}

func TestExporter_Deterministic(t *testing.T) {
	txs := sample()
	for _, format := range []string{models.FormatCSV, models.FormatQIF, models.FormatOFX, models.FormatJSON} {
		first, err := Serialize(txs, format, DefaultOptions())
		require.NoError(t, err, format)
		second, err := Serialize(txs, format, DefaultOptions())
		require.NoError(t, err, format)
		assert.Equal(t, first, second, format)
	}
}

func TestCSV_Layout(t *testing.T) {
	out, err := Serialize(sample(), models.FormatCSV, Options{DateStyle: dateutils.StyleUK})
	require.NoError(t, err)

	want := "Date,Description,Amount,Type\n" +
		"25/03/2024,OFFICE SUPPLIES LTD,-156.78,debit\n" +
		"28/03/2024,\"ACME CONSULTING, INVOICE 42\",1200.00,credit\n"
	assert.Equal(t, want, string(out))
}

func TestCSV_EmptyStillHasHeader(t *testing.T) {
	out, err := Serialize(nil, models.FormatCSV, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Date,Description,Amount,Type\n", string(out))
}

func TestCSV_QuotesLongDescriptionWithCommas(t *testing.T) {
	desc := "PAYMENT TO SMITH, JONES & CO, REF 0042, MARCH RENT"
	require.Len(t, desc, 50)
	txs := []models.Transaction{{ID: "x", Date: day(2024, time.March, 1), Description: desc, Amount: decimal.NewFromInt(900), Type: models.Debit}}

	out, err := Serialize(txs, models.FormatCSV, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"`+desc+`"`)
	assert.Equal(t, desc, parseCSV(t, out)[0].Description)
}

func TestCSV_QuotesEmbeddedQuotes(t *testing.T) {
	txs := []models.Transaction{{ID: "x", Date: day(2024, time.March, 1), Description: `THE "BEST" CAFE`, Amount: decimal.NewFromInt(3), Type: models.Debit}}
	out, err := Serialize(txs, models.FormatCSV, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"THE ""BEST"" CAFE"`)
}

func TestCSV_RoundTrip(t *testing.T) {
	f := gofakeit.New(2024)
	start := day(2020, time.January, 1)

	for _, style := range []string{dateutils.StyleISO, dateutils.StyleUK} {
		txs := make([]models.Transaction, 40)
		for i := range txs {
			typ := models.Debit
			if f.Bool() {
				typ = models.Credit
			}
			txs[i] = models.Transaction{
				ID:          fmt.Sprintf("t%d", i),
				Date:        f.DateRange(start, start.AddDate(4, 0, 0)).Truncate(24 * time.Hour),
				Description: f.Company() + ", " + f.Word(),
				Amount:      decimal.NewFromFloat(f.Price(0.01, 9999)).Round(2),
				Type:        typ,
			}
		}

		out, err := Serialize(txs, models.FormatCSV, Options{DateStyle: style})
		require.NoError(t, err)

		back := parseCSV(t, out)
		require.Len(t, back, len(txs))
		for i := range txs {
			assert.True(t, txs[i].Date.Equal(back[i].Date), style)
			assert.True(t, txs[i].Amount.Equal(back[i].Amount), style)
			assert.Equal(t, txs[i].Type, back[i].Type)
			assert.Equal(t, txs[i].Description, back[i].Description)
		}
	}
}

func TestCSV_CategoryAndDelimiter(t *testing.T) {
	out, err := Serialize(sample(), models.FormatCSV, Options{Delimiter: ';', IncludeCategory: true})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date;Description;Amount;Type;Category", lines[0])
	assert.Equal(t, "2024-03-28;ACME CONSULTING, INVOICE 42;1200.00;credit;Income", lines[2])
}

func TestQIF(t *testing.T) {
	txs := sample()
	txs[0].Description = "LINE\nBREAK"
	out, err := Serialize(txs, models.FormatQIF, Options{DateStyle: dateutils.StyleUK, IncludeCategory: true})
	require.NoError(t, err)

	want := "!Type:Bank\n" +
		"D25/03/2024\nT-156.78\nPLINE BREAK\n^\n" +
		"D28/03/2024\nT1200.00\nPACME CONSULTING, INVOICE 42\nLIncome\n^\n"
	assert.Equal(t, want, string(out))
	assert.NotContains(t, string(out), "\n\n")
}

func TestQIF_Empty(t *testing.T) {
	out, err := Serialize(nil, models.FormatQIF, Options{})
	require.NoError(t, err)
	assert.Equal(t, "!Type:Bank\n", string(out))
}

func ofxValues(t *testing.T, data []byte, path string) []string {
	t.Helper()
	root, err := xmlpath.Parse(bytes.NewReader(data))
	require.NoError(t, err)
	var values []string
	iter := xmlpath.MustCompile(path).Iter(root)
	for iter.Next() {
		values = append(values, iter.Node().String())
	}
	return values
}

func TestOFX(t *testing.T) {
	txs := sample()
	txs[1].Description = "ACME CONSULTING LIMITED, INVOICE 42 FOR MARCH"
	out, err := Serialize(txs, models.FormatOFX, Options{AccountNumber: "12345678", SortCode: "203040"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(out), `<?xml version="1.0"`))
	assert.Contains(t, string(out), `OFXHEADER="200"`)

	const list = "/OFX/BANKMSGSRSV1/STMTTRNRS/STMTRS/BANKTRANLIST"
	assert.Equal(t, []string{"GBP"}, ofxValues(t, out, "/OFX/BANKMSGSRSV1/STMTTRNRS/STMTRS/CURDEF"))
	assert.Equal(t, []string{"203040"}, ofxValues(t, out, "/OFX/BANKMSGSRSV1/STMTTRNRS/STMTRS/BANKACCTFROM/BANKID"))
	assert.Equal(t, []string{"12345678"}, ofxValues(t, out, "/OFX/BANKMSGSRSV1/STMTTRNRS/STMTRS/BANKACCTFROM/ACCTID"))
	assert.Equal(t, []string{"20240328"}, ofxValues(t, out, "/OFX/SIGNONMSGSRSV1/SONRS/DTSERVER"))
	assert.Equal(t, []string{"20240325"}, ofxValues(t, out, list+"/DTSTART"))
	assert.Equal(t, []string{"20240328"}, ofxValues(t, out, list+"/DTEND"))
	assert.Equal(t, []string{"DEBIT", "CREDIT"}, ofxValues(t, out, list+"/STMTTRN/TRNTYPE"))
	assert.Equal(t, []string{"-156.78", "1200.00"}, ofxValues(t, out, list+"/STMTTRN/TRNAMT"))
	assert.Equal(t, []string{"a1", "a2"}, ofxValues(t, out, list+"/STMTTRN/FITID"))

	names := ofxValues(t, out, list+"/STMTTRN/NAME")
	require.Len(t, names, 2)
	assert.Equal(t, "OFFICE SUPPLIES LTD", names[0])
	assert.Len(t, names[1], 32)
	assert.Equal(t, []string{txs[1].Description}, ofxValues(t, out, list+"/STMTTRN/MEMO"))
}

func TestOFX_WithoutAccountOrTransactions(t *testing.T) {
	out, err := Serialize(nil, models.FormatOFX, Options{})
	require.NoError(t, err)
	assert.Empty(t, ofxValues(t, out, "//BANKACCTFROM"))
	assert.Empty(t, ofxValues(t, out, "//STMTTRN"))
	assert.Equal(t, []string{"19700101"}, ofxValues(t, out, "/OFX/SIGNONMSGSRSV1/SONRS/DTSERVER"))
}

func TestOFX_EscapesMarkup(t *testing.T) {
	txs := []models.Transaction{{ID: "1", Date: day(2024, 1, 2), Description: "M&S <FOOD>", Amount: decimal.NewFromInt(5), Type: models.Debit}}
	out, err := Serialize(txs, models.FormatOFX, Options{GeneratedAt: day(2024, 2, 1)})
	require.NoError(t, err)
	assert.Contains(t, string(out), "M&amp;S &lt;FOOD&gt;")
	assert.Equal(t, []string{"M&S <FOOD>"}, ofxValues(t, out, "//STMTTRN/NAME"))
	assert.Equal(t, []string{"20240201"}, ofxValues(t, out, "//DTSERVER"))
}

func TestJSON(t *testing.T) {
	out, err := Serialize(sample(), models.FormatJSON, Options{DateStyle: dateutils.StyleUK, ValidateJSON: true})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `"date": "2024-03-25"`)
	assert.Contains(t, s, `"amount": 156.78`)
	assert.Contains(t, s, `"amount": 1200.00`)
	assert.Contains(t, s, `"category": "Income"`)
	assert.Equal(t, 1, strings.Count(s, `"category"`))
	assert.NoError(t, ValidateJSON(out))
}

func TestJSON_EmptyIsArray(t *testing.T) {
	out, err := Serialize(nil, models.FormatJSON, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestJSON_SchemaRejectsBadRecords(t *testing.T) {
	_, err := Serialize([]models.Transaction{{ID: "1", Date: day(2024, 1, 1), Description: "X", Amount: decimal.Zero, Type: models.Debit}},
		models.FormatJSON, Options{ValidateJSON: true})
	var exportErr *parsererror.ExportError
	require.True(t, errors.As(err, &exportErr))

	tests := map[string]string{
		"unknown type":  `[{"id":"1","date":"2024-01-01","description":"X","amount":1,"type":"transfer"}]`,
		"uk date":       `[{"id":"1","date":"01/01/2024","description":"X","amount":1,"type":"debit"}]`,
		"extra field":   `[{"id":"1","date":"2024-01-01","description":"X","amount":1,"type":"debit","balance":3}]`,
		"missing field": `[{"id":"1","date":"2024-01-01","amount":1,"type":"debit"}]`,
		"not json":      `[{`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ValidateJSON([]byte(doc)))
		})
	}
}

func TestXLSX(t *testing.T) {
	opts := Options{BankName: "Barclays", AccountNumber: "12345678", SortCode: "203040", IncludeCategory: true, DateStyle: dateutils.StyleUK}
	out, err := Serialize(sample(), models.FormatXLSX, opts)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetTransactions, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetTransactions)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Description", "Amount", "Type", "Category"}, rows[0])
	require.GreaterOrEqual(t, len(rows[1]), 4)
	assert.Equal(t, []string{"25/03/2024", "OFFICE SUPPLIES LTD", "-156.78", "debit"}, rows[1][:4])
	assert.Equal(t, "Income", rows[2][4])

	net, err := f.GetCellValue(SheetSummary, "B10")
	require.NoError(t, err)
	assert.Equal(t, "1043.22", net)
	sortCode, err := f.GetCellValue(SheetSummary, "B3")
	require.NoError(t, err)
	assert.Equal(t, "20-30-40", sortCode)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".ofx", Extension(" OFX "))
}
