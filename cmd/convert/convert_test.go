package convert_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/statement-csv/cmd/convert"
	"fjacquet/statement-csv/internal/config"
	"fjacquet/statement-csv/internal/container"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statement = `Barclays Bank UK PLC
Sort code 20-30-40 Account number 12345678
Statement 1 Mar 2024 - 31 Mar 2024
Start balance £1,000.00
3 Mar Card Payment to Tesco 12.50 987.50
Card Payment to Shell 40.00 947.50
5 Mar Direct Debit to Council
120.00 827.50
End balance £827.50
`

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	cfg := config.Default()
	cfg.Categories.MappingsFile = filepath.Join(t.TempDir(), "mappings.yaml")
	c, err := container.NewContainer(cfg, container.WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	return c
}

func writeStatement(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "march.txt")
	require.NoError(t, os.WriteFile(path, []byte(statement), 0600))
	return path
}

func TestConvertCommand_Metadata(t *testing.T) {
	assert.Equal(t, "convert", convert.Cmd.Use)
	assert.NotNil(t, convert.Cmd.Run)
	for _, name := range []string{"format", "date-style", "categorize", "summary"} {
		assert.NotNil(t, convert.Cmd.Flags().Lookup(name), name)
	}
}

func TestRun_CSVToFile(t *testing.T) {
	c := newContainer(t)
	input := writeStatement(t)
	output := filepath.Join(t.TempDir(), "out", "march.csv")

	err := convert.Run(context.Background(), c, convert.Options{Input: input, Output: output, Format: "CSV"}, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "Date,Description,Amount,Type\n"+
		"2024-03-03,Card Payment to Tesco,-12.50,debit\n"+
		"2024-03-03,Card Payment to Shell,-40.00,debit\n"+
		"2024-03-05,Direct Debit to Council,-120.00,debit\n", string(data))
}

func TestRun_LogsOutcome(t *testing.T) {
	logger := logging.NewMockLogger()
	cfg := config.Default()
	cfg.Categories.MappingsFile = filepath.Join(t.TempDir(), "mappings.yaml")
	c, err := container.NewContainer(cfg, container.WithLogger(logger))
	require.NoError(t, err)

	input := writeStatement(t)
	require.NoError(t, convert.Run(context.Background(), c, convert.Options{Input: input, Format: "csv"}, &bytes.Buffer{}))
	assert.True(t, logger.HasEntry("INFO", "Statement converted"))
	assert.False(t, logger.HasEntry("WARN", "Very little text found, the document may be a scan"))

	short := filepath.Join(t.TempDir(), "short.txt")
	require.NoError(t, os.WriteFile(short, []byte("01/03/2024 TESCO 1.00\n"), 0600))
	require.NoError(t, convert.Run(context.Background(), c, convert.Options{Input: short, Format: "csv"}, &bytes.Buffer{}))
	assert.True(t, logger.HasEntry("WARN", "Very little text found, the document may be a scan"))
}

func TestRun_DefaultOutputPath(t *testing.T) {
	c := newContainer(t)
	input := writeStatement(t)

	require.NoError(t, convert.Run(context.Background(), c, convert.Options{Input: input, Format: "qif"}, &bytes.Buffer{}))

	data, err := os.ReadFile(filepath.Join(filepath.Dir(input), "march.qif"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "!Type:Bank")
}

func TestRun_StdoutWithCategoriesAndSummary(t *testing.T) {
	c := newContainer(t)
	input := writeStatement(t)
	var out bytes.Buffer

	err := convert.Run(context.Background(), c, convert.Options{
		Input:      input,
		Output:     "-",
		Format:     "csv",
		DateStyle:  "uk",
		Categorize: true,
		Summary:    true,
	}, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Date,Description,Amount,Type,Category\n")
	assert.Contains(t, text, "03/03/2024,Card Payment to Tesco,-12.50,debit,Personal\n")
	assert.Contains(t, text, "03/03/2024,Card Payment to Shell,-40.00,debit,Travel\n")
	assert.Contains(t, text, "Barclays")
	assert.Contains(t, text, "3 (0 credits, 3 debits)")
	assert.Contains(t, text, "20-30-40")
}

func TestRun_Errors(t *testing.T) {
	c := newContainer(t)

	err := convert.Run(context.Background(), c, convert.Options{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "input file must be specified")

	missing := filepath.Join(t.TempDir(), "missing.pdf")
	err = convert.Run(context.Background(), c, convert.Options{Input: missing}, &bytes.Buffer{})
	var invalid *parsererror.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, missing, invalid.FilePath)

	err = convert.Run(context.Background(), c, convert.Options{Input: writeStatement(t), Output: "-", Format: "docx"}, &bytes.Buffer{})
	var unsupported *parsererror.UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "docx", unsupported.Format)
}
