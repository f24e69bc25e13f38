// Package detect identifies the bank and account of a statement
package detect

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/internal/fileutils"
	"fjacquet/statement-csv/internal/textutils"
	"fjacquet/statement-csv/pkg/converter"

	"github.com/spf13/cobra"
)

var asJSON bool

// Cmd represents the detect command
var Cmd = &cobra.Command{
	Use:   "detect",
	Short: "Show which bank and account a statement belongs to",
	Long: `Detect the issuing bank, the detection confidence, the parsing strategy and
the account number and sort code of a statement without converting it.

Example:
  statement-csv detect -i march.pdf`,
	Run: detectFunc,
}

func init() {
	Cmd.Flags().BoolVar(&asJSON, "json", false, "Print the detection as JSON")
}

func detectFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogger()
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
	}
	if err := Run(appContainer.GetConverter(), root.SharedFlags.Input, asJSON, cmd.OutOrStdout()); err != nil {
		logger.Fatalf("Error detecting statement: %v", err)
	}
}

// Run detects input and prints the result to w.
func Run(conv *converter.Converter, input string, jsonOutput bool, w io.Writer) error {
	if input == "" {
		return fmt.Errorf("input file must be specified")
	}
	buf, err := fileutils.ReadFile(input)
	if err != nil {
		return err
	}
	d, err := conv.Detect(buf, filepath.Base(input))
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}

	orNone := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	_, err = fmt.Fprintf(w, "%-16s %s\n%-16s %s\n%-16s %s\n%-16s %s\n%-16s %s\n",
		"Bank:", d.BankName,
		"Confidence:", d.Confidence,
		"Strategy:", d.StrategyID,
		"Account number:", orNone(d.AccountNumber),
		"Sort code:", orNone(textutils.FormatSortCode(d.SortCode)))
	if err == nil && d.LowText {
		_, err = fmt.Fprintln(w, "Warning: very little text found, the document may be a scan")
	}
	return err
}
