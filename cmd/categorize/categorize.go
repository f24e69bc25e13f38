// Package categorize handles transaction categorization commands
package categorize

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/internal/categorizer"
	"fjacquet/statement-csv/internal/currencyutils"
	"fjacquet/statement-csv/internal/models"

	"github.com/spf13/cobra"
)

// Options describe the transaction to categorize.
type Options struct {
	Description string
	Amount      string
	Date        string
	Learn       string
}

var flags Options

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a transaction description",
	Long: `Categorize a single transaction description with learned mappings, keyword
rules and, when ai.enabled is set, Gemini.

With --learn the description is mapped to the given category instead, and the
mapping is saved for future conversions.

Example:
  statement-csv categorize -d "AMAZON MKTPLACE 123" -a -24.99
  statement-csv categorize -d "J SMITH LTD" --learn "Professional Services"`,
	Run: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&flags.Description, "description", "d", "", "Transaction description")
	Cmd.Flags().StringVarP(&flags.Amount, "amount", "a", "", "Signed amount, negative for debits (optional)")
	Cmd.Flags().StringVarP(&flags.Date, "date", "t", "", "Transaction date YYYY-MM-DD (optional)")
	Cmd.Flags().StringVar(&flags.Learn, "learn", "", "Record this category for the description")
	_ = Cmd.MarkFlagRequired("description")
}

func categorizeFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogger()
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
	}
	if err := Run(cmd.Context(), appContainer.GetCategorizer(), flags, cmd.OutOrStdout()); err != nil {
		logger.Fatalf("Error categorizing transaction: %v", err)
	}
}

// Run categorizes, or learns, one description and prints the category.
// Learned mappings are saved when the container closes.
func Run(ctx context.Context, c *categorizer.Categorizer, opts Options, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(opts.Description) == "" {
		return fmt.Errorf("description is required for categorization")
	}

	if opts.Learn != "" {
		if !knownCategory(c, opts.Learn) {
			return fmt.Errorf("unknown category %q (known: %s)", opts.Learn, strings.Join(c.Categories(), ", "))
		}
		c.Learn(opts.Description, opts.Learn)
		_, err := fmt.Fprintf(w, "Learned: %s -> %s\n", opts.Description, opts.Learn)
		return err
	}

	tx, err := buildTransaction(opts)
	if err != nil {
		return err
	}
	category, err := c.CategorizeTransaction(ctx, tx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Category: %s\n", category.Name)
	return err
}

func buildTransaction(opts Options) (models.Transaction, error) {
	tx := models.Transaction{
		ID:          "cli",
		Description: opts.Description,
		Type:        models.Debit,
	}
	if opts.Amount != "" {
		amount, err := currencyutils.ParseAmount(opts.Amount)
		if err != nil {
			return tx, fmt.Errorf("invalid amount %q: %w", opts.Amount, err)
		}
		if amount.IsPositive() {
			tx.Type = models.Credit
		}
		tx.Amount = amount.Abs()
	}
	if opts.Date != "" {
		date, err := time.Parse(models.DateLayoutISO, opts.Date)
		if err != nil {
			return tx, fmt.Errorf("invalid date %q: %w", opts.Date, err)
		}
		tx.Date = date
	}
	return tx, nil
}

func knownCategory(c *categorizer.Categorizer, name string) bool {
	for _, known := range c.Categories() {
		if known == name {
			return true
		}
	}
	return false
}
