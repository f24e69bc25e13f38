package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"fjacquet/statement-csv/internal/currencyutils"
	"fjacquet/statement-csv/internal/models"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/transactions.schema.json
var transactionsSchema []byte

const transactionsSchemaURL = "transactions.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// TransactionsSchema returns the compiled JSON Schema every JSON export is
// checked against.
func TransactionsSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(transactionsSchemaURL, bytes.NewReader(transactionsSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(transactionsSchemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidateJSON checks an encoded transaction array against the schema.
func ValidateJSON(data []byte) error {
	schema, err := TransactionsSchema()
	if err != nil {
		return err
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

type jsonTransaction struct {
	ID          string      `json:"id"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Category    string      `json:"category,omitempty"`
}

type jsonSerializer struct{}

func (jsonSerializer) Format() string { return models.FormatJSON }

// Serialize writes an indented array of transactions. Amounts are unsigned
// numbers with two decimals and dates are always ISO.
func (jsonSerializer) Serialize(txs []models.Transaction, opts Options) ([]byte, error) {
	out := make([]jsonTransaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, jsonTransaction{
			ID:          tx.ID,
			Date:        tx.ISODate(),
			Description: tx.Description,
			Amount:      json.Number(currencyutils.FormatAmount(tx.Amount)),
			Type:        string(tx.Type),
			Category:    tx.Category,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if opts.ValidateJSON {
		if err := ValidateJSON(data); err != nil {
			return nil, err
		}
	}
	return data, nil
}
