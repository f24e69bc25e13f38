// Package banks holds the catalogue of supported institutions and the
// strategies built from it.
package banks

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"fjacquet/statement-csv/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed banks.yaml
var defaultCatalogue []byte

// Normalize lists the pre-processing steps a bank's layout needs.
type Normalize struct {
	CarryDate          bool `yaml:"carry_date"`
	StripOrdinals      bool `yaml:"strip_ordinals"`
	StripCurrencyCodes bool `yaml:"strip_currency_codes"`
}

// TypeCodes are transaction codes printed in a type column.
type TypeCodes struct {
	Credit []string `yaml:"credit"`
	Debit  []string `yaml:"debit"`
}

// Definition describes one institution.
type Definition struct {
	ID               string    `yaml:"id"`
	Name             string    `yaml:"name"`
	Variants         []string  `yaml:"variants"`
	FilenameVariants []string  `yaml:"filename_variants"`
	SkipPatterns     []string  `yaml:"skip_patterns"`
	Normalize        Normalize `yaml:"normalize"`
	TypeCodes        TypeCodes `yaml:"type_codes"`
	CreditPhrases    []string  `yaml:"credit_phrases"`
	DebitPhrases     []string  `yaml:"debit_phrases"`
}

// Catalogue is the full bank list in priority order plus the fallback.
type Catalogue struct {
	SkipPatterns []string     `yaml:"skip_patterns"`
	Fallback     Definition   `yaml:"fallback"`
	Banks        []Definition `yaml:"banks"`
}

// DefaultCatalogue returns the catalogue compiled into the binary.
func DefaultCatalogue() (*Catalogue, error) {
	return LoadCatalogue(defaultCatalogue)
}

// LoadCatalogueFile reads a catalogue from a YAML file.
func LoadCatalogueFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read bank catalogue %s: %w", path, err)
	}
	cat, err := LoadCatalogue(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load bank catalogue %s: %w", path, err)
	}
	return cat, nil
}

// LoadCatalogue parses and validates a YAML catalogue.
func LoadCatalogue(data []byte) (*Catalogue, error) {
	var cat Catalogue
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Catalogue) validate() error {
	if c.Fallback.ID == "" || c.Fallback.Name == "" {
		return fmt.Errorf("catalogue needs a fallback with id and name")
	}

	seenIDs := map[string]bool{c.Fallback.ID: true}
	for i, def := range c.Banks {
		if def.ID == "" || def.Name == "" {
			return fmt.Errorf("bank #%d: id and name are required", i+1)
		}
		if seenIDs[def.ID] {
			return fmt.Errorf("duplicate bank ID found: %s", def.ID)
		}
		seenIDs[def.ID] = true

		if len(def.Variants) == 0 {
			return fmt.Errorf("bank %s: at least one variant is required", def.ID)
		}
		for _, code := range append(append([]string{}, def.TypeCodes.Credit...), def.TypeCodes.Debit...) {
			if code == "" || code != strings.ToUpper(code) {
				return fmt.Errorf("bank %s: type code %q must be upper case", def.ID, code)
			}
		}
		for _, phrase := range append(append([]string{}, def.CreditPhrases...), def.DebitPhrases...) {
			if strings.TrimSpace(phrase) == "" {
				return fmt.Errorf("bank %s: empty classification phrase", def.ID)
			}
		}
	}
	return nil
}

// codeMap merges both code lists into the lookup the line parser expects.
// A code listed on both sides counts as a debit.
func (t TypeCodes) codeMap() map[string]models.TransactionType {
	if len(t.Credit) == 0 && len(t.Debit) == 0 {
		return nil
	}
	m := make(map[string]models.TransactionType, len(t.Credit)+len(t.Debit))
	for _, c := range t.Credit {
		m[c] = models.Credit
	}
	for _, c := range t.Debit {
		m[c] = models.Debit
	}
	return m
}
