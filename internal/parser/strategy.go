// Package parser defines the bank strategy contract and the registry that
// picks a strategy for a statement.
package parser

import "fjacquet/statement-csv/internal/models"

// Strategy parses the statements of one institution.
//
// Identify receives the statement text lower-cased and must not keep it.
// Parse never fails: lines it cannot use are skipped and an empty result is a
// valid outcome. Implementations hold no mutable state and may be called from
// several goroutines at once.
type Strategy interface {
	ID() string
	BankName() string
	Identify(text string) bool
	IdentifyFilename(filename string) bool
	Parse(lines []models.TextLine) []models.Transaction
}
