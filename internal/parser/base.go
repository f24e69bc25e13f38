package parser

import (
	"fjacquet/statement-csv/internal/lineparser"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
)

// BaseStrategy provides the parts every Strategy shares: identity, a logger
// and the line extraction engine. Strategies embed it:
//
//	type MyStrategy struct {
//		parser.BaseStrategy
//		// strategy-specific fields
//	}
type BaseStrategy struct {
	id       string
	bankName string
	logger   logging.Logger
	engine   *lineparser.Parser
}

// NewBaseStrategy creates a BaseStrategy. A nil engine gets the default line
// parser; a nil logger discards output.
func NewBaseStrategy(id, bankName string, engine *lineparser.Parser, logger logging.Logger) BaseStrategy {
	logger = logging.OrDiscard(logger).WithFields(
		logging.F(logging.FieldComponent, "strategy"),
		logging.F(logging.FieldStrategy, id))
	if engine == nil {
		engine = lineparser.New(lineparser.DefaultOptions(), logger)
	}
	return BaseStrategy{id: id, bankName: bankName, logger: logger, engine: engine}
}

// ID returns the strategy identifier.
func (b BaseStrategy) ID() string {
	return b.id
}

// BankName returns the display name of the institution.
func (b BaseStrategy) BankName() string {
	return b.bankName
}

// GetLogger returns the strategy logger.
func (b BaseStrategy) GetLogger() logging.Logger {
	return b.logger
}

// Extract runs the line engine with the given hint and logs the outcome.
func (b BaseStrategy) Extract(lines []models.TextLine, hint lineparser.Hint) []models.Transaction {
	txs := b.engine.Extract(lines, hint)
	b.logger.Debug("Strategy parsed lines",
		logging.F("lines", len(lines)),
		logging.F(logging.FieldCount, len(txs)))
	return txs
}
