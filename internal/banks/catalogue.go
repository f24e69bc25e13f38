package banks

import (
	"fmt"

	"fjacquet/statement-csv/internal/lineparser"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/parser"
)

// NewRegistry builds the detection registry for cat. All strategies share
// engine, which may be nil for the default line parser.
func NewRegistry(cat *Catalogue, engine *lineparser.Parser, logger logging.Logger) (*parser.Registry, error) {
	if cat == nil {
		return nil, fmt.Errorf("bank catalogue is nil")
	}
	logger = logging.OrDiscard(logger)
	if engine == nil {
		engine = lineparser.New(lineparser.DefaultOptions(), logger)
	}

	strategies := make([]parser.Strategy, 0, len(cat.Banks))
	for _, def := range cat.Banks {
		strategies = append(strategies, NewStrategy(def, cat.SkipPatterns, engine, logger))
	}
	return parser.NewRegistry(newFallback(cat.Fallback, cat.SkipPatterns, engine, logger), strategies, logger)
}

// DefaultRegistry builds the registry from the embedded catalogue.
func DefaultRegistry(logger logging.Logger) (*parser.Registry, error) {
	cat, err := DefaultCatalogue()
	if err != nil {
		return nil, err
	}
	return NewRegistry(cat, nil, logger)
}
