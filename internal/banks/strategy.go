package banks

import (
	"strings"

	"fjacquet/statement-csv/internal/keywords"
	"fjacquet/statement-csv/internal/lineparser"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parser"
)

// Strategy is a parser.Strategy driven by a catalogue Definition.
type Strategy struct {
	parser.BaseStrategy
	def       Definition
	fallback  bool
	variants  *keywords.Set
	skip      *keywords.Set
	filenames []string
	hint      lineparser.Hint
}

var _ parser.Strategy = (*Strategy)(nil)

// NewStrategy builds the strategy for def. commonSkip is added to the
// definition's own skip patterns.
func NewStrategy(def Definition, commonSkip []string, engine *lineparser.Parser, logger logging.Logger) *Strategy {
	skip := append(append([]string{}, commonSkip...), def.SkipPatterns...)
	return &Strategy{
		BaseStrategy: parser.NewBaseStrategy(def.ID, def.Name, engine, logger),
		def:          def,
		variants:     keywords.NewSet(def.Variants...),
		skip:         keywords.NewSet(skip...),
		filenames:    filenameVariants(def),
		hint: lineparser.Hint{
			TypeCodes:     def.TypeCodes.codeMap(),
			CreditPhrases: keywords.NewSet(def.CreditPhrases...),
			DebitPhrases:  keywords.NewSet(def.DebitPhrases...),
		},
	}
}

func newFallback(def Definition, commonSkip []string, engine *lineparser.Parser, logger logging.Logger) *Strategy {
	s := NewStrategy(def, commonSkip, engine, logger)
	s.fallback = true
	return s
}

// Identify reports whether one of the bank's name variants occurs as a whole
// word. The fallback accepts everything.
func (s *Strategy) Identify(text string) bool {
	if s.fallback {
		return true
	}
	return s.variants.ContainsWord(text)
}

// IdentifyFilename matches the bank's names against the file name.
func (s *Strategy) IdentifyFilename(filename string) bool {
	if s.fallback {
		return false
	}
	return matchFilename(filename, s.filenames)
}

// Parse normalizes the bank's layout and extracts transactions.
func (s *Strategy) Parse(lines []models.TextLine) []models.Transaction {
	return s.Extract(s.normalize(lines), s.hint)
}

func (s *Strategy) normalize(lines []models.TextLine) []models.TextLine {
	out := make([]models.TextLine, 0, len(lines))
	skipped := 0
	for _, l := range lines {
		if s.skip.ContainsWord(l.Text) {
			skipped++
			continue
		}
		text := l.Text
		if s.def.Normalize.StripOrdinals {
			text = stripOrdinals(text)
		}
		if s.def.Normalize.StripCurrencyCodes {
			text = stripCurrencyCodes(text)
		}
		out = append(out, models.TextLine{Text: strings.TrimSpace(text), Page: l.Page, Index: l.Index})
	}
	if s.def.Normalize.CarryDate {
		out = carryDates(out)
	}

	if skipped > 0 {
		s.GetLogger().Debug("Skipped boilerplate lines", logging.F(logging.FieldCount, skipped))
	}
	return out
}
