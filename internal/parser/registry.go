package parser

import (
	"fmt"
	"strings"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
)

// HeaderLines is the number of leading lines searched before the whole text.
// Letterheads name the issuing bank; transaction descriptions further down
// often name other banks, so within the header the earliest naming line wins.
const HeaderLines = 40

// Registry holds strategies in priority order plus a fallback that accepts
// any statement. It is read-only once built and safe for concurrent use.
type Registry struct {
	strategies []Strategy
	fallback   Strategy
	byID       map[string]Strategy
	logger     logging.Logger
}

// NewRegistry builds a registry. Strategy IDs must be unique and a fallback
// is required.
func NewRegistry(fallback Strategy, strategies []Strategy, logger logging.Logger) (*Registry, error) {
	if fallback == nil {
		return nil, fmt.Errorf("registry requires a fallback strategy")
	}
	r := &Registry{
		fallback: fallback,
		byID:     map[string]Strategy{fallback.ID(): fallback},
		logger:   logging.OrDiscard(logger).WithField(logging.FieldComponent, "registry"),
	}
	for _, s := range strategies {
		if s == nil {
			continue
		}
		if _, dup := r.byID[s.ID()]; dup {
			return nil, fmt.Errorf("duplicate strategy ID found: %s", s.ID())
		}
		r.byID[s.ID()] = s
		r.strategies = append(r.strategies, s)
	}
	return r, nil
}

// Detect identifies the bank behind lines. The header is searched line by
// line and the first line naming a bank decides, strategies breaking ties in
// priority order. Then the joined header and the whole text are tried in
// priority order (certain), then the filename (heuristic). With no match the
// fallback is returned with unknown confidence. Detect is a pure function of
// its inputs.
func (r *Registry) Detect(lines []models.TextLine, filename string) models.FormatMatch {
	texts := models.Texts(lines)
	header := texts
	if len(header) > HeaderLines {
		header = header[:HeaderLines]
	}

	for _, line := range header {
		if s := r.identify(strings.ToLower(line)); s != nil {
			return r.match(s, models.ConfidenceCertain, filename)
		}
	}

	windows := []string{joinLower(header)}
	if len(texts) > HeaderLines {
		windows = append(windows, joinLower(texts))
	}
	for _, window := range windows {
		if s := r.identify(window); s != nil {
			return r.match(s, models.ConfidenceCertain, filename)
		}
	}

	if filename != "" {
		for _, s := range r.strategies {
			if s.IdentifyFilename(filename) {
				return r.match(s, models.ConfidenceHeuristic, filename)
			}
		}
	}

	return r.match(r.fallback, models.ConfidenceUnknown, filename)
}

func (r *Registry) identify(text string) Strategy {
	for _, s := range r.strategies {
		if s.Identify(text) {
			return s
		}
	}
	return nil
}

// Strategy returns the strategy registered under id.
func (r *Registry) Strategy(id string) (Strategy, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// Strategies returns the bank strategies in priority order, fallback excluded.
func (r *Registry) Strategies() []Strategy {
	out := make([]Strategy, len(r.strategies))
	copy(out, r.strategies)
	return out
}

// Fallback returns the generic strategy.
func (r *Registry) Fallback() Strategy {
	return r.fallback
}

func (r *Registry) match(s Strategy, confidence models.Confidence, filename string) models.FormatMatch {
	m := models.FormatMatch{BankName: s.BankName(), Confidence: confidence, StrategyID: s.ID()}
	r.logger.Debug("Bank detected",
		logging.F(logging.FieldFile, filename),
		logging.F(logging.FieldBank, m.BankName),
		logging.F(logging.FieldConfidence, string(m.Confidence)))
	return m
}

func joinLower(lines []string) string {
	return strings.ToLower(strings.Join(lines, "\n"))
}
