package categorizer

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
)

// NormalizeDescription reduces a transaction description to the key used for
// learned mappings: lower case, digits and punctuation removed, whitespace
// collapsed. Card numbers, dates and reference numbers therefore do not stop
// "TESCO STORES 2231" and "TESCO STORES 0457" sharing one mapping.
func NormalizeDescription(description string) string {
	var b strings.Builder
	b.Grow(len(description))
	space := true
	for _, r := range strings.ToLower(description) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
			space = false
		case !space:
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// DirectMappingStrategy categorizes transactions whose normalized description
// has been seen, and categorized, before.
type DirectMappingStrategy struct {
	mappings map[string]string
	dirty    bool
	store    CategoryStoreInterface
	logger   logging.Logger
	mu       sync.RWMutex
}

// NewDirectMappingStrategy creates a DirectMappingStrategy and loads the
// stored mappings. A load failure is logged and leaves the strategy empty.
func NewDirectMappingStrategy(store CategoryStoreInterface, logger logging.Logger) *DirectMappingStrategy {
	s := &DirectMappingStrategy{
		mappings: make(map[string]string),
		store:    store,
		logger:   logging.OrDiscard(logger),
	}
	s.loadMappings()
	return s
}

// Name returns the name of this strategy for logging and debugging.
func (s *DirectMappingStrategy) Name() string {
	return "Direct"
}

// Categorize looks the normalized description up in the learned mappings.
func (s *DirectMappingStrategy) Categorize(_ context.Context, tx models.Transaction) (models.Category, bool, error) {
	key := NormalizeDescription(tx.Description)
	if key == "" {
		return models.Category{}, false, nil
	}

	s.mu.RLock()
	name, found := s.mappings[key]
	s.mu.RUnlock()
	if !found {
		return models.Category{}, false, nil
	}

	s.logger.Debug("Transaction categorized using learned mapping",
		logging.F(logging.FieldStrategy, s.Name()),
		logging.F(logging.FieldTransactionID, tx.ID),
		logging.F(logging.FieldCategory, name))
	return models.Category{Name: name, Description: categoryDescriptionFromName(name)}, true, nil
}

// Learn records description -> category. It is a no-op for empty input,
// Uncategorized, or a mapping that is already present.
func (s *DirectMappingStrategy) Learn(description, category string) {
	key := NormalizeDescription(description)
	if key == "" || strings.TrimSpace(category) == "" || category == models.CategoryUncategorized {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mappings[key] == category {
		return
	}
	s.mappings[key] = category
	s.dirty = true
}

// Mappings returns a copy of the current mappings.
func (s *DirectMappingStrategy) Mappings() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.mappings))
	for k, v := range s.mappings {
		out[k] = v
	}
	return out
}

// Dirty reports whether mappings were learned since the last load or save.
func (s *DirectMappingStrategy) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Save persists the mappings through the store when anything was learned.
func (s *DirectMappingStrategy) Save() error {
	if !s.Dirty() {
		return nil
	}
	if s.store == nil {
		return nil
	}
	mappings := s.Mappings()
	if err := s.store.SaveMappings(mappings); err != nil {
		return err
	}

	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()
	s.logger.Debug("Saved learned mappings", logging.F(logging.FieldCount, len(mappings)))
	return nil
}

// ReloadMappings discards unsaved mappings and reads them from the store again.
func (s *DirectMappingStrategy) ReloadMappings() {
	s.mu.Lock()
	s.mappings = make(map[string]string)
	s.dirty = false
	s.mu.Unlock()
	s.loadMappings()
}

func (s *DirectMappingStrategy) loadMappings() {
	if s.store == nil {
		return
	}
	mappings, err := s.store.LoadMappings()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load learned mappings")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range mappings {
		if k := NormalizeDescription(key); k != "" {
			s.mappings[k] = value
		}
	}
	s.logger.Debug("Loaded learned mappings", logging.F(logging.FieldCount, len(s.mappings)))
}
