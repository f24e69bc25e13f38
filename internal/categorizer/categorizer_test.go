package categorizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAIClient records calls and answers through CategorizeFunc.
type mockAIClient struct {
	CategorizeFunc func(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	CallCount      int
}

func (m *mockAIClient) Categorize(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	m.CallCount++
	if m.CategorizeFunc != nil {
		return m.CategorizeFunc(ctx, tx)
	}
	tx.Category = models.CategoryMarketing
	return tx, nil
}

func testStore() *store.MockCategoryStore {
	return &store.MockCategoryStore{
		Categories: []models.CategoryConfig{
			{Name: models.CategoryOfficeCosts, Description: "Stationery and software", Keywords: []string{"staples", "microsoft", "google"}},
			{Name: models.CategoryMarketing, Keywords: []string{"google ads", "vistaprint"}},
			{Name: models.CategoryTravel, Keywords: []string{"trainline", "bp"}},
			{Name: models.CategoryPersonal, Keywords: []string{"tesco", "staples"}},
		},
		Mappings: map[string]string{"acme consulting ltd": models.CategoryIncome},
	}
}

func tx(id, description string) models.Transaction {
	return models.Transaction{
		ID:          id,
		Date:        time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC),
		Description: description,
		Amount:      decimal.RequireFromString("42.50"),
		Type:        models.Debit,
	}
}

func TestNormalizeDescription(t *testing.T) {
	tests := map[string]string{
		"TESCO STORES 2231":         "tesco stores",
		"  Card Payment to  BP 4a ": "card payment to bp a",
		"AMAZON.CO.UK*AB12CD":       "amazon co uk ab cd",
		"12/03 1234":                "",
		"":                          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeDescription(in), in)
	}
}

func TestKeywordStrategy_Categorize(t *testing.T) {
	s := NewKeywordStrategy(testStore(), nil)
	assert.Equal(t, "Keyword", s.Name())

	tests := []struct {
		description string
		want        string
		found       bool
	}{
		{"GOOGLE ADS 12345", models.CategoryMarketing, true},
		{"GOOGLE WORKSPACE", models.CategoryOfficeCosts, true},
		{"BP CONNECT M4", models.CategoryTravel, true},
		{"BPCONNECT", "", false},
		{"STAPLES UK", models.CategoryOfficeCosts, true},
		{"CORNER SHOP", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got, found, err := s.Categorize(context.Background(), tx("1", tt.description))
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestKeywordStrategy_UsesConfiguredDescription(t *testing.T) {
	s := NewKeywordStrategy(testStore(), nil)
	got, found, err := s.Categorize(context.Background(), tx("1", "MICROSOFT*365"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Stationery and software", got.Description)
}

func TestKeywordStrategy_LoadFailure(t *testing.T) {
	logger := logging.NewMockLogger()
	s := NewKeywordStrategy(&store.MockCategoryStore{LoadCategoriesError: errors.New("boom")}, logger)

	_, found, err := s.Categorize(context.Background(), tx("1", "TESCO"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, logger.HasEntry("WARN", "Failed to load categories for KeywordStrategy"))
}

func TestDirectMappingStrategy(t *testing.T) {
	st := testStore()
	s := NewDirectMappingStrategy(st, nil)
	assert.Equal(t, "Direct", s.Name())

	got, found, err := s.Categorize(context.Background(), tx("1", "ACME CONSULTING LTD 00123"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.CategoryIncome, got.Name)

	_, found, _ = s.Categorize(context.Background(), tx("2", "NEW SUPPLIER"))
	assert.False(t, found)

	assert.NoError(t, s.Save())
	assert.Empty(t, st.Saved, "nothing learned, nothing saved")

	s.Learn("New Supplier 99", models.CategoryEquipment)
	s.Learn("ignored", models.CategoryUncategorized)
	s.Learn("", models.CategoryEquipment)
	assert.True(t, s.Dirty())

	got, found, _ = s.Categorize(context.Background(), tx("3", "NEW SUPPLIER 12"))
	require.True(t, found)
	assert.Equal(t, models.CategoryEquipment, got.Name)

	require.NoError(t, s.Save())
	require.Len(t, st.Saved, 1)
	assert.Equal(t, map[string]string{
		"acme consulting ltd": models.CategoryIncome,
		"new supplier":        models.CategoryEquipment,
	}, st.Saved[0])
	assert.False(t, s.Dirty())

	s.Learn("new supplier", models.CategoryEquipment)
	assert.False(t, s.Dirty(), "relearning the same mapping is a no-op")
}

func TestDirectMappingStrategy_SaveError(t *testing.T) {
	st := testStore()
	st.SaveMappingsError = errors.New("read-only")
	s := NewDirectMappingStrategy(st, nil)
	s.Learn("x", models.CategoryTravel)

	assert.Error(t, s.Save())
	assert.True(t, s.Dirty())
}

func TestDirectMappingStrategy_Reload(t *testing.T) {
	st := testStore()
	s := NewDirectMappingStrategy(st, nil)
	s.Learn("temporary", models.CategoryTravel)

	s.ReloadMappings()
	assert.False(t, s.Dirty())
	assert.Equal(t, map[string]string{"acme consulting ltd": models.CategoryIncome}, s.Mappings())
}

func TestAIStrategy_Categorize(t *testing.T) {
	tests := []struct {
		name      string
		client    AIClient
		desc      string
		wantName  string
		wantFound bool
		wantErr   bool
	}{
		{name: "no client", client: nil, desc: "X"},
		{name: "empty description", client: &mockAIClient{}, desc: " "},
		{name: "success", client: &mockAIClient{}, desc: "MYSTERY LTD", wantName: models.CategoryMarketing, wantFound: true},
		{
			name: "uncategorized",
			client: &mockAIClient{CategorizeFunc: func(_ context.Context, tx models.Transaction) (models.Transaction, error) {
				tx.Category = models.CategoryUncategorized
				return tx, nil
			}},
			desc: "MYSTERY LTD",
		},
		{
			name: "client error",
			client: &mockAIClient{CategorizeFunc: func(_ context.Context, tx models.Transaction) (models.Transaction, error) {
				return tx, errors.New("quota exceeded")
			}},
			desc:    "MYSTERY LTD",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAIStrategy(tt.client, nil)
			got, found, err := s.Categorize(context.Background(), tx("1", tt.desc))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantName, got.Name)
		})
	}
}

func TestCategorizer_Chain(t *testing.T) {
	st := testStore()
	ai := &mockAIClient{}
	c := NewCategorizer(st, ai, nil)
	assert.Equal(t, []string{"Direct", "Keyword", "AI"}, c.Strategies())
	assert.Equal(t, []string{models.CategoryOfficeCosts, models.CategoryMarketing, models.CategoryTravel, models.CategoryPersonal}, c.Categories())

	ctx := context.Background()

	got, err := c.CategorizeTransaction(ctx, tx("1", "ACME CONSULTING LTD"))
	require.NoError(t, err)
	assert.Equal(t, models.CategoryIncome, got.Name)

	got, err = c.CategorizeTransaction(ctx, tx("2", "TRAINLINE.COM"))
	require.NoError(t, err)
	assert.Equal(t, models.CategoryTravel, got.Name)
	assert.Zero(t, ai.CallCount)

	got, err = c.CategorizeTransaction(ctx, tx("3", "PRINTFUL 998"))
	require.NoError(t, err)
	assert.Equal(t, models.CategoryMarketing, got.Name)
	assert.Equal(t, 1, ai.CallCount)

	// The AI answer was learned, so the next sighting skips the API.
	got, err = c.CategorizeTransaction(ctx, tx("4", "PRINTFUL 123"))
	require.NoError(t, err)
	assert.Equal(t, models.CategoryMarketing, got.Name)
	assert.Equal(t, 1, ai.CallCount)

	require.NoError(t, c.SaveMappings())
	require.Len(t, st.Saved, 1)
	assert.Equal(t, models.CategoryMarketing, st.Saved[0]["printful"])
}

func TestCategorizer_WithoutAI(t *testing.T) {
	c := NewCategorizer(testStore(), nil, nil)
	assert.Equal(t, []string{"Direct", "Keyword"}, c.Strategies())

	got, err := c.CategorizeTransaction(context.Background(), tx("1", "UNKNOWN MERCHANT"))
	require.NoError(t, err)
	assert.Equal(t, models.CategoryUncategorized, got.Name)
}

func TestCategorizer_CategorizeAll(t *testing.T) {
	failing := &mockAIClient{CategorizeFunc: func(_ context.Context, tx models.Transaction) (models.Transaction, error) {
		if tx.Description == "BROKEN" {
			return tx, errors.New("upstream 500")
		}
		tx.Category = models.CategoryUncategorized
		return tx, nil
	}}
	logger := logging.NewMockLogger()
	c := NewCategorizer(testStore(), failing, logger)

	in := []models.Transaction{
		tx("1", "TESCO EXPRESS"),
		tx("2", "ACME CONSULTING LTD"),
		tx("3", "SOMETHING ELSE"),
		tx("4", "BROKEN"),
	}
	out, stats, err := c.CategorizeAll(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out, 4)

	assert.Empty(t, in[0].Category, "input is not modified")
	assert.Equal(t, models.CategoryPersonal, out[0].Category)
	assert.Equal(t, models.CategoryIncome, out[1].Category)
	assert.Equal(t, models.CategoryUncategorized, out[2].Category)
	assert.Equal(t, models.CategoryUncategorized, out[3].Category)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Successful)
	assert.Equal(t, 1, stats.Uncategorized)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, map[string]int{"Keyword": 1, "Direct": 1}, stats.ByStrategy)
	assert.True(t, logger.HasEntry("WARN", "Categorization failed"))
}

func TestCategorizer_CategorizeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCategorizer(testStore(), nil, nil)
	_, _, err := c.CategorizeAll(ctx, []models.Transaction{tx("1", "TESCO")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStrategyResults(t *testing.T) {
	var r StrategyResults
	r.Add("Direct", models.Category{}, false, nil)
	r.Add("AI", models.Category{}, false, errors.New("timeout"))
	r.Add("Keyword", models.Category{Name: models.CategoryTravel}, true, nil)

	best, ok := r.GetBestResult()
	require.True(t, ok)
	assert.Equal(t, "Keyword", best.Strategy)
	assert.Equal(t, "Direct:no_match, AI:failed, Keyword:success", r.Summary())

	errs := r.GetErrors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "AI strategy: timeout")

	_, ok = StrategyResults{}.GetBestResult()
	assert.False(t, ok)
}
