package extractor

import (
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/textutils"
)

// MockExtractor implements PageExtractor for tests. It splits MockText into
// lines on a single page, or returns MockErr.
type MockExtractor struct {
	MockText string
	LowText  bool
	MockErr  error
}

// NewMockExtractor creates a MockExtractor with the given text and error.
func NewMockExtractor(mockText string, mockErr error) *MockExtractor {
	return &MockExtractor{MockText: mockText, MockErr: mockErr}
}

// Extract returns the predefined lines or error.
func (m *MockExtractor) Extract(_ []byte, _ string) ([]models.TextLine, models.QualityReport, error) {
	if m.MockErr != nil {
		return nil, models.QualityReport{}, m.MockErr
	}
	var lines []models.TextLine
	for i, text := range textutils.SplitLines(m.MockText) {
		lines = append(lines, models.TextLine{Text: text, Page: 1, Index: i})
	}
	return lines, models.QualityReport{LowText: m.LowText}, nil
}
