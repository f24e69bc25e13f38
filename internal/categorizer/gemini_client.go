package categorizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// generateFunc sends one prompt to the model and returns its text answer.
type generateFunc func(ctx context.Context, prompt string) (string, error)

// GeminiClient implements AIClient on top of the Google Gemini API.
type GeminiClient struct {
	client     *genai.Client
	generate   generateFunc
	categories []string
	timeout    time.Duration
	logger     logging.Logger
}

// NewGeminiClient connects to Gemini with apiKey. categories is the closed
// list of names the model must choose from.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, categories []string, timeout time.Duration, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	c := newGeminiClient(func(ctx context.Context, prompt string) (string, error) {
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", fmt.Errorf("gemini API error: %w", err)
		}
		return responseText(resp)
	}, categories, timeout, logger)
	c.client = client
	return c, nil
}

func newGeminiClient(generate generateFunc, categories []string, timeout time.Duration, logger logging.Logger) *GeminiClient {
	return &GeminiClient{
		generate:   generate,
		categories: categories,
		timeout:    timeout,
		logger:     logging.OrDiscard(logger).WithField(logging.FieldComponent, "gemini"),
	}
}

// Categorize returns a copy of transaction with the category chosen by the
// model. Answers naming a category outside the list become Uncategorized.
func (c *GeminiClient) Categorize(ctx context.Context, transaction models.Transaction) (models.Transaction, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	answer, err := c.generate(ctx, c.buildPrompt(transaction))
	if err != nil {
		return transaction, err
	}

	name, reason := c.extractCategoryFromResponse(answer)
	c.logger.Debug("Gemini classified transaction",
		logging.F(logging.FieldTransactionID, transaction.ID),
		logging.F(logging.FieldCategory, name),
		logging.F(logging.FieldReason, reason))

	transaction.Category = name
	return transaction, nil
}

// Close releases the underlying API connection.
func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *GeminiClient) buildPrompt(tx models.Transaction) string {
	return fmt.Sprintf(`Categorize the following UK bank statement transaction for a self-assessment tax return:
Description: %s
Amount: %s GBP
Date: %s
Direction: %s

Please assign this transaction to exactly one of the following categories:
%s

Respond in this format:
Category: [Selected Category Name]
Description: [Brief explanation of why you chose this category]`,
		tx.Description,
		tx.SignedAmount().StringFixed(2),
		tx.ISODate(),
		tx.Type,
		strings.Join(c.categories, ", "))
}

// extractCategoryFromResponse parses "Category:" and "Description:" lines.
// Without them it looks for any known category name in the text.
func (c *GeminiClient) extractCategoryFromResponse(response string) (string, string) {
	var categoryName, description string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*"))
		switch {
		case strings.HasPrefix(line, "Category:"):
			categoryName = strings.TrimSpace(strings.TrimPrefix(line, "Category:"))
		case strings.HasPrefix(line, "Description:"):
			description = strings.TrimSpace(strings.TrimPrefix(line, "Description:"))
		}
	}

	if categoryName == "" {
		description = strings.TrimSpace(response)
		lower := strings.ToLower(response)
		for _, known := range c.categories {
			if strings.Contains(lower, strings.ToLower(known)) {
				return known, description
			}
		}
		return models.CategoryUncategorized, description
	}

	categoryName = strings.Trim(categoryName, `[]"'.`)
	for _, known := range c.categories {
		if strings.EqualFold(known, categoryName) {
			return known, description
		}
	}
	return models.CategoryUncategorized, description
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini API")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
	}
	return b.String(), nil
}
