package relevance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ticker-sentiment/internal/api"
	"ticker-sentiment/internal/interfaces"
	"ticker-sentiment/internal/types"
)

const (
	claudeEndpoint   = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

// Claude asks an Anthropic messages model to score the candidate labels
type Claude struct {
	client   *api.Client
	endpoint string
	model    string
	apiKey   string
}

var _ interfaces.ZeroShotClassifier = (*Claude)(nil)

func NewClaude(model, endpoint, apiKey string, timeout time.Duration) *Claude {
	if endpoint == "" {
		endpoint = claudeEndpoint
	}
	return &Claude{
		client:   api.NewClient(api.WithTimeout(timeout), api.WithLogging(true)),
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
	}
}

func (c *Claude) Classify(ctx context.Context, text string, labels []string) ([]types.LabelScore, error) {
	if c.apiKey == "" {
		return nil, errors.New("claude api key missing")
	}

	body := map[string]any{
		"model":       c.model,
		"max_tokens":  256,
		"temperature": 0,
		"system":      "You classify forum posts. Output JSON only.",
		"messages": []map[string]string{
			{"role": "user", "content": rankingPrompt(text, labels)},
		},
	}
	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	}

	resp, err := c.client.POST(ctx, c.endpoint, body, headers)
	if err != nil {
		return nil, fmt.Errorf("claude messages: %w", err)
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("%w: no text content", ErrMalformedClassification)
	}
	return parseRanking([]byte(sb.String()), labels)
}
