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

const openAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAI asks a chat completion model to score the candidate labels
type OpenAI struct {
	client   *api.Client
	endpoint string
	model    string
	apiKey   string
}

var _ interfaces.ZeroShotClassifier = (*OpenAI)(nil)

func NewOpenAI(model, endpoint, apiKey string, timeout time.Duration) *OpenAI {
	if endpoint == "" {
		endpoint = openAIEndpoint
	}
	return &OpenAI{
		client:   api.NewClient(api.WithTimeout(timeout), api.WithLogging(true)),
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
	}
}

func (o *OpenAI) Classify(ctx context.Context, text string, labels []string) ([]types.LabelScore, error) {
	if o.apiKey == "" {
		return nil, errors.New("openai api key missing")
	}

	body := map[string]any{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "system", "content": "You classify forum posts. Output JSON only."},
			{"role": "user", "content": rankingPrompt(text, labels)},
		},
		"temperature":     0,
		"response_format": map[string]string{"type": "json_object"},
	}

	resp, err := o.client.POST(ctx, o.endpoint, body, api.BearerHeaders(o.apiKey))
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return nil, err
	}
	if len(r.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrMalformedClassification)
	}

	return parseRanking([]byte(strings.TrimSpace(r.Choices[0].Message.Content)), labels)
}
