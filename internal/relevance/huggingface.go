package relevance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ticker-sentiment/internal/api"
	"ticker-sentiment/internal/interfaces"
	"ticker-sentiment/internal/types"
)

const huggingFaceEndpoint = "https://api-inference.huggingface.co/models/"

// HuggingFace calls a hosted zero-shot-classification model (bart-large-mnli by default)
type HuggingFace struct {
	client *api.Client
	url    string
	token  string
}

var _ interfaces.ZeroShotClassifier = (*HuggingFace)(nil)

// NewHuggingFace builds a backend for model. endpoint overrides the inference host.
func NewHuggingFace(model, endpoint, token string, timeout time.Duration) *HuggingFace {
	if endpoint == "" {
		endpoint = huggingFaceEndpoint
	}
	url := endpoint
	if model != "" {
		url = strings.TrimSuffix(endpoint, "/") + "/" + model
	}
	return &HuggingFace{
		client: api.NewClient(api.WithTimeout(timeout), api.WithLogging(true)),
		url:    url,
		token:  token,
	}
}

func (h *HuggingFace) Classify(ctx context.Context, text string, labels []string) ([]types.LabelScore, error) {
	body := map[string]any{
		"inputs": text,
		"parameters": map[string]any{
			"candidate_labels": labels,
		},
	}

	resp, err := h.client.POST(ctx, h.url, body, api.BearerHeaders(h.token))
	if err != nil {
		return nil, fmt.Errorf("huggingface inference: %w", err)
	}
	return parseRanking(resp.Body, labels)
}
