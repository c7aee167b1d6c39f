package relevance

import (
	"context"
	"fmt"
	"os"
	"time"

	"ticker-sentiment/internal/interfaces"
	"ticker-sentiment/internal/store"
)

// NewBackend builds the zero-shot backend named by cfg.Relevance.Provider.
// Backends holding connections also implement io.Closer.
func NewBackend(ctx context.Context, cfg *store.Config) (interfaces.ZeroShotClassifier, error) {
	rc := cfg.Relevance
	timeout := time.Duration(rc.TimeoutSeconds) * time.Second
	apiKey := ""
	if rc.APIKeyEnv != "" {
		apiKey = os.Getenv(rc.APIKeyEnv)
	}

	switch rc.Provider {
	case store.ProviderKeyword:
		return NewKeyword(), nil
	case store.ProviderHuggingFace:
		return NewHuggingFace(rc.Model, rc.Endpoint, apiKey, timeout), nil
	case store.ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("%s missing", rc.APIKeyEnv)
		}
		return NewOpenAI(rc.Model, rc.Endpoint, apiKey, timeout), nil
	case store.ProviderClaude:
		if apiKey == "" {
			return nil, fmt.Errorf("%s missing", rc.APIKeyEnv)
		}
		return NewClaude(rc.Model, rc.Endpoint, apiKey, timeout), nil
	case store.ProviderGemini:
		if apiKey == "" {
			return nil, fmt.Errorf("%s missing", rc.APIKeyEnv)
		}
		return NewGemini(ctx, apiKey, rc.Model)
	default:
		return nil, fmt.Errorf("unknown relevance provider %q", rc.Provider)
	}
}

// FromConfig builds the relevance decision rule over the configured backend
func FromConfig(backend interfaces.ZeroShotClassifier, cfg *store.Config) *ZeroShot {
	return NewZeroShot(backend, WithLabels(cfg.Relevance.RelatedLabel, cfg.Relevance.UnrelatedLabel))
}
