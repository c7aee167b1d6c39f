package interfaces

import (
	"context"

	"ticker-sentiment/internal/types"
)

// ZeroShotClassifier ranks candidate labels for a text, highest confidence first
type ZeroShotClassifier interface {
	Classify(ctx context.Context, text string, labels []string) ([]types.LabelScore, error)
}

// RelevanceClassifier decides whether a text is about a subject
type RelevanceClassifier interface {
	IsRelevant(ctx context.Context, text, subject string) (bool, error)
}
