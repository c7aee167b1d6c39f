package relevanceobs

import (
	"context"

	"ticker-sentiment/internal/interfaces"
	"ticker-sentiment/internal/logger"
	"ticker-sentiment/internal/trace"
)

// observableClassifier wraps a RelevanceClassifier with logging & tracing
type observableClassifier struct {
	classifier interfaces.RelevanceClassifier
}

// Compile-time interface check
var _ interfaces.RelevanceClassifier = (*observableClassifier)(nil)

// Wrap wraps a relevance classifier with observability middleware
func Wrap(classifier interfaces.RelevanceClassifier) interfaces.RelevanceClassifier {
	return &observableClassifier{classifier: classifier}
}

func (oc *observableClassifier) IsRelevant(ctx context.Context, text, subject string) (bool, error) {
	ctx, span := trace.StartSpan(ctx, "relevance.Classify")
	defer span.End()

	relevant, err := oc.classifier.IsRelevant(ctx, text, subject)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Relevance classification failed", err,
			"subject", subject,
			"chars", len(text),
		)
		return false, err
	}

	logger.DebugSkip(ctx, 1, "Relevance classified",
		"subject", subject,
		"relevant", relevant,
	)
	return relevant, nil
}
