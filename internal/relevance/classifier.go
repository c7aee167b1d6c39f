package relevance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"ticker-sentiment/internal/interfaces"
	"ticker-sentiment/internal/types"
)

// ErrMalformedClassification is returned when a backend ranking cannot be interpreted
var ErrMalformedClassification = errors.New("malformed classification")

const (
	DefaultRelatedLabel   = "related to %s stock analysis"
	DefaultUnrelatedLabel = "not related to stock analysis"
)

// ZeroShot decides relevance by asking a zero-shot backend to rank a
// "related to <subject>" label against a generic "not related" label.
// The post is relevant iff the related label ranks first.
type ZeroShot struct {
	backend        interfaces.ZeroShotClassifier
	relatedLabel   string
	unrelatedLabel string
}

var _ interfaces.RelevanceClassifier = (*ZeroShot)(nil)

// Option customizes label phrasing
type Option func(*ZeroShot)

// WithLabels overrides the label templates; related must contain %s for the subject
func WithLabels(related, unrelated string) Option {
	return func(z *ZeroShot) {
		if related != "" {
			z.relatedLabel = related
		}
		if unrelated != "" {
			z.unrelatedLabel = unrelated
		}
	}
}

// NewZeroShot wraps a backend with the label-comparison decision rule
func NewZeroShot(backend interfaces.ZeroShotClassifier, opts ...Option) *ZeroShot {
	z := &ZeroShot{
		backend:        backend,
		relatedLabel:   DefaultRelatedLabel,
		unrelatedLabel: DefaultUnrelatedLabel,
	}
	for _, opt := range opts {
		opt(z)
	}
	return z
}

// Labels returns the candidate labels for subject, related label first
func (z *ZeroShot) Labels(subject string) (related, unrelated string) {
	return fmt.Sprintf(z.relatedLabel, subject), z.unrelatedLabel
}

// IsRelevant asks the backend once; errors are returned, never guessed around
func (z *ZeroShot) IsRelevant(ctx context.Context, text, subject string) (bool, error) {
	related, unrelated := z.Labels(subject)

	ranking, err := z.backend.Classify(ctx, text, []string{related, unrelated})
	if err != nil {
		return false, fmt.Errorf("zero-shot classification: %w", err)
	}
	if len(ranking) == 0 {
		return false, fmt.Errorf("%w: empty ranking", ErrMalformedClassification)
	}

	switch top := strings.TrimSpace(ranking[0].Label); top {
	case related:
		return true, nil
	case unrelated:
		return false, nil
	default:
		return false, fmt.Errorf("%w: unexpected top label %q", ErrMalformedClassification, top)
	}
}

// rank orders labels by descending score, keeping backend order on ties
func rank(scores []types.LabelScore) []types.LabelScore {
	out := append([]types.LabelScore(nil), scores...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// checkLabels verifies a ranking mentions exactly the candidate labels
func checkLabels(ranking []types.LabelScore, candidates []string) error {
	if len(ranking) != len(candidates) {
		return fmt.Errorf("%w: got %d labels for %d candidates", ErrMalformedClassification, len(ranking), len(candidates))
	}
	want := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		want[c] = true
	}
	for _, ls := range ranking {
		if !want[ls.Label] {
			return fmt.Errorf("%w: unknown label %q", ErrMalformedClassification, ls.Label)
		}
		delete(want, ls.Label)
	}
	return nil
}

// clip limits text sent to remote models
func clip(text string, maxRunes int) string {
	r := []rune(text)
	if len(r) <= maxRunes {
		return text
	}
	return string(r[:maxRunes]) + "..."
}
