package sentiment

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jonreiter/govader"

	"ticker-sentiment/internal/interfaces"
	"ticker-sentiment/internal/types"
)

// ErrScoring is returned when the lexicon produced an unusable score
var ErrScoring = errors.New("sentiment scoring failed")

// VaderScorer scores text with the VADER lexicon and rules
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

var _ interfaces.SentimentScorer = (*VaderScorer)(nil)

// NewVaderScorer loads the lexicon once; the scorer is safe to reuse across posts
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the polarity breakdown of text. Empty text is fully neutral.
func (s *VaderScorer) Score(text string) (types.Sentiment, error) {
	if strings.TrimSpace(text) == "" {
		return types.NeutralSentiment(), nil
	}

	raw := s.analyzer.PolarityScores(text)
	return normalize(types.Sentiment{
		Negative: raw.Negative,
		Neutral:  raw.Neutral,
		Positive: raw.Positive,
		Compound: raw.Compound,
	})
}

// normalize makes the three proportions sum to exactly 1 and clamps compound.
// VADER rounds each proportion independently, so the raw sum can drift.
func normalize(s types.Sentiment) (types.Sentiment, error) {
	for _, v := range []float64{s.Negative, s.Neutral, s.Positive, s.Compound} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return types.Sentiment{}, fmt.Errorf("%w: non-finite score %v", ErrScoring, s)
		}
	}

	s.Negative = math.Max(s.Negative, 0)
	s.Neutral = math.Max(s.Neutral, 0)
	s.Positive = math.Max(s.Positive, 0)

	total := s.Negative + s.Neutral + s.Positive
	if total == 0 {
		return types.Sentiment{Neutral: 1, Compound: clamp(s.Compound)}, nil
	}

	s.Negative /= total
	s.Neutral /= total
	s.Positive /= total
	s.Compound = clamp(s.Compound)
	return s, nil
}

func clamp(v float64) float64 {
	return math.Min(math.Max(v, -1), 1)
}
