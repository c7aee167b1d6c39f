package sentiment

import (
	"errors"
	"math"
	"testing"

	"ticker-sentiment/internal/types"
)

func assertWellFormed(t *testing.T, s types.Sentiment) {
	t.Helper()
	sum := s.Negative + s.Neutral + s.Positive
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("proportions sum to %f, want 1 (%+v)", sum, s)
	}
	for _, v := range []float64{s.Negative, s.Neutral, s.Positive} {
		if v < 0 || v > 1 {
			t.Errorf("proportion out of range: %+v", s)
		}
	}
	if s.Compound < -1 || s.Compound > 1 {
		t.Errorf("compound out of range: %f", s.Compound)
	}
}

func TestScoreEmptyIsNeutral(t *testing.T) {
	scorer := NewVaderScorer()
	for _, text := range []string{"", "   \n"} {
		got, err := scorer.Score(text)
		if err != nil {
			t.Fatalf("Score(%q) error: %v", text, err)
		}
		if got != types.NeutralSentiment() {
			t.Errorf("Score(%q) = %+v, want neutral", text, got)
		}
	}
}

func TestScorePolarity(t *testing.T) {
	scorer := NewVaderScorer()

	pos, err := scorer.Score("This company is amazing, great earnings and a wonderful outlook. I love it!")
	if err != nil {
		t.Fatal(err)
	}
	assertWellFormed(t, pos)
	if pos.Compound <= 0 {
		t.Errorf("expected positive compound, got %f", pos.Compound)
	}

	neg, err := scorer.Score("Terrible quarter, awful management, horrible losses. This stock is a disaster.")
	if err != nil {
		t.Fatal(err)
	}
	assertWellFormed(t, neg)
	if neg.Compound >= 0 {
		t.Errorf("expected negative compound, got %f", neg.Compound)
	}
}

func TestScoreDeterministic(t *testing.T) {
	scorer := NewVaderScorer()
	text := "Revenue beat expectations but guidance was weak."
	a, _ := scorer.Score(text)
	b, _ := scorer.Score(text)
	if a != b {
		t.Errorf("expected identical scores, got %+v and %+v", a, b)
	}
}

func TestNormalize(t *testing.T) {
	got, err := normalize(types.Sentiment{Negative: 0.1, Neutral: 0.6, Positive: 0.302, Compound: 1.4})
	if err != nil {
		t.Fatal(err)
	}
	assertWellFormed(t, got)
	if got.Compound != 1 {
		t.Errorf("expected compound clamped to 1, got %f", got.Compound)
	}

	zero, err := normalize(types.Sentiment{})
	if err != nil {
		t.Fatal(err)
	}
	if zero != types.NeutralSentiment() {
		t.Errorf("expected all-zero scores to become neutral, got %+v", zero)
	}

	if _, err := normalize(types.Sentiment{Neutral: math.NaN()}); !errors.Is(err, ErrScoring) {
		t.Errorf("expected ErrScoring for NaN, got %v", err)
	}
}
