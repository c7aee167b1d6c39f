package interfaces

import "ticker-sentiment/internal/types"

type SentimentScorer interface {
	Score(text string) (types.Sentiment, error)
}
