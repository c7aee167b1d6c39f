package interfaces

import (
	"context"

	"ticker-sentiment/internal/types"
)

// Fetcher collects candidate posts about a subject, one batch per source, in source order
type Fetcher interface {
	Fetch(ctx context.Context, subject, timeFilter string) ([]types.SourceBatch, error)
}

// TickerValidator checks a symbol against a market-data provider
type TickerValidator interface {
	Validate(ctx context.Context, symbol string) (bool, error)
}
