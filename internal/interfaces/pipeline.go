package interfaces

import (
	"context"

	"ticker-sentiment/internal/types"
)

// Pipeline filters, scores and de-duplicates candidate posts about a subject
type Pipeline interface {
	Run(ctx context.Context, sources []types.SourceBatch, subject string) (*types.PipelineResult, error)
}
