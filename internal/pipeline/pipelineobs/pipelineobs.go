package pipelineobs

import (
	"context"
	"time"

	"ticker-sentiment/internal/interfaces"
	"ticker-sentiment/internal/logger"
	"ticker-sentiment/internal/trace"
	"ticker-sentiment/internal/types"
)

type observablePipeline struct {
	pipeline interfaces.Pipeline
}

var _ interfaces.Pipeline = (*observablePipeline)(nil)

func Wrap(p interfaces.Pipeline) interfaces.Pipeline {
	return &observablePipeline{
		pipeline: p,
	}
}

func (op *observablePipeline) Run(ctx context.Context, sources []types.SourceBatch, subject string) (*types.PipelineResult, error) {
	ctx, span := trace.StartSpan(ctx, "pipeline.Run")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting filter pass",
		"subject", subject,
		"sources", len(sources),
	)

	result, err := op.pipeline.Run(ctx, sources, subject)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Filter pass failed", err,
			"subject", subject,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Filter pass completed",
		"subject", subject,
		"candidates", result.Stats.Candidates,
		"survivors", result.Stats.Survivors,
		"duplicates", result.Stats.Duplicates,
		"skipped", len(result.Skipped),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
