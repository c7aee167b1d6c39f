package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"ticker-sentiment/internal/fetch"
	"ticker-sentiment/internal/interfaces"
	"ticker-sentiment/internal/langdetect"
	"ticker-sentiment/internal/logger"
	"ticker-sentiment/internal/pipeline"
	"ticker-sentiment/internal/pipeline/pipelineobs"
	"ticker-sentiment/internal/relevance"
	"ticker-sentiment/internal/relevance/relevanceobs"
	"ticker-sentiment/internal/scan"
	"ticker-sentiment/internal/sentiment"
	"ticker-sentiment/internal/store"
	"ticker-sentiment/internal/trace"
	"ticker-sentiment/internal/validate"
)

// initializeSystem loads .env and sets up logging and tracing
func initializeSystem() error {
	_ = godotenv.Load()

	// stdout carries the results
	logCfg := logger.LoadConfigFromEnv()
	logCfg.Output = os.Stderr
	if err := logger.InitWithConfig(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// initializeClassifier builds the configured zero-shot backend behind the relevance rule.
// The returned closer releases backend connections.
func initializeClassifier(ctx context.Context, cfg *store.Config) (interfaces.RelevanceClassifier, func(), error) {
	backend, err := relevance.NewBackend(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s relevance backend: %w", cfg.Relevance.Provider, err)
	}
	if cfg.Relevance.Provider == store.ProviderKeyword {
		logger.Warn(ctx, "Using local KEYWORD relevance rules - configure a model provider for zero-shot relevance")
	} else {
		logger.Info(ctx, "Using zero-shot relevance backend", "provider", cfg.Relevance.Provider, "model", cfg.Relevance.Model)
	}

	closer := func() {}
	if c, ok := backend.(io.Closer); ok {
		closer = func() { _ = c.Close() }
	}
	return relevanceobs.Wrap(relevance.FromConfig(backend, cfg)), closer, nil
}

// initializePipeline injects detector, classifier and scorer into the filter pipeline
func initializePipeline(ctx context.Context, cfg *store.Config, classifier interfaces.RelevanceClassifier, minWords int) interfaces.Pipeline {
	if minWords <= 0 {
		minWords = cfg.Pipeline.MinWords
	}
	p := pipeline.New(
		langdetect.New(cfg.Language.MinConfidence),
		classifier,
		sentiment.NewVaderScorer(),
		pipeline.WithMinWords(minWords),
		pipeline.WithRecordRejections(cfg.Pipeline.RecordRejections),
	)
	logger.Info(ctx, "Pipeline ready", "min_words", p.MinWords(), "record_rejections", cfg.Pipeline.RecordRejections)
	return pipelineobs.Wrap(p)
}

func initializeService(ctx context.Context, cfg *store.Config, p interfaces.Pipeline) (*scan.Service, error) {
	validator, err := validate.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Ticker validator ready", "provider", cfg.Validator.Provider)

	fetcher := fetch.FromConfig(cfg)
	ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	return scan.NewService(validator, fetcher, p, ttl), nil
}
