package pipeline

import (
	"context"
	"errors"
	"strings"

	"ticker-sentiment/internal/dedup"
	"ticker-sentiment/internal/interfaces"
	"ticker-sentiment/internal/logger"
	"ticker-sentiment/internal/trace"
	"ticker-sentiment/internal/types"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// DefaultMinWords is the shortest post body, in whitespace-separated words, worth classifying
const DefaultMinWords = 50

// ErrInvalidInput is returned when Run is called without a subject
var ErrInvalidInput = errors.New("invalid input")

// Pipeline filters candidate posts through content, length, language and
// relevance gates, scores the survivors and de-duplicates them by URL.
// It runs sequentially and calls the classifier and scorer at most once per post.
type Pipeline struct {
	detector         interfaces.LanguageDetector
	classifier       interfaces.RelevanceClassifier
	scorer           interfaces.SentimentScorer
	minWords         int
	recordRejections bool
}

var _ interfaces.Pipeline = (*Pipeline)(nil)

type Option func(*Pipeline)

// WithMinWords sets the length gate; values below 1 keep the default
func WithMinWords(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.minWords = n
		}
	}
}

// WithRecordRejections also records plain gate rejections in Result.Skipped
func WithRecordRejections(enabled bool) Option {
	return func(p *Pipeline) {
		p.recordRejections = enabled
	}
}

func New(detector interfaces.LanguageDetector, classifier interfaces.RelevanceClassifier, scorer interfaces.SentimentScorer, opts ...Option) *Pipeline {
	p := &Pipeline{
		detector:   detector,
		classifier: classifier,
		scorer:     scorer,
		minWords:   DefaultMinWords,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// With returns a copy of p with opts applied, for per-run overrides
func (p *Pipeline) With(opts ...Option) *Pipeline {
	cp := *p
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// MinWords returns the configured length threshold
func (p *Pipeline) MinWords() int {
	return p.minWords
}

// Run processes sources in the given order and posts in their given order.
// Classification and scoring failures skip the post and are reported in
// Result.Skipped; only a blank subject or a cancelled context fail the run.
func (p *Pipeline) Run(ctx context.Context, sources []types.SourceBatch, subject string) (*types.PipelineResult, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, ErrInvalidInput
	}

	res := &types.PipelineResult{
		Posts: []types.AnnotatedPost{},
		Stats: types.PipelineStats{
			Rejected: map[types.Gate]int{},
			Failed:   map[types.Gate]int{},
		},
	}

	var survivors []types.AnnotatedPost
	for _, batch := range sources {
		for _, post := range batch.Posts {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if post.Source == "" {
				post.Source = batch.Name
			}
			res.Stats.Candidates++

			annotated, skip := p.process(ctx, post, subject)
			if skip != nil {
				p.recordSkip(res, *skip)
				continue
			}
			survivors = append(survivors, *annotated)
		}
	}

	res.Posts = dedup.Deduplicate(survivors)
	res.Stats.Duplicates = len(survivors) - len(res.Posts)
	res.Stats.Survivors = len(res.Posts)
	return res, nil
}

// process walks one post through the gates in order, stopping at the first rejection
func (p *Pipeline) process(ctx context.Context, post types.CandidatePost, subject string) (*types.AnnotatedPost, *types.Skip) {
	ctx, span := trace.StartSpan(ctx, "pipeline.post",
		oteltrace.WithAttributes(attribute.String("source", post.Source), attribute.String("url", post.URL)))
	defer span.End()

	reject := func(gate types.Gate, reason string, err error, fields ...any) *types.Skip {
		if err != nil {
			logger.Warn(ctx, "Post skipped", append([]any{"source", post.Source, "url", post.URL, "gate", string(gate), "error", err}, fields...)...)
		} else {
			logger.Gate(ctx, post.Source, post.URL, string(gate), reason, fields...)
		}
		return &types.Skip{Source: post.Source, URL: post.URL, Gate: gate, Err: err}
	}

	if !post.HasContent() {
		return nil, reject(types.GateContent, "no content", nil)
	}

	if words := len(strings.Fields(post.Content)); words < p.minWords {
		return nil, reject(types.GateLength, "too short", nil, "words", words, "min_words", p.minWords)
	}

	if !p.detector.IsEnglish(post.Content) {
		return nil, reject(types.GateLanguage, "not english", nil)
	}

	relevant, err := p.classifier.IsRelevant(ctx, post.Content, subject)
	if err != nil {
		return nil, reject(types.GateRelevance, "classification failed", err)
	}
	if !relevant {
		return nil, reject(types.GateRelevance, "not relevant", nil, "subject", subject)
	}

	sentiment, err := p.scorer.Score(post.Content)
	if err != nil {
		return nil, reject(types.GateScoring, "scoring failed", err)
	}

	logger.Survivor(ctx, post.Source, post.URL, sentiment.Compound, "title", post.DisplayTitle())
	return &types.AnnotatedPost{CandidatePost: post, Sentiment: sentiment}, nil
}

func (p *Pipeline) recordSkip(res *types.PipelineResult, skip types.Skip) {
	if skip.Failed() {
		res.Stats.Failed[skip.Gate]++
		res.Skipped = append(res.Skipped, skip)
		return
	}
	res.Stats.Rejected[skip.Gate]++
	if p.recordRejections {
		res.Skipped = append(res.Skipped, skip)
	}
}
