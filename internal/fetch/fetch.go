package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ticker-sentiment/internal/interfaces"
	"ticker-sentiment/internal/logger"
	"ticker-sentiment/internal/ratelimit"
	"ticker-sentiment/internal/store"
	"ticker-sentiment/internal/trace"
	"ticker-sentiment/internal/types"
)

// ErrInvalidTimeFilter is returned for a search window other than hour, day, week, month, year or all
var ErrInvalidTimeFilter = errors.New("invalid time filter")

// Source fetches the candidate posts of one named community or feed
type Source interface {
	Name() string
	Fetch(ctx context.Context, subject, timeFilter string) ([]types.CandidatePost, error)
}

// Multi fetches every source in order, pausing between sources.
// A failing source is logged and contributes an empty batch.
type Multi struct {
	sources []Source
	limiter *ratelimit.Limiter
}

var _ interfaces.Fetcher = (*Multi)(nil)

// NewMulti paces sources at most one per interval; interval 0 disables pacing
func NewMulti(interval time.Duration, sources ...Source) *Multi {
	return &Multi{
		sources: sources,
		limiter: ratelimit.New(1, interval),
	}
}

// FromConfig builds reddit sources for every configured subreddit followed by the configured feeds
func FromConfig(cfg *store.Config) *Multi {
	fc := cfg.Fetch
	timeout := time.Duration(fc.TimeoutSeconds) * time.Second

	var sources []Source
	for _, sub := range fc.Subreddits {
		sources = append(sources, NewReddit(sub, WithLimit(fc.Limit), WithTimeout(timeout), WithUserAgent(fc.UserAgent)))
	}
	for _, f := range fc.Feeds {
		sources = append(sources, NewFeed(f.Name, f.URL, timeout, fc.UserAgent))
	}
	return NewMulti(time.Duration(fc.RateLimitSeconds)*time.Second, sources...)
}

func (m *Multi) Fetch(ctx context.Context, subject, timeFilter string) ([]types.SourceBatch, error) {
	timeFilter = strings.ToLower(strings.TrimSpace(timeFilter))
	if !store.ValidTimeFilter(timeFilter) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeFilter, timeFilter)
	}

	logger.Info(ctx, "Starting forum search", "subject", subject, "sources", len(m.sources), "time_filter", timeFilter)

	batches := make([]types.SourceBatch, 0, len(m.sources))
	total := 0
	for _, src := range m.sources {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		sctx, span := trace.StartSpan(ctx, "fetch."+src.Name())
		posts, err := src.Fetch(sctx, subject, timeFilter)
		span.End()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.ErrorWithErr(ctx, "Failed to fetch source", err, "source", src.Name(), "subject", subject)
			posts = nil
		}

		batches = append(batches, types.SourceBatch{Name: src.Name(), Posts: posts})
		total += len(posts)
		logger.Debug(ctx, "Source fetched", "source", src.Name(), "posts", len(posts))
	}

	logger.Info(ctx, "Forum search completed", "subject", subject, "posts", total)
	return batches, nil
}

// htmlText converts an HTML fragment to whitespace-normalised plain text
func htmlText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()

	var paragraphs []string
	doc.Find("p, li, blockquote, pre").Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered("p, li, blockquote, pre").Length() > 0 {
			return
		}
		if text := collapse(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		return collapse(doc.Text())
	}
	return strings.Join(paragraphs, "\n\n")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
