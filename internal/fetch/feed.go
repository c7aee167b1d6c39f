package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"ticker-sentiment/internal/types"
)

// windows maps time filters to how far back feed items may be published; "all" is unbounded
var windows = map[string]time.Duration{
	"hour":  time.Hour,
	"day":   24 * time.Hour,
	"week":  7 * 24 * time.Hour,
	"month": 30 * 24 * time.Hour,
	"year":  365 * 24 * time.Hour,
}

// Feed reads an RSS or Atom feed whose URL may contain a {subject} placeholder
type Feed struct {
	name   string
	url    string
	parser *gofeed.Parser
	now    func() time.Time
}

func NewFeed(name, urlTemplate string, timeout time.Duration, userAgent string) *Feed {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &Feed{name: name, url: urlTemplate, parser: parser, now: time.Now}
}

func (f *Feed) Name() string {
	return f.name
}

func (f *Feed) Fetch(ctx context.Context, subject, timeFilter string) ([]types.CandidatePost, error) {
	feedURL := strings.ReplaceAll(f.url, "{subject}", url.QueryEscape(subject))

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("error parsing feed %s: %w", feedURL, err)
	}

	var cutoff time.Time
	if w, ok := windows[timeFilter]; ok {
		cutoff = f.now().Add(-w)
	}

	posts := make([]types.CandidatePost, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		if !cutoff.IsZero() && item.PublishedParsed != nil && item.PublishedParsed.Before(cutoff) {
			continue
		}

		body := item.Content
		if strings.TrimSpace(body) == "" {
			body = item.Description
		}
		posts = append(posts, types.CandidatePost{
			Source:  f.name,
			Title:   strings.TrimSpace(item.Title),
			URL:     item.Link,
			Content: htmlText(body),
		})
	}
	return posts, nil
}
