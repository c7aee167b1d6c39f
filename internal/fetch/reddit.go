package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"ticker-sentiment/internal/api"
	"ticker-sentiment/internal/logger"
	"ticker-sentiment/internal/types"
)

const redditBaseURL = "https://www.reddit.com"

// Reddit searches one subreddit through the public search.json listing
type Reddit struct {
	subreddit string
	baseURL   string
	limit     int
	timeout   time.Duration
	userAgent string
}

type RedditOption func(*Reddit)

func WithLimit(n int) RedditOption {
	return func(r *Reddit) {
		if n > 0 {
			r.limit = n
		}
	}
}

func WithTimeout(d time.Duration) RedditOption {
	return func(r *Reddit) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithUserAgent(ua string) RedditOption {
	return func(r *Reddit) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// WithBaseURL points the source at another host, permalinks included
func WithBaseURL(base string) RedditOption {
	return func(r *Reddit) {
		r.baseURL = strings.TrimSuffix(base, "/")
	}
}

func NewReddit(subreddit string, opts ...RedditOption) *Reddit {
	r := &Reddit{
		subreddit: subreddit,
		baseURL:   redditBaseURL,
		limit:     50,
		timeout:   30 * time.Second,
		userAgent: api.BrowserHeaders()["User-Agent"],
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reddit) Name() string {
	return r.subreddit
}

// SearchURL is the listing requested for subject
func (r *Reddit) SearchURL(subject, timeFilter string) string {
	return fmt.Sprintf("%s/r/%s/search.json?q=%s&restrict_sr=on&sort=top&t=%s&limit=%d",
		r.baseURL, url.PathEscape(r.subreddit), url.QueryEscape(subject), timeFilter, r.limit)
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title        string `json:"title"`
	Permalink    string `json:"permalink"`
	Selftext     string `json:"selftext"`
	SelftextHTML string `json:"selftext_html"`
}

func (r *Reddit) Fetch(ctx context.Context, subject, timeFilter string) ([]types.CandidatePost, error) {
	var (
		posts    []types.CandidatePost
		parseErr error
	)

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(r.baseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(r.timeout)

	c.OnRequest(func(req *colly.Request) {
		req.Headers.Set("User-Agent", r.userAgent)
		req.Headers.Set("Accept", "application/json")
	})

	c.OnResponse(func(resp *colly.Response) {
		var listing redditListing
		if err := json.Unmarshal(resp.Body, &listing); err != nil {
			parseErr = fmt.Errorf("failed to parse reddit listing: %w", err)
			return
		}
		for _, child := range listing.Data.Children {
			posts = append(posts, r.toCandidate(child.Data))
		}
	})

	c.OnError(func(resp *colly.Response, err error) {
		logger.Debug(ctx, "Reddit search error", "subreddit", r.subreddit, "status", resp.StatusCode, "error", err)
	})

	searchURL := r.SearchURL(subject, timeFilter)
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", searchURL, err)
	}
	c.Wait()

	if parseErr != nil {
		return nil, parseErr
	}
	return posts, nil
}

func (r *Reddit) toCandidate(p redditPost) types.CandidatePost {
	content := strings.TrimSpace(p.Selftext)
	if content == "" && p.SelftextHTML != "" {
		content = htmlText(html.UnescapeString(p.SelftextHTML))
	}
	link := p.Permalink
	if strings.HasPrefix(link, "/") {
		link = r.baseURL + link
	}
	return types.CandidatePost{
		Source:  r.subreddit,
		Title:   strings.TrimSpace(p.Title),
		URL:     link,
		Content: content,
	}
}

func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
