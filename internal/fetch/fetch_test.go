package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ticker-sentiment/internal/types"
)

const listing = `{"data":{"children":[
 {"data":{"title":"ACME DD","permalink":"/r/stocks/comments/abc/acme_dd/","selftext":"ACME looks cheap here."}},
 {"data":{"title":"","permalink":"/r/stocks/comments/def/link_post/","selftext":"","selftext_html":null}},
 {"data":{"title":"html only","permalink":"/r/stocks/comments/ghi/html/","selftext":"","selftext_html":"&lt;div class=\"md\"&gt;&lt;p&gt;First   para.&lt;/p&gt;&lt;p&gt;Second para.&lt;/p&gt;&lt;/div&gt;"}}
]}}`

func TestRedditFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/r/stocks/search.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "ACME" || q.Get("t") != "week" || q.Get("restrict_sr") != "on" || q.Get("sort") != "top" || q.Get("limit") != "25" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if !strings.Contains(r.Header.Get("User-Agent"), "Mozilla") {
			t.Errorf("expected browser user agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, listing)
	}))
	defer srv.Close()

	r := NewReddit("stocks", WithBaseURL(srv.URL), WithLimit(25))
	posts, err := r.Fetch(context.Background(), "ACME", "week")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}

	first := posts[0]
	if first.Source != "stocks" || first.Title != "ACME DD" || first.Content != "ACME looks cheap here." {
		t.Errorf("unexpected first post %+v", first)
	}
	if first.URL != srv.URL+"/r/stocks/comments/abc/acme_dd/" {
		t.Errorf("unexpected url %q", first.URL)
	}
	if posts[1].HasContent() || posts[1].DisplayTitle() != types.NoTitle {
		t.Errorf("link post should have neither title nor content: %+v", posts[1])
	}
	if posts[2].Content != "First para.\n\nSecond para." {
		t.Errorf("expected html fallback, got %q", posts[2].Content)
	}
}

func TestRedditFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := NewReddit("stocks", WithBaseURL(srv.URL)).Fetch(context.Background(), "ACME", "day"); err == nil {
		t.Fatal("expected error on 429")
	}
}

const rss = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>t</title>
<item><title>Fresh</title><link>https://example.com/fresh</link><description>&lt;p&gt;ACME &lt;b&gt;beat&lt;/b&gt; earnings.&lt;/p&gt;</description><pubDate>Mon, 09 Jan 2006 10:00:00 GMT</pubDate></item>
<item><title>Old</title><link>https://example.com/old</link><description>old news</description><pubDate>Mon, 02 Jan 2006 10:00:00 GMT</pubDate></item>
<item><title>Undated</title><link>https://example.com/undated</link><description>no date</description></item>
</channel></rss>`

func TestFeedFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rss)
	}))
	defer srv.Close()

	f := NewFeed("news", srv.URL+"/rss?q={subject}", 5*time.Second, "")
	f.now = func() time.Time { return time.Date(2006, 1, 10, 0, 0, 0, 0, time.UTC) }

	posts, err := f.Fetch(context.Background(), "ACME", "week")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotQuery != "ACME" {
		t.Errorf("subject placeholder not substituted, got %q", gotQuery)
	}
	if len(posts) != 2 {
		t.Fatalf("expected old item filtered out, got %+v", posts)
	}
	if posts[0].Title != "Fresh" || posts[0].Content != "ACME beat earnings." || posts[0].Source != "news" {
		t.Errorf("unexpected first item %+v", posts[0])
	}
	if posts[1].URL != "https://example.com/undated" {
		t.Errorf("undated items are kept, got %+v", posts[1])
	}

	all, err := f.Fetch(context.Background(), "ACME", "all")
	if err != nil || len(all) != 3 {
		t.Errorf("expected all items for 'all', got %d (%v)", len(all), err)
	}
}

type stubSource struct {
	name  string
	posts []types.CandidatePost
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, subject, timeFilter string) ([]types.CandidatePost, error) {
	s.calls++
	return s.posts, s.err
}

func TestMultiFetchOrderAndErrors(t *testing.T) {
	a := &stubSource{name: "a", posts: []types.CandidatePost{{URL: "1"}}}
	b := &stubSource{name: "b", err: errors.New("down")}
	c := &stubSource{name: "c", posts: []types.CandidatePost{{URL: "2"}, {URL: "3"}}}

	batches, err := NewMulti(0, a, b, c).Fetch(context.Background(), "ACME", "Week")
	if err != nil {
		t.Fatalf("a failing source must not abort: %v", err)
	}
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	for i, name := range []string{"a", "b", "c"} {
		if batches[i].Name != name {
			t.Errorf("batch %d = %s, want %s", i, batches[i].Name, name)
		}
	}
	if len(batches[1].Posts) != 0 || len(batches[2].Posts) != 2 {
		t.Errorf("unexpected batch contents %+v", batches)
	}
}

func TestMultiFetchInvalidTimeFilter(t *testing.T) {
	src := &stubSource{name: "a"}
	_, err := NewMulti(0, src).Fetch(context.Background(), "ACME", "fortnight")
	if !errors.Is(err, ErrInvalidTimeFilter) {
		t.Errorf("expected ErrInvalidTimeFilter, got %v", err)
	}
	if src.calls != 0 {
		t.Error("no source should be fetched for an invalid filter")
	}
}

func TestMultiFetchPacesSources(t *testing.T) {
	a, b := &stubSource{name: "a"}, &stubSource{name: "b"}
	start := time.Now()
	if _, err := NewMulti(40*time.Millisecond, a, b).Fetch(context.Background(), "ACME", "day"); err != nil {
		t.Fatal(err)
	}
	if time.Since(start) < 35*time.Millisecond {
		t.Error("expected a pause between sources")
	}
}

func TestHTMLText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain   text\n here", "plain text here"},
		{"<p>a <i>b</i></p><ul><li>c</li></ul>", "a b\n\nc"},
		{"<div>x<script>bad()</script></div>", "x"},
	}
	for _, tt := range tests {
		if got := htmlText(tt.in); got != tt.want {
			t.Errorf("htmlText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
