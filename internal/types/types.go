package types

import "strings"

// NoTitle is shown for posts fetched without a title
const NoTitle = "No Title"

// CandidatePost is a raw forum post as supplied by a fetcher.
// Title and Content are optional: the empty string means absent.
type CandidatePost struct {
	Source  string `json:"source"`
	Title   string `json:"title,omitempty"`
	URL     string `json:"url"`
	Content string `json:"content,omitempty"`
}

// HasContent reports whether the post carries a body worth filtering
func (p CandidatePost) HasContent() bool {
	return strings.TrimSpace(p.Content) != ""
}

// DisplayTitle returns the title, or NoTitle when the post has none
func (p CandidatePost) DisplayTitle() string {
	if strings.TrimSpace(p.Title) == "" {
		return NoTitle
	}
	return p.Title
}

// SourceBatch is the ordered list of candidates fetched from one named source
type SourceBatch struct {
	Name  string          `json:"name"`
	Posts []CandidatePost `json:"posts"`
}

// Sentiment is a VADER-style polarity breakdown.
// Negative, Neutral and Positive sum to 1; Compound lies in [-1, 1].
type Sentiment struct {
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// NeutralSentiment is the score of text with no polarity at all
func NeutralSentiment() Sentiment {
	return Sentiment{Neutral: 1}
}

// AnnotatedPost is a candidate that cleared every gate and was scored
type AnnotatedPost struct {
	CandidatePost
	Sentiment Sentiment `json:"sentiment"`
}

// LabelScore is one ranked label of a zero-shot classification
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ScanResult is what a full scan of one ticker returns
type ScanResult struct {
	Symbol     string          `json:"symbol"`
	TimeFilter string          `json:"time_filter"`
	Posts      []AnnotatedPost `json:"posts"`
	Skipped    []Skip          `json:"skipped,omitempty"`
	Stats      PipelineStats   `json:"stats"`
	Timestamp  int64           `json:"timestamp"`
}
