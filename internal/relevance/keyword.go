package relevance

import (
	"context"
	"regexp"
	"strings"

	"ticker-sentiment/internal/interfaces"
	"ticker-sentiment/internal/types"
)

// financeTerms is the vocabulary of posts that actually discuss a stock
var financeTerms = []string{
	"stock", "stocks", "share", "shares", "price", "earnings", "revenue", "eps", "guidance",
	"valuation", "dividend", "dividends", "market cap", "p/e", "short interest", "squeeze",
	"calls", "puts", "options", "bullish", "bearish", "buy", "sell", "hold", "position",
	"portfolio", "quarter", "quarterly", "profit", "margin", "margins", "debt", "cash flow",
	"analyst", "analysts", "target", "dd", "due diligence", "investors", "investing",
}

// labelFiller are label words that carry no topic on their own
var labelFiller = map[string]bool{
	"related": true, "to": true, "not": true, "stock": true, "stocks": true,
	"analysis": true, "about": true, "the": true, "of": true, "a": true, "an": true,
}

// Keyword is a local ZeroShotClassifier. A positive label scores by how many of
// its specific terms (typically the ticker) occur in the text plus the density of
// finance vocabulary; a negated label ("not ...") scores the complement of the
// best positive label.
type Keyword struct {
	vocabulary []string
	saturation int
}

var _ interfaces.ZeroShotClassifier = (*Keyword)(nil)

// NewKeyword returns a keyword backend; saturation is the number of finance hits
// that counts as fully on-topic
func NewKeyword() *Keyword {
	return &Keyword{vocabulary: financeTerms, saturation: 5}
}

func (k *Keyword) Classify(ctx context.Context, text string, labels []string) ([]types.LabelScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lower := strings.ToLower(text)
	density := float64(countAny(lower, k.vocabulary)) / float64(k.saturation)
	if density > 1 {
		density = 1
	}

	scores := make([]types.LabelScore, len(labels))
	best := 0.0
	for i, label := range labels {
		scores[i].Label = label
		if negated(label) {
			continue
		}
		s := 0.5*termCoverage(lower, label) + 0.5*density
		scores[i].Score = s
		if s > best {
			best = s
		}
	}
	for i, label := range labels {
		if negated(label) {
			scores[i].Score = 1 - best
		}
	}

	return rank(preferNegated(scores)), nil
}

// preferNegated moves negated labels first so a tie resolves to "not related"
func preferNegated(scores []types.LabelScore) []types.LabelScore {
	out := make([]types.LabelScore, 0, len(scores))
	for _, s := range scores {
		if negated(s.Label) {
			out = append(out, s)
		}
	}
	for _, s := range scores {
		if !negated(s.Label) {
			out = append(out, s)
		}
	}
	return out
}

func negated(label string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(label)), "not ")
}

// termCoverage is the fraction of the label's specific terms present in text
func termCoverage(lowerText, label string) float64 {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(label)) {
		if !labelFiller[w] {
			terms = append(terms, w)
		}
	}
	if len(terms) == 0 {
		return 0
	}
	found := 0
	for _, t := range terms {
		if containsTerm(lowerText, t) {
			found++
		}
	}
	return float64(found) / float64(len(terms))
}

func countAny(lowerText string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if containsTerm(lowerText, k) {
			n++
		}
	}
	return n
}

// containsTerm matches phrases as substrings and single words on word
// boundaries, so "eps" does not match "steps"
func containsTerm(lowerText, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	if strings.Contains(term, " ") || strings.ContainsAny(term, "/") {
		return strings.Contains(lowerText, term)
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
	return re.MatchString(lowerText)
}
