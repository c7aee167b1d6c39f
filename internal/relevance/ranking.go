package relevance

import (
	"encoding/json"
	"fmt"
	"strings"

	"ticker-sentiment/internal/types"
)

// labelsAndScores is the zero-shot pipeline response shape
type labelsAndScores struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// parseRanking decodes either {"labels":[...],"scores":[...]} or
// [{"label":..,"score":..}], checks it against the candidate labels and
// returns it ordered by descending score
func parseRanking(raw []byte, candidates []string) ([]types.LabelScore, error) {
	body := strings.TrimSpace(stripFences(string(raw)))
	if body == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedClassification)
	}

	var scores []types.LabelScore
	if strings.HasPrefix(body, "[") {
		var list []types.LabelScore
		if err := json.Unmarshal([]byte(body), &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedClassification, err)
		}
		scores = list
	} else {
		var ls labelsAndScores
		if err := json.Unmarshal([]byte(body), &ls); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedClassification, err)
		}
		if len(ls.Labels) != len(ls.Scores) {
			return nil, fmt.Errorf("%w: %d labels but %d scores", ErrMalformedClassification, len(ls.Labels), len(ls.Scores))
		}
		for i, l := range ls.Labels {
			scores = append(scores, types.LabelScore{Label: l, Score: ls.Scores[i]})
		}
	}

	for i := range scores {
		scores[i].Label = strings.TrimSpace(scores[i].Label)
	}
	if err := checkLabels(scores, candidates); err != nil {
		return nil, err
	}
	return rank(scores), nil
}

// stripFences removes a markdown code fence that chat models like to add
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}

// rankingPrompt asks a chat model to behave as a zero-shot classifier
func rankingPrompt(text string, labels []string) string {
	lb, _ := json.Marshal(labels)
	return fmt.Sprintf(`You are a zero-shot text classifier. Score how well the post matches each candidate label.
Respond ONLY with compact JSON of the form {"labels":[...],"scores":[...]} using the candidate labels verbatim, scores summing to 1.
Candidate labels: %s
Post:
%s`, string(lb), clip(text, maxPromptRunes))
}

const maxPromptRunes = 2000
