package types

// Gate names the filter step at which a candidate left the pipeline
type Gate string

const (
	GateContent   Gate = "content"
	GateLength    Gate = "length"
	GateLanguage  Gate = "language"
	GateRelevance Gate = "relevance"
	GateScoring   Gate = "scoring"
)

// Skip records a candidate that did not become an AnnotatedPost.
// Err is set only when a collaborator failed, not for ordinary rejections.
type Skip struct {
	Source string `json:"source"`
	URL    string `json:"url"`
	Gate   Gate   `json:"gate"`
	Err    error  `json:"-"`
}

// Failed reports whether the skip was caused by a collaborator error
func (s Skip) Failed() bool {
	return s.Err != nil
}

// PipelineStats counts what happened to the candidates of one run
type PipelineStats struct {
	Candidates int          `json:"candidates"`
	Rejected   map[Gate]int `json:"rejected"`
	Failed     map[Gate]int `json:"failed"`
	Duplicates int          `json:"duplicates"`
	Survivors  int          `json:"survivors"`
}

// PipelineResult is the output of one filter pass
type PipelineResult struct {
	Posts   []AnnotatedPost `json:"posts"`
	Skipped []Skip          `json:"skipped,omitempty"`
	Stats   PipelineStats   `json:"stats"`
}
