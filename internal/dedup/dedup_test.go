package dedup

import (
	"reflect"
	"testing"

	"ticker-sentiment/internal/types"
)

func post(source, url string) types.AnnotatedPost {
	return types.AnnotatedPost{
		CandidatePost: types.CandidatePost{Source: source, URL: url, Content: "body"},
		Sentiment:     types.NeutralSentiment(),
	}
}

func TestDeduplicateFirstSeenWins(t *testing.T) {
	in := []types.AnnotatedPost{
		post("s1", "u1"),
		post("s1", "u2"),
		post("s2", "u1"),
		post("s2", "u3"),
		post("s3", "u2"),
	}

	got := Deduplicate(in)

	want := []types.AnnotatedPost{post("s1", "u1"), post("s1", "u2"), post("s2", "u3")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Deduplicate = %+v, want %+v", got, want)
	}
}

func TestDeduplicateDoesNotMutateInput(t *testing.T) {
	in := []types.AnnotatedPost{post("s1", "u1"), post("s2", "u1")}
	snapshot := append([]types.AnnotatedPost(nil), in...)

	_ = Deduplicate(in)

	if !reflect.DeepEqual(in, snapshot) {
		t.Errorf("input was modified: %+v", in)
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	in := []types.AnnotatedPost{post("a", "u1"), post("b", "u1"), post("a", "u2")}

	once := Deduplicate(in)
	twice := Deduplicate(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second pass changed result: %+v vs %+v", once, twice)
	}
}

func TestDeduplicateEmpty(t *testing.T) {
	if got := Deduplicate(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
}
