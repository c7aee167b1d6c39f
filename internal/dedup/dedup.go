package dedup

import "ticker-sentiment/internal/types"

// Deduplicate keeps the first post for every URL, preserving input order.
// The input slice and its elements are left untouched.
func Deduplicate(posts []types.AnnotatedPost) []types.AnnotatedPost {
	seen := make(map[string]struct{}, len(posts))
	unique := make([]types.AnnotatedPost, 0, len(posts))

	for _, post := range posts {
		if _, ok := seen[post.URL]; ok {
			continue
		}
		seen[post.URL] = struct{}{}
		unique = append(unique, post)
	}

	return unique
}
