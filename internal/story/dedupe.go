package story

import "strings"

// DedupKey normalizes a story's link (or title when the link is empty) for
// duplicate detection: lowercased, query string and fragment stripped.
func DedupKey(s Story) string {
	key := s.Link
	if key == "" {
		key = s.Title
	}
	key = strings.ToLower(key)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	return key
}

// Dedupe removes later stories whose dedup key was already seen. Stable:
// the first occurrence wins and survivor order is preserved.
func Dedupe(stories []Story) []Story {
	seen := make(map[string]struct{}, len(stories))
	out := make([]Story, 0, len(stories))
	for _, s := range stories {
		key := DedupKey(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
