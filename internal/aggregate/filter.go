package aggregate

import (
	"strings"

	"joyfeed/internal/story"
)

// Query holds the caller-supplied filters. Zero values mean "no filter".
// Fast selects the ultra-reliable feed subset instead of the full catalog.
type Query struct {
	Text     string
	Category string
	Region   string
	Fast     bool
}

// BypassesCache reports whether results for this query may not be cached.
// Only unfiltered and region-scoped base results are cacheable.
func (q Query) BypassesCache() bool {
	return q.Text != "" || q.Category != ""
}

// Apply filters stories with every supplied filter (logical AND). Unknown
// category or region values simply match nothing.
func (q Query) Apply(stories []story.Story) []story.Story {
	terms := strings.Fields(strings.ToLower(q.Text))
	out := make([]story.Story, 0, len(stories))
	for _, s := range stories {
		if len(terms) > 0 && !matchesTerms(s, terms) {
			continue
		}
		if q.Category != "" && !hasCategory(s, q.Category) {
			continue
		}
		if q.Region != "" && (s.Region == nil || !strings.EqualFold(*s.Region, q.Region)) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// matchesTerms requires every term to be a substring of the story's text index.
func matchesTerms(s story.Story, terms []string) bool {
	haystack := textIndex(s)
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

func hasCategory(s story.Story, category string) bool {
	for _, c := range s.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}
