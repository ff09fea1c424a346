package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe_FirstOccurrenceWins(t *testing.T) {
	stories := []Story{
		{ID: "1", Title: "First headline", Link: "https://example.com/a"},
		{ID: "2", Title: "Different headline", Link: "https://example.com/a"},
		{ID: "3", Title: "Another story", Link: "https://example.com/b"},
	}

	out := Dedupe(stories)

	assert.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "3", out[1].ID)
}

func TestDedupe_StripsQueryAndFragment(t *testing.T) {
	stories := []Story{
		{ID: "1", Link: "https://example.com/a?utm_source=rss"},
		{ID: "2", Link: "https://example.com/a#section"},
		{ID: "3", Link: "HTTPS://EXAMPLE.COM/A"},
	}

	out := Dedupe(stories)

	assert.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
}

func TestDedupe_FallsBackToTitle(t *testing.T) {
	stories := []Story{
		{ID: "1", Title: "Same Headline"},
		{ID: "2", Title: "same headline"},
		{ID: "3", Title: "Other headline"},
	}

	out := Dedupe(stories)

	assert.Len(t, out, 2)
}

func TestDedupe_Idempotent(t *testing.T) {
	stories := []Story{
		{ID: "1", Link: "https://example.com/a"},
		{ID: "2", Link: "https://example.com/a?x=1"},
		{ID: "3", Link: "https://example.com/b"},
	}

	once := Dedupe(stories)
	twice := Dedupe(once)

	assert.Equal(t, once, twice)
}

func TestDedupe_PreservesOrder(t *testing.T) {
	stories := []Story{
		{ID: "c", Link: "https://example.com/c"},
		{ID: "a", Link: "https://example.com/a"},
		{ID: "b", Link: "https://example.com/b"},
	}

	out := Dedupe(stories)

	assert.Equal(t, []string{"c", "a", "b"}, []string{out[0].ID, out[1].ID, out[2].ID})
}
