package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"joyfeed/internal/story"
)

func strptr(s string) *string { return &s }

func filterFixtures() []story.Story {
	return []story.Story{
		{
			Title:       "Rescued penguins waddle home",
			Excerpt:     "A colony returns to the coast.",
			Site:        "goodnews.example",
			SourceTitle: "Good News Wire",
			Categories:  []string{"Wildlife"},
			Region:      strptr("Africa"),
		},
		{
			Title:       "Students launch tutoring club",
			Excerpt:     "Volunteers help younger kids read.",
			Site:        "sunny.example",
			SourceTitle: "Sunny Times",
			Categories:  []string{"Community", "Humanity"},
			Region:      strptr("Europe"),
		},
		{
			Title:       "Solar co-op powers whole village",
			Excerpt:     "Clean energy milestone reached.",
			Site:        "bright.example",
			SourceTitle: "Bright Side",
			Categories:  []string{"Climate"},
			Region:      nil,
		},
	}
}

func TestQueryApply_NoFiltersKeepsEverything(t *testing.T) {
	got := Query{}.Apply(filterFixtures())

	assert.Len(t, got, 3)
}

func TestQueryApply_TextTermsAreANDed(t *testing.T) {
	got := Query{Text: "penguins coast"}.Apply(filterFixtures())

	assert.Len(t, got, 1)
	assert.Equal(t, "Rescued penguins waddle home", got[0].Title)

	got = Query{Text: "penguins village"}.Apply(filterFixtures())
	assert.Empty(t, got)
}

func TestQueryApply_TextSearchesAllIndexedFields(t *testing.T) {
	// SourceTitle and category are part of the searchable text.
	assert.Len(t, Query{Text: "bright side"}.Apply(filterFixtures()), 1)
	assert.Len(t, Query{Text: "humanity"}.Apply(filterFixtures()), 1)
}

func TestQueryApply_TextIsCaseInsensitive(t *testing.T) {
	got := Query{Text: "PENGUINS"}.Apply(filterFixtures())

	assert.Len(t, got, 1)
}

func TestQueryApply_CategoryMatchIsCaseInsensitive(t *testing.T) {
	got := Query{Category: "wildlife"}.Apply(filterFixtures())

	assert.Len(t, got, 1)
	assert.Equal(t, "Rescued penguins waddle home", got[0].Title)
}

func TestQueryApply_UnknownCategoryMatchesNothing(t *testing.T) {
	assert.Empty(t, Query{Category: "Sports"}.Apply(filterFixtures()))
}

func TestQueryApply_RegionSkipsStoriesWithoutRegion(t *testing.T) {
	got := Query{Region: "europe"}.Apply(filterFixtures())

	assert.Len(t, got, 1)
	assert.Equal(t, "Students launch tutoring club", got[0].Title)
}

func TestQueryApply_FiltersCombine(t *testing.T) {
	got := Query{Text: "club", Category: "Community", Region: "Europe"}.Apply(filterFixtures())

	assert.Len(t, got, 1)

	got = Query{Text: "club", Category: "Wildlife", Region: "Europe"}.Apply(filterFixtures())
	assert.Empty(t, got)
}

func TestQueryBypassesCache(t *testing.T) {
	assert.False(t, Query{}.BypassesCache())
	assert.False(t, Query{Region: "Asia"}.BypassesCache())
	assert.True(t, Query{Text: "owls"}.BypassesCache())
	assert.True(t, Query{Category: "Wildlife"}.BypassesCache())
}
