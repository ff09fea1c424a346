// Package classify scores story text for positivity and assigns category
// tags. Both judgments are keyword heuristics over data-driven rule tables so
// the rules stay testable apart from fetching.
package classify

import (
	"regexp"
	"strings"
)

// DefaultCategory is assigned when no category rule matches a positive story.
const DefaultCategory = "Good News"

// MaxCategories bounds the tags per story.
const MaxCategories = 3

// Rule is one category with its trigger words.
type Rule struct {
	Name  string
	Words []string
}

var positiveHints = []string{
	"wholesome", "heartwarming", "uplifting", "hope", "kindness", "donates", "rescued",
	"saved", "breakthrough", "cure", "reunited", "restored", "revived", "community",
	"wildlife", "conservation", "clean energy", "scholarship", "celebrates", "volunteer",
	"inspiring", "smile", "teacher", "students", "neighborhood", "fundraiser", "award",
	"grant", "renewable", "reforestation", "rehabilitation", "sanctuary", "success",
}

var negativeFlags = []string{
	"dies", "dead", "death", "fatal", "shoot", "war", "conflict", "assault", "crime", "lawsuit", "suicide",
	"murder", "fraud", "collapse", "recession", "covid", "ebola", "hiv", "abuse", "crash", "explosion",
	"bomb", "kill", "killed", "hate", "disaster", "flood", "wildfire", "hostage", "terror", "stabbing",
	"injured", "arrested", "charges", "charged", "indicted", "sanction",
}

// strongPositive is the last-resort heuristic over strong positive phrases.
var strongPositive = regexp.MustCompile(`(?i)good news|feel[-\s]?good|heartwarming|inspir|uplift|kind|smile|adorable|celebrat|award`)

// DefaultRules are the category rules in declaration order.
var DefaultRules = []Rule{
	{Name: "Community", Words: []string{"community", "neighbors", "volunteer", "teacher", "students", "school", "donate", "fundraiser", "local", "town", "village"}},
	{Name: "Wildlife", Words: []string{"wildlife", "conservation", "habitat", "rescue", "species", "sanctuary", "marine", "turtle", "whale", "elephant", "rhino", "bird", "rehabilitation"}},
	{Name: "Science", Words: []string{"breakthrough", "cancer", "therapy", "trial", "vaccine", "research", "battery", "fusion", "quantum", "prosthetic", "gene"}},
	{Name: "Climate", Words: []string{"solar", "wind", "geothermal", "clean energy", "emissions", "recycling", "reforestation", "climate", "renewable"}},
	{Name: "Humanity", Words: []string{"heartwarming", "kindness", "uplifting", "reunited", "saved", "rescued", "hope", "smile", "hero", "donates"}},
	{Name: "Arts", Words: []string{"artist", "art", "music", "orchestra", "film", "festival", "museum", "exhibit"}},
}

// containsAny distinguishes phrases and short words so that a flag like
// "war" never matches inside "award".
func containsAny(text string, words []string) bool {
	for _, w := range words {
		if w == "" {
			continue
		}

		// Phrases (containing a space) match as plain substrings.
		if strings.Contains(w, " ") {
			if strings.Contains(text, w) {
				return true
			}
			continue
		}

		// Short tokens need a whole-word match.
		if len(w) <= 3 {
			re := regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
			if re.MatchString(text) {
				return true
			}
			continue
		}

		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// IsPositive reports whether the text reads as an uplifting story. Any
// negative flag rejects outright, regardless of positive signals. Without a
// positive hint the broader strong-positive heuristic gets the final word.
func IsPositive(text string) bool {
	t := strings.ToLower(text)
	if containsAny(t, negativeFlags) {
		return false
	}
	if containsAny(t, positiveHints) {
		return true
	}
	return strongPositive.MatchString(t)
}

// Categorize tags the text with every matching rule in declaration order,
// capped at MaxCategories and deduplicated. A story with no matching rule
// gets the default tag, so the result is never empty.
func Categorize(text string, rules []Rule) []string {
	t := strings.ToLower(text)
	var cats []string
	seen := make(map[string]struct{}, MaxCategories)
	for _, r := range rules {
		if len(cats) >= MaxCategories {
			break
		}
		if _, dup := seen[r.Name]; dup {
			continue
		}
		if containsAny(t, r.Words) {
			seen[r.Name] = struct{}{}
			cats = append(cats, r.Name)
		}
	}
	if len(cats) == 0 {
		cats = []string{DefaultCategory}
	}
	return cats
}
