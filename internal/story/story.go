// Package story defines the canonical Story record and the normalization of
// raw feed entries into it.
package story

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	// MaxIDLength bounds the stable id derived from guid/link/title.
	MaxIDLength = 180
	// MaxExcerptLength caps the plain-text excerpt.
	MaxExcerptLength = 300
)

// Story is the canonical, normalized representation of one feed entry.
type Story struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Site        string    `json:"site"`
	SourceTitle string    `json:"sourceTitle"`
	PublishedAt time.Time `json:"isoDate"`
	Excerpt     string    `json:"excerpt"`
	Image       *string   `json:"image"`
	Region      *string   `json:"region"`
	Categories  []string  `json:"categories"`
}

// Normalize maps one raw feed entry to a Story. Deterministic for the same
// inputs: entries without a usable timestamp get fetchTime, and region comes
// from the caller's registry lookup ("" means region-agnostic). Categories
// are left empty for the classifier to fill.
func Normalize(item *gofeed.Item, feedTitle, region string, fetchTime time.Time) Story {
	link := item.Link
	if link == "" {
		link = item.GUID
	}
	site := siteFromLink(link)

	sourceTitle := strings.TrimSpace(feedTitle)
	if sourceTitle == "" {
		sourceTitle = site
	}

	published := fetchTime
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	s := Story{
		ID:          makeID(item),
		Title:       strings.TrimSpace(item.Title),
		Link:        link,
		Site:        site,
		SourceTitle: sourceTitle,
		PublishedAt: published,
		Excerpt:     Excerpt(item),
	}
	if img := imageURL(item); img != "" {
		s.Image = &img
	}
	if region != "" {
		s.Region = &region
	}
	return s
}

// makeID derives a stable id from guid, link or title, bounded in length.
// Truncation counts runes so a multibyte id stays valid UTF-8.
func makeID(item *gofeed.Item) string {
	id := item.GUID
	if id == "" {
		id = item.Link
	}
	if id == "" {
		id = item.Title
	}
	if runes := []rune(id); len(runes) > MaxIDLength {
		id = string(runes[:MaxIDLength])
	}
	return id
}

// Excerpt extracts a plain-text summary from the richest available field,
// preferring full content over the summary/snippet.
func Excerpt(item *gofeed.Item) string {
	raw := item.Content
	if strings.TrimSpace(raw) == "" {
		raw = item.Description
	}
	text := StripHTML(raw)
	return truncateAtSentence(text, MaxExcerptLength)
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// StripHTML converts an HTML fragment to collapsed plain text.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	text := s
	if strings.ContainsRune(s, '<') {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			text = doc.Text()
		} else {
			text = tagPattern.ReplaceAllString(s, " ")
		}
	}
	return strings.Join(strings.Fields(text), " ")
}

// truncateAtSentence caps text at max runes, preferring to cut after the last
// sentence end in the window. Truncated text gets an ellipsis marker.
func truncateAtSentence(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	window := runes[:max]
	cut := max
	for i := len(window) - 1; i >= max/2; i-- {
		if window[i] == '.' || window[i] == '!' || window[i] == '?' {
			cut = i + 1
			break
		}
	}
	return strings.TrimSpace(string(window[:cut])) + "…"
}

// imageURL picks an image from an enclosure or media reference, if any.
func imageURL(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" {
			return enc.URL
		}
	}
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	if media, ok := item.Extensions["media"]; ok {
		for _, ext := range media["content"] {
			if u := ext.Attrs["url"]; u != "" {
				return u
			}
		}
	}
	return ""
}

// siteFromLink returns the hostname of an absolute link with any leading
// "www." stripped, or "" when the link is not a usable absolute URL.
func siteFromLink(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
