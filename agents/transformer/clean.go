package transformer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"youtube-trends/internal/models"
)

var nonASCII = regexp.MustCompile(`[^\x00-\x7F]+`)

// Literal targets, not the real HTML entities (&amp; and &#39;). Processed
// datasets depend on these exact strings.
var titleReplacer = []struct{ old, new string }{
	{"$amp;", "&"},
	{"&#39;;", "'"},
}

// CleanTitle strips every non-ASCII code point, applies the literal entity
// replacements and trims surrounding whitespace. It is idempotent.
func CleanTitle(title string) string {
	title = nonASCII.ReplaceAllString(title, "")
	for _, r := range titleReplacer {
		title = strings.ReplaceAll(title, r.old, r.new)
	}
	return strings.TrimSpace(title)
}

// TitleLength counts characters, not bytes.
func TitleLength(title string) int {
	return utf8.RuneCountInString(title)
}

// Flags holds the keyword features of a cleaned title.
type Flags struct {
	AI       bool
	Music    bool
	Google   bool
	Tutorial bool
	News     bool
}

var newsKeywords = []string{"breaking", "news", "update", "world", "report"}

// DeriveFlags runs the case-insensitive substring checks. Plain substring
// matching means "ai" also hits words like "rain" or "explained".
func DeriveFlags(title string) Flags {
	lower := strings.ToLower(title)
	return Flags{
		AI:       strings.Contains(lower, "ai"),
		Music:    strings.Contains(lower, "music"),
		Google:   strings.Contains(lower, "google"),
		Tutorial: strings.Contains(lower, "how"),
		News:     containsAny(lower, newsKeywords),
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Categorize picks the first matching label in the order
// Music, AI, Google Cloud, Tutorial, News.
func Categorize(f Flags) models.Category {
	switch {
	case f.Music:
		return models.CategoryMusic
	case f.AI:
		return models.CategoryAI
	case f.Google:
		return models.CategoryGoogleCloud
	case f.Tutorial:
		return models.CategoryTutorial
	case f.News:
		return models.CategoryNews
	default:
		return models.CategoryOther
	}
}
