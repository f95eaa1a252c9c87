package steps

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// Apostrophes and periods bind to the word they follow ("St.", "Mary's")
	// and vanish instead of splitting it.
	slugIntraWord = strings.NewReplacer("'", "", "’", "", ".", "")
	slugNonAlnum  = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify builds a URL slug from a school name: lowercase, intra-word
// punctuation dropped, remaining non-alphanumeric runs collapse to a single
// hyphen, no leading or trailing hyphen.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = slugIntraWord.Replace(s)
	s = slugNonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// DisambiguateSlug appends a base-36 timestamp fragment so a colliding slug
// becomes unique without losing readability.
func DisambiguateSlug(slug string, now time.Time) string {
	return slug + "-" + strconv.FormatInt(now.UnixMilli(), 36)
}
