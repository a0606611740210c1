// Package content holds the deterministic text-derivation helpers shared by
// the alert ingestor and the post writer. All functions are pure.
package content

import (
	"math"
	"regexp"
	"strings"
)

const (
	// ExcerptLength is the number of characters kept before the ellipsis
	ExcerptLength = 160
	// WordsPerMinute is the reading speed used for reading-time estimates
	WordsPerMinute = 200
)

var (
	slugStripPattern = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRuns   = regexp.MustCompile(`\s+`)
	headingMarkers   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	newlineRuns      = regexp.MustCompile(`\n+`)
)

// Slugify derives a URL-safe identifier from text: lower-case, strip every
// character outside [a-z0-9], whitespace and hyphens, then collapse
// whitespace runs to single hyphens. maxLen <= 0 means no truncation.
// Underscores are stripped, not kept: "Foo_Bar" becomes "foobar".
func Slugify(text string, maxLen int) string {
	s := strings.ToLower(text)
	s = slugStripPattern.ReplaceAllString(s, "")
	s = whitespaceRuns.ReplaceAllString(strings.TrimSpace(s), "-")
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// Excerpt derives a short plain-text teaser from a markdown body: heading
// and bold markers removed, newlines collapsed to spaces, truncated to
// ExcerptLength characters with a literal "..." appended.
func Excerpt(markdown string) string {
	s := headingMarkers.ReplaceAllString(markdown, "")
	s = strings.ReplaceAll(s, "**", "")
	s = newlineRuns.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if runes := []rune(s); len(runes) > ExcerptLength {
		s = string(runes[:ExcerptLength])
	}
	return s + "..."
}

// ReadingTime estimates reading time in minutes as the ceiling of the
// whitespace-delimited word count over WordsPerMinute.
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	return int(math.Ceil(float64(words) / float64(WordsPerMinute)))
}
