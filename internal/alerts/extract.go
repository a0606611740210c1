// Package alerts turns a parsed Google Alert notification email into a
// structured Alert record using text and HTML heuristics.
package alerts

import (
	"regexp"
	"strings"
	"time"
)

// snippetFallbackLength bounds the plain-text fallback snippet
const snippetFallbackLength = 500

var (
	subjectPattern = regexp.MustCompile(`Google Alert for:\s*(.+)`)
	urlPattern     = regexp.MustCompile(`https?://[^\s"<>]+`)
	h3Pattern      = regexp.MustCompile(`(?is)<h3[^>]*>(.*?)</h3>`)
	pPattern       = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
)

// Alert is the ephemeral record derived from one notification email.
// An empty Query means the message is not a genuine Google Alert.
type Alert struct {
	Query   string    `json:"query"`
	URL     string    `json:"url"`
	Title   string    `json:"title"`
	Snippet string    `json:"snippet"`
	Date    time.Time `json:"date"`
}

// Message is the parsed email the extraction heuristics operate on
type Message struct {
	Subject  string
	TextBody string
	HTMLBody string
	Date     time.Time
}

// Extract derives an Alert from a parsed email. Field rules:
//   - Query: trimmed capture of "Google Alert for: <query>" in the subject,
//     empty if the subject does not match.
//   - URL: first http(s) URL in the text body, falling back to the HTML body.
//   - Title: inner text of the first <h3> in the HTML body with tags
//     stripped, falling back to Query.
//   - Snippet: inner text of the first <p> with tags stripped, falling back
//     to the first 500 characters of the text body.
func Extract(msg Message) Alert {
	alert := Alert{Date: msg.Date}

	if m := subjectPattern.FindStringSubmatch(msg.Subject); m != nil {
		alert.Query = strings.TrimSpace(m[1])
	}

	if m := urlPattern.FindString(msg.TextBody); m != "" {
		alert.URL = m
	} else {
		alert.URL = urlPattern.FindString(msg.HTMLBody)
	}

	alert.Title = alert.Query
	if m := h3Pattern.FindStringSubmatch(msg.HTMLBody); m != nil {
		if title := stripTags(m[1]); title != "" {
			alert.Title = title
		}
	}

	if m := pPattern.FindStringSubmatch(msg.HTMLBody); m != nil {
		alert.Snippet = stripTags(m[1])
	}
	if alert.Snippet == "" {
		text := strings.TrimSpace(msg.TextBody)
		if runes := []rune(text); len(runes) > snippetFallbackLength {
			text = string(runes[:snippetFallbackLength])
		}
		alert.Snippet = text
	}

	return alert
}

// stripTags removes HTML tags and collapses the remaining whitespace
func stripTags(html string) string {
	s := tagPattern.ReplaceAllString(html, "")
	return strings.Join(strings.Fields(s), " ")
}
