package mailbox

import (
	"bytes"
	"io"
	"mime"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
)

// ParsedMessage is the subset of an email the pipeline cares about
type ParsedMessage struct {
	Subject  string
	TextBody string
	HTMLBody string
	Date     time.Time
}

// Parse parses a raw RFC 822 message into subject, text body, HTML body and
// date. Multipart messages are walked recursively; the first text/plain and
// first text/html parts win. Messages go-message cannot read fall back to
// net/mail with the whole body treated as plain text.
func Parse(raw []byte) (*ParsedMessage, error) {
	entity, err := message.Read(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return parseFallback(raw)
	}

	parsed := &ParsedMessage{
		Subject: decodeHeader(entity.Header.Get("Subject")),
	}
	if date, err := mail.ParseDate(entity.Header.Get("Date")); err == nil {
		parsed.Date = date
	}

	walkEntity(entity, parsed)
	return parsed, nil
}

// parseFallback handles messages go-message rejects
func parseFallback(raw []byte) (*ParsedMessage, error) {
	m, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	parsed := &ParsedMessage{
		Subject: decodeHeader(m.Header.Get("Subject")),
	}
	if date, err := m.Header.Date(); err == nil {
		parsed.Date = date
	}

	body, _ := io.ReadAll(m.Body)
	parsed.TextBody = string(body)
	return parsed, nil
}

// walkEntity recursively collects the first text/plain and text/html parts
func walkEntity(entity *message.Entity, parsed *ParsedMessage) {
	mediaType, _, _ := entity.Header.ContentType()

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		mr := entity.MultipartReader()
		if mr == nil {
			return
		}
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			walkEntity(part, parsed)
		}
	case mediaType == "text/plain" && parsed.TextBody == "":
		body, _ := io.ReadAll(entity.Body)
		parsed.TextBody = string(body)
	case mediaType == "text/html" && parsed.HTMLBody == "":
		body, _ := io.ReadAll(entity.Body)
		parsed.HTMLBody = string(body)
	}
}

// decodeHeader decodes MIME encoded-word headers (e.g. =?utf-8?B?...?=)
func decodeHeader(value string) string {
	dec := new(mime.WordDecoder)
	if decoded, err := dec.DecodeHeader(value); err == nil {
		return decoded
	}
	return value
}
