// Package format turns raw agent replies into lightly marked-up text.
//
// Format reproduces the chat widget's transform exactly: line breaks become <br>,
// m:ss timestamps are wrapped in a timestamp span, and a 📹 marker followed by text
// is wrapped as an emphasized video title. The output is markup, not escaped text:
// input is trusted, so a caller displaying replies from an untrusted source must
// sanitize before calling Format.
package format

import (
	"regexp"
	"strings"
)

// TitleMarker is the glyph that introduces a video title
const TitleMarker = "📹"

// CSS classes emitted by Format
const (
	ClassTimestamp  = "timestamp"
	ClassVideoTitle = "video-title"
)

var (
	timestampPattern = regexp.MustCompile(`(\d+:\d+)`)
	titlePattern     = regexp.MustCompile(`(` + TitleMarker + `\s*[^<]+)`)
)

// Format applies the three passes in order. It is meant for a single application to
// raw text; running it again over its own output nests markers.
func Format(content string) string {
	content = strings.ReplaceAll(content, "\n", "<br>")
	content = timestampPattern.ReplaceAllString(content, `<span class="`+ClassTimestamp+`">${1}</span>`)
	content = titlePattern.ReplaceAllString(content, `<strong class="`+ClassVideoTitle+`">${1}</strong>`)
	return content
}
