package format

import (
	"strings"

	"golang.org/x/net/html"
)

// Kind classifies a run of formatted text
type Kind int

const (
	KindText Kind = iota
	KindTimestamp
	KindTitle
	KindLineBreak
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindTimestamp:
		return "timestamp"
	case KindTitle:
		return "title"
	case KindLineBreak:
		return "linebreak"
	default:
		return "text"
	}
}

// Segment is one styled run of a formatted message
type Segment struct {
	Kind Kind
	Text string
}

// voidElements never get an end tag, so they must not open a nesting level
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true, "wbr": true,
}

// hiddenElements hold raw text a browser parses but never shows
var hiddenElements = map[string]bool{"script": true, "style": true}

// Segments formats raw content and splits it into styled runs
func Segments(content string) []Segment {
	return Parse(Format(content))
}

// Parse reads markup the way a browser fills innerHTML: entities are decoded, <br>
// becomes a line break, timestamp and video-title elements become styled runs, and
// any other element is dropped while its text is kept. Script and style bodies are
// never displayed.
func Parse(markup string) []Segment {
	z := html.NewTokenizer(strings.NewReader(markup))

	var segs []Segment
	var stack []Kind
	hidden := 0

	current := func() Kind {
		if len(stack) == 0 {
			return KindText
		}
		return stack[len(stack)-1]
	}

	for {
		switch tt := z.Next(); tt {
		case html.ErrorToken:
			return merge(segs)

		case html.TextToken:
			if hidden > 0 {
				continue
			}
			segs = append(segs, Segment{Kind: current(), Text: string(z.Text())})

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if tag == "br" {
				segs = append(segs, Segment{Kind: KindLineBreak})
				continue
			}
			if voidElements[tag] {
				continue
			}
			if tt == html.StartTagToken && hiddenElements[tag] {
				hidden++
			}

			kind := current()
			if hasAttr {
				switch classOf(z) {
				case ClassTimestamp:
					kind = KindTimestamp
				case ClassVideoTitle:
					kind = KindTitle
				}
			}
			// A self-closing slash on a non-void element is ignored by browsers too.
			stack = append(stack, kind)

		case html.EndTagToken:
			if name, _ := z.TagName(); hiddenElements[string(name)] && hidden > 0 {
				hidden--
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// classOf returns the class attribute of the current tag
func classOf(z *html.Tokenizer) string {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "class" {
			return strings.TrimSpace(string(val))
		}
		if !more {
			return ""
		}
	}
}

// merge joins adjacent runs of the same kind and drops empty text runs
func merge(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		if s.Kind != KindLineBreak && s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && s.Kind != KindLineBreak && out[n-1].Kind == s.Kind {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}

// Plain joins segments back into unstyled text with real newlines
func Plain(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		if s.Kind == KindLineBreak {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(s.Text)
	}
	return sb.String()
}
