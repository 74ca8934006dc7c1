package format

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Segment
	}{
		{
			name:    "timestamp and title",
			content: "3:45 📹 Intro Video",
			want: []Segment{
				{Kind: KindTimestamp, Text: "3:45"},
				{Kind: KindText, Text: " "},
				{Kind: KindTitle, Text: "📹 Intro Video"},
			},
		},
		{
			name:    "line break",
			content: "line1\nline2",
			want: []Segment{
				{Kind: KindText, Text: "line1"},
				{Kind: KindLineBreak},
				{Kind: KindText, Text: "line2"},
			},
		},
		{
			name:    "agent reply with title and timestamp",
			content: "📹 Video 2: at 2:30 we discuss...",
			want: []Segment{
				{Kind: KindTitle, Text: "📹 Video 2: at "},
				{Kind: KindTimestamp, Text: "2:30"},
				{Kind: KindText, Text: " we discuss..."},
			},
		},
		{
			name:    "consecutive line breaks are kept",
			content: "a\n\nb",
			want: []Segment{
				{Kind: KindText, Text: "a"},
				{Kind: KindLineBreak},
				{Kind: KindLineBreak},
				{Kind: KindText, Text: "b"},
			},
		},
		{
			name:    "empty",
			content: "",
			want:    []Segment{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segments(tt.content)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Segments(%q) mismatch (-want +got):\n%s", tt.content, diff)
			}
		})
	}
}

func TestParse_BrowserSemantics(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   []Segment
	}{
		{
			name:   "unknown tags keep their text",
			markup: "<b>bold</b> and <i>italic</i>",
			want:   []Segment{{Kind: KindText, Text: "bold and italic"}},
		},
		{
			name:   "entities are decoded",
			markup: "a &amp; b &lt;3",
			want:   []Segment{{Kind: KindText, Text: "a & b <3"}},
		},
		{
			name:   "nested tag inside title stays a title",
			markup: `<strong class="video-title">📹 <em>Intro</em></strong> after`,
			want: []Segment{
				{Kind: KindTitle, Text: "📹 Intro"},
				{Kind: KindText, Text: " after"},
			},
		},
		{
			name:   "self-closing br",
			markup: "a<br/>b",
			want: []Segment{
				{Kind: KindText, Text: "a"},
				{Kind: KindLineBreak},
				{Kind: KindText, Text: "b"},
			},
		},
		{
			name:   "script and style bodies are not shown",
			markup: "a<script>alert(1)</script>b<style>.x{color:red}</style>c",
			want:   []Segment{{Kind: KindText, Text: "abc"}},
		},
		{
			name:   "script inside a title hides only its body",
			markup: `<strong class="video-title">📹 Intro<script>x()</script></strong>`,
			want:   []Segment{{Kind: KindTitle, Text: "📹 Intro"}},
		},
		{
			name:   "void element does not open a level",
			markup: `<img src="x.png">text`,
			want:   []Segment{{Kind: KindText, Text: "text"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.markup)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.markup, diff)
			}
		})
	}
}

func TestPlain(t *testing.T) {
	content := "📹 Rotations\nTime: 1:05 - 2:10"
	if got := Plain(Segments(content)); got != content {
		t.Errorf("Plain(Segments(%q)) = %q", content, got)
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindText:      "text",
		KindTimestamp: "timestamp",
		KindTitle:     "title",
		KindLineBreak: "linebreak",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
