package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/tutorchat/internal/format"
)

// SegmentStyles maps each kind of formatted run to a terminal style
type SegmentStyles struct {
	Text      lipgloss.Style
	Timestamp lipgloss.Style
	Title     lipgloss.Style
}

// StylesForTheme builds the timestamp and video-title highlights for a theme
func StylesForTheme(theme TUITheme) SegmentStyles {
	return SegmentStyles{
		Text: lipgloss.NewStyle().Foreground(theme.Text),
		Timestamp: lipgloss.NewStyle().
			Foreground(theme.Highlight).
			Background(theme.HighlightBg).
			Bold(true),
		Title: lipgloss.NewStyle().
			Foreground(theme.Highlight).
			Bold(true),
	}
}

// PlainStyles renders every run unstyled, for pipes and --raw output
func PlainStyles() SegmentStyles {
	return SegmentStyles{
		Text:      lipgloss.NewStyle(),
		Timestamp: lipgloss.NewStyle(),
		Title:     lipgloss.NewStyle(),
	}
}

// Segments renders formatted runs with the given styles. Line breaks become newlines.
func Segments(segs []format.Segment, styles SegmentStyles) string {
	var sb strings.Builder
	for _, s := range segs {
		switch s.Kind {
		case format.KindLineBreak:
			sb.WriteString("\n")
		case format.KindTimestamp:
			sb.WriteString(styles.Timestamp.Render(s.Text))
		case format.KindTitle:
			sb.WriteString(styles.Title.Render(s.Text))
		default:
			sb.WriteString(styles.Text.Render(s.Text))
		}
	}
	return sb.String()
}

// Content formats raw message content and renders it in one step
func Content(content string, styles SegmentStyles) string {
	return Segments(format.Segments(content), styles)
}
