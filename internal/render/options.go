// Package render turns formatted chat content and help text into terminal output.
package render

import "os"

// Options configures the markdown renderer behavior.
type Options struct {
	// Width defines the maximum output width (default: 80)
	Width int

	// Style is a glamour style name ("dark", "light", "dracula", "notty") or a JSON file path
	Style string
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width: 80,
		Style: "dark",
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// OptionsForTheme picks the glamour style matching a TUI theme.
// GLAMOUR_STYLE, when set, wins.
func OptionsForTheme(themeName string) Options {
	opts := DefaultOptions()
	if themeName == DraculaTheme.Name {
		opts.Style = "dracula"
	}
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}
