package format

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	MARKDOWN_STYLE     = "dark"
	DEFAULT_WRAP_WIDTH = 80
)

// FormatMarkdown renders a model reply for the terminal.
func FormatMarkdown(text string) (string, error) {
	return FormatMarkdownWidth(text, DEFAULT_WRAP_WIDTH)
}

// FormatMarkdownWidth wraps at width, or at DEFAULT_WRAP_WIDTH when width is
// not positive. Emoji shortcodes are expanded since personas use them a lot.
func FormatMarkdownWidth(text string, width int) (string, error) {
	if width <= 0 {
		width = DEFAULT_WRAP_WIDTH
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(MARKDOWN_STYLE),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return "", err
	}
	out, err := renderer.Render(text)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
