// Package render turns replies and flight listings into terminal output.
package render

import (
	"os"

	"github.com/Elijahuni/chatbot-1/internal/config"
)

// EnvStyle overrides the configured glamour style
const EnvStyle = "GLAMOUR_STYLE"

// Options configures the markdown renderer behavior.
type Options struct {
	// Width is the word wrap column (default: 80)
	Width int

	// Style is a glamour style name ("dark", "light", "dracula", "tokyo-night",
	// "notty", "ascii") or a path to a JSON style file
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	if width > 0 {
		o.Width = width
	}
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// OptionsFromConfig applies the markdown section of cfg on top of the
// defaults. GLAMOUR_STYLE wins over the configured style.
func OptionsFromConfig(md config.MarkdownConfig, width int) Options {
	opts := DefaultOptions().WithWidth(width)
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap

	if style := os.Getenv(EnvStyle); style != "" {
		opts.Style = style
	}
	return opts
}

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// MarkdownOrPlain renders content and falls back to the raw text on failure
func MarkdownOrPlain(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return out
}

// StyleNames lists the glamour styles offered by `config set markdown.style`
func StyleNames() []string {
	return []string{"dark", "light", "dracula", "tokyo-night", "pink", "notty", "ascii"}
}
