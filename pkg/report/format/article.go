package format

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// DefaultWrap is the article word wrap width when the terminal width is
// unknown.
const DefaultWrap = 80

// ArticleOptions controls terminal article rendering.
type ArticleOptions struct {
	// Style is a glamour style name or path ("dark", "light", "notty").
	// Empty picks one from the terminal background.
	Style string

	// Width is the word wrap width. If 0, it follows the terminal.
	Width int
}

// RenderArticle renders markdown for the terminal and writes it to w.
func RenderArticle(markdown []byte, w io.Writer, opts ArticleOptions) error {
	width := opts.Width
	if width <= 0 {
		width = detectTerminalWidth(w)
		if width <= 0 {
			width = DefaultWrap
		}
	}

	style := glamour.WithAutoStyle()
	if opts.Style != "" {
		style = glamour.WithStylePath(opts.Style)
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return fmt.Errorf("failed to create article renderer: %w", err)
	}
	out, err := r.Render(string(markdown))
	if err != nil {
		return fmt.Errorf("failed to render article: %w", err)
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed writing article: %w", err)
	}
	return nil
}
