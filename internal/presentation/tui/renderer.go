package tui

import (
	"github.com/aretw0/voyage/pkg/runner"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a content renderer that turns markdown into ANSI using glamour.
// If the renderer cannot be built, content is printed unchanged.
func NewRenderer() runner.ContentRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
