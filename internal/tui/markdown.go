package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	glamourRenderer     *glamour.TermRenderer //nolint:gochecknoglobals // cached renderer
	glamourRendererOnce sync.Once             //nolint:gochecknoglobals // guards glamourRenderer
)

func getGlamourRenderer() *glamour.TermRenderer {
	glamourRendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(DefaultBoxWidth),
		)
		if err == nil {
			glamourRenderer = r
		}
	})
	return glamourRenderer
}

// RenderMarkdown renders collaborator narratives for a terminal. When styled
// output is off, or rendering fails, the text is returned unchanged.
func RenderMarkdown(text string, styled bool) string {
	if !styled || strings.TrimSpace(text) == "" {
		return text
	}
	r := getGlamourRenderer()
	if r == nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
