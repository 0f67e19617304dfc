package presentation

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/tomatitito/atuin-bar/pkg/history"
)

// PopupMarkdown describes one history entry as markdown.
func PopupMarkdown(r history.SearchResult) string {
	outcome := "succeeded"
	if !r.Succeeded() {
		outcome = "failed"
	}

	var b strings.Builder
	b.WriteString("```sh\n")
	b.WriteString(r.Command)
	b.WriteString("\n```\n\n")
	fmt.Fprintf(&b, "- **Exit:** %s (%s)\n", r.ExitCode, outcome)
	fmt.Fprintf(&b, "- **Directory:** `%s`\n", r.Directory)
	fmt.Fprintf(&b, "- **When:** %s\n", r.Timestamp)
	return b.String()
}

// PopupRenderer renders popup markdown with glamour, rebuilding the
// renderer only when the width or style changes.
type PopupRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewPopupRenderer creates a renderer for a glamour standard style.
func NewPopupRenderer(style string) *PopupRenderer {
	return &PopupRenderer{style: style}
}

// Render returns r rendered for a view width cells wide.
func (p *PopupRenderer) Render(r history.SearchResult, width int) (string, error) {
	if width < 10 {
		width = 10
	}
	if p.renderer == nil || p.width != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(p.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		p.renderer = renderer
		p.width = width
	}

	out, err := p.renderer.Render(PopupMarkdown(r))
	if err != nil {
		return "", fmt.Errorf("failed to render popup: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}
