package presentation

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/tomatitito/atuin-bar/pkg/overlay"
)

const (
	selectedMarker = "> "
	plainMarker    = "  "
	ellipsis       = "…"
	minCommandCols = 12
)

// FormatRow renders one result row for a view width cells wide. Matched
// query characters are highlighted and the metadata is right-aligned when
// it fits.
func FormatRow(row overlay.Row, width int, theme *Theme) string {
	statusColor, statusMark := theme.Success, "✓"
	if !row.Succeeded {
		statusColor, statusMark = theme.Failure, "✗"
	}

	marker := plainMarker
	if row.Selected {
		marker = selectedMarker
	}

	// marker, status mark and the space after it
	prefix := runewidth.StringWidth(marker) + 2
	meta := row.Meta
	available := width - prefix - runewidth.StringWidth(meta) - 1
	if available < minCommandCols {
		meta = ""
		available = width - prefix
	}
	if available < 1 {
		available = 1
	}

	text := runewidth.Truncate(flatten(row.Text), available, ellipsis)

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString(statusColor + statusMark + Reset + " ")
	b.WriteString(Highlight(text, row.Matches, theme.Match))
	if meta != "" {
		pad := available - runewidth.StringWidth(text) + 1
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(theme.Muted + meta + Reset)
	}
	return b.String()
}

// Highlight wraps the runes starting at the given byte offsets in color.
func Highlight(text string, offsets []int, color string) string {
	if len(offsets) == 0 || color == "" {
		return text
	}

	matched := make(map[int]bool, len(offsets))
	for _, i := range offsets {
		matched[i] = true
	}

	var b strings.Builder
	for i, r := range text {
		if matched[i] {
			b.WriteString(color)
			b.WriteRune(r)
			b.WriteString(Reset)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatResults renders every row of d, one per line.
func FormatResults(d overlay.Display, width int, theme *Theme) string {
	lines := make([]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		lines = append(lines, FormatRow(row, width, theme))
	}
	return strings.Join(lines, "\n")
}

// ResultsTitle is the results frame title, e.g. "3 of 20".
func ResultsTitle(d overlay.Display) string {
	if d.Total == 0 {
		return ""
	}
	selected := 0
	for _, row := range d.Rows {
		if row.Selected {
			selected = row.Index + 1
		}
	}
	return fmt.Sprintf(" %d of %d ", selected, d.Total)
}

// flatten keeps byte offsets intact so match positions stay valid.
func flatten(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}
