package overlay

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/tomatitito/atuin-bar/pkg/history"
)

// Row is one rendered result.
type Row struct {
	Index     int
	Text      string
	Meta      string
	Selected  bool
	Succeeded bool
	// Matches holds byte offsets into Text matched by the query.
	Matches []int
}

// PopupDisplay describes the detail popup of one result.
type PopupDisplay struct {
	Row    int
	Result history.SearchResult
}

// Display is the render output for one State.
type Display struct {
	Query          string
	Rows           []Row
	Offset         int
	Total          int
	FiltersVisible bool
	Filters        FilterInput
	Popup          *PopupDisplay
	Searching      bool
	Status         string
	Size           Size
}

// Render describes what the overlay shows for s. Result order is never
// changed; rows scroll so that the selection stays visible.
func Render(l Layout, s State) Display {
	d := Display{
		Query:          s.Query,
		Total:          len(s.Results),
		FiltersVisible: s.FiltersVisible,
		Filters:        s.Filters,
		Searching:      s.Searching,
		Status:         s.Status,
		Size:           ComputeSize(l, s),
	}

	visible := l.visibleRows(len(s.Results))
	if s.SelectedIndex >= visible {
		// A selection past the end keeps the last page on screen.
		d.Offset = min(s.SelectedIndex-visible+1, len(s.Results)-visible)
	}

	pattern := strings.TrimSpace(s.Query)
	d.Rows = make([]Row, 0, visible)
	for i := d.Offset; i < d.Offset+visible; i++ {
		r := s.Results[i]
		d.Rows = append(d.Rows, Row{
			Index:     i,
			Text:      r.Command,
			Meta:      r.Summary(),
			Selected:  i == s.SelectedIndex,
			Succeeded: r.Succeeded(),
			Matches:   matches(pattern, r.Command),
		})
	}

	if s.PopupVisible && s.PopupIndex >= 0 && s.PopupIndex < len(s.Results) {
		d.Popup = &PopupDisplay{Row: s.PopupIndex - d.Offset, Result: s.Results[s.PopupIndex]}
	}
	return d
}

func matches(pattern, text string) []int {
	if pattern == "" {
		return nil
	}
	found := fuzzy.Find(pattern, []string{text})
	if len(found) == 0 {
		return nil
	}
	return found[0].MatchedIndexes
}
