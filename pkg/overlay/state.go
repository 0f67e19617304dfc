package overlay

import (
	"github.com/tomatitito/atuin-bar/pkg/atuin"
	"github.com/tomatitito/atuin-bar/pkg/history"
)

// NoSelection is the SelectedIndex of an empty or cleared result list.
const NoSelection = -1

// FilterInput holds the raw text of the filter panel inputs.
type FilterInput struct {
	Directory  string
	ExitFilter string
	TimeRange  string
}

// Filters converts the inputs into search filters, nil when all are empty.
func (f FilterInput) Filters() *atuin.SearchFilters {
	return atuin.NewSearchFilters(f.Directory, f.ExitFilter, f.TimeRange)
}

// State is everything the overlay shows. Transitions below never mutate
// their argument's Results slice; a new search replaces it wholesale.
type State struct {
	Query          string
	Filters        FilterInput
	Results        []history.SearchResult
	SelectedIndex  int
	FiltersVisible bool
	PopupVisible   bool
	PopupIndex     int
	Searching      bool
	Status         string
}

// NewState returns the empty overlay state.
func NewState() State {
	return State{
		Results:       []history.SearchResult{},
		SelectedIndex: NoSelection,
		PopupIndex:    NoSelection,
	}
}

// HasSelection reports whether SelectedIndex points into Results.
func (s State) HasSelection() bool {
	return s.SelectedIndex >= 0 && s.SelectedIndex < len(s.Results)
}

// Selected returns the highlighted result.
func (s State) Selected() (history.SearchResult, bool) {
	if !s.HasSelection() {
		return history.SearchResult{}, false
	}
	return s.Results[s.SelectedIndex], true
}

// ActiveFilters returns the filters sent with a search. Filters only apply
// while their panel is shown.
func (s State) ActiveFilters() *atuin.SearchFilters {
	if !s.FiltersVisible {
		return nil
	}
	return s.Filters.Filters()
}

// MoveDown advances the selection, stopping at the last result.
func MoveDown(s State) State {
	if len(s.Results) == 0 {
		return s
	}
	s.SelectedIndex = min(s.SelectedIndex+1, len(s.Results)-1)
	return hidePopup(s)
}

// MoveUp moves the selection back, stopping at the first result.
func MoveUp(s State) State {
	if len(s.Results) == 0 {
		return s
	}
	s.SelectedIndex = max(s.SelectedIndex-1, 0)
	return hidePopup(s)
}

// ApplyResults replaces the result list and selects the first entry.
func ApplyResults(s State, results []history.SearchResult) State {
	if results == nil {
		results = []history.SearchResult{}
	}
	s.Results = results
	s.SelectedIndex = NoSelection
	if len(results) > 0 {
		s.SelectedIndex = 0
	}
	s.Searching = false
	return hidePopup(s)
}

// ClearResults empties the result list and the selection.
func ClearResults(s State) State {
	s.Results = []history.SearchResult{}
	s.SelectedIndex = NoSelection
	s.Searching = false
	return hidePopup(s)
}

// ShowPopup opens the detail popup for result i. Out-of-range indexes hide it.
func ShowPopup(s State, i int) State {
	if i < 0 || i >= len(s.Results) {
		return hidePopup(s)
	}
	s.PopupVisible = true
	s.PopupIndex = i
	return s
}

// HidePopup closes the detail popup.
func HidePopup(s State) State {
	return hidePopup(s)
}

// Reset clears the query, filters, results, selection and popup. The filter
// panel keeps its visibility.
func Reset(s State) State {
	fresh := NewState()
	fresh.FiltersVisible = s.FiltersVisible
	return fresh
}

func hidePopup(s State) State {
	s.PopupVisible = false
	s.PopupIndex = NoSelection
	return s
}
