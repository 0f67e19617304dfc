package overlay

// Layout holds the fixed dimensions the overlay size is computed from.
// Units are terminal cells.
type Layout struct {
	Width       int
	Base        int
	FilterPanel int
	RowHeight   int
	MaxVisible  int
	Padding     int
	PopupHeight int
}

// Size is the overlay size requested from the Window.
type Size struct {
	Width  int
	Height int
}

// DefaultLayout returns the terminal layout: a framed one-line query box, a
// framed row of filter inputs, one line per result inside a framed list and
// a framed detail popup.
func DefaultLayout(width, maxVisible int) Layout {
	return Layout{
		Width:       width,
		Base:        3,
		FilterPanel: 3,
		RowHeight:   1,
		MaxVisible:  maxVisible,
		Padding:     2,
		PopupHeight: 8,
	}
}

// visibleRows returns how many result rows fit for n results.
func (l Layout) visibleRows(n int) int {
	if l.MaxVisible > 0 && n > l.MaxVisible {
		return l.MaxVisible
	}
	return n
}

// ComputeSize returns the overlay size for s. With no results the list area
// collapses entirely, padding included.
func ComputeSize(l Layout, s State) Size {
	height := l.Base
	if s.FiltersVisible {
		height += l.FilterPanel
	}
	if rows := l.visibleRows(len(s.Results)); rows > 0 {
		height += rows*l.RowHeight + l.Padding
	}
	if s.PopupVisible && s.PopupIndex >= 0 && s.PopupIndex < len(s.Results) {
		height += l.PopupHeight
	}
	return Size{Width: l.Width, Height: height}
}
