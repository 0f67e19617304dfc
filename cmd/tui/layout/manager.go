package layout

import (
	"errors"

	"github.com/awesome-gocui/gocui"
	"github.com/jesseduffield/lazycore/pkg/boxlayout"
	"github.com/tomatitito/atuin-bar/pkg/overlay"
)

// View names.
const (
	ViewQuery      = "query"
	ViewFilterDir  = "filter-dir"
	ViewFilterExit = "filter-exit"
	ViewFilterTime = "filter-time"
	ViewResults    = "results"
	ViewPopup      = "popup"
	ViewStatus     = "status"
)

// AllViews lists every view the manager may create.
var AllViews = []string{
	ViewQuery,
	ViewFilterDir,
	ViewFilterExit,
	ViewFilterTime,
	ViewResults,
	ViewPopup,
	ViewStatus,
}

// InputViews is the focus cycling order of editable views.
var InputViews = []string{ViewQuery, ViewFilterDir, ViewFilterExit, ViewFilterTime}

// Arrange places the overlay views for a terminal termW x termH cells. The
// overlay is centred horizontally at the top, clipped to the terminal, with
// a one-line status below it.
func Arrange(termW, termH int, layout overlay.Layout, d overlay.Display) map[string]boxlayout.Dimensions {
	if termW <= 0 || termH <= 0 {
		return map[string]boxlayout.Dimensions{}
	}

	width := min(d.Size.Width, termW)
	height := min(d.Size.Height, termH-1)
	if width <= 0 {
		width = termW
	}
	x0 := (termW - width) / 2

	children := []*boxlayout.Box{{Window: ViewQuery, Size: layout.Base}}
	if d.FiltersVisible {
		children = append(children, &boxlayout.Box{
			Direction: boxlayout.COLUMN,
			Size:      layout.FilterPanel,
			Children: []*boxlayout.Box{
				{Window: ViewFilterDir, Weight: 2},
				{Window: ViewFilterExit, Weight: 1},
				{Window: ViewFilterTime, Weight: 1},
			},
		})
	}
	if len(d.Rows) > 0 {
		children = append(children, &boxlayout.Box{Window: ViewResults, Size: len(d.Rows)*layout.RowHeight + layout.Padding})
	}
	if d.Popup != nil {
		children = append(children, &boxlayout.Box{Window: ViewPopup, Size: layout.PopupHeight})
	}

	root := &boxlayout.Box{Direction: boxlayout.ROW, Children: children}
	dims := boxlayout.ArrangeWindows(root, x0, 0, width, max(height, 1))

	statusY := min(height, termH-1)
	dims[ViewStatus] = boxlayout.Dimensions{X0: x0, X1: x0 + width - 1, Y0: statusY, Y1: statusY}
	return dims
}

// ViewSetup is called once when a view is first created.
type ViewSetup func(v *gocui.View)

// LayoutManager creates, moves and deletes the overlay views on each
// layout pass.
type LayoutManager struct {
	layout  func() overlay.Layout
	display func() overlay.Display
	setup   map[string]ViewSetup
	created map[string]bool

	lastWidth  int
	lastHeight int
}

// NewLayoutManager creates a manager reading the current layout and display
// on every pass.
func NewLayoutManager(layout func() overlay.Layout, display func() overlay.Display) *LayoutManager {
	return &LayoutManager{
		layout:  layout,
		display: display,
		setup:   make(map[string]ViewSetup),
		created: make(map[string]bool),
	}
}

// OnCreate registers the setup for a view.
func (lm *LayoutManager) OnCreate(view string, setup ViewSetup) {
	lm.setup[view] = setup
}

// Layout implements gocui's manager function.
func (lm *LayoutManager) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}
	lm.lastWidth, lm.lastHeight = maxX, maxY

	dims := Arrange(maxX, maxY, lm.layout(), lm.display())
	for _, name := range AllViews {
		d, visible := dims[name]
		if !visible || d.X1 <= d.X0 {
			if err := lm.deleteView(g, name); err != nil {
				return err
			}
			continue
		}

		x0, y0, x1, y1 := d.X0, d.Y0, d.X1, d.Y1
		if name == ViewStatus {
			// frameless views draw inside their bounds
			x0, y0, x1, y1 = d.X0-1, d.Y0-1, d.X1+1, d.Y0+1
		}
		v, err := g.SetView(name, x0, y0, x1, y1, 0)
		if err != nil && !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		if !lm.created[name] {
			lm.created[name] = true
			if setup := lm.setup[name]; setup != nil {
				setup(v)
			}
		}
	}
	return nil
}

// GetLastSize returns the terminal size seen by the last layout pass.
func (lm *LayoutManager) GetLastSize() (int, int) {
	return lm.lastWidth, lm.lastHeight
}

// IsCreated reports whether the view currently exists.
func (lm *LayoutManager) IsCreated(name string) bool {
	return lm.created[name]
}

// NextInput returns the editable view after current, skipping views that do
// not exist.
func (lm *LayoutManager) NextInput(current string) string {
	start := 0
	for i, name := range InputViews {
		if name == current {
			start = i + 1
		}
	}
	for i := range InputViews {
		name := InputViews[(start+i)%len(InputViews)]
		if lm.created[name] {
			return name
		}
	}
	return ViewQuery
}

func (lm *LayoutManager) deleteView(g *gocui.Gui, name string) error {
	if !lm.created[name] {
		return nil
	}
	delete(lm.created, name)
	if err := g.DeleteView(name); err != nil && !errors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	return nil
}
