package overlay

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tomatitito/atuin-bar/pkg/atuin"
	"github.com/tomatitito/atuin-bar/pkg/history"
	"github.com/tomatitito/atuin-bar/pkg/logging"
)

// DebounceDelay is the quiet period before an input change triggers a search.
const DebounceDelay = 150 * time.Millisecond

// Options wires a Controller to its collaborators. Searcher and Clipboard are
// required; everything else has a usable default.
type Options struct {
	Searcher  atuin.Searcher
	Clipboard Clipboard
	Window    Window
	Publisher Publisher
	Scheduler Scheduler
	Dispatch  Dispatcher
	Logger    logging.Logger
	Layout    Layout
	Delay     time.Duration
	// Spawn runs a search off the event queue. Defaults to a new goroutine.
	Spawn func(f func())
	// NewToken issues request tokens. Defaults to random UUIDs.
	NewToken func() string
}

// Controller owns the overlay State. All methods must be called from the
// event queue that Dispatch feeds; the controller never locks.
type Controller struct {
	state  State
	layout Layout

	searcher  atuin.Searcher
	clipboard Clipboard
	window    Window
	publisher Publisher
	scheduler Scheduler
	dispatch  Dispatcher
	spawn     func(func())
	newToken  func() string
	logger    logging.Logger
	delay     time.Duration

	pending    Timer
	debounceID uint64
	token      string
	cancel     context.CancelFunc
}

// NewController creates a Controller in the empty state.
func NewController(opts Options) *Controller {
	c := &Controller{
		state:     NewState(),
		layout:    opts.Layout,
		searcher:  opts.Searcher,
		clipboard: opts.Clipboard,
		window:    opts.Window,
		publisher: opts.Publisher,
		scheduler: opts.Scheduler,
		dispatch:  opts.Dispatch,
		spawn:     opts.Spawn,
		newToken:  opts.NewToken,
		logger:    opts.Logger,
		delay:     opts.Delay,
	}
	if c.window == nil {
		c.window = noopWindow{}
	}
	if c.publisher == nil {
		c.publisher = noopPublisher{}
	}
	if c.scheduler == nil {
		c.scheduler = SystemScheduler{}
	}
	if c.dispatch == nil {
		c.dispatch = func(f func()) { f() }
	}
	if c.spawn == nil {
		c.spawn = func(f func()) { go f() }
	}
	if c.newToken == nil {
		c.newToken = uuid.NewString
	}
	if c.logger == nil {
		c.logger = logging.NewDisabledLogger()
	}
	if c.delay <= 0 {
		c.delay = DebounceDelay
	}
	c.logger = c.logger.With("component", "overlay")
	return c
}

// State returns a copy of the current state. Results must be treated as
// read-only.
func (c *Controller) State() State {
	return c.state
}

// Layout returns the layout sizes are computed from.
func (c *Controller) Layout() Layout {
	return c.layout
}

// SetLayout replaces the layout, typically after the terminal is resized.
func (c *Controller) SetLayout(l Layout) {
	c.layout = l
	c.resize()
}

// Display renders the current state.
func (c *Controller) Display() Display {
	return Render(c.layout, c.state)
}

// Show makes the overlay visible at its current size.
func (c *Controller) Show() {
	c.window.Show()
	c.resize()
}

// SetQuery records the query and restarts the debounce timer.
func (c *Controller) SetQuery(q string) {
	if q == c.state.Query {
		return
	}
	c.state.Query = q
	c.debounce()
}

// SetFilters records the filter inputs and restarts the debounce timer.
func (c *Controller) SetFilters(f FilterInput) {
	if f == c.state.Filters {
		return
	}
	c.state.Filters = f
	if c.state.FiltersVisible {
		c.debounce()
	}
}

// ToggleFilters shows or hides the filter panel and re-runs the search.
func (c *Controller) ToggleFilters() {
	c.state.FiltersVisible = !c.state.FiltersVisible
	c.resize()
	c.debounce()
}

// SearchNow runs the search immediately, dropping any pending debounce.
func (c *Controller) SearchNow() {
	c.stopPending()
	c.search()
}

// Cancel drops the pending debounce and cancels the in-flight search. A
// response that still arrives is discarded.
func (c *Controller) Cancel() {
	c.stopPending()
	c.token = ""
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state.Searching = false
}

// HandleKey applies the keyboard contract. It reports whether k had any
// effect.
func (c *Controller) HandleKey(k Key) bool {
	switch k {
	case KeyEscape:
		if c.state.PopupVisible {
			c.state = HidePopup(c.state)
			c.resize()
			return true
		}
		c.dismiss()
		return true
	case KeyDown:
		return c.move(MoveDown)
	case KeyUp:
		return c.move(MoveUp)
	case KeyEnter:
		return c.copySelected()
	case KeyToggleFilters:
		c.ToggleFilters()
		return true
	case KeyTogglePopup:
		if !c.state.HasSelection() {
			return false
		}
		if c.state.PopupVisible && c.state.PopupIndex == c.state.SelectedIndex {
			c.state = HidePopup(c.state)
		} else {
			c.state = ShowPopup(c.state, c.state.SelectedIndex)
		}
		c.resize()
		return true
	}
	return false
}

// ShowPopup opens the detail popup for result i without moving the selection.
func (c *Controller) ShowPopup(i int) {
	c.state = ShowPopup(c.state, i)
	c.resize()
}

// HidePopup closes the detail popup and restores the previous size.
func (c *Controller) HidePopup() {
	if !c.state.PopupVisible {
		return
	}
	c.state = HidePopup(c.state)
	c.resize()
}

func (c *Controller) move(step func(State) State) bool {
	if len(c.state.Results) == 0 {
		return false
	}
	hadPopup := c.state.PopupVisible
	c.state = step(c.state)
	if hadPopup {
		c.resize()
	}
	selected, _ := c.state.Selected()
	c.publisher.Emit(EventSelectionChanged, SelectionEvent{Index: c.state.SelectedIndex, Command: selected.Command})
	return true
}

func (c *Controller) copySelected() bool {
	selected, ok := c.state.Selected()
	if !ok {
		return false
	}

	if err := c.clipboard.Copy(selected.Command); err != nil {
		c.logger.Error("failed to copy command", "error", err)
		c.state.Status = "copy failed: " + err.Error()
		c.publisher.Emit(EventClipboardFailed, ClipboardEvent{Text: selected.Command, Err: err})
		return true
	}

	c.publisher.Emit(EventClipboardCopied, ClipboardEvent{Text: selected.Command})
	c.dismiss()
	return true
}

func (c *Controller) dismiss() {
	c.Cancel()
	c.state = Reset(c.state)
	c.resize()
	c.window.Hide()
	c.publisher.Emit(EventOverlayDismissed, nil)
}

func (c *Controller) debounce() {
	c.stopPending()
	id := c.debounceID
	c.pending = c.scheduler.AfterFunc(c.delay, func() {
		c.dispatch(func() {
			// A timer stopped after it already fired still lands here.
			if id != c.debounceID {
				return
			}
			c.pending = nil
			c.search()
		})
	})
}

func (c *Controller) stopPending() {
	c.debounceID++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *Controller) search() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = ClearResults(c.state)
	c.state.Status = ""

	query := strings.TrimSpace(c.state.Query)
	if query == "" {
		c.token = ""
		c.resize()
		return
	}

	token := c.newToken()
	filters := c.state.ActiveFilters()
	ctx, cancel := context.WithCancel(context.Background())
	c.token = token
	c.cancel = cancel
	c.state.Searching = true
	c.resize()
	c.publisher.Emit(EventSearchStarted, SearchEvent{Token: token, Query: query})

	c.spawn(func() {
		output, err := c.searcher.Search(ctx, query, filters)
		c.dispatch(func() {
			c.complete(token, query, output, err)
		})
	})
}

func (c *Controller) complete(token, query, output string, err error) {
	if token != c.token {
		c.logger.Debug("discarding stale search response", "query", query, "token", token)
		c.publisher.Emit(EventSearchStale, SearchEvent{Token: token, Query: query, Err: err})
		return
	}
	c.token = ""
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if err != nil {
		c.logger.Error("search failed", "query", query, "error", err)
		c.state = ClearResults(c.state)
		c.state.Status = "search failed: " + err.Error()
		c.resize()
		c.publisher.Emit(EventSearchFailed, SearchEvent{Token: token, Query: query, Err: err})
		return
	}

	results := history.ParseOutput(output)
	c.state = ApplyResults(c.state, results)
	c.resize()
	c.publisher.Emit(EventSearchCompleted, SearchEvent{Token: token, Query: query, Count: len(results)})
}

func (c *Controller) resize() {
	c.window.Resize(ComputeSize(c.layout, c.state))
	c.publisher.Emit(EventLayoutChanged, c.state)
}
