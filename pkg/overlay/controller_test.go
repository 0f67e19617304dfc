package overlay

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomatitito/atuin-bar/pkg/atuin"
)

type fakeTimer struct {
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type fakeScheduler struct {
	timers []*fakeTimer
	delays []time.Duration
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{f: f}
	s.timers = append(s.timers, t)
	s.delays = append(s.delays, d)
	return t
}

// fireActive fires every timer that has not been stopped.
func (s *fakeScheduler) fireActive() {
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			t.f()
		}
	}
}

func (s *fakeScheduler) active() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// queue is an event queue the test drains explicitly.
type queue struct {
	fns []func()
}

func (q *queue) dispatch(f func()) {
	q.fns = append(q.fns, f)
}

func (q *queue) drain() {
	for len(q.fns) > 0 {
		f := q.fns[0]
		q.fns = q.fns[1:]
		f()
	}
}

// take removes and runs the i-th queued function.
func (q *queue) take(i int) {
	f := q.fns[i]
	q.fns = append(q.fns[:i], q.fns[i+1:]...)
	f()
}

type searchCall struct {
	query   string
	filters *atuin.SearchFilters
}

type fakeSearcher struct {
	calls   []searchCall
	outputs map[string]string
	err     error
	ctxs    []context.Context
}

func (s *fakeSearcher) Search(ctx context.Context, query string, filters *atuin.SearchFilters) (string, error) {
	s.calls = append(s.calls, searchCall{query: query, filters: filters})
	s.ctxs = append(s.ctxs, ctx)
	if s.err != nil {
		return "", s.err
	}
	return s.outputs[query], nil
}

type fakeClipboard struct {
	copied []string
	err    error
}

func (c *fakeClipboard) Copy(text string) error {
	c.copied = append(c.copied, text)
	return c.err
}

type fakeWindow struct {
	sizes []Size
	hides int
	shows int
}

func (w *fakeWindow) Resize(s Size) { w.sizes = append(w.sizes, s) }
func (w *fakeWindow) Hide()         { w.hides++ }
func (w *fakeWindow) Show()         { w.shows++ }

func (w *fakeWindow) last() Size {
	if len(w.sizes) == 0 {
		return Size{}
	}
	return w.sizes[len(w.sizes)-1]
}

type fakePublisher struct {
	events []string
}

func (p *fakePublisher) Emit(event string, _ any) {
	if event == EventLayoutChanged {
		return
	}
	p.events = append(p.events, event)
}

type harness struct {
	controller *Controller
	scheduler  *fakeScheduler
	queue      *queue
	searcher   *fakeSearcher
	clipboard  *fakeClipboard
	window     *fakeWindow
	publisher  *fakePublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		scheduler: &fakeScheduler{},
		queue:     &queue{},
		searcher:  &fakeSearcher{outputs: map[string]string{}},
		clipboard: &fakeClipboard{},
		window:    &fakeWindow{},
		publisher: &fakePublisher{},
	}
	tokens := 0
	h.controller = NewController(Options{
		Searcher:  h.searcher,
		Clipboard: h.clipboard,
		Window:    h.window,
		Publisher: h.publisher,
		Scheduler: h.scheduler,
		Dispatch:  h.queue.dispatch,
		Spawn:     func(f func()) { f() },
		NewToken: func() string {
			tokens++
			return fmt.Sprintf("token-%d", tokens)
		},
		Layout: Layout{Width: 80, Base: 3, FilterPanel: 3, RowHeight: 1, MaxVisible: 10, Padding: 2, PopupHeight: 8},
	})
	return h
}

// typeAndSettle types the query and lets the debounce fire and the search
// complete.
func (h *harness) typeAndSettle(q string) {
	h.controller.SetQuery(q)
	h.scheduler.fireActive()
	h.queue.drain()
}

func TestController_DebounceCollapsesBursts(t *testing.T) {
	h := newHarness(t)

	for _, q := range []string{"g", "gi", "git", "git ", "git s"} {
		h.controller.SetQuery(q)
	}
	assert.Empty(t, h.searcher.calls)
	assert.Equal(t, 1, h.scheduler.active())
	for _, d := range h.scheduler.delays {
		assert.Equal(t, DebounceDelay, d)
	}

	h.scheduler.fireActive()
	h.queue.drain()

	require.Len(t, h.searcher.calls, 1)
	assert.Equal(t, "git s", h.searcher.calls[0].query)
}

func TestController_StoppedTimerThatAlreadyFiredDoesNothing(t *testing.T) {
	h := newHarness(t)

	h.controller.SetQuery("a")
	first := h.scheduler.timers[0]
	first.fired = true
	first.f()
	// The new keystroke arrives before the queued fire runs.
	h.controller.SetQuery("ab")
	h.queue.drain()
	assert.Empty(t, h.searcher.calls)

	h.scheduler.fireActive()
	h.queue.drain()
	require.Len(t, h.searcher.calls, 1)
	assert.Equal(t, "ab", h.searcher.calls[0].query)
}

func TestController_SearchAppliesReversedResults(t *testing.T) {
	h := newHarness(t)
	h.searcher.outputs["x"] = "x|0|/a|t1\ny|1|/b|t2"

	h.typeAndSettle("x")

	s := h.controller.State()
	require.Len(t, s.Results, 2)
	assert.Equal(t, "y", s.Results[0].Command)
	assert.Equal(t, "1", s.Results[0].ExitCode)
	assert.Equal(t, "x", s.Results[1].Command)
	assert.Equal(t, 0, s.SelectedIndex)
	assert.False(t, s.Searching)
	assert.Equal(t, Size{Width: 80, Height: 3 + 2 + 2}, h.window.last())
	assert.Equal(t, []string{EventSearchStarted, EventSearchCompleted}, h.publisher.events)
}

func TestController_EmptyQueryDoesNotSearch(t *testing.T) {
	h := newHarness(t)
	h.searcher.outputs["ls"] = "ls|0|/|t"
	h.typeAndSettle("ls")
	require.Len(t, h.controller.State().Results, 1)

	h.typeAndSettle("   ")

	assert.Len(t, h.searcher.calls, 1)
	assert.Empty(t, h.controller.State().Results)
	assert.Equal(t, NoSelection, h.controller.State().SelectedIndex)
	assert.Equal(t, Size{Width: 80, Height: 3}, h.window.last())
}

func TestController_BlankResponseCollapses(t *testing.T) {
	h := newHarness(t)
	h.searcher.outputs["zzz"] = " \n\n"

	h.typeAndSettle("zzz")

	assert.Empty(t, h.controller.State().Results)
	assert.Equal(t, NoSelection, h.controller.State().SelectedIndex)
	assert.Equal(t, Size{Width: 80, Height: 3}, h.window.last())
}

func TestController_DiscardsStaleResponses(t *testing.T) {
	h := newHarness(t)
	h.searcher.outputs["a"] = "a-old|0|/|t"
	h.searcher.outputs["ab"] = "ab-new|0|/|t"

	h.controller.SetQuery("a")
	h.scheduler.fireActive()
	h.queue.take(0) // search "a"; its completion is now queued

	h.controller.SetQuery("ab")
	h.scheduler.fireActive()
	require.Len(t, h.queue.fns, 2)
	h.queue.take(1) // search "ab"
	require.Len(t, h.queue.fns, 2)

	h.queue.take(1) // "ab" completes first
	h.queue.take(0) // then the late "a" response

	s := h.controller.State()
	require.Len(t, s.Results, 1)
	assert.Equal(t, "ab-new", s.Results[0].Command)
	assert.Contains(t, h.publisher.events, EventSearchStale)
	require.Len(t, h.searcher.ctxs, 2)
	assert.Error(t, h.searcher.ctxs[0].Err())
}

func TestController_SearchFailure(t *testing.T) {
	h := newHarness(t)
	h.searcher.outputs["ls"] = "ls|0|/|t"
	h.typeAndSettle("ls")

	h.searcher.err = errors.New("atuin command failed: boom")
	h.typeAndSettle("lsx")

	s := h.controller.State()
	assert.Empty(t, s.Results)
	assert.Equal(t, NoSelection, s.SelectedIndex)
	assert.Contains(t, s.Status, "boom")
	assert.Equal(t, Size{Width: 80, Height: 3}, h.window.last())
	assert.Contains(t, h.publisher.events, EventSearchFailed)
}

func TestController_Filters(t *testing.T) {
	h := newHarness(t)
	h.typeAndSettle("git")
	require.Len(t, h.searcher.calls, 1)
	assert.Nil(t, h.searcher.calls[0].filters)

	// Hidden filters neither apply nor trigger a search.
	h.controller.SetFilters(FilterInput{ExitFilter: atuin.ExitSuccess})
	assert.Equal(t, 0, h.scheduler.active())

	h.controller.ToggleFilters()
	assert.Equal(t, Size{Width: 80, Height: 3 + 3}, h.window.last())
	h.scheduler.fireActive()
	h.queue.drain()
	require.Len(t, h.searcher.calls, 2)
	assert.Equal(t, &atuin.SearchFilters{ExitFilter: atuin.ExitSuccess}, h.searcher.calls[1].filters)

	h.controller.SetFilters(FilterInput{ExitFilter: atuin.ExitSuccess, TimeRange: "24h"})
	h.scheduler.fireActive()
	h.queue.drain()
	require.Len(t, h.searcher.calls, 3)
	assert.Equal(t, "24h", h.searcher.calls[2].filters.TimeRange)

	assert.True(t, h.controller.HandleKey(KeyToggleFilters))
	h.scheduler.fireActive()
	h.queue.drain()
	require.Len(t, h.searcher.calls, 4)
	assert.Nil(t, h.searcher.calls[3].filters)
}

func TestController_Navigation(t *testing.T) {
	h := newHarness(t)

	assert.False(t, h.controller.HandleKey(KeyDown))
	assert.False(t, h.controller.HandleKey(KeyUp))
	assert.Equal(t, NoSelection, h.controller.State().SelectedIndex)

	h.searcher.outputs["c"] = "c1|0|/|t\nc2|0|/|t\nc3|0|/|t"
	h.typeAndSettle("c")

	for range 4 {
		h.controller.HandleKey(KeyDown)
	}
	assert.Equal(t, 2, h.controller.State().SelectedIndex)
	for range 4 {
		h.controller.HandleKey(KeyUp)
	}
	assert.Equal(t, 0, h.controller.State().SelectedIndex)
	assert.Contains(t, h.publisher.events, EventSelectionChanged)
}

func TestController_Escape(t *testing.T) {
	t.Run("with popup hides only the popup", func(t *testing.T) {
		h := newHarness(t)
		h.searcher.outputs["c"] = "c1|0|/|t\nc2|0|/|t"
		h.typeAndSettle("c")
		require.True(t, h.controller.HandleKey(KeyTogglePopup))
		require.True(t, h.controller.State().PopupVisible)
		before := h.controller.State().Results

		h.controller.HandleKey(KeyEscape)

		s := h.controller.State()
		assert.False(t, s.PopupVisible)
		assert.Equal(t, before, s.Results)
		assert.Equal(t, "c", s.Query)
		assert.Equal(t, 0, h.window.hides)
	})

	t.Run("without popup clears and hides once", func(t *testing.T) {
		h := newHarness(t)
		h.searcher.outputs["c"] = "c1|0|/|t"
		h.typeAndSettle("c")
		h.controller.SetFilters(FilterInput{Directory: "/tmp"})

		h.controller.HandleKey(KeyEscape)

		s := h.controller.State()
		assert.Equal(t, "", s.Query)
		assert.Equal(t, FilterInput{}, s.Filters)
		assert.Empty(t, s.Results)
		assert.Equal(t, NoSelection, s.SelectedIndex)
		assert.Equal(t, 1, h.window.hides)
		assert.Equal(t, Size{Width: 80, Height: 3}, h.window.last())
		assert.Contains(t, h.publisher.events, EventOverlayDismissed)
	})

	t.Run("drops the in-flight search", func(t *testing.T) {
		h := newHarness(t)
		h.searcher.outputs["c"] = "c1|0|/|t"
		h.controller.SetQuery("c")
		h.scheduler.fireActive()
		h.queue.take(0)

		h.controller.HandleKey(KeyEscape)
		h.queue.drain()

		assert.Empty(t, h.controller.State().Results)
		assert.Error(t, h.searcher.ctxs[0].Err())
	})

	t.Run("drops the pending debounce", func(t *testing.T) {
		h := newHarness(t)
		h.controller.SetQuery("c")
		h.controller.HandleKey(KeyEscape)

		assert.Equal(t, 0, h.scheduler.active())
	})
}

func TestController_Enter(t *testing.T) {
	t.Run("copies the selection and dismisses", func(t *testing.T) {
		h := newHarness(t)
		h.searcher.outputs["g"] = "git log | head|0|/src|t1\ngrep -r foo .|1|/src|t2"
		h.typeAndSettle("g")
		h.controller.HandleKey(KeyDown)

		assert.True(t, h.controller.HandleKey(KeyEnter))

		assert.Equal(t, []string{"git log | head"}, h.clipboard.copied)
		assert.Equal(t, 1, h.window.hides)
		s := h.controller.State()
		assert.Equal(t, "", s.Query)
		assert.Empty(t, s.Results)
		assert.Equal(t, NoSelection, s.SelectedIndex)
		assert.Contains(t, h.publisher.events, EventClipboardCopied)
	})

	t.Run("without selection does nothing", func(t *testing.T) {
		h := newHarness(t)

		assert.False(t, h.controller.HandleKey(KeyEnter))
		assert.Empty(t, h.clipboard.copied)
		assert.Equal(t, 0, h.window.hides)
	})

	t.Run("clipboard failure keeps the overlay open", func(t *testing.T) {
		h := newHarness(t)
		h.clipboard.err = errors.New("no clipboard")
		h.searcher.outputs["g"] = "git st|0|/|t"
		h.typeAndSettle("g")

		h.controller.HandleKey(KeyEnter)

		assert.Len(t, h.clipboard.copied, 1)
		assert.Equal(t, 0, h.window.hides)
		s := h.controller.State()
		assert.Len(t, s.Results, 1)
		assert.Contains(t, s.Status, "no clipboard")
		assert.Contains(t, h.publisher.events, EventClipboardFailed)
	})
}

func TestController_Popup(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.controller.HandleKey(KeyTogglePopup))

	h.searcher.outputs["c"] = "c1|0|/|t\nc2|0|/|t"
	h.typeAndSettle("c")

	h.controller.ShowPopup(1)
	s := h.controller.State()
	assert.True(t, s.PopupVisible)
	assert.Equal(t, 1, s.PopupIndex)
	assert.Equal(t, 0, s.SelectedIndex)
	assert.Equal(t, Size{Width: 80, Height: 3 + 2 + 2 + 8}, h.window.last())

	h.controller.HidePopup()
	assert.False(t, h.controller.State().PopupVisible)
	assert.Equal(t, Size{Width: 80, Height: 3 + 2 + 2}, h.window.last())

	h.controller.HandleKey(KeyTogglePopup)
	assert.True(t, h.controller.State().PopupVisible)
	h.controller.HandleKey(KeyTogglePopup)
	assert.False(t, h.controller.State().PopupVisible)
}

func TestController_SearchNowAndShow(t *testing.T) {
	h := newHarness(t)
	h.searcher.outputs["ls"] = "ls|0|/|t"

	h.controller.Show()
	assert.Equal(t, 1, h.window.shows)

	h.controller.SetQuery("ls")
	h.controller.SearchNow()
	h.queue.drain()

	assert.Equal(t, 0, h.scheduler.active())
	require.Len(t, h.searcher.calls, 1)
	assert.Len(t, h.controller.State().Results, 1)
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "escape", KeyEscape.String())
	assert.Equal(t, "toggle-popup", KeyTogglePopup.String())
	assert.Equal(t, "unknown", Key(99).String())
}
