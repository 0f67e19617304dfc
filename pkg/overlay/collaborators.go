package overlay

import "time"

// Event names emitted on the Publisher.
const (
	EventSearchStarted    = "search.started"
	EventSearchCompleted  = "search.completed"
	EventSearchFailed     = "search.failed"
	EventSearchStale      = "search.stale"
	EventSelectionChanged = "selection.changed"
	EventOverlayDismissed = "overlay.dismissed"
	EventClipboardCopied  = "clipboard.copied"
	EventClipboardFailed  = "clipboard.failed"
	EventLayoutChanged    = "layout.changed"
)

// SearchEvent is the payload of the search.* events.
type SearchEvent struct {
	Token string
	Query string
	Count int
	Err   error
}

// SelectionEvent is the payload of selection.changed.
type SelectionEvent struct {
	Index   int
	Command string
}

// ClipboardEvent is the payload of the clipboard.* events.
type ClipboardEvent struct {
	Text string
	Err  error
}

// Clipboard receives the command chosen with Enter.
type Clipboard interface {
	Copy(text string) error
}

// Window is the surface the overlay is drawn on.
type Window interface {
	Resize(size Size)
	Hide()
	Show()
}

// Publisher receives controller events.
type Publisher interface {
	Emit(event string, payload any)
}

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d on its own goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Dispatcher runs f on the event queue that owns the controller.
type Dispatcher func(f func())

// SystemScheduler schedules with time.AfterFunc.
type SystemScheduler struct{}

// AfterFunc implements Scheduler.
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type noopPublisher struct{}

func (noopPublisher) Emit(string, any) {}

type noopWindow struct{}

func (noopWindow) Resize(Size) {}
func (noopWindow) Hide()       {}
func (noopWindow) Show()       {}
