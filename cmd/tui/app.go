package tui

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/awesome-gocui/gocui"
	"github.com/tomatitito/atuin-bar/cmd/events"
	"github.com/tomatitito/atuin-bar/cmd/tui/component"
	"github.com/tomatitito/atuin-bar/cmd/tui/layout"
	"github.com/tomatitito/atuin-bar/cmd/tui/presentation"
	"github.com/tomatitito/atuin-bar/pkg/atuin"
	"github.com/tomatitito/atuin-bar/pkg/config"
	"github.com/tomatitito/atuin-bar/pkg/logging"
	"github.com/tomatitito/atuin-bar/pkg/overlay"
)

const (
	hintsText     = "↑↓ select · enter copy · tab details · ctrl+f filters · ctrl+n next field · esc close"
	searchingText = "searching…"
)

// Deps are the collaborators of the overlay application.
type Deps struct {
	Searcher  atuin.Searcher
	Clipboard overlay.Clipboard
	EventBus  *events.CommandEventBus
	Config    config.Config
	Logger    logging.Logger
}

// Option configures an App.
type Option func(*appOptions)

type appOptions struct {
	outputMode gocui.OutputMode
	query      string
}

// WithOutputMode selects the gocui output mode. Tests use
// gocui.OutputSimulator.
func WithOutputMode(mode gocui.OutputMode) Option {
	return func(o *appOptions) { o.outputMode = mode }
}

// WithQuery pre-fills the search input and searches immediately.
func WithQuery(query string) Option {
	return func(o *appOptions) { o.query = query }
}

// App is the terminal overlay. It implements overlay.Window: Hide ends the
// main loop.
type App struct {
	gui        *gocui.Gui
	controller *overlay.Controller
	bus        *events.CommandEventBus
	layout     *layout.LayoutManager
	theme      *presentation.Theme
	popup      *presentation.PopupRenderer
	logger     logging.Logger
	query      string

	size    overlay.Size
	hidden  bool
	focused string

	mu     sync.Mutex
	copied string

	unsubscribe []func()
	closeOnce   sync.Once
}

// NewApp creates the gocui overlay. The logger should not write to the
// terminal the overlay draws on.
func NewApp(deps Deps, opts ...Option) (*App, error) {
	o := appOptions{outputMode: gocui.OutputNormal}
	for _, opt := range opts {
		opt(&o)
	}
	if deps.Searcher == nil || deps.Clipboard == nil || deps.EventBus == nil {
		return nil, errors.New("overlay needs a searcher, a clipboard and an event bus")
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewDisabledLogger()
	}

	// Stray writes from the standard logger would corrupt the screen.
	log.SetOutput(io.Discard)

	g, err := gocui.NewGui(o.outputMode, true)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise terminal: %w", err)
	}

	theme := presentation.GetTheme(deps.Config.Theme)
	app := &App{
		gui:     g,
		bus:     deps.EventBus,
		theme:   theme,
		popup:   presentation.NewPopupRenderer(theme.GlamourStyle),
		logger:  deps.Logger.With("component", "tui"),
		query:   o.query,
		focused: layout.ViewQuery,
	}

	app.controller = overlay.NewController(overlay.Options{
		Searcher:  deps.Searcher,
		Clipboard: deps.Clipboard,
		Window:    app,
		Publisher: deps.EventBus,
		Dispatch:  app.dispatch,
		Logger:    deps.Logger,
		Layout:    overlay.DefaultLayout(deps.Config.Columns(), deps.Config.MaxResults),
	})

	app.layout = layout.NewLayoutManager(app.controller.Layout, app.controller.Display)
	app.setupViews()
	app.subscribe()

	g.Cursor = true
	g.Highlight = true
	g.FrameColor = theme.BorderDefault
	g.SelFrameColor = theme.BorderFocused
	g.SetManagerFunc(app.layoutFunc)

	if err := app.setupKeybindings(); err != nil {
		g.Close()
		return nil, err
	}
	return app, nil
}

// Run shows the overlay until it is dismissed and returns the command that
// was copied, if any.
func (app *App) Run() (string, error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		if _, ok := <-sigChan; ok {
			app.gui.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
		}
	}()

	app.Start()
	err := app.gui.MainLoop()
	app.controller.Cancel()
	app.bus.WaitForPendingEvents()

	if err != nil && !errors.Is(err, gocui.ErrQuit) {
		return "", err
	}
	return app.Copied(), nil
}

// Start queues showing the overlay and the initial query, if any, on the
// event loop. Run calls it; tests driving the simulator call it directly.
func (app *App) Start() {
	app.dispatch(func() {
		app.controller.Show()
		if app.query != "" {
			app.controller.SetQuery(app.query)
			app.controller.SearchNow()
		}
	})
}

// Close releases the terminal.
func (app *App) Close() {
	app.closeOnce.Do(func() {
		for _, unsubscribe := range app.unsubscribe {
			unsubscribe()
		}
		app.gui.Close()
	})
}

// Copied returns the command copied with Enter, empty when the overlay was
// dismissed without a choice.
func (app *App) Copied() string {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.copied
}

// GetGui exposes the gocui instance for the test driver.
func (app *App) GetGui() *gocui.Gui {
	return app.gui
}

// Controller returns the overlay controller.
func (app *App) Controller() *overlay.Controller {
	return app.controller
}

// Resize implements overlay.Window.
func (app *App) Resize(size overlay.Size) {
	app.size = size
}

// Hide implements overlay.Window.
func (app *App) Hide() {
	app.hidden = true
}

// Show implements overlay.Window.
func (app *App) Show() {
	app.hidden = false
}

// Size returns the last size requested by the controller.
func (app *App) Size() overlay.Size {
	return app.size
}

// dispatch runs f on gocui's event loop.
func (app *App) dispatch(f func()) {
	app.gui.Update(func(*gocui.Gui) error {
		f()
		return app.afterEvent()
	})
}

func (app *App) afterEvent() error {
	if app.hidden {
		return gocui.ErrQuit
	}
	return nil
}

func (app *App) subscribe() {
	app.unsubscribe = append(app.unsubscribe,
		app.bus.Subscribe(overlay.EventClipboardCopied, func(e any) {
			if event, ok := e.(overlay.ClipboardEvent); ok {
				app.mu.Lock()
				app.copied = event.Text
				app.mu.Unlock()
			}
		}),
		app.bus.Subscribe(overlay.EventSearchFailed, func(e any) {
			if event, ok := e.(overlay.SearchEvent); ok && errors.Is(event.Err, atuin.ErrNotInstalled) {
				app.logger.Warn("atuin is not available", "error", event.Err)
			}
		}),
		app.bus.Subscribe(overlay.EventClipboardFailed, func(e any) {
			if event, ok := e.(overlay.ClipboardEvent); ok {
				app.logger.Warn("clipboard unavailable", "error", event.Err)
			}
		}),
	)
}

func (app *App) setupViews() {
	app.layout.OnCreate(layout.ViewQuery, func(v *gocui.View) {
		app.configureInput(v, " atuin ", func(text string) {
			app.controller.SetQuery(text)
		})
		if q := app.controller.State().Query; q != "" {
			component.SetText(v, q)
		}
	})

	for name, field := range map[string]struct {
		title string
		value func(overlay.FilterInput) string
	}{
		layout.ViewFilterDir:  {" directory ", func(f overlay.FilterInput) string { return f.Directory }},
		layout.ViewFilterExit: {" exit: success|failure ", func(f overlay.FilterInput) string { return f.ExitFilter }},
		layout.ViewFilterTime: {" since: 1h|24h|7d|30d ", func(f overlay.FilterInput) string { return f.TimeRange }},
	} {
		app.layout.OnCreate(name, func(v *gocui.View) {
			app.configureInput(v, field.title, func(string) {
				app.controller.SetFilters(app.readFilters())
			})
			if value := field.value(app.controller.State().Filters); value != "" {
				component.SetText(v, value)
			}
		})
	}

	app.layout.OnCreate(layout.ViewResults, func(v *gocui.View) {
		v.Frame = true
		v.Wrap = false
		v.Highlight = true
		v.SelBgColor = app.theme.SelectedBg
		v.SelFgColor = app.theme.SelectedFg
		v.TitleColor = app.theme.Title
	})

	app.layout.OnCreate(layout.ViewPopup, func(v *gocui.View) {
		v.Frame = true
		v.Wrap = true
		v.Title = " details "
		v.TitleColor = app.theme.Title
	})

	app.layout.OnCreate(layout.ViewStatus, func(v *gocui.View) {
		v.Frame = false
		v.Wrap = false
	})
}

func (app *App) configureInput(v *gocui.View, title string, onChange func(string)) {
	v.Title = title
	v.TitleColor = app.theme.Title
	v.Frame = true
	v.Editable = true
	v.Wrap = false
	v.Editor = component.NewInputEditor(onChange)
}

func (app *App) readFilters() overlay.FilterInput {
	read := func(name string) string {
		v, err := app.gui.View(name)
		if err != nil {
			return ""
		}
		return component.Text(v)
	}
	return overlay.FilterInput{
		Directory:  read(layout.ViewFilterDir),
		ExitFilter: read(layout.ViewFilterExit),
		TimeRange:  read(layout.ViewFilterTime),
	}
}

// layoutFunc arranges the views and redraws them from the controller state.
func (app *App) layoutFunc(g *gocui.Gui) error {
	if err := app.layout.Layout(g); err != nil {
		return err
	}

	if !app.layout.IsCreated(app.focused) {
		app.focused = layout.ViewQuery
	}
	if _, err := g.SetCurrentView(app.focused); err != nil && !errors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	return app.render(g)
}

func (app *App) render(g *gocui.Gui) error {
	d := app.controller.Display()

	if v, err := g.View(layout.ViewQuery); err == nil && v.Buffer() == "" && d.Query != "" {
		component.SetText(v, d.Query)
	}

	if v, err := g.View(layout.ViewResults); err == nil {
		width, _ := v.Size()
		v.Clear()
		v.Title = presentation.ResultsTitle(d)
		fmt.Fprint(v, presentation.FormatResults(d, width, app.theme))
		for _, row := range d.Rows {
			if row.Selected {
				v.SetCursor(0, row.Index-d.Offset)
			}
		}
	}

	if v, err := g.View(layout.ViewPopup); err == nil && d.Popup != nil {
		width, _ := v.Size()
		v.Clear()
		out, err := app.popup.Render(d.Popup.Result, width)
		if err != nil {
			app.logger.Error("failed to render details", "error", err)
			out = presentation.PopupMarkdown(d.Popup.Result)
		}
		fmt.Fprint(v, out)
	}

	if v, err := g.View(layout.ViewStatus); err == nil {
		v.Clear()
		fmt.Fprint(v, app.statusLine(d))
	}
	return nil
}

func (app *App) statusLine(d overlay.Display) string {
	switch {
	case d.Status != "":
		return app.theme.Failure + d.Status + presentation.Reset
	case d.Searching:
		return app.theme.Status + searchingText + presentation.Reset
	}
	return app.theme.Muted + hintsText + presentation.Reset
}
