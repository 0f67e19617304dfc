package tui

import (
	"github.com/awesome-gocui/gocui"
	"github.com/tomatitito/atuin-bar/cmd/tui/layout"
	"github.com/tomatitito/atuin-bar/pkg/overlay"
)

// KeymapEntry binds a terminal key to an overlay action.
type KeymapEntry struct {
	Key         gocui.Key
	Action      func(app *App) error
	Description string
}

// Keymap returns the overlay key bindings.
func Keymap() []KeymapEntry {
	key := func(k overlay.Key) func(*App) error {
		return func(app *App) error {
			app.controller.HandleKey(k)
			return app.afterEvent()
		}
	}

	return []KeymapEntry{
		{Key: gocui.KeyEsc, Action: key(overlay.KeyEscape), Description: "Close details or dismiss"},
		{Key: gocui.KeyArrowUp, Action: key(overlay.KeyUp), Description: "Previous result"},
		{Key: gocui.KeyArrowDown, Action: key(overlay.KeyDown), Description: "Next result"},
		{Key: gocui.KeyEnter, Action: key(overlay.KeyEnter), Description: "Copy the selected command"},
		{Key: gocui.KeyTab, Action: key(overlay.KeyTogglePopup), Description: "Toggle details"},
		{Key: gocui.KeyCtrlF, Action: (*App).toggleFilters, Description: "Toggle filters"},
		{Key: gocui.KeyCtrlN, Action: (*App).focusNextInput, Description: "Next input"},
		{Key: gocui.KeyCtrlC, Action: func(*App) error { return gocui.ErrQuit }, Description: "Quit without copying"},
	}
}

// setupKeybindings registers the keymap globally and on every input view so
// that the bindings win over the input editor.
func (app *App) setupKeybindings() error {
	views := append([]string{""}, layout.InputViews...)
	for _, entry := range Keymap() {
		handler := app.handler(entry)
		for _, view := range views {
			if err := app.gui.SetKeybinding(view, entry.Key, gocui.ModNone, handler); err != nil {
				return err
			}
		}
	}
	return nil
}

func (app *App) handler(entry KeymapEntry) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		return entry.Action(app)
	}
}

func (app *App) toggleFilters() error {
	app.controller.HandleKey(overlay.KeyToggleFilters)
	if app.controller.State().FiltersVisible {
		app.focused = layout.ViewFilterDir
	} else {
		app.focused = layout.ViewQuery
	}
	return app.afterEvent()
}

func (app *App) focusNextInput() error {
	app.focused = app.layout.NextInput(app.focused)
	return nil
}
