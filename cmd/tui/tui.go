package tui

// TUI owns one overlay session.
type TUI struct {
	app *App
}

func New(deps Deps, opts ...Option) (*TUI, error) {
	app, err := NewApp(deps, opts...)
	if err != nil {
		return nil, err
	}
	return &TUI{app: app}, nil
}

// Start runs the overlay and returns the copied command, empty when the
// user dismissed it.
func (t *TUI) Start() (string, error) {
	defer t.app.Close()
	return t.app.Run()
}

func (t *TUI) Stop() {
	t.app.Close()
}
