package testing

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/awesome-gocui/gocui"
	"github.com/stretchr/testify/require"
	"github.com/tomatitito/atuin-bar/cmd/events"
	"github.com/tomatitito/atuin-bar/cmd/tui"
	"github.com/tomatitito/atuin-bar/cmd/tui/layout"
	"github.com/tomatitito/atuin-bar/pkg/atuin"
	"github.com/tomatitito/atuin-bar/pkg/config"
)

// FakeSearcher answers searches from a fixed table.
type FakeSearcher struct {
	mu      sync.Mutex
	outputs map[string]string
	queries []string
	filters []*atuin.SearchFilters
}

func NewFakeSearcher(outputs map[string]string) *FakeSearcher {
	return &FakeSearcher{outputs: outputs}
}

func (s *FakeSearcher) Search(_ context.Context, query string, filters *atuin.SearchFilters) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	s.filters = append(s.filters, filters)
	return s.outputs[query], nil
}

// Queries returns every query searched so far.
func (s *FakeSearcher) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// LastFilters returns the filters of the latest search.
func (s *FakeSearcher) LastFilters() *atuin.SearchFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.filters) == 0 {
		return nil
	}
	return s.filters[len(s.filters)-1]
}

// FakeClipboard records copied text.
type FakeClipboard struct {
	mu     sync.Mutex
	copied []string
}

func (c *FakeClipboard) Copy(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.copied = append(c.copied, text)
	return nil
}

func (c *FakeClipboard) Copied() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.copied...)
}

// TUIDriver drives the overlay on gocui's simulated screen.
type TUIDriver struct {
	testingScreen gocui.TestingScreen
	app           *tui.App
	bus           *events.CommandEventBus
	Searcher      *FakeSearcher
	Clipboard     *FakeClipboard
	cleanup       func()
	t             *testing.T
}

// NewTUIDriver starts the overlay with a fake searcher answering outputs.
func NewTUIDriver(t *testing.T, outputs map[string]string, opts ...tui.Option) *TUIDriver {
	t.Helper()

	bus := events.NewCommandEventBus()
	searcher := NewFakeSearcher(outputs)
	clipboard := &FakeClipboard{}
	cfg := config.Default()
	cfg.WindowWidth = 640

	opts = append([]tui.Option{tui.WithOutputMode(gocui.OutputSimulator)}, opts...)
	app, err := tui.NewApp(tui.Deps{
		Searcher:  searcher,
		Clipboard: clipboard,
		EventBus:  bus,
		Config:    *cfg,
	}, opts...)
	require.NoError(t, err)

	testingScreen := app.GetGui().GetTestingScreen()
	stop := testingScreen.StartGui()
	app.Start()
	testingScreen.WaitSync()

	d := &TUIDriver{
		testingScreen: testingScreen,
		app:           app,
		bus:           bus,
		Searcher:      searcher,
		Clipboard:     clipboard,
		t:             t,
		cleanup: func() {
			stop()
			app.Close()
		},
	}
	t.Cleanup(d.Close)
	return d
}

// Close stops the simulated screen.
func (d *TUIDriver) Close() {
	if d.cleanup != nil {
		d.cleanup()
		d.cleanup = nil
	}
}

// App returns the application under test.
func (d *TUIDriver) App() *tui.App {
	return d.app
}

// Type sends text to the focused input.
func (d *TUIDriver) Type(text string) *TUIDriver {
	d.testingScreen.SendStringAsKeys(text)
	d.testingScreen.WaitSync()
	return d
}

// Press sends one key.
func (d *TUIDriver) Press(key gocui.Key) *TUIDriver {
	d.testingScreen.SendKey(key)
	d.testingScreen.WaitSync()
	return d
}

// Wait lets pending gocui work and event handlers finish.
func (d *TUIDriver) Wait() *TUIDriver {
	d.testingScreen.WaitSync()
	d.bus.WaitForPendingEvents()
	d.testingScreen.WaitSync()
	return d
}

// View returns the text of a view, empty when it does not exist.
func (d *TUIDriver) View(name string) string {
	content, err := d.testingScreen.GetViewContent(name)
	if err != nil {
		return ""
	}
	return content
}

// HasView reports whether the view exists.
func (d *TUIDriver) HasView(name string) bool {
	_, err := d.testingScreen.GetViewContent(name)
	return err == nil
}

// Results returns the non-empty lines of the results view.
func (d *TUIDriver) Results() []string {
	var lines []string
	for _, line := range strings.Split(d.View(layout.ViewResults), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Eventually polls condition until it holds or timeout passes.
func (d *TUIDriver) Eventually(condition func() bool, timeout time.Duration, msg string) {
	d.t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		d.testingScreen.WaitSync()
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	d.t.Error(msg)
}
