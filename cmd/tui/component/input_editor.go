package component

import (
	"fmt"
	"strings"

	"github.com/awesome-gocui/gocui"
	"github.com/gdamore/tcell/v2"
)

// EditAction is what the input editor does with a key.
type EditAction int

const (
	// EditInsert forwards the key to gocui's default editor.
	EditInsert EditAction = iota
	// EditIgnore drops the key; the overlay handles it globally.
	EditIgnore
	EditLineStart
	EditLineEnd
	EditClear
)

// ClassifyKey maps a key press inside a single-line input.
func ClassifyKey(key gocui.Key, ch rune, mod gocui.Modifier) EditAction {
	if ch != 0 && mod&gocui.Modifier(tcell.ModAlt) == 0 {
		return EditInsert
	}

	if mod&gocui.Modifier(tcell.ModAlt) != 0 || mod&gocui.Modifier(tcell.ModCtrl) != 0 {
		switch key {
		case gocui.KeyArrowLeft:
			return EditLineStart
		case gocui.KeyArrowRight:
			return EditLineEnd
		}
	}

	switch key {
	case gocui.KeyEnter, gocui.KeyEsc, gocui.KeyTab,
		gocui.KeyArrowUp, gocui.KeyArrowDown,
		gocui.KeyPgup, gocui.KeyPgdn, gocui.KeyInsert:
		return EditIgnore
	case gocui.KeyHome, gocui.KeyCtrlA:
		return EditLineStart
	case gocui.KeyEnd, gocui.KeyCtrlE:
		return EditLineEnd
	case gocui.KeyCtrlU:
		return EditClear
	case gocui.KeySpace, gocui.KeyBackspace, gocui.KeyBackspace2, gocui.KeyDelete,
		gocui.KeyArrowLeft, gocui.KeyArrowRight:
		return EditInsert
	}
	if ch == 0 {
		return EditIgnore
	}
	return EditInsert
}

// InputEditor is a single-line gocui editor that reports every change of
// its text.
type InputEditor struct {
	onChange func(text string)
}

// NewInputEditor creates an editor calling onChange after each edit that
// may have changed the text.
func NewInputEditor(onChange func(text string)) *InputEditor {
	return &InputEditor{onChange: onChange}
}

// Edit implements gocui.Editor.
func (e *InputEditor) Edit(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
	_, cy := v.Cursor()

	switch ClassifyKey(key, ch, mod) {
	case EditIgnore:
		return
	case EditLineStart:
		v.SetCursor(0, cy)
		v.SetOrigin(0, 0)
		return
	case EditLineEnd:
		line, _ := v.Line(cy)
		v.SetCursor(len([]rune(line)), cy)
		return
	case EditClear:
		SetText(v, "")
	default:
		gocui.DefaultEditor.Edit(v, key, ch, mod)
	}

	if e.onChange != nil {
		e.onChange(Text(v))
	}
}

// Text returns the single-line content of an input view.
func Text(v *gocui.View) string {
	return strings.TrimRight(v.Buffer(), "\n")
}

// SetText replaces the content of an input view and moves the cursor to
// its end.
func SetText(v *gocui.View, text string) {
	v.Clear()
	v.SetOrigin(0, 0)
	fmt.Fprint(v, text)
	v.SetCursor(len([]rune(text)), 0)
}
