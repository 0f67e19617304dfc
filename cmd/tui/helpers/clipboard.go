package helpers

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard copies the chosen command to the system clipboard.
type Clipboard struct {
	write func(string) error
}

func NewClipboard() *Clipboard {
	return &Clipboard{write: clipboard.WriteAll}
}

// Copy implements overlay.Clipboard.
func (h *Clipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available (install xclip, xsel or wl-clipboard)")
	}
	if err := h.write(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// IsAvailable reports whether a clipboard backend was found.
func (h *Clipboard) IsAvailable() bool {
	return !clipboard.Unsupported
}
