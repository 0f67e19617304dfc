package overlay

// Key is a keyboard action the overlay reacts to.
type Key int

const (
	KeyEscape Key = iota
	KeyUp
	KeyDown
	KeyEnter
	KeyToggleFilters
	KeyTogglePopup
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "escape"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyEnter:
		return "enter"
	case KeyToggleFilters:
		return "toggle-filters"
	case KeyTogglePopup:
		return "toggle-popup"
	}
	return "unknown"
}
