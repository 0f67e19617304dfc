package presentation

import (
	"sort"

	"github.com/awesome-gocui/gocui"
)

// Reset clears any ANSI styling.
const Reset = "\033[0m"

// Theme holds the gocui attributes used for frames and selection plus the
// ANSI sequences embedded in rendered rows.
type Theme struct {
	Name string

	BorderDefault gocui.Attribute
	BorderFocused gocui.Attribute
	Title         gocui.Attribute
	SelectedFg    gocui.Attribute
	SelectedBg    gocui.Attribute

	Match   string
	Success string
	Failure string
	Muted   string
	Status  string

	// GlamourStyle names the glamour standard style for the detail popup.
	GlamourStyle string
}

var Themes = map[string]*Theme{
	"dark": {
		Name:          "dark",
		BorderDefault: gocui.ColorBlack | gocui.AttrBold,
		BorderFocused: gocui.ColorCyan,
		Title:         gocui.ColorCyan,
		SelectedFg:    gocui.ColorBlack,
		SelectedBg:    gocui.ColorCyan,
		Match:         "\033[1;33m",
		Success:       "\033[32m",
		Failure:       "\033[31m",
		Muted:         "\033[37m",
		Status:        "\033[36m",
		GlamourStyle:  "dark",
	},
	"light": {
		Name:          "light",
		BorderDefault: gocui.ColorWhite,
		BorderFocused: gocui.ColorBlue,
		Title:         gocui.ColorBlue,
		SelectedFg:    gocui.ColorWhite,
		SelectedBg:    gocui.ColorBlue,
		Match:         "\033[1;35m",
		Success:       "\033[32m",
		Failure:       "\033[31m",
		Muted:         "\033[30m",
		Status:        "\033[34m",
		GlamourStyle:  "light",
	},
}

// GetTheme returns the named theme, falling back to dark.
func GetTheme(name string) *Theme {
	if theme, ok := Themes[name]; ok {
		return theme
	}
	return Themes["dark"]
}

// GetThemeNames returns the available theme names, sorted.
func GetThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
