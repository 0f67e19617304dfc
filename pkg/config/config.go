package config

import (
	"errors"
	"fmt"
	"runtime"
)

// Theme names understood by the overlay.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Limits enforced by Validate.
const (
	MinMaxResults  = 1
	MaxMaxResults  = 500
	MinWindowWidth = 200
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the persisted overlay configuration.
type Config struct {
	Shortcut    string `toml:"shortcut" json:"shortcut" yaml:"shortcut" comment:"Global shortcut to toggle the window (e.g. \"CommandOrControl+Shift+Space\", \"Alt+Space\")"`
	Theme       string `toml:"theme" json:"theme" yaml:"theme" comment:"Theme: \"dark\" or \"light\""`
	MaxResults  int    `toml:"max_results" json:"max_results" yaml:"max_results" comment:"Maximum number of results to display"`
	WindowWidth int    `toml:"window_width" json:"window_width" yaml:"window_width" comment:"Window width in pixels"`
	AtuinPath   string `toml:"atuin_path,omitempty" json:"atuin_path,omitempty" yaml:"atuin_path,omitempty" comment:"Path to the atuin binary (defaults to atuin on PATH)"`
}

// ConfigUpdate carries optional changes; nil fields are left untouched.
type ConfigUpdate struct {
	Shortcut    *string
	Theme       *string
	MaxResults  *int
	WindowWidth *int
	AtuinPath   *string
}

// DefaultShortcut returns the platform default toggle shortcut.
func DefaultShortcut() string {
	if runtime.GOOS == "darwin" {
		return "CommandOrControl+Shift+Space"
	}
	return "Control+Shift+Space"
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Shortcut:    DefaultShortcut(),
		Theme:       ThemeDark,
		MaxResults:  20,
		WindowWidth: 700,
	}
}

// Apply merges the non-nil fields of u into c.
func (c *Config) Apply(u ConfigUpdate) {
	if u.Shortcut != nil {
		c.Shortcut = *u.Shortcut
	}
	if u.Theme != nil {
		c.Theme = *u.Theme
	}
	if u.MaxResults != nil {
		c.MaxResults = *u.MaxResults
	}
	if u.WindowWidth != nil {
		c.WindowWidth = *u.WindowWidth
	}
	if u.AtuinPath != nil {
		c.AtuinPath = *u.AtuinPath
	}
}

// fieldCheck validates one field and knows how to restore its default.
type fieldCheck struct {
	validate func(c *Config) error
	reset    func(c, defaults *Config)
}

var fieldChecks = []fieldCheck{
	{
		validate: func(c *Config) error {
			if c.Shortcut == "" {
				return fmt.Errorf("%w: shortcut must not be empty", ErrInvalid)
			}
			return nil
		},
		reset: func(c, d *Config) { c.Shortcut = d.Shortcut },
	},
	{
		validate: func(c *Config) error {
			if c.Theme != ThemeDark && c.Theme != ThemeLight {
				return fmt.Errorf("%w: theme %q (use %q or %q)", ErrInvalid, c.Theme, ThemeDark, ThemeLight)
			}
			return nil
		},
		reset: func(c, d *Config) { c.Theme = d.Theme },
	},
	{
		validate: func(c *Config) error {
			if c.MaxResults < MinMaxResults || c.MaxResults > MaxMaxResults {
				return fmt.Errorf("%w: max_results %d out of range %d..%d", ErrInvalid, c.MaxResults, MinMaxResults, MaxMaxResults)
			}
			return nil
		},
		reset: func(c, d *Config) { c.MaxResults = d.MaxResults },
	},
	{
		validate: func(c *Config) error {
			if c.WindowWidth < MinWindowWidth {
				return fmt.Errorf("%w: window_width %d below %d", ErrInvalid, c.WindowWidth, MinWindowWidth)
			}
			return nil
		},
		reset: func(c, d *Config) { c.WindowWidth = d.WindowWidth },
	},
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	for _, check := range fieldChecks {
		if err := check.validate(c); err != nil {
			return err
		}
	}
	return nil
}

// Sanitize resets every invalid field to its default and returns the joined
// validation errors, nil when c was already valid.
func (c *Config) Sanitize() error {
	defaults := Default()
	var errs []error
	for _, check := range fieldChecks {
		if err := check.validate(c); err != nil {
			errs = append(errs, err)
			check.reset(c, defaults)
		}
	}
	return errors.Join(errs...)
}

// Columns converts the pixel width into terminal columns, assuming 8px cells.
func (c *Config) Columns() int {
	return c.WindowWidth / 8
}

func (c *Config) clone() *Config {
	copied := *c
	return &copied
}
