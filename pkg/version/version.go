package version

import (
	"fmt"
	"runtime"
)

// Build information, set via ldflags during release builds.
var (
	Version   = "dev"
	Commit    = "unknown"
	Date      = "unknown"
	BuiltBy   = "unknown"
	GoVersion = runtime.Version()
)

// Name is the binary name used in version output.
const Name = "atuin-bar"

// Info holds version information
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// GetInfo returns version information
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		BuiltBy:   BuiltBy,
		GoVersion: GoVersion,
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// GetVersion returns just the version string
func GetVersion() string {
	return Version
}

// IsDevelopment reports whether v is an unreleased build.
func IsDevelopment(v string) bool {
	return v == "" || v == "dev" || v == "development"
}

func (i Info) String() string {
	return fmt.Sprintf("%s version %s\ncommit: %s\nbuilt: %s\nby: %s\ngo: %s\nplatform: %s",
		Name, i.Version, i.Commit, i.Date, i.BuiltBy, i.GoVersion, i.Platform)
}

// ShortString returns a short version string
func (i Info) ShortString() string {
	return fmt.Sprintf("%s version %s", Name, i.Version)
}
