package atuin

import "strings"

// Exit filter values.
const (
	ExitSuccess = "success"
	ExitFailure = "failure"
)

// timeRanges maps the supported range labels to atuin --after expressions.
var timeRanges = map[string]string{
	"1h":  "1 hour ago",
	"24h": "1 day ago",
	"7d":  "7 days ago",
	"30d": "30 days ago",
}

// TimeRanges lists the accepted TimeRange values, shortest first.
var TimeRanges = []string{"1h", "24h", "7d", "30d"}

// SearchFilters narrows a search. A nil *SearchFilters means no filtering at
// all, which callers keep distinct from a value whose fields are empty.
type SearchFilters struct {
	Directory  string `json:"directory,omitempty"`
	ExitFilter string `json:"exit_filter,omitempty"`
	TimeRange  string `json:"time_range,omitempty"`
}

// NewSearchFilters trims the inputs and returns nil when none is set.
func NewSearchFilters(directory, exitFilter, timeRange string) *SearchFilters {
	f := SearchFilters{
		Directory:  strings.TrimSpace(directory),
		ExitFilter: strings.TrimSpace(exitFilter),
		TimeRange:  strings.TrimSpace(timeRange),
	}
	if f.IsZero() {
		return nil
	}
	return &f
}

// IsZero reports whether no field is set.
func (f SearchFilters) IsZero() bool {
	return f.Directory == "" && f.ExitFilter == "" && f.TimeRange == ""
}

// args returns the atuin flags for f. Unknown exit or time values add nothing.
func (f *SearchFilters) args() []string {
	if f == nil {
		return nil
	}

	var args []string
	if f.Directory != "" {
		args = append(args, "--cwd", f.Directory)
	}

	switch f.ExitFilter {
	case ExitSuccess:
		args = append(args, "--exit", "0")
	case ExitFailure:
		args = append(args, "--exclude-exit", "0")
	}

	if after, ok := timeRanges[f.TimeRange]; ok {
		args = append(args, "--after", after)
	}
	return args
}
