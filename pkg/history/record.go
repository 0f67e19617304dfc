package history

import "strings"

// Delimiter separates the fields of one atuin search line.
const Delimiter = "|"

// Format is the atuin --format template the parser expects. The command goes
// first so that pipes inside it are absorbed by the leading field.
const Format = "{command}|{exit}|{directory}|{time}"

// trailingFields is the number of fixed fields after the command.
const trailingFields = 3

// SearchResult is one entry of the shell history as returned by atuin.
type SearchResult struct {
	Command   string `json:"command" yaml:"command"`
	ExitCode  string `json:"exit_code" yaml:"exit_code"`
	Directory string `json:"directory" yaml:"directory"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// Succeeded reports whether the command exited with status 0.
func (r SearchResult) Succeeded() bool {
	return r.ExitCode == "0"
}

// Summary joins the non-empty metadata fields for display, for example
// "exit 0 · ~/src · 2m ago".
func (r SearchResult) Summary() string {
	parts := make([]string, 0, 3)
	if strings.TrimSpace(r.ExitCode) != "" {
		parts = append(parts, "exit "+r.ExitCode)
	}
	for _, p := range []string{r.Directory, r.Timestamp} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}
