package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/tomatitito/atuin-bar/pkg/atuin"
	"github.com/tomatitito/atuin-bar/pkg/config"
	"github.com/tomatitito/atuin-bar/pkg/history"
	"gopkg.in/yaml.v3"
)

// Output formats understood by the search and config commands.
const (
	OutputPlain = "plain"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputTOML  = "toml"
)

// SearcherProvider creates the searcher used by the search command.
type SearcherProvider func() (atuin.Searcher, error)

type searchOptions struct {
	cwd    string
	exit   string
	since  string
	output string
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func NewSearchCommand(provide SearcherProvider) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search shell history without opening the overlay",
		Long: `Run one atuin search and print the results, most recent last, in the
same order as the overlay.

Examples:
  atuin-bar search git
  atuin-bar search --exit failure --since 24h make
  atuin-bar search --cwd ~/src --output json docker`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			searcher, err := provide()
			if err != nil {
				return fmt.Errorf("failed to create searcher: %w", err)
			}
			return runSearch(cmd, searcher, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.cwd, "cwd", "", "only commands run in this directory")
	cmd.Flags().StringVar(&opts.exit, "exit", "", "only commands that exited with: success|failure")
	cmd.Flags().StringVar(&opts.since, "since", "", "only commands newer than: "+strings.Join(atuin.TimeRanges, "|"))
	cmd.Flags().StringVarP(&opts.output, "output", "o", OutputPlain, "output format: plain|json|yaml")

	return cmd
}

func (o searchOptions) validate() error {
	if o.exit != "" && o.exit != atuin.ExitSuccess && o.exit != atuin.ExitFailure {
		return fmt.Errorf("invalid --exit %q (use %s or %s)", o.exit, atuin.ExitSuccess, atuin.ExitFailure)
	}
	if o.since != "" && !slices.Contains(atuin.TimeRanges, o.since) {
		return fmt.Errorf("invalid --since %q (use %s)", o.since, strings.Join(atuin.TimeRanges, ", "))
	}
	switch o.output {
	case OutputPlain, OutputJSON, OutputYAML:
		return nil
	}
	return fmt.Errorf("invalid --output %q (use plain, json or yaml)", o.output)
}

func runSearch(cmd *cobra.Command, searcher atuin.Searcher, query string, opts searchOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	output, err := searcher.Search(ctx, query, atuin.NewSearchFilters(opts.cwd, opts.exit, opts.since))
	if errors.Is(err, atuin.ErrNotInstalled) {
		return fmt.Errorf("%w (install atuin or set %s)", err, config.EnvAtuinPath)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	results := history.ParseOutput(output)
	if results == nil {
		results = []history.SearchResult{}
	}
	return writeResults(cmd.OutOrStdout(), results, opts.output)
}

func writeResults(w io.Writer, results []history.SearchResult, format string) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, results)
	case OutputYAML:
		return writeYAML(w, results)
	}

	styled := isTerminal(w)
	for _, r := range results {
		if _, err := fmt.Fprintln(w, plainLine(r, styled)); err != nil {
			return err
		}
	}
	return nil
}

func plainLine(r history.SearchResult, styled bool) string {
	marker, style := " ", mutedStyle
	switch {
	case r.Succeeded():
		marker, style = "✓", successStyle
	case r.ExitCode != "":
		marker, style = "✗", failureStyle
	}

	summary := r.Summary()
	if styled {
		marker = style.Render(marker)
	}
	if summary == "" {
		return marker + " " + r.Command
	}
	if styled {
		summary = mutedStyle.Render(summary)
	}
	return marker + " " + r.Command + "  " + summary
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
