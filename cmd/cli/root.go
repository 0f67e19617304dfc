package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
	"github.com/tomatitito/atuin-bar/cmd/tui"
	"github.com/tomatitito/atuin-bar/internal/di"
	"github.com/tomatitito/atuin-bar/pkg/atuin"
	"github.com/tomatitito/atuin-bar/pkg/config"
	"github.com/tomatitito/atuin-bar/pkg/logging"
	"github.com/tomatitito/atuin-bar/pkg/version"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Overlay flags
	initialQuery string
	printCopied  bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "atuin-bar",
	Short: "Search your shell history in a terminal overlay",
	Long: `atuin-bar opens a small search overlay over your atuin shell history.
Type to search, use the arrow keys to select and press Enter to copy the
command to the clipboard.`,
	Version:       version.GetVersion(),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Configure logger based on flags
		var logger logging.Logger
		if quiet {
			logger = logging.NewQuietLogger()
		} else if verbose {
			logger = logging.NewVerboseLogger()
		} else {
			logger = logging.NewDefaultLogger()
		}
		logging.SetGlobalLogger(logger)
		return nil
	},
	RunE: runOverlay,
}

// versionChecker is implemented by searchers that can report the installed
// atuin version.
type versionChecker interface {
	CheckCompatible(ctx context.Context) (*semver.Version, error)
}

func runOverlay(cmd *cobra.Command, args []string) error {
	// The overlay owns the terminal; logs go to a file until it closes.
	logger, closer := logging.NewFileLoggerFromEnv()
	defer closer.Close()
	stderrLogger := logging.GetGlobalLogger()

	deps, err := di.InitializeOverlayDeps(logger)
	if err != nil {
		return fmt.Errorf("failed to initialize overlay: %w", err)
	}
	if checker, ok := deps.Searcher.(versionChecker); ok {
		warnIncompatible(cmd.Context(), checker, stderrLogger)
	}

	logging.SetGlobalLogger(logger)
	defer logging.SetGlobalLogger(stderrLogger)

	app, err := tui.New(deps, tui.WithQuery(initialQuery))
	if err != nil {
		return err
	}
	defer app.Stop()

	copied, err := app.Start()
	if err != nil {
		return err
	}
	if printCopied && copied != "" {
		fmt.Fprintln(cmd.OutOrStdout(), copied)
	}
	return nil
}

// warnIncompatible logs a warning when atuin is missing or too old. The
// overlay still starts and reports search failures in its status line.
func warnIncompatible(ctx context.Context, checker versionChecker, logger logging.Logger) {
	if ctx == nil {
		ctx = context.Background()
	}
	v, err := checker.CheckCompatible(ctx)
	switch {
	case errors.Is(err, atuin.ErrNotInstalled):
		logger.Warn("atuin was not found; install it or set atuin_path", "env", config.EnvAtuinPath)
	case err != nil && v != nil:
		logger.Warn("atuin version may be incompatible", "version", v.String(), "minimum", atuin.MinimumVersion, "error", err)
	case err != nil:
		logger.Warn("could not determine atuin version", "error", err)
	default:
		logger.Debug("atuin detected", "version", v.String())
	}
}

func init() {
	// Global flags available to all commands
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug level)")
	RootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output (errors only)")

	RootCmd.Flags().StringVar(&initialQuery, "query", "", "pre-fill the search input and search immediately")
	RootCmd.Flags().BoolVar(&printCopied, "print", false, "print the copied command to stdout")

	RootCmd.SetVersionTemplate(version.GetInfo().ShortString() + "\n")

	// Add CLI subcommands
	addCommands()
}

// addCommands adds all CLI subcommands to the root command
func addCommands() {
	RootCmd.AddCommand(NewSearchCommand(func() (atuin.Searcher, error) {
		return di.InitializeSearcher(logging.GetGlobalLogger())
	}))
	RootCmd.AddCommand(NewConfigCommand(func() (*config.Manager, error) {
		return di.InitializeConfigManager(logging.GetGlobalLogger())
	}))
	RootCmd.AddCommand(newUpdateCommand())
}
