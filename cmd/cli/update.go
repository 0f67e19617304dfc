package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/tomatitito/atuin-bar/pkg/update"
	"github.com/tomatitito/atuin-bar/pkg/version"
)

var (
	checkOnly     bool
	forceUpdate   bool
	targetVersion string
	timeout       time.Duration
)

// newUpdateCommand creates the update command
func newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update atuin-bar to the latest version",
		Long: `Update atuin-bar to the latest version from GitHub releases.

Examples:
  atuin-bar update                    # Update to latest version
  atuin-bar update --check            # Check for updates without updating
  atuin-bar update --version v1.2.3   # Update to specific version
  atuin-bar update --force            # Force update even if same version`,
		Args: cobra.NoArgs,
		RunE: runUpdateCommand,
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Check for updates without updating")
	cmd.Flags().BoolVar(&forceUpdate, "force", false, "Force update even if current version is latest")
	cmd.Flags().StringVar(&targetVersion, "version", "", "Update to specific version")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Timeout for update operation")

	return cmd
}

func runUpdateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	updater, err := update.NewUpdater()
	if err != nil {
		return fmt.Errorf("failed to create updater: %w", err)
	}

	if checkOnly {
		return checkForUpdates(ctx, cmd.OutOrStdout(), updater)
	}
	return performUpdate(ctx, cmd.OutOrStdout(), updater)
}

func checkForUpdates(ctx context.Context, out io.Writer, updater *update.Updater) error {
	fmt.Fprintf(out, "Current version: %s\n", version.GetVersion())
	fmt.Fprintln(out, "Checking for updates...")

	info, err := updater.CheckForUpdates(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	printCheckResult(out, info)
	return nil
}

func printCheckResult(out io.Writer, info *update.UpdateInfo) {
	fmt.Fprintf(out, "Latest version: %s\n", info.LatestVersion)

	if !info.UpdateNeeded {
		fmt.Fprintln(out, "✅ You are already using the latest version.")
		return
	}
	fmt.Fprintln(out, "🎉 A new version is available!")
	fmt.Fprintf(out, "Current: %s → Latest: %s\n", info.CurrentVersion, info.LatestVersion)
	if info.ReleaseNotes != "" {
		fmt.Fprintf(out, "\nRelease Notes:\n%s\n", info.ReleaseNotes)
	}
	fmt.Fprintln(out, "\nRun 'atuin-bar update' to update to the latest version.")
}

func performUpdate(ctx context.Context, out io.Writer, updater *update.Updater) error {
	fmt.Fprintf(out, "Current version: %s\n", version.GetVersion())
	if forceUpdate {
		fmt.Fprintln(out, "🔄 Force updating...")
	}

	info, err := updater.UpdateWithOptions(ctx, update.UpdateOptions{
		Force:         forceUpdate,
		TargetVersion: targetVersion,
		Timeout:       timeout,
	})
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	if !info.UpdateNeeded && !forceUpdate {
		fmt.Fprintf(out, "✅ You are already using the latest version (%s).\n", info.LatestVersion)
		fmt.Fprintln(out, "Use --force to reinstall the current version.")
		return nil
	}

	fmt.Fprintf(out, "✅ Successfully updated to version %s!\n", info.LatestVersion)
	if info.ReleaseNotes != "" {
		fmt.Fprintf(out, "\nRelease Notes:\n%s\n", info.ReleaseNotes)
	}
	fmt.Fprintln(out, "\n🚀 Restart atuin-bar to use the new version.")
	return nil
}
