package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tomatitito/atuin-bar/pkg/config"
)

// ManagerProvider creates the config manager used by the config command.
type ManagerProvider func() (*config.Manager, error)

func NewConfigCommand(provide ManagerProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the atuin-bar configuration",
	}
	cmd.AddCommand(
		newConfigShowCommand(provide),
		newConfigPathCommand(provide),
		newConfigSetCommand(provide),
	)
	return cmd
}

func newConfigShowCommand(provide ManagerProvider) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := provide()
			if err != nil {
				return err
			}
			cfg := manager.Get()

			switch output {
			case OutputTOML:
				data, err := config.Marshal(cfg)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			case OutputJSON:
				return writeJSON(cmd.OutOrStdout(), cfg)
			case OutputYAML:
				return writeYAML(cmd.OutOrStdout(), cfg)
			}
			return fmt.Errorf("invalid --output %q (use toml, json or yaml)", output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", OutputTOML, "output format: toml|json|yaml")
	return cmd
}

func newConfigPathCommand(provide ManagerProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := provide()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), manager.Path())
			return nil
		},
	}
}

func newConfigSetCommand(provide ManagerProvider) *cobra.Command {
	var (
		shortcut    string
		theme       string
		maxResults  int
		windowWidth int
		atuinPath   string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change configuration values",
		Long: `Change one or more configuration values and save the file.

Examples:
  atuin-bar config set --theme light
  atuin-bar config set --max-results 50 --window-width 900`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var u config.ConfigUpdate
			flags := cmd.Flags()
			if flags.Changed("shortcut") {
				u.Shortcut = &shortcut
			}
			if flags.Changed("theme") {
				u.Theme = &theme
			}
			if flags.Changed("max-results") {
				u.MaxResults = &maxResults
			}
			if flags.Changed("window-width") {
				u.WindowWidth = &windowWidth
			}
			if flags.Changed("atuin-path") {
				u.AtuinPath = &atuinPath
			}
			if u == (config.ConfigUpdate{}) {
				return errors.New("nothing to set, pass at least one flag")
			}

			manager, err := provide()
			if err != nil {
				return err
			}
			if _, err := manager.Update(u); err != nil {
				return fmt.Errorf("failed to update configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", manager.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&shortcut, "shortcut", "", "global shortcut to toggle the window")
	cmd.Flags().StringVar(&theme, "theme", "", "theme: dark|light")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "maximum number of results to display")
	cmd.Flags().IntVar(&windowWidth, "window-width", 0, "window width in pixels")
	cmd.Flags().StringVar(&atuinPath, "atuin-path", "", "path to the atuin binary")
	return cmd
}
