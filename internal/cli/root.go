// Package cli provides the command-line interface for repodeck.
package cli

import (
	"github.com/johanforsgren/repodeck/internal/app"
	"github.com/johanforsgren/repodeck/internal/config"
	"github.com/spf13/cobra"
)

// ContainerFunc builds the dependency container once flags are parsed.
type ContainerFunc func(opts app.Options) (*app.Container, error)

// launchTUIFunc is a variable so tests can replace the interactive program.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command. Running it without a subcommand
// opens the dashboard.
func NewRootCommand(newContainer ContainerFunc, version string) *cobra.Command {
	var (
		configPath string
		dataDir    string
		container  *app.Container
	)

	root := &cobra.Command{
		Use:   "repodeck",
		Short: "Track GitHub repositories and browse their issues",
		Long: `repodeck keeps a personal list of tracked GitHub repositories and
lets you page through each repository's issues from the terminal.

Run without arguments to open the dashboard.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			c, err := newContainer(app.Options{
				ConfigPath: configPath,
				DataDir:    dataDir,
				Stdout:     cmd.OutOrStdout(),
				Stderr:     cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			container = c
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if container == nil {
				return nil
			}
			return container.Close()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(container)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to the config file")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the tracked list (overrides config)")

	deps := func() *app.Container { return container }
	root.AddCommand(
		newAddCommand(deps),
		newRemoveCommand(deps),
		newListCommand(deps),
		newIssuesCommand(deps),
		newConfigCommand(deps),
		newVersionCommand(version),
	)

	return root
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the repodeck version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write([]byte("repodeck " + version + "\n"))
			return err
		},
	}
}
