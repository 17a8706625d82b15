package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/johanforsgren/repodeck/internal/app"
	"github.com/johanforsgren/repodeck/internal/domain"
	"github.com/johanforsgren/repodeck/internal/provider/common"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func newAddCommand(deps func() *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "add <owner/name | owner name>",
		Short: "Start tracking a repository",
		Long: `Look the repository up on GitHub and add it to the tracked list under
its canonical name. Repositories already tracked (case-insensitive) are rejected.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := ownerAndName(args)
			if err != nil {
				return err
			}

			repo, err := deps().Tracker.Add(cmd.Context(), owner, name)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Tracking %s (%s)\n", repo.Name, repo.URL)
			return nil
		},
	}
}

func ownerAndName(args []string) (string, string, error) {
	if len(args) == 2 {
		return args[0], args[1], nil
	}
	return common.ParseRepositoryName(args[0])
}

func newRemoveCommand(deps func() *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <owner/name>",
		Aliases: []string{"rm"},
		Short:   "Stop tracking a repository",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			before := len(deps().Tracker.List())
			if err := deps().Tracker.Delete(args[0]); err != nil {
				return err
			}

			if removed := before - len(deps().Tracker.List()); removed > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s was not tracked\n", args[0])
			}
			return nil
		},
	}
}

func newListCommand(deps func() *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tracked repositories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeRepositories(cmd.OutOrStdout(), deps().Tracker.List(), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return cmd
}

type repositoryOutput struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

func writeRepositories(w io.Writer, repos []domain.TrackedRepository, output string) error {
	out := make([]repositoryOutput, len(repos))
	for i, r := range repos {
		out[i] = repositoryOutput{Name: r.Name, URL: r.URL}
	}

	switch output {
	case outputJSON:
		return writeJSON(w, out)
	case outputYAML:
		return writeYAML(w, out)
	case outputTable, "":
		if len(repos) == 0 {
			_, err := fmt.Fprintln(w, "No repositories tracked")
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "NAME\tURL")
		for _, r := range out {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", r.Name, r.URL)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
	}
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
