package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/johanforsgren/repodeck/internal/app"
	"github.com/johanforsgren/repodeck/internal/domain"
	"github.com/johanforsgren/repodeck/internal/issues"
	"github.com/spf13/cobra"
)

func newIssuesCommand(deps func() *app.Container) *cobra.Command {
	var (
		state  string
		page   int
		output string
	)

	cmd := &cobra.Command{
		Use:   "issues <owner/name>",
		Short: "Show one page of a repository's issues",
		Long: `Fetch the repository and one page of its issues (5 per page).
The repository may be given URL-encoded, e.g. octocat%2FHello-World.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := domain.ParseIssueFilter(state)
			if err != nil {
				return err
			}
			if page < 1 {
				return fmt.Errorf("--page must be at least 1, got %d", page)
			}

			b := deps().NewBrowser(args[0])
			ctx := cmd.Context()
			if err := b.Load(ctx); err != nil {
				return err
			}

			if filter != b.ShownFilter() || page != b.Page() {
				b.SetFilter(filter)
				q, err := b.SetPage(page)
				if err != nil {
					return err
				}
				if _, err := b.Apply(b.Fetch(ctx, q)); err != nil {
					return err
				}
			}

			return writeIssuePage(cmd.OutOrStdout(), b, output)
		},
	}

	cmd.Flags().StringVarP(&state, "state", "s", string(issues.InitialFilter), "issue state: all, open or closed")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return cmd
}

type issueOutput struct {
	Number int      `json:"number" yaml:"number"`
	Title  string   `json:"title" yaml:"title"`
	Author string   `json:"author" yaml:"author"`
	Labels []string `json:"labels" yaml:"labels"`
	URL    string   `json:"url" yaml:"url"`
}

type issuePageOutput struct {
	Repository  string        `json:"repository" yaml:"repository"`
	Description string        `json:"description" yaml:"description"`
	URL         string        `json:"url" yaml:"url"`
	State       string        `json:"state" yaml:"state"`
	Page        int           `json:"page" yaml:"page"`
	Issues      []issueOutput `json:"issues" yaml:"issues"`
}

func newIssuePageOutput(b *issues.Browser) issuePageOutput {
	out := issuePageOutput{
		Repository: b.FullName(),
		State:      string(b.ShownFilter()),
		Page:       b.Page(),
		Issues:     []issueOutput{},
	}
	if repo := b.Repository(); repo != nil {
		out.Repository = repo.FullName
		out.Description = repo.Description
		out.URL = repo.HTMLURL
	}
	for _, issue := range b.Issues() {
		labels := make([]string, len(issue.Labels))
		for i, l := range issue.Labels {
			labels[i] = l.Name
		}
		out.Issues = append(out.Issues, issueOutput{
			Number: issue.Number,
			Title:  issue.Title,
			Author: issue.AuthorLogin,
			Labels: labels,
			URL:    issue.HTMLURL,
		})
	}
	return out
}

func writeIssuePage(w io.Writer, b *issues.Browser, output string) error {
	page := newIssuePageOutput(b)

	switch output {
	case outputJSON:
		return writeJSON(w, page)
	case outputYAML:
		return writeYAML(w, page)
	case outputTable, "":
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
	}

	_, _ = fmt.Fprintf(w, "%s  %s\n", page.Repository, page.URL)
	if page.Description != "" {
		_, _ = fmt.Fprintln(w, page.Description)
	}
	_, _ = fmt.Fprintf(w, "\n%s issues, page %d\n\n", domain.IssueFilter(page.State).Label(), page.Page)

	if len(page.Issues) == 0 {
		_, err := fmt.Fprintln(w, "No issues on this page")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tTITLE\tAUTHOR\tLABELS")
	for _, issue := range page.Issues {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", issue.Number, issue.Title, issue.Author, strings.Join(issue.Labels, ", "))
	}
	return tw.Flush()
}
