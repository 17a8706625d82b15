package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/repodeck/internal/domain"
	"github.com/mattn/go-runewidth"
)

// IssuesViewModel renders one repository header, the state filter tabs, a page
// of issues and the pager.
type IssuesViewModel struct {
	table   table.Model
	spinner spinner.Model

	fullName   string
	repository *domain.RepositoryDetail
	issues     []domain.Issue
	filter     domain.IssueFilter
	page       int
	canGoBack  bool
	loading    bool
	fetching   bool
	err        error

	width  int
	height int
}

func NewIssuesView() *IssuesViewModel {
	columns := []table.Column{
		{Title: "#", Width: 7},
		{Title: "Title", Width: 50},
		{Title: "Author", Width: 15},
		{Title: "Labels", Width: 24},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(7),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.HiddenBorder()).
		Bold(false).
		Foreground(lipgloss.Color("#6B7280"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#F59E0B")).
		Background(lipgloss.Color("#1F2937")).
		Bold(true)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))

	return &IssuesViewModel{
		table:   t,
		spinner: sp,
		filter:  domain.IssueFilters[0],
		page:    1,
	}
}

func (m *IssuesViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.updateColumnWidths()
}

func (m *IssuesViewModel) updateColumnWidths() {
	const (
		numberWidth   = 7
		authorWidth   = 15
		labelsWidth   = 24
		minTitleWidth = 20
		maxTitleWidth = 100
	)

	available := max(0, m.width-numberWidth-authorWidth-labelsWidth-8)
	titleWidth := clamp(available, minTitleWidth, maxTitleWidth)

	m.table.SetColumns([]table.Column{
		{Title: "#", Width: numberWidth},
		{Title: "Title", Width: titleWidth},
		{Title: "Author", Width: authorWidth},
		{Title: "Labels", Width: labelsWidth},
	})
	m.table.SetRows(m.issuesToRows(m.issues))
}

// Reset prepares the view for a new repository and starts the spinner.
func (m *IssuesViewModel) Reset(fullName string) tea.Cmd {
	m.fullName = fullName
	m.repository = nil
	m.issues = nil
	m.filter = domain.IssueFilters[0]
	m.page = 1
	m.canGoBack = false
	m.loading = true
	m.fetching = false
	m.err = nil
	m.table.SetRows(nil)
	m.table.SetCursor(0)
	return m.spinner.Tick
}

func (m *IssuesViewModel) FullName() string {
	return m.fullName
}

func (m *IssuesViewModel) SetRepository(repo *domain.RepositoryDetail) {
	m.repository = repo
}

func (m *IssuesViewModel) Repository() *domain.RepositoryDetail {
	return m.repository
}

func (m *IssuesViewModel) SetLoading(loading bool) {
	m.loading = loading
}

func (m *IssuesViewModel) Loading() bool {
	return m.loading
}

// SetFetching marks a page request in flight. Returns the spinner tick when
// it starts one.
func (m *IssuesViewModel) SetFetching(fetching bool) tea.Cmd {
	m.fetching = fetching
	if fetching {
		return m.spinner.Tick
	}
	return nil
}

func (m *IssuesViewModel) SetCursor(filter domain.IssueFilter, page int, canGoBack bool) {
	m.filter = filter
	m.page = page
	m.canGoBack = canGoBack
}

func (m *IssuesViewModel) SetIssues(issues []domain.Issue) {
	m.issues = append([]domain.Issue(nil), issues...)
	m.err = nil
	m.table.SetRows(m.issuesToRows(m.issues))
	m.table.SetCursor(0)
}

func (m *IssuesViewModel) Issues() []domain.Issue {
	return m.issues
}

func (m *IssuesViewModel) SetError(err error) {
	m.err = err
}

func (m *IssuesViewModel) Err() error {
	return m.err
}

func (m *IssuesViewModel) GetSelectedIssue() *domain.Issue {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.issues) {
		return nil
	}
	return &m.issues[idx]
}

func (m *IssuesViewModel) issuesToRows(issues []domain.Issue) []table.Row {
	rows := make([]table.Row, len(issues))
	titleWidth := m.table.Columns()[1].Width

	for i, issue := range issues {
		labels := make([]string, len(issue.Labels))
		for j, l := range issue.Labels {
			labels[j] = l.Name
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", issue.Number),
			truncateString(issue.Title, titleWidth),
			truncateString(issue.AuthorLogin, 15),
			truncateString(strings.Join(labels, ", "), 24),
		}
	}
	return rows
}

func (m *IssuesViewModel) Update(msg tea.Msg) tea.Cmd {
	if tick, ok := msg.(spinner.TickMsg); ok {
		if !m.loading && !m.fetching {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}

func (m *IssuesViewModel) View() string {
	var b strings.Builder

	if m.loading {
		b.WriteString(m.spinner.View() + " Loading " + m.fullName + "...")
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
		}
		b.WriteString(helpStyle.Render("\nq: Back"))
		return b.String()
	}

	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewFilterTabs())
	b.WriteString("\n\n")

	if len(m.issues) == 0 {
		b.WriteString(mutedStyle.Render("No issues on this page"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.viewPager())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	b.WriteString(helpStyle.Render("\nTab/1-3: Filter | p/n: Previous/Next page | o: Open issue | O: Open repository | r: Refresh | q: Back"))
	return b.String()
}

func (m *IssuesViewModel) viewHeader() string {
	repo := m.repository
	if repo == nil {
		return titleStyle.Render(m.fullName)
	}

	lines := []string{
		titleStyle.Render(repo.FullName) + "  " + linkStyle.Render(repo.HTMLURL),
		mutedStyle.Render(fmt.Sprintf("by %s (%s)", repo.OwnerLogin, repo.OwnerAvatarURL)),
	}
	if repo.Description != "" {
		lines = append(lines, repo.Description)
	}
	return strings.Join(lines, "\n")
}

func (m *IssuesViewModel) viewFilterTabs() string {
	tabs := make([]string, len(domain.IssueFilters))
	for i, f := range domain.IssueFilters {
		label := fmt.Sprintf("%d %s", i+1, f.Label())
		if f == m.filter {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *IssuesViewModel) viewPager() string {
	prev := pagerStyle.Render("◀ Previous")
	if !m.canGoBack {
		prev = inertStyle.Render("◀ Previous")
	}
	next := pagerStyle.Render("Next ▶")

	page := fmt.Sprintf("Page %d", m.page)
	if m.fetching {
		page = m.spinner.View() + " " + page
	}
	return prev + "   " + page + "   " + next
}

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Underline(true)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(lipgloss.Color("#7C3AED")).
			Bold(true).
			Padding(0, 2)

	pagerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	inertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4B5563")).
			Strikethrough(true)
)

// truncateString fits s into maxWidth terminal cells, ending in "..." when
// there is room for it.
func truncateString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
