package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TopBarModel struct {
	width        int
	trackedCount int
	currentRepo  string
	filter       string
	page         int
	issueCount   int
	loading      bool
	currentView  string
	shortcuts    []string
}

var (
	titleStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleOrangeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	valueWhiteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	shortcutBlueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	descGrayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
)

func NewTopBar() *TopBarModel {
	return &TopBarModel{}
}

func (m *TopBarModel) SetWidth(width int) {
	m.width = width
}

func (m *TopBarModel) SetTrackedCount(count int) {
	m.trackedCount = count
}

// SetRepository sets the repository shown in the issue browser. An empty
// name clears the issue context.
func (m *TopBarModel) SetRepository(fullName string) {
	m.currentRepo = fullName
	if fullName == "" {
		m.filter = ""
		m.page = 0
		m.issueCount = 0
		m.loading = false
	}
}

func (m *TopBarModel) SetIssueContext(filter string, page, count int, loading bool) {
	m.filter = filter
	m.page = page
	m.issueCount = count
	m.loading = loading
}

func (m *TopBarModel) SetView(view string) {
	m.currentView = view
}

func (m *TopBarModel) SetShortcuts(shortcuts []string) {
	m.shortcuts = shortcuts
}

func (m *TopBarModel) View() string {
	titleLine := titleOrangeStyle.Render("repodeck")

	contextLines := m.buildContextInfo()
	shortcutCol1, shortcutCol2, col1Width := m.buildShortcutsDisplay(len(contextLines))

	var topSection []string
	topSection = append(topSection, titleLine)
	topSection = append(topSection, "")

	const fixedRows = 4

	const contextColWidth = 45
	const colMargin = 4

	for i := 0; i < fixedRows; i++ {
		var contextCol, sc1, sc2 string

		if i < len(contextLines) {
			contextCol = contextLines[i]
		}
		if i < len(shortcutCol1) {
			sc1 = shortcutCol1[i]
		}
		if i < len(shortcutCol2) {
			sc2 = shortcutCol2[i]
		}

		padding1 := contextColWidth - lipgloss.Width(contextCol)
		if padding1 < 0 {
			padding1 = 1
		}

		line := contextCol + strings.Repeat(" ", padding1) + sc1

		if sc2 != "" {
			padding2 := col1Width - lipgloss.Width(sc1) + colMargin
			if padding2 < colMargin {
				padding2 = colMargin
			}
			line += strings.Repeat(" ", padding2) + sc2
		}

		topSection = append(topSection, line)
	}

	return titleStyle.Width(m.width).Render(strings.Join(topSection, "\n"))
}

func (m *TopBarModel) buildContextInfo() []string {
	var lines []string

	lines = append(lines,
		"📚 "+titleOrangeStyle.Render("Tracked: ")+valueWhiteStyle.Render(fmt.Sprintf("%d", m.trackedCount)))

	if m.currentRepo != "" {
		repo := m.currentRepo
		if len(repo) > 35 {
			repo = repo[:32] + "..."
		}
		lines = append(lines,
			"📦 "+titleOrangeStyle.Render("Repo: ")+valueWhiteStyle.Render(repo))

		issues := fmt.Sprintf("%s, page %d, %d shown", m.filter, m.page, m.issueCount)
		if m.loading {
			issues = "loading..."
		}
		lines = append(lines,
			"📋 "+titleOrangeStyle.Render("Issues: ")+valueWhiteStyle.Render(issues))
	}

	viewName := m.currentView
	if viewName == "" {
		viewName = "Repositories"
	}
	lines = append(lines,
		"🎯 "+titleOrangeStyle.Render("View: ")+valueWhiteStyle.Render(viewName))

	const minContextLines = 4
	for len(lines) < minContextLines {
		lines = append(lines, "")
	}

	return lines
}

// buildShortcutsDisplay formats "<key> description" entries into at most two
// columns and returns the width of the first.
func (m *TopBarModel) buildShortcutsDisplay(contextHeight int) ([]string, []string, int) {
	var formatted []string
	maxWidth := 0

	for _, shortcut := range m.shortcuts {
		parts := strings.SplitN(shortcut, ">", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "<")
		desc := strings.TrimSpace(parts[1])

		f := shortcutBlueStyle.Render("<"+key+">") + " " + descGrayStyle.Render(desc)
		formatted = append(formatted, f)

		if w := lipgloss.Width(f); w > maxWidth {
			maxWidth = w
		}
	}

	rows := 4
	if contextHeight > rows {
		rows = contextHeight
	}

	if len(formatted) <= rows {
		return formatted, nil, maxWidth
	}
	return formatted[:rows], formatted[rows:], maxWidth
}
