package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/repodeck/internal/domain"
	"github.com/johanforsgren/repodeck/internal/logger"
	"github.com/johanforsgren/repodeck/internal/provider/common"
	"github.com/johanforsgren/repodeck/internal/ui/views"
)

type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandQuit
	CommandAdd
	CommandRemove
	CommandOpen
	CommandFilter
	CommandPage
	CommandRefresh
	CommandLogs
	CommandHelp
)

type Command struct {
	Type CommandType
	Args []string
}

func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)

	if !strings.HasPrefix(input, ":") {
		return Command{Type: CommandUnknown}
	}

	parts := strings.Fields(strings.TrimPrefix(input, ":"))
	if len(parts) == 0 {
		return Command{Type: CommandUnknown}
	}

	args := parts[1:]
	switch parts[0] {
	case "q", "quit":
		return Command{Type: CommandQuit, Args: args}
	case "a", "add":
		return Command{Type: CommandAdd, Args: args}
	case "rm", "remove", "delete":
		return Command{Type: CommandRemove, Args: args}
	case "o", "open":
		return Command{Type: CommandOpen, Args: args}
	case "f", "filter":
		return Command{Type: CommandFilter, Args: args}
	case "p", "page":
		return Command{Type: CommandPage, Args: args}
	case "r", "refresh":
		return Command{Type: CommandRefresh, Args: args}
	case "logs":
		return Command{Type: CommandLogs, Args: args}
	case "h", "help":
		return Command{Type: CommandHelp, Args: args}
	default:
		return Command{Type: CommandUnknown, Args: args}
	}
}

type KeyBinding struct {
	Keys        []string
	Description string
	AvailableIn []ViewState
	Handler     func(Model) (Model, tea.Cmd)
}

type CommandRegistry struct {
	keyBindings []*KeyBinding
}

func NewCommandRegistry() *CommandRegistry {
	both := []ViewState{ViewRepoList, ViewIssues}
	list := []ViewState{ViewRepoList}
	issuesOnly := []ViewState{ViewIssues}

	return &CommandRegistry{keyBindings: []*KeyBinding{
		{Keys: []string{"enter"}, Description: "Browse issues", AvailableIn: list, Handler: handleEnterKey},
		{Keys: []string{"a"}, Description: "Add repository", AvailableIn: list, Handler: handleAddKey},
		{Keys: []string{"d"}, Description: "Delete repository", AvailableIn: list, Handler: handleDeleteKey},
		{Keys: []string{"o"}, Description: "Open in browser", AvailableIn: both, Handler: handleOpenBrowserKey},
		{Keys: []string{"O"}, Description: "Open repository", AvailableIn: issuesOnly, Handler: handleOpenRepositoryKey},
		{Keys: []string{"tab"}, Description: "Next filter", AvailableIn: issuesOnly, Handler: handleCycleFilterKey},
		{Keys: []string{"1"}, Description: "All issues", AvailableIn: issuesOnly, Handler: filterHandler(domain.FilterAll)},
		{Keys: []string{"2"}, Description: "Open issues", AvailableIn: issuesOnly, Handler: filterHandler(domain.FilterOpen)},
		{Keys: []string{"3"}, Description: "Closed issues", AvailableIn: issuesOnly, Handler: filterHandler(domain.FilterClosed)},
		{Keys: []string{"n", "right"}, Description: "Next page", AvailableIn: issuesOnly, Handler: pageHandler(domain.PageForward)},
		{Keys: []string{"p", "left"}, Description: "Previous page", AvailableIn: issuesOnly, Handler: pageHandler(domain.PageBack)},
		{Keys: []string{"r"}, Description: "Refresh", AvailableIn: issuesOnly, Handler: handleRefreshKey},
		{Keys: []string{"L"}, Description: "Logs", AvailableIn: both, Handler: handleLogsKey},
		{Keys: []string{":"}, Description: "Command", AvailableIn: both, Handler: handleCommandBarKey},
		{Keys: []string{"q", "esc"}, Description: "Back/Quit", AvailableIn: both, Handler: handleQuitKey},
		{Keys: []string{"ctrl+c"}, Description: "Quit", AvailableIn: both, Handler: func(m Model) (Model, tea.Cmd) { return m, tea.Quit }},
	}}
}

// HandleKey runs the binding for key in the current view. handled is false
// when no binding matched, so the key can fall through to the view.
func (r *CommandRegistry) HandleKey(m Model, key string) (tea.Model, tea.Cmd, bool) {
	for _, binding := range r.keyBindings {
		if !binding.availableIn(m.state) {
			continue
		}
		for _, k := range binding.Keys {
			if k == key {
				newModel, cmd := binding.Handler(m)
				return newModel, cmd, true
			}
		}
	}
	return m, nil, false
}

func (b *KeyBinding) availableIn(state ViewState) bool {
	for _, s := range b.AvailableIn {
		if s == state {
			return true
		}
	}
	return false
}

// GetContextualShortcuts lists "<key> description" for the bindings of state.
func (r *CommandRegistry) GetContextualShortcuts(state ViewState) []string {
	var shortcuts []string
	for _, binding := range r.keyBindings {
		if binding.availableIn(state) && binding.Keys[0] != "ctrl+c" {
			shortcuts = append(shortcuts, fmt.Sprintf("<%s> %s", binding.Keys[0], binding.Description))
		}
	}
	return shortcuts
}

func (r *CommandRegistry) ExecuteCommand(m Model, input string) (tea.Model, tea.Cmd) {
	command := ParseCommand(input)
	logger.Log("UI command", "input", input, "type", int(command.Type))

	switch command.Type {
	case CommandQuit:
		return m, tea.Quit

	case CommandAdd:
		if len(command.Args) == 0 {
			return handleAddKey(m)
		}
		if len(command.Args) == 2 {
			return m, m.addRepository(command.Args[0], command.Args[1])
		}
		owner, name, err := common.ParseRepositoryName(command.Args[0])
		if err != nil {
			return m, errorCmd(err)
		}
		return m, m.addRepository(owner, name)

	case CommandRemove:
		if len(command.Args) != 1 {
			return m, errorCmd(errors.New("usage: :remove owner/name"))
		}
		return m.deleteRepository(command.Args[0])

	case CommandOpen:
		if len(command.Args) != 1 {
			return m, errorCmd(errors.New("usage: :open owner/name"))
		}
		return m.openIssues(command.Args[0])

	case CommandFilter:
		if m.state != ViewIssues || len(command.Args) != 1 {
			return m, errorCmd(errors.New("usage: :filter all|open|closed (issue view)"))
		}
		filter, err := domain.ParseIssueFilter(command.Args[0])
		if err != nil {
			return m, errorCmd(err)
		}
		return m.changeFilter(filter)

	case CommandPage:
		if m.state != ViewIssues || len(command.Args) != 1 {
			return m, errorCmd(errors.New("usage: :page N (issue view)"))
		}
		page, err := strconv.Atoi(command.Args[0])
		if err != nil {
			return m, errorCmd(fmt.Errorf("invalid page %q", command.Args[0]))
		}
		return m.jumpToPage(page)

	case CommandRefresh:
		return handleRefreshKey(m)

	case CommandLogs:
		return handleLogsKey(m)

	case CommandHelp:
		m.statusBar.SetMessage(strings.Join(r.GetContextualShortcuts(m.state), "  "), false)
		return m, nil

	default:
		return m, errorCmd(fmt.Errorf("unknown command: %s", strings.TrimSpace(input)))
	}
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{err: err}
	}
}

func handleEnterKey(m Model) (Model, tea.Cmd) {
	repo := m.repoList.GetSelectedRepository()
	if repo == nil {
		return m, nil
	}
	return m.openIssues(repo.Name)
}

func handleAddKey(m Model) (Model, tea.Cmd) {
	m.state = ViewRepoList
	m.repoList.EnterAddMode()
	m.tracker.InputChanged()
	return m, nil
}

func handleDeleteKey(m Model) (Model, tea.Cmd) {
	repo := m.repoList.GetSelectedRepository()
	if repo == nil {
		return m, nil
	}
	return m.deleteRepository(repo.Name)
}

func handleOpenBrowserKey(m Model) (Model, tea.Cmd) {
	switch m.state {
	case ViewRepoList:
		if repo := m.repoList.GetSelectedRepository(); repo != nil {
			return m.openURL(repo.URL)
		}
	case ViewIssues:
		if issue := m.issuesView.GetSelectedIssue(); issue != nil {
			return m.openURL(issue.HTMLURL)
		}
	}
	return m, nil
}

func handleOpenRepositoryKey(m Model) (Model, tea.Cmd) {
	if repo := m.issuesView.Repository(); repo != nil {
		return m.openURL(repo.HTMLURL)
	}
	return m, nil
}

func handleCycleFilterKey(m Model) (Model, tea.Cmd) {
	if m.browser == nil {
		return m, nil
	}
	current := m.browser.Filter()
	next := domain.IssueFilters[0]
	for i, f := range domain.IssueFilters {
		if f == current {
			next = domain.IssueFilters[(i+1)%len(domain.IssueFilters)]
			break
		}
	}
	return m.changeFilter(next)
}

func filterHandler(filter domain.IssueFilter) func(Model) (Model, tea.Cmd) {
	return func(m Model) (Model, tea.Cmd) {
		return m.changeFilter(filter)
	}
}

func pageHandler(direction domain.PageDirection) func(Model) (Model, tea.Cmd) {
	return func(m Model) (Model, tea.Cmd) {
		return m.turnPage(direction)
	}
}

func handleRefreshKey(m Model) (Model, tea.Cmd) {
	if m.state != ViewIssues || m.browser == nil || m.issuesView.Loading() {
		return m, nil
	}
	// A failed load has no metadata yet, so run the whole load again.
	if m.browser.Repository() == nil {
		m.topBar.SetIssueContext("", 0, 0, true)
		m.statusBar.ClearMessage()
		return m, tea.Batch(m.issuesView.Reset(m.browser.FullName()), m.loadBrowser(m.browser))
	}
	return m, m.fetchPage(m.browser.CurrentQuery())
}

func handleLogsKey(m Model) (Model, tea.Cmd) {
	m.logsView.Activate()
	return m, nil
}

func handleCommandBarKey(m Model) (Model, tea.Cmd) {
	m.commandBar.Activate()
	return m, nil
}

func handleQuitKey(m Model) (Model, tea.Cmd) {
	if m.state == ViewIssues {
		return m.navigateBack()
	}
	if m.repoList.ClearFilter() {
		return m, nil
	}
	return m, tea.Quit
}

func (m Model) isInAddMode() bool {
	return m.state == ViewRepoList && m.repoList.Mode == views.RepoListModeAdd
}
