package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/repodeck/internal/domain"
	"github.com/johanforsgren/repodeck/internal/issues"
	"github.com/johanforsgren/repodeck/internal/logger"
	"github.com/johanforsgren/repodeck/internal/tracker"
	"github.com/johanforsgren/repodeck/internal/ui/components"
	"github.com/johanforsgren/repodeck/internal/ui/views"
)

type ViewState int

const (
	ViewRepoList ViewState = iota
	ViewIssues
)

func (s ViewState) String() string {
	if s == ViewIssues {
		return "Issues"
	}
	return "Repositories"
}

// Opener launches a URL in the user's browser.
type Opener interface {
	Browse(url string) error
}

const chromeHeight = 9

type Model struct {
	state           ViewState
	width           int
	height          int
	topBar          *components.TopBarModel
	statusBar       *components.StatusBarModel
	commandBar      *components.CommandBarModel
	repoList        *views.RepoListViewModel
	issuesView      *views.IssuesViewModel
	logsView        *views.LogsViewModel
	tracker         *tracker.Tracker
	provider        domain.Provider
	browser         *issues.Browser
	opener          Opener
	ctx             context.Context
	commandRegistry *CommandRegistry
}

func NewModel(t *tracker.Tracker, provider domain.Provider, opener Opener) Model {
	m := Model{
		state:           ViewRepoList,
		topBar:          components.NewTopBar(),
		statusBar:       components.NewStatusBar(),
		commandBar:      components.NewCommandBar(),
		repoList:        views.NewRepoListView(),
		issuesView:      views.NewIssuesView(),
		logsView:        views.NewLogsView(),
		tracker:         t,
		provider:        provider,
		opener:          opener,
		ctx:             context.Background(),
		commandRegistry: NewCommandRegistry(),
	}
	m.updateShortcuts()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.loadRepositories()
}

func (m Model) isInInputMode() bool {
	return m.commandBar.IsActive() ||
		m.logsView.IsActive() ||
		m.isInAddMode() ||
		(m.state == ViewRepoList && m.repoList.IsFiltering())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.topBar.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.commandBar.SetWidth(msg.Width)
		m.repoList.SetSize(msg.Width, msg.Height-chromeHeight)
		m.issuesView.SetSize(msg.Width, msg.Height-chromeHeight)
		m.logsView.SetSize(msg.Width, msg.Height-chromeHeight)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.isInInputMode() {
			return m.handleInputKey(msg)
		}

		newModel, cmd, handled := m.commandRegistry.HandleKey(m, msg.String())
		if handled {
			return newModel, cmd
		}

	case ReposLoadedMsg:
		m.repoList.SetRepositories(msg.repos)
		m.topBar.SetTrackedCount(len(msg.repos))
		return m, nil

	case RepoAddedMsg:
		return m.handleRepoAdded(msg)

	case BrowserLoadedMsg:
		return m.handleBrowserLoaded(msg)

	case IssuesPageMsg:
		return m.handleIssuesPage(msg)

	case spinner.TickMsg:
		return m, m.issuesView.Update(msg)

	case ErrorMsg:
		m.statusBar.SetMessage(msg.err.Error(), true)
		return m, nil

	case SuccessMsg:
		m.statusBar.SetStatus(msg.message, components.StatusSuccess)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case ViewRepoList:
		cmd, _ = m.repoList.Update(msg)
	case ViewIssues:
		cmd = m.issuesView.Update(msg)
	}
	return m, cmd
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.commandBar.IsActive() {
		switch key {
		case "enter":
			return m.commandRegistry.ExecuteCommand(m, m.commandBar.Submit())
		case "esc":
			m.commandBar.Deactivate()
			return m, nil
		default:
			return m, m.commandBar.Update(msg)
		}
	}

	if m.logsView.IsActive() {
		switch key {
		case "esc", "q":
			m.logsView.Deactivate()
			return m, nil
		default:
			return m, m.logsView.Update(msg)
		}
	}

	if m.isInAddMode() {
		switch key {
		case "esc":
			m.repoList.ExitAddMode()
			m.tracker.InputChanged()
			return m, nil
		case "enter":
			if m.repoList.Submitting() {
				return m, nil
			}
			owner, name := m.repoList.Input()
			m.repoList.SetSubmitting(true)
			return m, m.addRepository(owner, name)
		}
		cmd, changed := m.repoList.Update(msg)
		if changed {
			m.tracker.InputChanged()
			m.repoList.SetAlert(m.tracker.Alert())
		}
		return m, cmd
	}

	cmd, _ := m.repoList.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch {
	case m.logsView.IsActive():
		content = m.logsView.View()
	case m.state == ViewIssues:
		content = m.issuesView.View()
	default:
		content = m.repoList.View()
	}

	topBar := m.topBar.View()

	if commandBar := m.commandBar.View(); commandBar != "" {
		return topBar + "\n" + content + "\n" + commandBar
	}
	return topBar + "\n" + content + "\n" + m.statusBar.View()
}

func (m Model) loadRepositories() tea.Cmd {
	return func() tea.Msg {
		return ReposLoadedMsg{repos: m.tracker.List()}
	}
}

func (m Model) addRepository(owner, name string) tea.Cmd {
	return func() tea.Msg {
		repo, err := m.tracker.Add(m.ctx, owner, name)
		return RepoAddedMsg{repo: repo, err: err}
	}
}

func (m Model) handleRepoAdded(msg RepoAddedMsg) (tea.Model, tea.Cmd) {
	m.repoList.SetSubmitting(false)

	if msg.err != nil {
		// The form shows one alert whatever went wrong; the cause goes to the log.
		m.repoList.SetAlert(true)
		m.statusBar.SetMessage("Could not add repository (see logs)", true)
		return m, nil
	}

	repos := m.tracker.List()
	m.repoList.SetRepositories(repos)
	m.topBar.SetTrackedCount(len(repos))
	if m.isInAddMode() {
		m.repoList.ResetForm()
	}
	m.statusBar.SetStatus(fmt.Sprintf("Tracking %s", msg.repo.Name), components.StatusSuccess)
	return m, nil
}

func (m Model) deleteRepository(name string) (Model, tea.Cmd) {
	if err := m.tracker.Delete(name); err != nil {
		m.statusBar.SetMessage(fmt.Sprintf("Failed to delete %s: %v", name, err), true)
		return m, nil
	}

	repos := m.tracker.List()
	m.repoList.SetRepositories(repos)
	m.topBar.SetTrackedCount(len(repos))
	m.statusBar.SetStatus(fmt.Sprintf("Removed %s", name), components.StatusSuccess)
	return m, nil
}

// openIssues switches to the issue browser for fullName and starts its load.
func (m Model) openIssues(fullName string) (Model, tea.Cmd) {
	b := issues.NewBrowser(m.provider, fullName)
	m.browser = b
	m.state = ViewIssues
	m.repoList.ExitAddMode()
	m.statusBar.ClearMessage()
	m.topBar.SetRepository(fullName)
	m.topBar.SetIssueContext("", 0, 0, true)
	m.topBar.SetView(ViewIssues.String())
	m.updateShortcuts()

	logger.Log("UI: opening issue browser", "repo", fullName)
	return m, tea.Batch(m.issuesView.Reset(fullName), m.loadBrowser(b))
}

func (m Model) loadBrowser(b *issues.Browser) tea.Cmd {
	return func() tea.Msg {
		return BrowserLoadedMsg{browser: b, err: b.Load(m.ctx)}
	}
}

func (m Model) handleBrowserLoaded(msg BrowserLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.browser != m.browser {
		return m, nil
	}

	m.issuesView.SetLoading(false)
	m.syncCursor()

	if msg.err != nil {
		m.issuesView.SetError(msg.err)
		m.statusBar.SetMessage(fmt.Sprintf("Failed to load %s: %v", m.browser.FullName(), msg.err), true)
		return m, nil
	}

	m.issuesView.SetRepository(m.browser.Repository())
	m.issuesView.SetIssues(m.browser.Issues())
	m.syncCursor()
	return m, nil
}

func (m Model) changeFilter(filter domain.IssueFilter) (Model, tea.Cmd) {
	if !m.browserReady() {
		return m, nil
	}
	q := m.browser.SetFilter(filter)
	m.syncCursor()
	return m, m.fetchPage(q)
}

func (m Model) turnPage(direction domain.PageDirection) (Model, tea.Cmd) {
	if !m.browserReady() {
		return m, nil
	}
	q, err := m.browser.GoToPage(direction)
	if errors.Is(err, domain.ErrFirstPage) {
		return m, nil
	}
	m.syncCursor()
	return m, m.fetchPage(q)
}

func (m Model) jumpToPage(page int) (Model, tea.Cmd) {
	if !m.browserReady() {
		return m, nil
	}
	q, err := m.browser.SetPage(page)
	if err != nil {
		return m, errorCmd(fmt.Errorf("invalid page %d", page))
	}
	m.syncCursor()
	return m, m.fetchPage(q)
}

func (m Model) browserReady() bool {
	return m.state == ViewIssues && m.browser != nil && !m.issuesView.Loading()
}

func (m Model) fetchPage(q issues.Query) tea.Cmd {
	b := m.browser
	tick := m.issuesView.SetFetching(true)
	fetch := func() tea.Msg {
		return IssuesPageMsg{browser: b, result: b.Fetch(m.ctx, q)}
	}
	return tea.Batch(tick, fetch)
}

func (m Model) handleIssuesPage(msg IssuesPageMsg) (tea.Model, tea.Cmd) {
	if msg.browser != m.browser {
		return m, nil
	}

	applied, err := m.browser.Apply(msg.result)
	if err != nil {
		m.issuesView.SetFetching(false)
		m.issuesView.SetError(err)
		m.statusBar.SetMessage(fmt.Sprintf("Failed to fetch issues: %v", err), true)
		return m, nil
	}
	if !applied {
		return m, nil
	}

	m.issuesView.SetFetching(false)
	m.issuesView.SetIssues(m.browser.Issues())
	m.syncCursor()
	m.statusBar.SetMessage(fmt.Sprintf("%s issues, page %d", m.browser.Filter().Label(), m.browser.Page()), false)
	return m, nil
}

// syncCursor copies the browser's filter and page into the view and top bar.
func (m Model) syncCursor() {
	if m.browser == nil {
		return
	}
	m.issuesView.SetCursor(m.browser.Filter(), m.browser.Page(), m.browser.CanGoBack())
	m.topBar.SetIssueContext(m.browser.Filter().Label(), m.browser.Page(), len(m.browser.Issues()), m.issuesView.Loading())
	m.statusBar.SetHint(fmt.Sprintf("page %d", m.browser.Page()))
}

func (m Model) navigateBack() (Model, tea.Cmd) {
	if m.state != ViewIssues {
		return m, nil
	}

	logger.Log("UI: navigating back to repository list")
	m.state = ViewRepoList
	m.browser = nil
	m.topBar.SetRepository("")
	m.topBar.SetView(ViewRepoList.String())
	m.statusBar.SetHint("")
	m.updateShortcuts()
	return m, nil
}

func (m Model) openURL(url string) (Model, tea.Cmd) {
	if url == "" {
		return m, nil
	}
	if m.opener == nil {
		m.statusBar.SetMessage("No browser configured", true)
		return m, nil
	}
	if err := m.opener.Browse(url); err != nil {
		logger.LogError("OPEN_URL", url, err)
		m.statusBar.SetMessage(fmt.Sprintf("Failed to open %s: %v", url, err), true)
		return m, nil
	}
	m.statusBar.SetMessage("Opened "+url, false)
	return m, nil
}

func (m Model) updateShortcuts() {
	m.topBar.SetShortcuts(m.commandRegistry.GetContextualShortcuts(m.state))
}

// Shortcuts returns the key hints currently shown in the top bar.
func (m Model) Shortcuts() string {
	return strings.Join(m.commandRegistry.GetContextualShortcuts(m.state), " ")
}

type ReposLoadedMsg struct {
	repos []domain.TrackedRepository
}

type RepoAddedMsg struct {
	repo domain.TrackedRepository
	err  error
}

type BrowserLoadedMsg struct {
	browser *issues.Browser
	err     error
}

type IssuesPageMsg struct {
	browser *issues.Browser
	result  issues.PageResult
}

type ErrorMsg struct {
	err error
}

type SuccessMsg struct {
	message string
}
