package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/repodeck/internal/domain"
)

type RepoItem struct {
	repo domain.TrackedRepository
}

func (i RepoItem) FilterValue() string { return i.repo.Name }
func (i RepoItem) Title() string       { return i.repo.Name }
func (i RepoItem) Description() string { return i.repo.URL }

type RepoListMode int

const (
	RepoListModeBrowse RepoListMode = iota
	RepoListModeAdd
)

const (
	focusOwner = iota
	focusName
	inputCount
)

// RepoListViewModel shows the tracked repositories and the two-field add form.
type RepoListViewModel struct {
	list       list.Model
	Mode       RepoListMode
	ownerInput textinput.Model
	nameInput  textinput.Model
	inputFocus int
	alert      bool
	submitting bool
	width      int
	height     int
}

func NewRepoListView() *RepoListViewModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Tracked Repositories"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	ownerInput := textinput.New()
	ownerInput.Placeholder = "Owner (e.g. octocat)"
	ownerInput.CharLimit = 100

	nameInput := textinput.New()
	nameInput.Placeholder = "Repository (e.g. Hello-World)"
	nameInput.CharLimit = 100

	return &RepoListViewModel{
		list:       l,
		Mode:       RepoListModeBrowse,
		ownerInput: ownerInput,
		nameInput:  nameInput,
	}
}

func (m *RepoListViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(1, height-10))
}

func (m *RepoListViewModel) SetRepositories(repos []domain.TrackedRepository) {
	items := make([]list.Item, len(repos))
	for i, r := range repos {
		items[i] = RepoItem{repo: r}
	}
	m.list.SetItems(items)
}

func (m *RepoListViewModel) Len() int {
	return len(m.list.Items())
}

func (m *RepoListViewModel) GetSelectedRepository() *domain.TrackedRepository {
	item, ok := m.list.SelectedItem().(RepoItem)
	if !ok {
		return nil
	}
	return &item.repo
}

// IsFiltering reports whether the list's own filter prompt has the keyboard.
func (m *RepoListViewModel) IsFiltering() bool {
	return m.list.FilterState() == list.Filtering
}

// ClearFilter drops an applied list filter. It reports false when none was set.
func (m *RepoListViewModel) ClearFilter() bool {
	if m.list.FilterState() == list.Unfiltered {
		return false
	}
	m.list.ResetFilter()
	return true
}

func (m *RepoListViewModel) EnterAddMode() {
	m.Mode = RepoListModeAdd
	m.inputFocus = focusOwner
	m.alert = false
	m.submitting = false
	m.ownerInput.SetValue("")
	m.nameInput.SetValue("")
	m.focusCurrent()
}

func (m *RepoListViewModel) ExitAddMode() {
	m.Mode = RepoListModeBrowse
	m.alert = false
	m.submitting = false
	m.blurAll()
}

// ResetForm clears both fields after a successful add and stays in add mode.
func (m *RepoListViewModel) ResetForm() {
	m.ownerInput.SetValue("")
	m.nameInput.SetValue("")
	m.inputFocus = focusOwner
	m.alert = false
	m.submitting = false
	m.focusCurrent()
}

func (m *RepoListViewModel) Input() (owner, name string) {
	return m.ownerInput.Value(), m.nameInput.Value()
}

func (m *RepoListViewModel) SetAlert(alert bool) {
	m.alert = alert
}

func (m *RepoListViewModel) Alert() bool {
	return m.alert
}

func (m *RepoListViewModel) SetSubmitting(submitting bool) {
	m.submitting = submitting
}

func (m *RepoListViewModel) Submitting() bool {
	return m.submitting
}

// Update routes msg to the list or the focused input. changed reports whether
// either input's value was edited.
func (m *RepoListViewModel) Update(msg tea.Msg) (cmd tea.Cmd, changed bool) {
	if m.Mode == RepoListModeAdd {
		return m.updateAddMode(msg)
	}

	m.list, cmd = m.list.Update(msg)
	return cmd, false
}

func (m *RepoListViewModel) updateAddMode(msg tea.Msg) (tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			m.moveFocus(1)
			return nil, false
		case "shift+tab", "up":
			m.moveFocus(-1)
			return nil, false
		}
	}

	owner, name := m.Input()

	var cmd tea.Cmd
	switch m.inputFocus {
	case focusOwner:
		m.ownerInput, cmd = m.ownerInput.Update(msg)
	case focusName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	}

	newOwner, newName := m.Input()
	return cmd, newOwner != owner || newName != name
}

func (m *RepoListViewModel) moveFocus(delta int) {
	m.blurAll()
	m.inputFocus = (m.inputFocus + delta + inputCount) % inputCount
	m.focusCurrent()
}

func (m *RepoListViewModel) blurAll() {
	m.ownerInput.Blur()
	m.nameInput.Blur()
}

func (m *RepoListViewModel) focusCurrent() {
	switch m.inputFocus {
	case focusOwner:
		m.ownerInput.Focus()
	case focusName:
		m.nameInput.Focus()
	}
}

func (m *RepoListViewModel) View() string {
	var b strings.Builder

	if m.Len() == 0 {
		b.WriteString(titleStyle.Render("Tracked Repositories"))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("No repositories tracked yet. Press a to add one."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.list.View())
		b.WriteString("\n")
	}

	if m.Mode == RepoListModeAdd {
		b.WriteString("\n")
		b.WriteString(m.viewAddForm())
		return b.String()
	}

	b.WriteString(helpStyle.Render("\nEnter: Issues | a: Add | d: Delete | o: Open in browser | /: Filter | L: Logs | q: Quit"))
	return b.String()
}

func (m *RepoListViewModel) viewAddForm() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Add Repository"))
	b.WriteString("\n\n")
	b.WriteString(m.ownerInput.View() + " / " + m.nameInput.View())
	b.WriteString("\n\n")

	switch {
	case m.submitting:
		b.WriteString(mutedStyle.Render("Looking up repository..."))
		b.WriteString("\n")
	case m.alert:
		b.WriteString(alertStyle.Render("Could not add repository: check the owner and name, it may not exist or is already tracked."))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("Tab: Next field | Enter: Add | Esc: Close"))
	return b.String()
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(lipgloss.Color("#991B1B")).
			Padding(0, 1)
)
