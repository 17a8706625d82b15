package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/repodeck/internal/domain"
	"github.com/johanforsgren/repodeck/internal/storage"
	"github.com/johanforsgren/repodeck/internal/tracker"
)

type mockProvider struct {
	mu      sync.Mutex
	repos   map[string]domain.RepositoryDetail
	queries []domain.IssueQuery
	listErr error
	repoErr error
}

func newMockProvider() *mockProvider {
	return &mockProvider{repos: map[string]domain.RepositoryDetail{
		"octocat/Hello-World": {
			OwnerLogin: "octocat",
			Name:       "Hello-World",
			FullName:   "octocat/Hello-World",
			HTMLURL:    "https://github.com/octocat/Hello-World",
		},
	}}
}

func (p *mockProvider) GetRepository(ctx context.Context, owner, name string) (*domain.RepositoryDetail, error) {
	p.mu.Lock()
	err := p.repoErr
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	detail, ok := p.repos[owner+"/"+name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &detail, nil
}

func (p *mockProvider) ListIssues(ctx context.Context, q domain.IssueQuery) ([]domain.Issue, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queries = append(p.queries, q)
	if p.listErr != nil {
		return nil, p.listErr
	}
	return []domain.Issue{{
		Number:  q.Page,
		Title:   fmt.Sprintf("%s page %d", q.Filter, q.Page),
		HTMLURL: fmt.Sprintf("https://github.com/%s/issues/%d", q.Repository, q.Page),
	}}, nil
}

func (p *mockProvider) lastQuery() domain.IssueQuery {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queries[len(p.queries)-1]
}

func (p *mockProvider) queryCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queries)
}

type mockOpener struct {
	urls []string
	err  error
}

func (o *mockOpener) Browse(url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

func newTestModel(t *testing.T, provider *mockProvider, tracked ...domain.TrackedRepository) (Model, *mockOpener) {
	t.Helper()

	tr := tracker.New(storage.NewMemoryRepository(tracked...), provider)
	if err := tr.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	opener := &mockOpener{}
	m := NewModel(tr, provider, opener)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return drain(t, m, m.Init()), opener
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// drain runs cmd and feeds every resulting message back into the model.
// Spinner ticks and quit are dropped so the loop terminates.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		next, follow := m.Update(msg)
		m = drain(t, next.(Model), follow)
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg, tea.QuitMsg:
		return nil
	case tea.BatchMsg:
		var msgs []tea.Msg
		for _, c := range msg {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	default:
		return []tea.Msg{msg}
	}
}

func press(t *testing.T, m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		// Input cursor blink commands are dropped.
		m, _ = press(t, m, runes(string(r)))
	}
	return m
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

var helloWorld = domain.TrackedRepository{Name: "octocat/Hello-World", URL: "https://github.com/octocat/Hello-World"}

func openHelloWorld(t *testing.T, provider *mockProvider) (Model, *mockOpener) {
	t.Helper()
	m, opener := newTestModel(t, provider, helloWorld)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	return drain(t, m, cmd), opener
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input    string
		wantType CommandType
		wantArgs []string
	}{
		{":q", CommandQuit, nil},
		{":add octocat/Hello-World", CommandAdd, []string{"octocat/Hello-World"}},
		{":a octocat Hello-World", CommandAdd, []string{"octocat", "Hello-World"}},
		{":rm foo/bar", CommandRemove, []string{"foo/bar"}},
		{":open foo/bar", CommandOpen, []string{"foo/bar"}},
		{":filter open", CommandFilter, []string{"open"}},
		{":page 4", CommandPage, []string{"4"}},
		{":refresh", CommandRefresh, nil},
		{":logs", CommandLogs, nil},
		{":help", CommandHelp, nil},
		{"  :quit  ", CommandQuit, nil},
		{"add foo/bar", CommandUnknown, nil},
		{":", CommandUnknown, nil},
		{":frobnicate", CommandUnknown, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseCommand(tt.input)
			if got.Type != tt.wantType {
				t.Errorf("ParseCommand(%q).Type = %v, want %v", tt.input, got.Type, tt.wantType)
			}
			if tt.wantArgs != nil && strings.Join(got.Args, " ") != strings.Join(tt.wantArgs, " ") {
				t.Errorf("ParseCommand(%q).Args = %v, want %v", tt.input, got.Args, tt.wantArgs)
			}
		})
	}
}

func TestContextualShortcuts(t *testing.T) {
	r := NewCommandRegistry()

	list := strings.Join(r.GetContextualShortcuts(ViewRepoList), "|")
	if !strings.Contains(list, "<a> Add repository") {
		t.Errorf("repo list shortcuts missing add: %s", list)
	}
	if strings.Contains(list, "Next filter") {
		t.Errorf("repo list shortcuts should not offer filters: %s", list)
	}

	issues := strings.Join(r.GetContextualShortcuts(ViewIssues), "|")
	for _, want := range []string{"<tab> Next filter", "<n> Next page", "<p> Previous page", "<O> Open repository"} {
		if !strings.Contains(issues, want) {
			t.Errorf("issue shortcuts missing %q: %s", want, issues)
		}
	}
	if strings.Contains(issues, "ctrl+c") {
		t.Errorf("ctrl+c should not be listed: %s", issues)
	}
}

func TestEnterOpensClosedFirstPage(t *testing.T) {
	provider := newMockProvider()
	m, _ := openHelloWorld(t, provider)

	if m.state != ViewIssues {
		t.Fatalf("state = %v, want ViewIssues", m.state)
	}
	if m.issuesView.Loading() {
		t.Error("issue view still loading after Load returned")
	}
	q := provider.lastQuery()
	if q.Filter != domain.FilterClosed || q.Page != 1 || q.PerPage != 5 {
		t.Errorf("first query = %+v, want closed page 1 of 5", q)
	}
	if got := len(m.issuesView.Issues()); got != 1 {
		t.Errorf("issues shown = %d, want 1", got)
	}
	if repo := m.issuesView.Repository(); repo == nil || repo.FullName != "octocat/Hello-World" {
		t.Errorf("repository header = %+v", repo)
	}
}

func TestPreviousOnFirstPageIsInert(t *testing.T) {
	provider := newMockProvider()
	m, _ := openHelloWorld(t, provider)
	before := provider.queryCount()

	m, cmd := press(t, m, runes("p"))
	if cmd != nil {
		t.Error("previous on page 1 should not issue a command")
	}
	if provider.queryCount() != before {
		t.Errorf("queries = %d, want %d", provider.queryCount(), before)
	}
	if m.browser.Page() != 1 {
		t.Errorf("page = %d, want 1", m.browser.Page())
	}
}

func TestNextPageThenFilterKeepsPage(t *testing.T) {
	provider := newMockProvider()
	m, _ := openHelloWorld(t, provider)

	m, cmd := press(t, m, runes("n"))
	m = drain(t, m, cmd)

	// The first load shows closed issues but the selected tab is still All.
	if q := provider.lastQuery(); q.Filter != domain.FilterAll || q.Page != 2 {
		t.Errorf("next page query = %+v, want all page 2", q)
	}

	m, cmd = press(t, m, runes("2"))
	m = drain(t, m, cmd)

	q := provider.lastQuery()
	if q.Filter != domain.FilterOpen || q.Page != 2 {
		t.Errorf("last query = %+v, want open page 2", q)
	}
	if got := m.issuesView.Issues()[0].Title; got != "open page 2" {
		t.Errorf("shown issue = %q, want %q", got, "open page 2")
	}
	if !strings.Contains(m.statusBar.Message(), "Open issues, page 2") {
		t.Errorf("status = %q", m.statusBar.Message())
	}
}

func TestTabCyclesFilters(t *testing.T) {
	provider := newMockProvider()
	m, _ := openHelloWorld(t, provider)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = drain(t, m, cmd)
	if m.browser.Filter() != domain.FilterOpen {
		t.Errorf("filter = %s, want open", m.browser.Filter())
	}

	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = drain(t, m, cmd)
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = drain(t, m, cmd)
	if m.browser.Filter() != domain.FilterAll {
		t.Errorf("filter = %s, want all after wrapping", m.browser.Filter())
	}
}

func TestStalePageIsIgnored(t *testing.T) {
	provider := newMockProvider()
	m, _ := openHelloWorld(t, provider)

	m, first := press(t, m, runes("2"))
	m, second := press(t, m, runes("1"))

	firstMsgs := collect(first)
	m = drain(t, m, second)
	for _, msg := range firstMsgs {
		m = update(t, m, msg)
	}

	if got := m.issuesView.Issues()[0].Title; got != "all page 1" {
		t.Errorf("shown issue = %q, want the latest request's page", got)
	}
	if m.browser.Filter() != domain.FilterAll {
		t.Errorf("filter = %s, want all", m.browser.Filter())
	}
}

func TestFetchErrorShownInStatusBar(t *testing.T) {
	provider := newMockProvider()
	m, _ := openHelloWorld(t, provider)

	provider.listErr = errors.New("rate limited")
	m, cmd := press(t, m, runes("n"))
	m = drain(t, m, cmd)

	if !m.statusBar.IsError() || !strings.Contains(m.statusBar.Message(), "rate limited") {
		t.Errorf("status = %q (error %v), want fetch error", m.statusBar.Message(), m.statusBar.IsError())
	}
	if m.issuesView.Err() == nil {
		t.Error("issue view should carry the fetch error")
	}
}

func TestRefreshAfterFailedLoadRetriesMetadata(t *testing.T) {
	provider := newMockProvider()
	provider.repoErr = errors.New("i/o timeout")
	m, _ := openHelloWorld(t, provider)

	if m.issuesView.Repository() != nil || !m.statusBar.IsError() {
		t.Fatalf("failed load: repository = %+v, status = %q", m.issuesView.Repository(), m.statusBar.Message())
	}

	provider.mu.Lock()
	provider.repoErr = nil
	provider.mu.Unlock()

	m, cmd := press(t, m, runes("r"))
	if !m.issuesView.Loading() {
		t.Error("refresh after a failed load should show the loading state")
	}
	m = drain(t, m, cmd)

	repo := m.issuesView.Repository()
	if repo == nil || repo.FullName != "octocat/Hello-World" {
		t.Errorf("repository header = %+v, want octocat/Hello-World", repo)
	}
	if q := provider.lastQuery(); q.Filter != domain.FilterClosed || q.Page != 1 {
		t.Errorf("reload query = %+v, want closed page 1", q)
	}
	if m.issuesView.Err() != nil {
		t.Errorf("error should be cleared, got %v", m.issuesView.Err())
	}
}

func TestQuitNavigatesBackThenQuits(t *testing.T) {
	m, _ := openHelloWorld(t, newMockProvider())

	m, cmd := press(t, m, runes("q"))
	if isQuit(cmd) {
		t.Fatal("q in the issue view should go back, not quit")
	}
	if m.state != ViewRepoList || m.browser != nil {
		t.Errorf("state = %v browser = %v, want repo list without browser", m.state, m.browser)
	}

	_, cmd = press(t, m, runes("q"))
	if !isQuit(cmd) {
		t.Error("q in the repo list should quit")
	}
}

func TestAddFormAlertClearsOnInput(t *testing.T) {
	m, _ := newTestModel(t, newMockProvider())

	m, _ = press(t, m, runes("a"))
	if !m.isInAddMode() {
		t.Fatal("a should open the add form")
	}

	m = typeText(t, m, "nobody")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "nothing")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)

	if !m.repoList.Alert() {
		t.Fatal("failed add should raise the alert")
	}
	if m.repoList.Submitting() {
		t.Error("submitting should be cleared after the result arrives")
	}

	m = typeText(t, m, "x")
	if m.repoList.Alert() {
		t.Error("editing the form should clear the alert")
	}
}

func TestAddFormSuccessResetsForm(t *testing.T) {
	m, _ := newTestModel(t, newMockProvider())

	m, _ = press(t, m, runes("a"))
	m = typeText(t, m, "octocat")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "Hello-World")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)

	if m.repoList.Len() != 1 {
		t.Fatalf("tracked = %d, want 1", m.repoList.Len())
	}
	if owner, name := m.repoList.Input(); owner != "" || name != "" {
		t.Errorf("form = %q/%q, want cleared", owner, name)
	}
	if !m.isInAddMode() {
		t.Error("form should stay open after a successful add")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.isInAddMode() {
		t.Error("esc should close the form")
	}
}

func TestCommandBarAddAndRemove(t *testing.T) {
	m, _ := newTestModel(t, newMockProvider())

	m, _ = press(t, m, runes(":"))
	if !m.commandBar.IsActive() {
		t.Fatal(": should open the command bar")
	}
	m = typeText(t, m, "add octocat/Hello-World")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)

	if m.repoList.Len() != 1 {
		t.Fatalf("tracked = %d, want 1", m.repoList.Len())
	}
	if m.commandBar.IsActive() {
		t.Error("command bar should close after submit")
	}

	m, _ = press(t, m, runes(":"))
	m = typeText(t, m, "rm octocat/Hello-World")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)

	if m.repoList.Len() != 0 {
		t.Errorf("tracked = %d, want 0", m.repoList.Len())
	}
}

func TestUnknownCommandReportsError(t *testing.T) {
	m, _ := newTestModel(t, newMockProvider())

	m, _ = press(t, m, runes(":"))
	m = typeText(t, m, "frobnicate")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)

	if !m.statusBar.IsError() || !strings.Contains(m.statusBar.Message(), "unknown command") {
		t.Errorf("status = %q", m.statusBar.Message())
	}
}

func TestDeleteSelectedRepository(t *testing.T) {
	m, _ := newTestModel(t, newMockProvider(), helloWorld)

	m, _ = press(t, m, runes("d"))

	if m.repoList.Len() != 0 {
		t.Errorf("tracked = %d, want 0", m.repoList.Len())
	}
	if !strings.Contains(m.statusBar.Message(), "Removed octocat/Hello-World") {
		t.Errorf("status = %q", m.statusBar.Message())
	}
}

func TestOpenKeysUseOpener(t *testing.T) {
	m, opener := newTestModel(t, newMockProvider(), helloWorld)

	m, _ = press(t, m, runes("o"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)
	m, _ = press(t, m, runes("o"))
	_, _ = press(t, m, runes("O"))

	want := []string{
		"https://github.com/octocat/Hello-World",
		"https://github.com/octocat/Hello-World/issues/1",
		"https://github.com/octocat/Hello-World",
	}
	if strings.Join(opener.urls, " ") != strings.Join(want, " ") {
		t.Errorf("opened %v, want %v", opener.urls, want)
	}
}

func TestOpenerFailureShowsError(t *testing.T) {
	m, opener := newTestModel(t, newMockProvider(), helloWorld)
	opener.err = errors.New("no browser")

	m, _ = press(t, m, runes("o"))

	if !m.statusBar.IsError() {
		t.Errorf("status = %q, want error", m.statusBar.Message())
	}
}

func TestPageCommand(t *testing.T) {
	provider := newMockProvider()
	m, _ := openHelloWorld(t, provider)

	m, _ = press(t, m, runes(":"))
	m = typeText(t, m, "page 7")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)

	if q := provider.lastQuery(); q.Page != 7 || q.Filter != domain.FilterAll {
		t.Errorf("last query = %+v, want all page 7", q)
	}
	if !m.browser.CanGoBack() {
		t.Error("page 7 should allow going back")
	}
}

func TestLogsViewTakesKeys(t *testing.T) {
	m, _ := newTestModel(t, newMockProvider(), helloWorld)

	m, _ = press(t, m, runes("L"))
	if !m.logsView.IsActive() {
		t.Fatal("L should open the logs view")
	}

	m, cmd := press(t, m, runes("q"))
	if isQuit(cmd) {
		t.Error("q in the logs view should close it, not quit")
	}
	if m.logsView.IsActive() {
		t.Error("logs view should be closed")
	}
}

func TestViewBeforeSize(t *testing.T) {
	tr := tracker.New(storage.NewMemoryRepository(), newMockProvider())
	m := NewModel(tr, newMockProvider(), nil)
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() = %q, want Loading...", got)
	}
}
