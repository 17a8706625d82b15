// Package issues drives the issue list of a single repository: metadata load,
// state filter and page cursor, each change producing one page fetch.
package issues

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/johanforsgren/repodeck/internal/domain"
	"github.com/johanforsgren/repodeck/internal/logger"
	"github.com/johanforsgren/repodeck/internal/provider/common"
	"golang.org/x/sync/errgroup"
)

const (
	PageSize = 5

	// InitialFilter is the state requested by the first load of a repository.
	// The selected filter stays at IssueFilters[0] until the user picks one.
	InitialFilter = domain.FilterClosed
)

// Query is one page request. Seq orders queries issued by the same browser;
// only the result of the latest one is applied.
type Query struct {
	domain.IssueQuery
	Seq       uint64
	RequestID string
}

type PageResult struct {
	Query  Query
	Issues []domain.Issue
	Err    error
}

type Browser struct {
	provider domain.Provider
	fullName string

	mu         sync.Mutex
	filter     domain.IssueFilter
	shown      domain.IssueFilter
	page       int
	issues     []domain.Issue
	repository *domain.RepositoryDetail
	loading    bool
	seq        uint64
	err        error
}

func NewBrowser(provider domain.Provider, fullName string) *Browser {
	return &Browser{
		provider: provider,
		fullName: fullName,
		filter:   domain.IssueFilters[0],
		page:     1,
		loading:  true,
	}
}

// Load fetches the repository metadata and the first page of closed issues
// concurrently and leaves the loading state once both have returned. The
// selected filter is reset to IssueFilters[0], so later queries use it.
func (b *Browser) Load(ctx context.Context) error {
	owner, name, err := common.ParseRepositoryName(b.fullName)
	if err != nil {
		b.fail(err)
		return err
	}

	b.mu.Lock()
	b.loading = true
	b.page = 1
	b.filter = domain.IssueFilters[0]
	q := b.nextQueryLocked()
	q.Filter = InitialFilter
	b.mu.Unlock()

	var (
		detail *domain.RepositoryDetail
		result PageResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := b.provider.GetRepository(gctx, owner, name)
		detail = d
		return err
	})
	g.Go(func() error {
		result = b.Fetch(gctx, q)
		return result.Err
	})

	if err := g.Wait(); err != nil {
		logger.LogError("ISSUES_LOAD", b.fullName, err)
		b.fail(err)
		return err
	}

	b.mu.Lock()
	b.repository = detail
	b.loading = false
	b.mu.Unlock()

	_, err = b.Apply(result)
	return err
}

func (b *Browser) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	b.err = err
}

// SetFilter switches the state filter. The page cursor is kept, so the
// returned query asks for the current page under the new filter.
func (b *Browser) SetFilter(filter domain.IssueFilter) Query {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.filter = filter
	return b.nextQueryLocked()
}

// GoToPage moves the cursor one page. Going back from page 1 returns
// ErrFirstPage and changes nothing; going forward has no upper bound.
func (b *Browser) GoToPage(direction domain.PageDirection) (Query, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if direction == domain.PageBack {
		if b.page < 2 {
			return Query{}, domain.ErrFirstPage
		}
		b.page--
	} else {
		b.page++
	}
	return b.nextQueryLocked(), nil
}

// SetPage jumps straight to page. Pages below 1 return ErrFirstPage.
func (b *Browser) SetPage(page int) (Query, error) {
	if page < 1 {
		return Query{}, domain.ErrFirstPage
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.page = page
	return b.nextQueryLocked(), nil
}

// CurrentQuery re-issues the query for the current filter and page.
func (b *Browser) CurrentQuery() Query {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nextQueryLocked()
}

func (b *Browser) nextQueryLocked() Query {
	b.seq++
	return Query{
		IssueQuery: domain.IssueQuery{
			Repository: b.fullName,
			Filter:     b.filter,
			Page:       b.page,
			PerPage:    PageSize,
		},
		Seq:       b.seq,
		RequestID: uuid.NewString(),
	}
}

// Fetch runs q against the provider. It does not touch browser state.
func (b *Browser) Fetch(ctx context.Context, q Query) PageResult {
	logger.Log("Fetching issues",
		"request_id", q.RequestID,
		"seq", q.Seq,
		"repo", q.Repository,
		"state", string(q.Filter),
		"page", q.Page,
	)

	issues, err := b.provider.ListIssues(ctx, q.IssueQuery)
	if err != nil {
		logger.LogError("ISSUES_FETCH", q.RequestID, err)
	}
	return PageResult{Query: q, Issues: issues, Err: err}
}

// Apply installs a fetched page if it answers the most recent query. It
// reports false for results superseded by a later query.
func (b *Browser) Apply(result PageResult) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if result.Query.Seq != b.seq {
		logger.Log("Dropping stale issue page",
			"request_id", result.Query.RequestID,
			"seq", result.Query.Seq,
			"latest", b.seq,
		)
		return false, nil
	}

	if result.Err != nil {
		b.err = result.Err
		return false, result.Err
	}

	b.issues = append([]domain.Issue(nil), result.Issues...)
	b.shown = result.Query.Filter
	b.err = nil
	return true, nil
}

func (b *Browser) ChangeFilter(ctx context.Context, filter domain.IssueFilter) error {
	_, err := b.Apply(b.Fetch(ctx, b.SetFilter(filter)))
	return err
}

func (b *Browser) Turn(ctx context.Context, direction domain.PageDirection) error {
	q, err := b.GoToPage(direction)
	if err != nil {
		return err
	}
	_, err = b.Apply(b.Fetch(ctx, q))
	return err
}

func (b *Browser) Refresh(ctx context.Context) error {
	_, err := b.Apply(b.Fetch(ctx, b.CurrentQuery()))
	return err
}

func (b *Browser) FullName() string {
	return b.fullName
}

func (b *Browser) Filter() domain.IssueFilter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// ShownFilter is the state of the query whose page is currently installed.
// It differs from Filter right after Load.
func (b *Browser) ShownFilter() domain.IssueFilter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shown
}

func (b *Browser) Page() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page
}

// CanGoBack reports whether the previous-page control is active.
func (b *Browser) CanGoBack() bool {
	return b.Page() >= 2
}

func (b *Browser) Issues() []domain.Issue {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Issue(nil), b.issues...)
}

func (b *Browser) Repository() *domain.RepositoryDetail {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.repository
}

func (b *Browser) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

func (b *Browser) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}
