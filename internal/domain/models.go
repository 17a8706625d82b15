package domain

import "fmt"

type IssueFilter string

const (
	FilterAll    IssueFilter = "all"
	FilterOpen   IssueFilter = "open"
	FilterClosed IssueFilter = "closed"
)

// IssueFilters lists the filters in display order. Index 0 is the default.
var IssueFilters = []IssueFilter{FilterAll, FilterOpen, FilterClosed}

func (f IssueFilter) Label() string {
	switch f {
	case FilterOpen:
		return "Open"
	case FilterClosed:
		return "Closed"
	default:
		return "All"
	}
}

func ParseIssueFilter(s string) (IssueFilter, error) {
	for _, f := range IssueFilters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown issue state %q: expected all, open or closed", s)
}

type PageDirection int

const (
	PageBack PageDirection = iota
	PageForward
)

func (d PageDirection) String() string {
	if d == PageBack {
		return "back"
	}
	return "forward"
}

// TrackedRepository is one entry of the user's tracked list. Name is the
// canonical "owner/name" reported by the API.
type TrackedRepository struct {
	Name string
	URL  string
}

type RepositoryDetail struct {
	OwnerLogin     string
	OwnerAvatarURL string
	Name           string
	FullName       string
	Description    string
	HTMLURL        string
}

type Label struct {
	ID   int64
	Name string
}

type Issue struct {
	ID              int64
	Number          int
	AuthorLogin     string
	AuthorAvatarURL string
	Title           string
	HTMLURL         string
	Labels          []Label
}

type IssueQuery struct {
	Repository string
	Filter     IssueFilter
	Page       int
	PerPage    int
}
