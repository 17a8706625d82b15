package domain

import "context"

// Provider is the read-only view of the remote hosting API.
type Provider interface {
	GetRepository(ctx context.Context, owner, name string) (*RepositoryDetail, error)

	ListIssues(ctx context.Context, query IssueQuery) ([]Issue, error)
}
