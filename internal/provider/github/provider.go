package github

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/go-github/v57/github"
	"github.com/johanforsgren/repodeck/internal/domain"
	"github.com/johanforsgren/repodeck/internal/logger"
	"github.com/johanforsgren/repodeck/internal/provider/common"
)

var _ domain.Provider = (*Provider)(nil)

type Provider struct {
	client *Client
}

func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) GetRepository(ctx context.Context, owner, name string) (*domain.RepositoryDetail, error) {
	target := common.FormatRepositoryName(owner, name)
	logger.Log("GitHub: getting repository", "repo", target)

	raw, err := p.client.GetRepository(ctx, owner, name)
	if err != nil {
		logger.LogError("GITHUB_GET_REPO", target, err)
		return nil, remoteError("get repository", target, err)
	}

	if err := repositoryValidator.Validate(raw); err != nil {
		logger.LogError("GITHUB_GET_REPO", target, err)
		return nil, err
	}

	var ghRepo github.Repository
	if err := json.Unmarshal(raw, &ghRepo); err != nil {
		logger.LogError("GITHUB_GET_REPO", target, err)
		return nil, &domain.MalformedResponseError{Resource: "repository", Problems: []string{err.Error()}}
	}

	detail := convertRepository(&ghRepo)
	logger.Log("GitHub: retrieved repository", "repo", detail.FullName)
	return &detail, nil
}

func (p *Provider) ListIssues(ctx context.Context, q domain.IssueQuery) ([]domain.Issue, error) {
	owner, name, err := common.ParseRepositoryName(q.Repository)
	if err != nil {
		logger.LogError("GITHUB_LIST_ISSUES", q.Repository, err)
		return nil, err
	}

	logger.Log("GitHub: listing issues",
		"repo", q.Repository,
		"state", string(q.Filter),
		"page", q.Page,
		"per_page", q.PerPage,
	)

	opts := &github.IssueListByRepoOptions{
		State: string(q.Filter),
		ListOptions: github.ListOptions{
			Page:    q.Page,
			PerPage: q.PerPage,
		},
	}

	raw, err := p.client.ListIssues(ctx, owner, name, opts)
	if err != nil {
		logger.LogError("GITHUB_LIST_ISSUES", q.Repository, err)
		return nil, remoteError("list issues", q.Repository, err)
	}

	if err := issueListValidator.Validate(raw); err != nil {
		logger.LogError("GITHUB_LIST_ISSUES", q.Repository, err)
		return nil, err
	}

	var ghIssues []*github.Issue
	if err := json.Unmarshal(raw, &ghIssues); err != nil {
		logger.LogError("GITHUB_LIST_ISSUES", q.Repository, err)
		return nil, &domain.MalformedResponseError{Resource: "issues", Problems: []string{err.Error()}}
	}

	issues := make([]domain.Issue, 0, len(ghIssues))
	for _, ghIssue := range ghIssues {
		issues = append(issues, convertIssue(ghIssue))
	}

	logger.Log("GitHub: found issues", "repo", q.Repository, "count", len(issues))
	return issues, nil
}

func remoteError(operation, target string, err error) error {
	if common.IsNotFound(err) {
		err = fmt.Errorf("%w: %s", domain.ErrNotFound, common.ExtractErrorMessage(err))
	}
	return &domain.RemoteFetchError{Operation: operation, Target: target, Err: err}
}

func convertRepository(ghRepo *github.Repository) domain.RepositoryDetail {
	return domain.RepositoryDetail{
		OwnerLogin:     ghRepo.GetOwner().GetLogin(),
		OwnerAvatarURL: ghRepo.GetOwner().GetAvatarURL(),
		Name:           ghRepo.GetName(),
		FullName:       ghRepo.GetFullName(),
		Description:    ghRepo.GetDescription(),
		HTMLURL:        ghRepo.GetHTMLURL(),
	}
}

func convertIssue(ghIssue *github.Issue) domain.Issue {
	issue := domain.Issue{
		ID:              ghIssue.GetID(),
		Number:          ghIssue.GetNumber(),
		AuthorLogin:     ghIssue.GetUser().GetLogin(),
		AuthorAvatarURL: ghIssue.GetUser().GetAvatarURL(),
		Title:           ghIssue.GetTitle(),
		HTMLURL:         ghIssue.GetHTMLURL(),
	}

	for _, label := range ghIssue.Labels {
		issue.Labels = append(issue.Labels, domain.Label{
			ID:   label.GetID(),
			Name: label.GetName(),
		})
	}

	return issue
}
