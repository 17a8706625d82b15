package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/google/go-querystring/query"
	"github.com/johanforsgren/repodeck/internal/provider/common"
)

const DefaultBaseURL = "https://api.github.com/"

// Client issues unauthenticated GET requests and hands back the raw JSON so
// the provider can validate it before decoding.
type Client struct {
	client *github.Client
}

func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Transport: common.NewLoggingTransport(nil)}
	}
	client := github.NewClient(httpClient)

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", baseURL, err)
		}
		client.BaseURL = u
	}

	return &Client{client: client}, nil
}

func (c *Client) BaseURL() string {
	return c.client.BaseURL.String()
}

func (c *Client) GetRepository(ctx context.Context, owner, repo string) (json.RawMessage, error) {
	u := fmt.Sprintf("repos/%v/%v", url.PathEscape(owner), url.PathEscape(repo))
	return c.get(ctx, u)
}

func (c *Client) ListIssues(ctx context.Context, owner, repo string, opts *github.IssueListByRepoOptions) (json.RawMessage, error) {
	u := fmt.Sprintf("repos/%v/%v/issues", url.PathEscape(owner), url.PathEscape(repo))
	if opts != nil {
		v, err := query.Values(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to encode issue options: %w", err)
		}
		u += "?" + v.Encode()
	}
	return c.get(ctx, u)
}

func (c *Client) get(ctx context.Context, u string) (json.RawMessage, error) {
	req, err := c.client.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	var raw json.RawMessage
	if _, err := c.client.Do(ctx, req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
