// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/prpulse/internal/domain/model"
	"github.com/ericfisherdev/prpulse/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
//
// baseURL overrides the public API endpoint, e.g. for GitHub Enterprise; an
// empty value targets api.github.com.
func NewClient(token, baseURL string) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing API base URL: %w", err)
		}
		// go-github requires the base URL to end with a slash.
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		client.BaseURL = u
	}

	return &Client{gh: client}, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient).WithAuthToken(token)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// ListOwnerRepositories retrieves the repositories of an organization owner,
// most recently pushed first. A single page of up to 100 entries is read;
// owners with more repositories than that are served by the search fallback.
func (c *Client) ListOwnerRepositories(ctx context.Context, owner string) ([]model.RepositoryHandle, error) {
	opts := &gh.RepositoryListByOrgOptions{
		Type:        "all",
		Sort:        "pushed",
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	repos, resp, err := c.gh.Repositories.ListByOrg(ctx, owner, opts)
	if err != nil {
		return nil, &model.APIError{Op: fmt.Sprintf("listing repositories for %s", owner), Err: err}
	}

	logRateLimit(resp, owner+"/repos", 0, len(repos))

	handles := make([]model.RepositoryHandle, 0, len(repos))
	for _, r := range repos {
		handles = append(handles, mapRepository(r))
	}

	return handles, nil
}

// SearchUserRepository looks a repository up under a personal account with a
// user-scoped search, returning the exact name match or nil when none of the
// results carries the requested name.
func (c *Client) SearchUserRepository(ctx context.Context, owner string, name string) (*model.RepositoryHandle, error) {
	opts := &gh.SearchOptions{ListOptions: gh.ListOptions{PerPage: 100}}

	result, resp, err := c.gh.Search.Repositories(ctx, "user:"+owner, opts)
	if err != nil {
		return nil, &model.APIError{Op: fmt.Sprintf("searching repositories of user %s", owner), Err: err}
	}

	logRateLimit(resp, owner+"/search", 0, len(result.Repositories))

	for _, r := range result.Repositories {
		if r.GetName() == name {
			handle := mapRepository(r)
			return &handle, nil
		}
	}

	return nil, nil
}

// ListClosedPullRequests retrieves up to limit closed pull requests for the
// given repository, most recently created first. Only the first page is
// read; the limit doubles as the page size.
func (c *Client) ListClosedPullRequests(ctx context.Context, repoFullName string, limit int) ([]model.PullRequest, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.PullRequestListOptions{
		State:       "closed",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: limit},
	}

	prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
	if err != nil {
		return nil, &model.APIError{Op: fmt.Sprintf("listing closed pull requests for %s", repoFullName), Err: err}
	}

	logRateLimit(resp, repoFullName, 0, len(prs))

	headers := make([]model.PullRequest, 0, len(prs))
	for _, pr := range prs {
		headers = append(headers, mapPullRequest(pr))
	}

	return headers, nil
}

// FetchPullRequest retrieves the header of a single pull request.
func (c *Client) FetchPullRequest(ctx context.Context, repoFullName string, prNumber int) (*model.PullRequest, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, prNumber)
	if err != nil {
		return nil, &model.APIError{Op: fmt.Sprintf("fetching PR %s#%d", repoFullName, prNumber), Err: err}
	}

	logRateLimit(resp, fmt.Sprintf("%s#%d", repoFullName, prNumber), 0, 1)

	header := mapPullRequest(pr)
	return &header, nil
}

// FetchIssueComments retrieves the general PR-level comments (from the
// Issues API) for a pull request.
func (c *Client) FetchIssueComments(ctx context.Context, repoFullName string, prNumber int) ([]model.IssueComment, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	comments, _, err := c.gh.Issues.ListComments(ctx, owner, repo, prNumber, opts)
	if err != nil {
		return nil, &model.APIError{Op: fmt.Sprintf("listing issue comments for %s#%d", repoFullName, prNumber), Err: err}
	}

	allComments := make([]model.IssueComment, 0, len(comments))
	for _, comment := range comments {
		allComments = append(allComments, mapIssueComment(comment))
	}

	return allComments, nil
}

// FetchDiff retrieves the pull request's unified diff text.
func (c *Client) FetchDiff(ctx context.Context, repoFullName string, prNumber int) (string, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return "", err
	}

	diff, resp, err := c.gh.PullRequests.GetRaw(ctx, owner, repo, prNumber, gh.RawOptions{Type: gh.Diff})
	if err != nil {
		return "", &model.APIError{Op: fmt.Sprintf("fetching diff for %s#%d", repoFullName, prNumber), Err: err}
	}

	logRateLimit(resp, fmt.Sprintf("%s#%d/diff", repoFullName, prNumber), 0, 1)

	return diff, nil
}

// mapRepository converts a go-github Repository to a domain RepositoryHandle.
func mapRepository(r *gh.Repository) model.RepositoryHandle {
	return model.RepositoryHandle{
		Owner:    r.GetOwner().GetLogin(),
		Name:     r.GetName(),
		FullName: r.GetFullName(),
	}
}

// mapPullRequest converts a go-github PullRequest to a domain model PullRequest.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapPullRequest(pr *gh.PullRequest) model.PullRequest {
	var mergedAt, closedAt *time.Time
	if pr.MergedAt != nil {
		t := pr.GetMergedAt().Time
		mergedAt = &t
	}
	if pr.ClosedAt != nil {
		t := pr.GetClosedAt().Time
		closedAt = &t
	}

	return model.PullRequest{
		Number:            pr.GetNumber(),
		Title:             pr.GetTitle(),
		Author:            pr.GetUser().GetLogin(),
		Body:              pr.GetBody(),
		CreatedAt:         pr.GetCreatedAt().Time,
		MergedAt:          mergedAt,
		ClosedAt:          closedAt,
		ReviewCommentsURL: pr.GetReviewCommentsURL(),
		CommitsURL:        pr.GetCommitsURL(),
	}
}

// mapIssueComment converts a go-github IssueComment to a domain model IssueComment.
func mapIssueComment(c *gh.IssueComment) model.IssueComment {
	return model.IssueComment{
		ID:        c.GetID(),
		Author:    c.GetUser().GetLogin(),
		Body:      c.GetBody(),
		CreatedAt: c.GetCreatedAt().Time,
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
