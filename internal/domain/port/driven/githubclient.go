package driven

import (
	"context"

	"github.com/ericfisherdev/prpulse/internal/domain/model"
)

// GitHubClient defines the driven port for reading pull request data from
// the GitHub API. All methods are read-only; the analyzer never mutates
// anything on the remote side.
type GitHubClient interface {
	// Repository resolution

	// ListOwnerRepositories returns the repositories visible under an
	// organization owner, most recently pushed first.
	ListOwnerRepositories(ctx context.Context, owner string) ([]model.RepositoryHandle, error)
	// SearchUserRepository looks a repository up under a personal account,
	// returning nil without error when no exact match exists.
	SearchUserRepository(ctx context.Context, owner string, name string) (*model.RepositoryHandle, error)

	// Pull request headers

	// ListClosedPullRequests returns up to limit closed pull requests,
	// most recently created first.
	ListClosedPullRequests(ctx context.Context, repoFullName string, limit int) ([]model.PullRequest, error)
	FetchPullRequest(ctx context.Context, repoFullName string, prNumber int) (*model.PullRequest, error)

	// Per-PR sub-resources

	FetchIssueComments(ctx context.Context, repoFullName string, prNumber int) ([]model.IssueComment, error)
	// FetchReviewComments reads the review-thread comments behind the
	// header's review_comments_url.
	FetchReviewComments(ctx context.Context, url string) ([]model.ReviewComment, error)
	// FetchReviews reads reviews raw so that unexpected state values fail
	// loudly instead of being coerced.
	FetchReviews(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error)
	// FetchCommits reads the commits behind the header's commits_url and
	// fails with model.ErrNoCommitsFound when the list comes back empty.
	FetchCommits(ctx context.Context, url string) ([]model.Commit, error)
	// FetchDiff returns the pull request's unified diff text.
	FetchDiff(ctx context.Context, repoFullName string, prNumber int) (string, error)
}
