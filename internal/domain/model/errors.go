package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCommitsFound reports a pull request whose commit list came back
	// empty. Every pull request carries at least one commit, so an empty
	// list is a data-integrity failure rather than a valid empty result.
	ErrNoCommitsFound = errors.New("pull request has no commits")

	// ErrPoolTimeout reports that no pooled client became available within
	// the acquire timeout. It fails the retrieval that requested the lease;
	// it does not abort the process.
	ErrPoolTimeout = errors.New("timed out waiting for a pooled github client")
)

// RepositoryNotFoundError reports that a repository could not be located
// under its owner, neither through the organization listing nor through the
// user-scoped search fallback.
type RepositoryNotFoundError struct {
	Owner string
	Name  string
}

func (e *RepositoryNotFoundError) Error() string {
	return fmt.Sprintf("could not find repository %q under owner %q (is it misspelled?)", e.Name, e.Owner)
}

// PullRequestNotFoundError reports a failed header fetch for an explicitly
// requested pull request number.
type PullRequestNotFoundError struct {
	Repo   string
	Number int
	Err    error
}

func (e *PullRequestNotFoundError) Error() string {
	return fmt.Sprintf("could not retrieve PR #%d for repository %s: %v", e.Number, e.Repo, e.Err)
}

func (e *PullRequestNotFoundError) Unwrap() error { return e.Err }

// PullRequestIncompleteDataError reports a pull request that lacks a merge
// or close timestamp. Such a PR is not yet finalized and is rejected before
// any sub-resource fetch is attempted.
type PullRequestIncompleteDataError struct {
	Number int
	Reason string
}

func (e *PullRequestIncompleteDataError) Error() string {
	return fmt.Sprintf("incomplete data for PR #%d: %s", e.Number, e.Reason)
}

// DiffParseError reports unified-diff text that failed to parse.
type DiffParseError struct {
	Repo   string
	Number int
	Err    error
}

func (e *DiffParseError) Error() string {
	return fmt.Sprintf("parsing diff for %s#%d: %v", e.Repo, e.Number, e.Err)
}

func (e *DiffParseError) Unwrap() error { return e.Err }

// PullRequestDataRetrievalError aggregates a failed bundle fetch: one of the
// five concurrent sub-fetches failed, and the whole pull request is
// discarded. Err holds the first sub-failure encountered.
type PullRequestDataRetrievalError struct {
	Repo   string
	Number int
	Err    error
}

func (e *PullRequestDataRetrievalError) Error() string {
	return fmt.Sprintf("data retrieval for %s#%d aborted mid-process: %v", e.Repo, e.Number, e.Err)
}

func (e *PullRequestDataRetrievalError) Unwrap() error { return e.Err }

// APIError reports a failed exchange with the GitHub API: a transport
// failure, a non-success status, or an unreadable response body.
type APIError struct {
	Op  string
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api error: %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// DecodeError reports a response body that was received but could not be
// mapped onto the expected JSON shape. Kept distinct from APIError so
// callers can tell a bad exchange from a bad payload.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding github response: %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
