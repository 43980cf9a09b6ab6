// Package application contains use-case orchestration services.
package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/prpulse/internal/diffstat"
	"github.com/ericfisherdev/prpulse/internal/domain/model"
	"github.com/ericfisherdev/prpulse/internal/domain/port/driven"
)

// Analyzer retrieves the full data bundle behind one or many pull requests
// of a single repository. Retrievals are all-or-nothing per PR and
// best-effort across PRs: a PR's metrics are only meaningful if every
// contributing signal was fetched, but one bad PR must never abort the rest
// of the sample.
type Analyzer struct {
	pool driven.ClientPool
	repo model.RepositoryHandle
}

// NewAnalyzer creates an Analyzer for the given resolved repository.
func NewAnalyzer(pool driven.ClientPool, repo model.RepositoryHandle) *Analyzer {
	return &Analyzer{
		pool: pool,
		repo: repo,
	}
}

// RetrieveSample lists up to sampleSize closed pull requests, most recently
// created first, and retrieves each one concurrently. The returned outcomes
// preserve the listing order regardless of per-PR completion order. Only the
// listing itself can fail; per-PR failures are carried inside the outcomes.
func (a *Analyzer) RetrieveSample(ctx context.Context, sampleSize int) (model.Outcomes, error) {
	start := time.Now()

	client, release, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	headers, err := client.ListClosedPullRequests(ctx, a.repo.FullName, sampleSize)
	release()
	if err != nil {
		return nil, err
	}

	slog.Info("analyzing repository", "repo", a.repo.FullName, "sample", len(headers))

	outcomes := make(model.Outcomes, len(headers))
	var wg sync.WaitGroup
	for i, header := range headers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bundle, err := a.retrieveBundle(ctx, header)
			outcomes[i] = model.RetrievalOutcome{Number: header.Number, Bundle: bundle, Err: err}
		}()
	}
	wg.Wait()

	failures := outcomes.Failures()
	for _, f := range failures {
		slog.Error("pull request could not be fully retrieved",
			"repo", a.repo.FullName,
			"pr", f.Number,
			"error", f.Err,
		)
	}

	slog.Info("sample retrieval complete",
		"repo", a.repo.FullName,
		"prs", len(outcomes),
		"failed", len(failures),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return outcomes, nil
}

// RetrieveOne fetches a single pull request by number and retrieves its
// bundle. A missing or unreadable header fails with PullRequestNotFoundError
// carried inside the outcome.
func (a *Analyzer) RetrieveOne(ctx context.Context, prNumber int) model.RetrievalOutcome {
	start := time.Now()

	slog.Info("analyzing pull request", "repo", a.repo.FullName, "pr", prNumber)

	header, err := a.fetchHeader(ctx, prNumber)
	if err != nil {
		return model.RetrievalOutcome{Number: prNumber, Err: err}
	}

	bundle, err := a.retrieveBundle(ctx, *header)

	slog.Info("pull request retrieval complete",
		"repo", a.repo.FullName,
		"pr", prNumber,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return model.RetrievalOutcome{Number: prNumber, Bundle: bundle, Err: err}
}

func (a *Analyzer) fetchHeader(ctx context.Context, prNumber int) (*model.PullRequest, error) {
	client, release, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	header, err := client.FetchPullRequest(ctx, a.repo.FullName, prNumber)
	if err != nil {
		return nil, &model.PullRequestNotFoundError{Repo: a.repo.FullName, Number: prNumber, Err: err}
	}
	return header, nil
}

// retrieveBundle runs the five sub-fetches behind one pull request. The
// header is validated first so a not-yet-finalized PR costs zero API calls.
// The five fetches run concurrently, each on its own leased client; the
// first failure decides the PR's outcome, while the remaining fetches are
// left to finish and their results discarded.
func (a *Analyzer) retrieveBundle(ctx context.Context, header model.PullRequest) (*model.PullRequestBundle, error) {
	if header.MergedAt == nil {
		return nil, &model.PullRequestIncompleteDataError{
			Number: header.Number,
			Reason: "no merged date; only properly merged PRs can be analyzed in full",
		}
	}
	if header.ClosedAt == nil {
		return nil, &model.PullRequestIncompleteDataError{
			Number: header.Number,
			Reason: "no closed date; only properly closed PRs can be analyzed in full",
		}
	}

	slog.Debug("retrieving pull request data", "repo", a.repo.FullName, "pr", header.Number)
	start := time.Now()

	var (
		issueComments  []model.IssueComment
		reviewComments []model.ReviewComment
		reviews        []model.Review
		commits        []model.Commit
		stats          model.DiffStats
	)

	var g errgroup.Group

	g.Go(func() error {
		client, release, err := a.pool.Acquire(ctx)
		if err != nil {
			return err
		}
		defer release()
		issueComments, err = client.FetchIssueComments(ctx, a.repo.FullName, header.Number)
		return err
	})

	g.Go(func() error {
		client, release, err := a.pool.Acquire(ctx)
		if err != nil {
			return err
		}
		defer release()
		reviewComments, err = client.FetchReviewComments(ctx, header.ReviewCommentsURL)
		return err
	})

	g.Go(func() error {
		client, release, err := a.pool.Acquire(ctx)
		if err != nil {
			return err
		}
		defer release()
		reviews, err = client.FetchReviews(ctx, a.repo.FullName, header.Number)
		return err
	})

	g.Go(func() error {
		client, release, err := a.pool.Acquire(ctx)
		if err != nil {
			return err
		}
		defer release()
		commits, err = client.FetchCommits(ctx, header.CommitsURL)
		return err
	})

	g.Go(func() error {
		client, release, err := a.pool.Acquire(ctx)
		if err != nil {
			return err
		}
		defer release()
		diff, err := client.FetchDiff(ctx, a.repo.FullName, header.Number)
		if err != nil {
			return err
		}
		stats, err = diffstat.Parse(diff)
		if err != nil {
			return &model.DiffParseError{Repo: a.repo.FullName, Number: header.Number, Err: err}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, &model.PullRequestDataRetrievalError{
			Repo:   a.repo.FullName,
			Number: header.Number,
			Err:    err,
		}
	}

	slog.Debug("pull request data retrieved",
		"repo", a.repo.FullName,
		"pr", header.Number,
		"issue_comments", len(issueComments),
		"review_comments", len(reviewComments),
		"reviews", len(reviews),
		"commits", len(commits),
		"files", len(stats.Files),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return &model.PullRequestBundle{
		Repo:           a.repo.FullName,
		Number:         header.Number,
		Author:         header.Author,
		Title:          header.Title,
		Body:           header.Body,
		IssueComments:  issueComments,
		ReviewComments: reviewComments,
		Reviews:        reviews,
		Commits:        commits,
		Diff:           stats,
		CreatedAt:      header.CreatedAt,
		MergedAt:       *header.MergedAt,
		ClosedAt:       *header.ClosedAt,
	}, nil
}
