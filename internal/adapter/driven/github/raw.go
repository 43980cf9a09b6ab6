package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ericfisherdev/prpulse/internal/domain/model"
)

// reviewJSON is the wire shape of one entry in a reviews listing. Reviews
// are decoded by hand rather than through the typed ListReviews helper so
// that the state field passes through model.ReviewState's strict
// uppercase/lowercase matching; a state outside the five known values has to
// fail the fetch, not slide through as an uninterpreted string.
type reviewJSON struct {
	ID   int64 `json:"id"`
	User struct {
		Login string `json:"login"`
	} `json:"user"`
	Body        string            `json:"body"`
	State       model.ReviewState `json:"state"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// reviewCommentJSON is the wire shape of one review-thread comment.
type reviewCommentJSON struct {
	ID   int64 `json:"id"`
	User struct {
		Login string `json:"login"`
	} `json:"user"`
	Body      string    `json:"body"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// commitJSON is the wire shape of one entry in a PR commits listing.
type commitJSON struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"author"`
		Message string `json:"message"`
	} `json:"commit"`
}

// FetchReviews retrieves the reviews submitted on a pull request.
// An empty response body is a valid empty review list.
func (c *Client) FetchReviews(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error) {
	u := fmt.Sprintf("repos/%s/pulls/%d/reviews", repoFullName, prNumber)
	op := fmt.Sprintf("fetching reviews for %s#%d", repoFullName, prNumber)

	body, err := c.getRaw(ctx, u, op)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return []model.Review{}, nil
	}

	var raw []reviewJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &model.DecodeError{Op: op, Err: err}
	}

	reviews := make([]model.Review, 0, len(raw))
	for _, r := range raw {
		reviews = append(reviews, model.Review{
			ID:            r.ID,
			ReviewerLogin: r.User.Login,
			State:         r.State,
			Body:          r.Body,
			SubmittedAt:   r.SubmittedAt,
		})
	}

	return reviews, nil
}

// FetchReviewComments retrieves the review-thread comments (comments on a
// portion of the unified diff) behind the given review_comments_url.
// An empty response body is a valid empty comment list.
func (c *Client) FetchReviewComments(ctx context.Context, url string) ([]model.ReviewComment, error) {
	op := fmt.Sprintf("fetching review comments from %s", url)

	body, err := c.getRaw(ctx, url, op)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return []model.ReviewComment{}, nil
	}

	var raw []reviewCommentJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &model.DecodeError{Op: op, Err: err}
	}

	comments := make([]model.ReviewComment, 0, len(raw))
	for _, rc := range raw {
		comments = append(comments, model.ReviewComment{
			ID:        rc.ID,
			Author:    rc.User.Login,
			Body:      rc.Body,
			Path:      rc.Path,
			CreatedAt: rc.CreatedAt,
		})
	}

	return comments, nil
}

// FetchCommits retrieves the commits behind the given commits_url. A pull
// request carries at least one commit, so an empty body or an empty list
// fails with model.ErrNoCommitsFound.
func (c *Client) FetchCommits(ctx context.Context, url string) ([]model.Commit, error) {
	op := fmt.Sprintf("fetching commits from %s", url)

	body, err := c.getRaw(ctx, url, op)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, model.ErrNoCommitsFound
	}

	var raw []commitJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &model.DecodeError{Op: op, Err: err}
	}
	if len(raw) == 0 {
		return nil, model.ErrNoCommitsFound
	}

	commits := make([]model.Commit, 0, len(raw))
	for _, cr := range raw {
		commits = append(commits, model.Commit{
			SHA:        cr.SHA,
			Message:    cr.Commit.Message,
			AuthoredAt: cr.Commit.Author.Date,
		})
	}

	return commits, nil
}

// getRaw performs a GET against u, which may be BaseURL-relative or one of
// the absolute URLs GitHub embeds in its payloads, and returns the raw
// response body. A successful exchange with an empty body returns an empty
// slice; callers decide what emptiness means for their resource.
func (c *Client) getRaw(ctx context.Context, u, op string) ([]byte, error) {
	req, err := c.gh.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, &model.APIError{Op: op, Err: err}
	}

	var buf bytes.Buffer
	resp, err := c.gh.Do(ctx, req, &buf)
	if err != nil {
		return nil, &model.APIError{Op: op, Err: err}
	}

	logRateLimit(resp, u, 0, buf.Len())

	return buf.Bytes(), nil
}
