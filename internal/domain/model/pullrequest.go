package model

import "time"

// PullRequest is the header of a closed pull request as returned by the list
// and get endpoints. It carries the fields needed to validate a PR for
// analysis and to locate its sub-resources; the sub-resources themselves are
// fetched separately into a PullRequestBundle.
type PullRequest struct {
	Number            int
	Title             string
	Author            string
	Body              string
	CreatedAt         time.Time
	MergedAt          *time.Time
	ClosedAt          *time.Time
	ReviewCommentsURL string
	CommitsURL        string
}
