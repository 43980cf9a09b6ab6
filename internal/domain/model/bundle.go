package model

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// attachmentRE matches markdown links and images, which is how attachments
// (screenshots, embedded files) appear in PR commentary.
var attachmentRE = regexp.MustCompile(`!?\[.*\]\(.*?\)`)

// PullRequestBundle holds everything retrieved for a single pull request:
// the header fields plus all five sub-resources. A bundle only exists when
// every sub-fetch succeeded, so its fields can be consumed without further
// presence checks; in particular Commits always carries at least one entry.
type PullRequestBundle struct {
	Repo           string
	Number         int
	Author         string
	Title          string
	Body           string
	IssueComments  []IssueComment
	ReviewComments []ReviewComment
	Reviews        []Review
	Commits        []Commit
	Diff           DiffStats
	CreatedAt      time.Time
	MergedAt       time.Time
	ClosedAt       time.Time
}

var _ Scorable = (*PullRequestBundle)(nil)

// IsMergePR reports whether the pull request looks like a pure merge PR
// (for example "Merge develop into master"), going by the conventional
// "Merge ..." title prefix.
func (b *PullRequestBundle) IsMergePR() bool {
	return strings.HasPrefix(strings.ToLower(b.Title), "merge")
}

// AuthorCommentary returns every piece of text written by the PR's author:
// the PR body, issue comments, review-thread comments, and review bodies.
// The author may comment to enrich the PR or to answer a reviewer; either
// way it is part of the discussion, so no distinction is made.
func (b *PullRequestBundle) AuthorCommentary() []string {
	out := []string{b.Body}
	for _, c := range b.IssueComments {
		if c.Author == b.Author {
			out = append(out, c.Body)
		}
	}
	for _, c := range b.ReviewComments {
		if c.Author == b.Author {
			out = append(out, c.Body)
		}
	}
	for _, r := range b.Reviews {
		if r.ReviewerLogin == b.Author {
			out = append(out, r.Body)
		}
	}
	return out
}

// AllCommentary returns every piece of discussion text irrespective of who
// wrote it: the PR body, all issue comments, all review-thread comments,
// and all review bodies.
func (b *PullRequestBundle) AllCommentary() []string {
	out := []string{b.Body}
	for _, c := range b.IssueComments {
		out = append(out, c.Body)
	}
	for _, c := range b.ReviewComments {
		out = append(out, c.Body)
	}
	for _, r := range b.Reviews {
		out = append(out, r.Body)
	}
	return out
}

// NonAuthorParticipants returns the distinct logins of everyone who took
// part in the PR's discussion other than its author.
func (b *PullRequestBundle) NonAuthorParticipants() []string {
	var logins []string
	for _, c := range b.IssueComments {
		logins = append(logins, c.Author)
	}
	for _, r := range b.Reviews {
		logins = append(logins, r.ReviewerLogin)
	}
	for _, c := range b.ReviewComments {
		logins = append(logins, c.Author)
	}
	return distinctExcluding(logins, b.Author)
}

// NonAuthorReviewers returns the distinct logins of everyone who submitted a
// review on the PR other than its author. This is a subset of the
// NonAuthorParticipants universe.
func (b *PullRequestBundle) NonAuthorReviewers() []string {
	logins := make([]string, 0, len(b.Reviews))
	for _, r := range b.Reviews {
		logins = append(logins, r.ReviewerLogin)
	}
	return distinctExcluding(logins, b.Author)
}

// Attachments returns every markdown link or image found in the author's
// commentary, one entry per occurrence.
func (b *PullRequestBundle) Attachments() []string {
	var out []string
	for _, s := range b.AuthorCommentary() {
		out = append(out, attachmentRE.FindAllString(s, -1)...)
	}
	return out
}

// FirstCommitAt returns the author date of the PR's oldest commit.
func (b *PullRequestBundle) FirstCommitAt() time.Time {
	return b.Commits[0].AuthoredAt
}

// LeadTimeDays returns the whole days elapsed between the PR being opened
// and it being closed.
func (b *PullRequestBundle) LeadTimeDays() int {
	return wholeDays(b.ClosedAt.Sub(b.CreatedAt))
}

// TimeToMergeDays returns the whole days elapsed between the first commit
// being authored and the PR being merged.
func (b *PullRequestBundle) TimeToMergeDays() int {
	return wholeDays(b.MergedAt.Sub(b.FirstCommitAt()))
}

// Score measures the bundle against every metric kind. The flow ratio is a
// sample-level metric and is omitted for an individual pull request.
func (b *PullRequestBundle) Score() Score {
	authorChars := charLen(b.AuthorCommentary())
	allChars := charLen(b.AllCommentary())
	changes := b.Diff.TotalChanges()

	// A PR with an empty diff has no changes to compare commentary against,
	// so the ratio is pinned to zero instead of dividing by zero.
	var commentaryToChanges float64
	if changes > 0 {
		commentaryToChanges = trunc2(float64(authorChars) / float64(changes))
	}

	testLines := b.Diff.NetTestLines()
	nonTestLines := b.Diff.NetNonTestLines()
	var testToCode float64
	if nonTestLines != 0 {
		testToCode = trunc2(float64(testLines) / float64(nonTestLines))
	}

	metrics := make([]Metric, 0, len(Kinds()))
	for _, k := range Kinds() {
		switch k {
		case KindAmountOfParticipants:
			metrics = append(metrics, Metric{k, len(b.NonAuthorParticipants())})
		case KindAmountOfReviewers:
			metrics = append(metrics, Metric{k, len(b.NonAuthorReviewers())})
		case KindAttachments:
			metrics = append(metrics, Metric{k, len(b.Attachments())})
		case KindAuthorCommentaryToChangesRatio:
			metrics = append(metrics, Metric{k, commentaryToChanges})
		case KindPullRequestDiscussionSize:
			metrics = append(metrics, Metric{k, allChars})
		case KindPullRequestFlowRatio:
			// Not applicable to an individual pull request.
		case KindPullRequestLeadTime:
			metrics = append(metrics, Metric{k, b.LeadTimeDays()})
		case KindPullRequestSize:
			metrics = append(metrics, Metric{k, changes})
		case KindTestToCodeRatio:
			metrics = append(metrics, Metric{k, TestToCodeRatio{
				LOC:     nonTestLines,
				TestLOC: testLines,
				Ratio:   testToCode,
			}})
		case KindTimeToMerge:
			metrics = append(metrics, Metric{k, b.TimeToMergeDays()})
		}
	}

	n := b.Number
	return Score{PRNumber: &n, Metrics: metrics}
}

// distinctExcluding returns the logins in first-seen order with duplicates
// and the excluded login removed.
func distinctExcluding(logins []string, exclude string) []string {
	seen := make(map[string]struct{}, len(logins))
	var out []string
	for _, l := range logins {
		if l == exclude {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// charLen sums the length of every string in the slice.
func charLen(ss []string) int {
	var n int
	for _, s := range ss {
		n += len(s)
	}
	return n
}

// trunc2 truncates a float to two decimal places.
func trunc2(f float64) float64 {
	return math.Trunc(f*100) / 100
}

// wholeDays converts a duration to full elapsed days, truncating partials.
func wholeDays(d time.Duration) int {
	return int(d / (24 * time.Hour))
}
