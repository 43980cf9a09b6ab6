package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// metricValue finds the value recorded for kind in a score, failing the test
// when the kind is absent.
func metricValue(t *testing.T, s Score, kind MetricKind) any {
	t.Helper()
	for _, m := range s.Metrics {
		if m.Kind == kind {
			return m.Value
		}
	}
	t.Fatalf("metric %s not found in score", kind)
	return nil
}

func hasMetric(s Score, kind MetricKind) bool {
	for _, m := range s.Metrics {
		if m.Kind == kind {
			return true
		}
	}
	return false
}

func date(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

// scenarioBundle is a fully retrieved PR: two issue comments and an approval
// from other people, one attachment in the body, a test file worth net 8
// lines next to a non-test file worth net 15.
func scenarioBundle() *PullRequestBundle {
	return &PullRequestBundle{
		Repo:   "acme/widget",
		Number: 42,
		Author: "alice",
		Title:  "Add frobnicator",
		Body:   "Adds the frobnicator to the main widget pipeline. ![s](http://e.com/a.png)",
		IssueComments: []IssueComment{
			{ID: 1, Author: "bob", Body: "Looks reasonable.", CreatedAt: date("2026-03-11T10:00:00Z")},
			{ID: 2, Author: "carol", Body: "Ship it.", CreatedAt: date("2026-03-12T10:00:00Z")},
		},
		Reviews: []Review{
			{ID: 10, ReviewerLogin: "bob", State: ReviewStateApproved, Body: "LGTM", SubmittedAt: date("2026-03-13T10:00:00Z")},
		},
		Commits: []Commit{
			{SHA: "abc123", Message: "add frobnicator", AuthoredAt: date("2026-03-08T09:00:00Z")},
		},
		Diff: DiffStats{Files: []FileDiff{
			{Path: "pkg/frobnicator.go", Status: FileModified, Hunks: []Hunk{{Added: 20, Removed: 5}}},
			{Path: "pkg/frobnicator_test.go", Status: FileAdded, Hunks: []Hunk{{Added: 10, Removed: 2}}},
		}},
		CreatedAt: date("2026-03-10T08:00:00Z"),
		MergedAt:  date("2026-03-14T10:30:00Z"),
		ClosedAt:  date("2026-03-14T10:30:00Z"),
	}
}

func TestBundleScore_FullScenario(t *testing.T) {
	b := scenarioBundle()

	score := b.Score()

	require.NotNil(t, score.PRNumber)
	assert.Equal(t, 42, *score.PRNumber)

	assert.Equal(t, 2, metricValue(t, score, KindAmountOfParticipants))
	assert.Equal(t, 1, metricValue(t, score, KindAmountOfReviewers))
	assert.Equal(t, 1, metricValue(t, score, KindAttachments))
	// 74 chars of author commentary against 37 changed lines.
	assert.Equal(t, 2.0, metricValue(t, score, KindAuthorCommentaryToChangesRatio))
	// Body plus both comments plus the review body.
	assert.Equal(t, 74+17+8+4, metricValue(t, score, KindPullRequestDiscussionSize))
	assert.Equal(t, 4, metricValue(t, score, KindPullRequestLeadTime))
	assert.Equal(t, 37, metricValue(t, score, KindPullRequestSize))
	assert.Equal(t, TestToCodeRatio{LOC: 15, TestLOC: 8, Ratio: 0.53}, metricValue(t, score, KindTestToCodeRatio))
	assert.Equal(t, 6, metricValue(t, score, KindTimeToMerge))

	// The flow ratio only exists at sample level.
	assert.False(t, hasMetric(score, KindPullRequestFlowRatio))
	assert.Len(t, score.Metrics, len(Kinds())-1)
}

func TestBundleScore_EmptyDiff(t *testing.T) {
	b := scenarioBundle()
	b.Diff = DiffStats{}

	score := b.Score()

	assert.Equal(t, 0, metricValue(t, score, KindPullRequestSize))
	// No changes to relate the commentary to.
	assert.Equal(t, 0.0, metricValue(t, score, KindAuthorCommentaryToChangesRatio))
	assert.Equal(t, TestToCodeRatio{}, metricValue(t, score, KindTestToCodeRatio))
}

func TestBundleScore_TestOnlyDiff(t *testing.T) {
	b := scenarioBundle()
	b.Diff = DiffStats{Files: []FileDiff{
		{Path: "pkg/frobnicator_test.go", Status: FileAdded, Hunks: []Hunk{{Added: 10}}},
	}}

	score := b.Score()

	// Zero non-test lines pin the ratio to zero rather than dividing by it.
	assert.Equal(t, TestToCodeRatio{LOC: 0, TestLOC: 10, Ratio: 0}, metricValue(t, score, KindTestToCodeRatio))
}

func TestBundle_NonAuthorParticipants(t *testing.T) {
	b := scenarioBundle()
	b.ReviewComments = []ReviewComment{
		{ID: 20, Author: "bob", Body: "nit", Path: "pkg/frobnicator.go", CreatedAt: date("2026-03-13T11:00:00Z")},
		{ID: 21, Author: "dave", Body: "typo", Path: "pkg/frobnicator.go", CreatedAt: date("2026-03-13T12:00:00Z")},
		{ID: 22, Author: "alice", Body: "fixed", Path: "pkg/frobnicator.go", CreatedAt: date("2026-03-13T13:00:00Z")},
	}

	// bob appears three times, alice is the author; both collapse away.
	assert.Equal(t, []string{"bob", "carol", "dave"}, b.NonAuthorParticipants())
}

func TestBundle_NonAuthorReviewers_EveryStateCounts(t *testing.T) {
	b := scenarioBundle()
	b.Reviews = []Review{
		{ID: 10, ReviewerLogin: "bob", State: ReviewStateChangesRequested},
		{ID: 11, ReviewerLogin: "carol", State: ReviewStateCommented},
		{ID: 12, ReviewerLogin: "bob", State: ReviewStateApproved},
		{ID: 13, ReviewerLogin: "alice", State: ReviewStateCommented},
	}

	// Taking any stand counts as reviewing; the author's own review does not.
	assert.Equal(t, []string{"bob", "carol"}, b.NonAuthorReviewers())
}

func TestBundle_Attachments(t *testing.T) {
	b := scenarioBundle()
	b.Body = "Before ![shot](https://example.com/a.png) after [doc](https://example.com/spec.pdf)"
	b.IssueComments = append(b.IssueComments, IssueComment{
		ID:     3,
		Author: "alice",
		Body:   "See also ![detail](https://example.com/b.png)",
	})

	// Two in the body, one in the author's own comment. bob's and carol's
	// comments never carry into the author commentary.
	assert.Len(t, b.Attachments(), 3)
}

func TestBundle_Attachments_IgnoresNonAuthorLinks(t *testing.T) {
	b := scenarioBundle()
	b.Body = "Plain text only."
	b.IssueComments = []IssueComment{
		{ID: 1, Author: "bob", Body: "![proof](https://example.com/proof.png)"},
	}

	assert.Empty(t, b.Attachments())
}

func TestBundle_AuthorCommentary_Order(t *testing.T) {
	b := scenarioBundle()
	b.IssueComments = append(b.IssueComments, IssueComment{ID: 3, Author: "alice", Body: "issue comment"})
	b.ReviewComments = []ReviewComment{{ID: 20, Author: "alice", Body: "review comment"}}
	b.Reviews = append(b.Reviews, Review{ID: 11, ReviewerLogin: "alice", State: ReviewStateCommented, Body: "self review"})

	got := b.AuthorCommentary()

	assert.Equal(t, []string{b.Body, "issue comment", "review comment", "self review"}, got)
}

func TestBundle_LeadTimeTruncatesPartialDays(t *testing.T) {
	b := scenarioBundle()
	b.CreatedAt = date("2026-03-10T08:00:00Z")

	b.ClosedAt = date("2026-03-12T07:59:00Z")
	assert.Equal(t, 1, b.LeadTimeDays())

	b.ClosedAt = date("2026-03-12T08:00:00Z")
	assert.Equal(t, 2, b.LeadTimeDays())
}

func TestBundle_TimeToMergeUsesFirstCommit(t *testing.T) {
	b := scenarioBundle()
	b.Commits = []Commit{
		{SHA: "abc", AuthoredAt: date("2026-03-01T10:00:00Z")},
		{SHA: "def", AuthoredAt: date("2026-03-05T10:00:00Z")},
	}
	b.MergedAt = date("2026-03-14T10:30:00Z")

	assert.Equal(t, date("2026-03-01T10:00:00Z"), b.FirstCommitAt())
	assert.Equal(t, 13, b.TimeToMergeDays())
}

func TestBundle_IsMergePR(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Merge develop into master", true},
		{"merge release-2.4 back", true},
		{"Merged upstream changes", true},
		{"Emergency fix for login", false},
		{"Add merge helper", false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			b := scenarioBundle()
			b.Title = tt.title
			assert.Equal(t, tt.want, b.IsMergePR())
		})
	}
}
