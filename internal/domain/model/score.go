package model

import (
	"encoding/json"
	"strings"
)

// MetricKind identifies one measurable quality of a pull request or of a
// sample of pull requests. Its string value doubles as the key under "score"
// in the JSON document.
type MetricKind string

const (
	KindAmountOfParticipants           MetricKind = "amount_of_participants"
	KindAmountOfReviewers              MetricKind = "amount_of_reviewers"
	KindAttachments                    MetricKind = "attachments"
	KindAuthorCommentaryToChangesRatio MetricKind = "author_commentary_to_changes_ratio"
	KindPullRequestDiscussionSize      MetricKind = "pull_request_discussion_size"
	KindPullRequestFlowRatio           MetricKind = "pull_request_flow_ratio"
	KindPullRequestLeadTime            MetricKind = "pull_request_lead_time"
	KindPullRequestSize                MetricKind = "pull_request_size"
	KindTestToCodeRatio                MetricKind = "test_to_code_ratio"
	KindTimeToMerge                    MetricKind = "time_to_merge"
)

// Kinds returns every metric kind in presentation order. Scoring code
// switches over this slice so that adding a kind without handling it
// everywhere shows up immediately.
func Kinds() []MetricKind {
	return []MetricKind{
		KindAmountOfParticipants,
		KindAmountOfReviewers,
		KindAttachments,
		KindAuthorCommentaryToChangesRatio,
		KindPullRequestDiscussionSize,
		KindPullRequestFlowRatio,
		KindPullRequestLeadTime,
		KindPullRequestSize,
		KindTestToCodeRatio,
		KindTimeToMerge,
	}
}

// DisplayName returns the human-readable name used in legend headings.
func (k MetricKind) DisplayName() string {
	switch k {
	case KindAmountOfParticipants:
		return "Amount of Participants"
	case KindAmountOfReviewers:
		return "Amount of Reviewers"
	case KindAttachments:
		return "Attachments"
	case KindAuthorCommentaryToChangesRatio:
		return "Author Commentary to Changes Ratio"
	case KindPullRequestDiscussionSize:
		return "Pull Request Discussion Size"
	case KindPullRequestFlowRatio:
		return "Pull Request Flow Ratio"
	case KindPullRequestLeadTime:
		return "Pull Request Lead Time"
	case KindPullRequestSize:
		return "Pull Request Size"
	case KindTestToCodeRatio:
		return "Test to Code Ratio"
	case KindTimeToMerge:
		return "Time to Merge"
	}
	return string(k)
}

// Legend returns a verbose explanation of what the metric represents.
// Some of these come from personal experience, others from this excellent
// article on PR metrics:
// https://sourcelevel.io/blog/5-metrics-engineering-managers-can-extract-from-pull-requests
func (k MetricKind) Legend() string {
	switch k {
	case KindAmountOfParticipants:
		return "The amount of non-authoring people participating in a PR's discussion. Bigger participation " +
			"may enrich discussion and produce higher quality code."
	case KindAmountOfReviewers:
		return "The amount of non-authoring people that have taken a stand on a PR's outcome, either by " +
			"approving or requesting for changes. This measures the amount of participants that effectively " +
			"decide on a PR's fate."
	case KindAttachments:
		return "Attachments can be anything ranging from added screenshots to embedded PDF files. Particularly " +
			"useful for those PRs that have a visual component associated to it."
	case KindAuthorCommentaryToChangesRatio:
		return "Good code should be self-explanatory; but a good PR may also include extra commentary " +
			"on what it aims to achieve, how it does it and/or why it does it the chosen way.\n\n" +
			"A slim commentary may make for an ambiguous PR, shifting the burden of understanding " +
			"onto the reviewer and consuming extra time from it. On the other hand, too many comments " +
			"may pollute a PR with unneeded noise, to the same effect."
	case KindPullRequestDiscussionSize:
		return "Similar to Author Commentary to Changes Ratio, it measures the total amount of comments " +
			"in a PR, but irrespective of who they come from. On the contrary to social media posts, " +
			"too much engagement in pull requests leads to inefficiency. Measuring the number of comments " +
			"and reactions for each pull request gives an idea of how the team collaborates. Collaboration " +
			"is great, and its endorsement is something to be desired. However, after a certain level, " +
			"discussions slow down development.\n\n" +
			"Discussions that get too big may be indicative of something wrong: maybe the team is not " +
			"aligned, or maybe the software requirements are not precise enough. In any case, misalignment " +
			"in discussions are not collaboration; they are a waste of time. In the opposite scenario, " +
			"having almost zero engagement means code review is not part of the team's habits.\n\n" +
			"In summary, this metric must reach an 'ideal number' based on the team's size and distribution. " +
			"It can't be too much, and it can't be too little either."
	case KindPullRequestFlowRatio:
		return "The Pull Request Flow Ratio is the sum of the opened pull requests in a day divided by " +
			"the sum of closed pull requests in that same day. This metric shows whether the team " +
			"works in a healthy proportion. Merging pull requests and deploying to production is a " +
			"good thing, for it adds value to the final user. However, when the team closes more pull " +
			"requests than opens, soon the pull request queue starves, which means there may be a " +
			"hiatus in the delivery. Ideally, it is best to make sure the team merges pull requests " +
			"in a ratio as close as they open; the closer to 1:1, the better."
	case KindPullRequestLeadTime:
		return "The lead-time metric gives an idea of how many times (usually in days) pull requests " +
			"take to be merged or closed. To find this number, the date and time for each pull request " +
			"when opened and then merged is needed. The formula is easy: a simple average for the " +
			"difference of dates. Calculating this metric across all repositories in an organization " +
			"can give a team a clearer idea of their dynamics."
	case KindPullRequestSize:
		return "A large amount of changes per PR imposes a strain on the reviewer, who sees its attention " +
			"to detail diminished the bigger a changelog gets. Ironically, developers tend to merge " +
			"longer pull requests faster than shorter ones, for it is more difficult to perform thorough " +
			"reviews when there are too many things going on. Regardless of how thorough the reviews " +
			"are, big PRs lead to the Time To Merge going up, and the quality going down."
	case KindTestToCodeRatio:
		return "As a rule of thumb, at least half of a PR should be comprised of tests whenever possible."
	case KindTimeToMerge:
		return "In general, pull requests are open with some work in progress, which means that measuring " +
			"Pull Request Lead Time does not tell the whole story. Time to Merge is how much time " +
			"it takes for the first commit of a branch to reach the target branch. In practice, the " +
			"math is simple: it is the timestamp of the oldest commit of a branch minus the timestamp " +
			"of the merge commit.\n\n" +
			"The Time to Merge is usually useful while compared against the Pull Request Lead Time. " +
			"Take the following example:\n\n" +
			"* Pull Request Lead Time = 3 days\n" +
			"* Time To Merge = 15 days\n\n" +
			"In the above scenario, a pull request took an average time of 3 days to be merged (which " +
			"is pretty good); but the Time to Merge was 15 days. Which means that the developers worked " +
			"an average of 12 days (15 - 3) before opening a pull request.\n\n" +
			"NOTE:\n" +
			"This metric is rendered somewhat obsolete if developers work on WIP branches before squashing " +
			"all the changes into a single commit that is later used as base for the PR (this would " +
			"make the Time To Merge effectively equal to the Pull Request Lead Time). However, the metric " +
			"still remains incredibly useful for merge PRs (for example, merge develop into master): " +
			"said PRs would have a very short Pull Request Lead Time (they don't get thorough re-reviews), " +
			"but measuring against the first commit's date (Time to Merge) will tell how long it takes " +
			"for features to get accumulated into a milestone worthy enough of merging into one of " +
			"the 'big' branches."
	}
	return ""
}

// Legends returns the explanations of every metric kind as one printable
// block, each section headed by the kind's display name.
func Legends() string {
	var b strings.Builder
	for _, k := range Kinds() {
		name := k.DisplayName()
		rule := strings.Repeat("-", len(name))
		b.WriteString("\n")
		b.WriteString(rule)
		b.WriteString("\n")
		b.WriteString(name)
		b.WriteString("\n")
		b.WriteString(rule)
		b.WriteString("\n\n")
		b.WriteString(k.Legend())
		b.WriteString("\n")
	}
	return b.String()
}

// TestToCodeRatio is the composite value behind the test-to-code metric: the
// net added non-test lines, the net added test lines, and their quotient.
type TestToCodeRatio struct {
	LOC     int     `json:"loc"`
	TestLOC int     `json:"test_loc"`
	Ratio   float64 `json:"ratio"`
}

// Metric is one named measurement inside a Score. Value holds an int for
// count and day metrics, a float64 for ratio metrics, and a TestToCodeRatio
// for the test-to-code kind.
type Metric struct {
	Kind  MetricKind
	Value any
}

// Score is the end product of an analysis: one measurement per applicable
// metric kind, optionally tied to a single pull request number.
type Score struct {
	PRNumber *int
	Metrics  []Metric
}

type scoreJSON struct {
	PRNumber *int               `json:"pr_number,omitempty"`
	Score    map[MetricKind]any `json:"score"`
}

// MarshalJSON renders the score as {"pr_number": N, "score": {kind: value}},
// dropping pr_number for sample-level scores.
func (s Score) MarshalJSON() ([]byte, error) {
	doc := scoreJSON{
		PRNumber: s.PRNumber,
		Score:    make(map[MetricKind]any, len(s.Metrics)),
	}
	for _, m := range s.Metrics {
		doc.Score[m.Kind] = m.Value
	}
	return json.Marshal(doc)
}

// JSON returns the score as an indented JSON document.
func (s Score) JSON() (string, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Scorable yields a Score from a fully retrieved analysis subject.
type Scorable interface {
	Score() Score
}
