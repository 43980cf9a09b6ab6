package model

import "time"

// Sample is the set of successfully retrieved pull request bundles that a
// repository-level analysis aggregates over.
type Sample []*PullRequestBundle

var _ Scorable = (Sample)(nil)

// Score aggregates the individual scores of every bundle in the sample into
// one repository-level score. Count and day metrics average with a ceiling
// division, ratio metrics with a plain mean, and the flow ratio is computed
// across the whole sample. An empty sample scores as an empty document.
func (s Sample) Score() Score {
	if len(s) == 0 {
		return Score{Metrics: []Metric{}}
	}

	n := len(s)
	var (
		participants   int
		reviewers      int
		attachments    int
		commentarySum  float64
		discussionSize int
		leadTime       int
		size           int
		testLines      int
		nonTestLines   int
		testRatioSum   float64
		timeToMerge    int
	)

	for _, b := range s {
		for _, m := range b.Score().Metrics {
			switch m.Kind {
			case KindAmountOfParticipants:
				participants += m.Value.(int)
			case KindAmountOfReviewers:
				reviewers += m.Value.(int)
			case KindAttachments:
				attachments += m.Value.(int)
			case KindAuthorCommentaryToChangesRatio:
				commentarySum += m.Value.(float64)
			case KindPullRequestDiscussionSize:
				discussionSize += m.Value.(int)
			case KindPullRequestFlowRatio:
				// Never present on an individual score.
			case KindPullRequestLeadTime:
				leadTime += m.Value.(int)
			case KindPullRequestSize:
				size += m.Value.(int)
			case KindTestToCodeRatio:
				r := m.Value.(TestToCodeRatio)
				nonTestLines += r.LOC
				testLines += r.TestLOC
				testRatioSum += r.Ratio
			case KindTimeToMerge:
				timeToMerge += m.Value.(int)
			}
		}
	}

	metrics := make([]Metric, 0, len(Kinds()))
	for _, k := range Kinds() {
		switch k {
		case KindAmountOfParticipants:
			metrics = append(metrics, Metric{k, divCeil(participants, n)})
		case KindAmountOfReviewers:
			metrics = append(metrics, Metric{k, divCeil(reviewers, n)})
		case KindAttachments:
			metrics = append(metrics, Metric{k, divCeil(attachments, n)})
		case KindAuthorCommentaryToChangesRatio:
			metrics = append(metrics, Metric{k, commentarySum / float64(n)})
		case KindPullRequestDiscussionSize:
			metrics = append(metrics, Metric{k, divCeil(discussionSize, n)})
		case KindPullRequestFlowRatio:
			metrics = append(metrics, Metric{k, s.flowRatio()})
		case KindPullRequestLeadTime:
			metrics = append(metrics, Metric{k, divCeil(leadTime, n)})
		case KindPullRequestSize:
			metrics = append(metrics, Metric{k, divCeil(size, n)})
		case KindTestToCodeRatio:
			metrics = append(metrics, Metric{k, TestToCodeRatio{
				LOC:     nonTestLines / n,
				TestLOC: testLines / n,
				Ratio:   testRatioSum / float64(n),
			}})
		case KindTimeToMerge:
			metrics = append(metrics, Metric{k, divCeil(timeToMerge, n)})
		}
	}

	return Score{Metrics: metrics}
}

// flowRatio averages, over every UTC calendar day on which pull requests
// were both opened and closed, the number opened divided by the number
// closed. Days with activity on only one side of the ledger are skipped;
// with no overlapping days at all the ratio is zero.
func (s Sample) flowRatio() float64 {
	created := make(map[string]int)
	closed := make(map[string]int)
	for _, b := range s {
		created[dayKey(b.CreatedAt)]++
		closed[dayKey(b.ClosedAt)]++
	}

	var sum float64
	var days int
	for day, opened := range created {
		if closures, ok := closed[day]; ok {
			sum += float64(opened) / float64(closures)
			days++
		}
	}
	if days == 0 {
		return 0
	}
	return sum / float64(days)
}

func dayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// divCeil divides sum by n rounding up, so a sample never averages a
// non-zero total down to zero.
func divCeil(sum, n int) int {
	return (sum + n - 1) / n
}
