package model

// RetrievalOutcome is the per-PR result of a retrieval run: either a
// complete bundle or the failure that prevented one. Failures are carried as
// values so that one bad pull request never takes down the rest of the run.
type RetrievalOutcome struct {
	Number int
	Bundle *PullRequestBundle
	Err    error
}

// Failed reports whether the retrieval produced an error instead of a bundle.
func (o RetrievalOutcome) Failed() bool {
	return o.Err != nil
}

// Outcomes is an ordered collection of per-PR retrieval results. The order
// matches the listing the retrieval ran over.
type Outcomes []RetrievalOutcome

// Sample returns the bundles of every successful outcome, preserving order.
func (os Outcomes) Sample() Sample {
	var s Sample
	for _, o := range os {
		if !o.Failed() {
			s = append(s, o.Bundle)
		}
	}
	return s
}

// Failures returns the outcomes that carry an error, preserving order.
func (os Outcomes) Failures() []RetrievalOutcome {
	var out []RetrievalOutcome
	for _, o := range os {
		if o.Failed() {
			out = append(out, o)
		}
	}
	return out
}
