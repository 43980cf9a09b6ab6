package model

import "time"

// Commit is one commit on a pull request, trimmed to the fields analysis
// needs. AuthoredAt is the git author date, not the committer date.
type Commit struct {
	SHA        string
	Message    string
	AuthoredAt time.Time
}
