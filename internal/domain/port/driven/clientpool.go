package driven

import "context"

// ClientPool hands out leased GitHub clients to concurrent retrievals so the
// process keeps a bounded number of API connections regardless of how many
// pull requests are analyzed at once.
type ClientPool interface {
	// Acquire blocks until a pooled client is free, the acquire timeout
	// lapses, or ctx is done. The returned release func must be called
	// exactly once to hand the client back; a lapsed wait returns
	// model.ErrPoolTimeout.
	Acquire(ctx context.Context) (GitHubClient, func(), error)
	// Size returns the fixed number of clients the pool was built with.
	Size() int
}
