package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/prpulse/internal/domain/model"
	"github.com/ericfisherdev/prpulse/internal/domain/port/driven"
)

// Resolver turns a user-supplied owner and repository name into the
// canonical repository handle the rest of the analysis runs against.
type Resolver struct {
	pool driven.ClientPool
}

// NewResolver creates a Resolver backed by the given client pool.
func NewResolver(pool driven.ClientPool) *Resolver {
	return &Resolver{pool: pool}
}

// Resolve locates owner/name on the remote side. The owner is first treated
// as an organization and its repository listing scanned for a
// case-insensitive name match; if the owner is no organization, or the name
// is absent from the listing, a user-scoped repository search is tried with
// an exact name match. The two paths exist because the API namespaces
// organizations and individual users separately and offers no single lookup
// covering both.
func (r *Resolver) Resolve(ctx context.Context, owner, name string) (model.RepositoryHandle, error) {
	client, release, err := r.pool.Acquire(ctx)
	if err != nil {
		return model.RepositoryHandle{}, err
	}
	defer release()

	repos, err := client.ListOwnerRepositories(ctx, owner)
	if err != nil {
		slog.Debug("owner not resolvable as an organization, retrying as individual user",
			"owner", owner,
			"error", err,
		)
	} else {
		for _, handle := range repos {
			if strings.EqualFold(handle.Name, name) {
				slog.Debug("repository resolved through organization listing", "repo", handle.FullName)
				return handle, nil
			}
		}
		slog.Debug("repository absent from organization listing, retrying as individual user",
			"owner", owner,
			"repository", name,
		)
	}

	handle, err := client.SearchUserRepository(ctx, owner, name)
	if err != nil {
		return model.RepositoryHandle{}, err
	}
	if handle != nil {
		slog.Debug("repository resolved through user search", "repo", handle.FullName)
		return *handle, nil
	}

	return model.RepositoryHandle{}, &model.RepositoryNotFoundError{Owner: owner, Name: name}
}
