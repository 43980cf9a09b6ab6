package github

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ericfisherdev/prpulse/internal/domain/model"
	"github.com/ericfisherdev/prpulse/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ClientPool = (*ClientPool)(nil)

// ClientPool implements driven.ClientPool with a fixed set of clients handed
// out through a buffered channel. Each concurrent retrieval leases one
// client for its whole lifetime, which caps the number of simultaneous API
// conversations at the pool size no matter how many pull requests are being
// analyzed.
type ClientPool struct {
	clients        chan driven.GitHubClient
	size           int
	acquireTimeout time.Duration
}

// NewClientPool builds a pool of size independent clients sharing the given
// credentials. Construction fails on an empty token or a non-positive size;
// a process without a usable pool has nothing to do.
func NewClientPool(token, baseURL string, size int, acquireTimeout time.Duration) (*ClientPool, error) {
	if token == "" {
		return nil, errors.New("github token is required to build the client pool")
	}
	if size < 1 {
		return nil, fmt.Errorf("pool size must be at least 1, got %d", size)
	}

	clients := make([]driven.GitHubClient, 0, size)
	for i := 0; i < size; i++ {
		c, err := NewClient(token, baseURL)
		if err != nil {
			return nil, fmt.Errorf("building pooled client %d: %w", i, err)
		}
		clients = append(clients, c)
	}

	return NewClientPoolWithClients(clients, acquireTimeout)
}

// NewClientPoolWithClients builds a pool around pre-built clients. This
// constructor is intended for testing, allowing injection of clients bound
// to an httptest server.
func NewClientPoolWithClients(clients []driven.GitHubClient, acquireTimeout time.Duration) (*ClientPool, error) {
	if len(clients) < 1 {
		return nil, errors.New("client pool needs at least one client")
	}

	ch := make(chan driven.GitHubClient, len(clients))
	for _, c := range clients {
		ch <- c
	}

	return &ClientPool{
		clients:        ch,
		size:           len(clients),
		acquireTimeout: acquireTimeout,
	}, nil
}

// Acquire leases a client from the pool. It blocks until one is free, the
// acquire timeout lapses, or ctx is done. A lapsed wait fails only the
// retrieval that requested the lease; the pool stays usable. The returned
// release func hands the client back and tolerates being called more than
// once.
func (p *ClientPool) Acquire(ctx context.Context) (driven.GitHubClient, func(), error) {
	timer := time.NewTimer(p.acquireTimeout)
	defer timer.Stop()

	select {
	case c := <-p.clients:
		var once sync.Once
		release := func() {
			once.Do(func() { p.clients <- c })
		}
		return c, release, nil
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", model.ErrPoolTimeout, p.acquireTimeout)
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
}

// Size returns the fixed number of clients the pool was built with.
func (p *ClientPool) Size() int {
	return p.size
}
