package github_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghAdapter "github.com/ericfisherdev/prpulse/internal/adapter/driven/github"
	"github.com/ericfisherdev/prpulse/internal/domain/model"
)

func TestNewClientPool_RequiresToken(t *testing.T) {
	_, err := ghAdapter.NewClientPool("", "", 2, time.Second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is required")
}

func TestNewClientPool_RequiresPositiveSize(t *testing.T) {
	_, err := ghAdapter.NewClientPool("test-token", "", 0, time.Second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool size must be at least 1")
}

func TestNewClientPool_Size(t *testing.T) {
	pool, err := ghAdapter.NewClientPool("test-token", "", 3, time.Second)

	require.NoError(t, err)
	assert.Equal(t, 3, pool.Size())
}

func TestClientPool_AcquireRelease(t *testing.T) {
	pool, err := ghAdapter.NewClientPool("test-token", "", 1, time.Second)
	require.NoError(t, err)

	client, release, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	require.NotNil(t, client)
	release()

	// The released client is available again.
	client2, release2, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	require.NotNil(t, client2)
	release2()
}

func TestClientPool_ExhaustionTimesOut(t *testing.T) {
	pool, err := ghAdapter.NewClientPool("test-token", "", 1, 30*time.Millisecond)
	require.NoError(t, err)

	_, release, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	// The only client is leased out, so this acquire must lapse.
	_, _, err = pool.Acquire(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrPoolTimeout)

	// A lapsed wait does not poison the pool: releasing makes the next
	// acquire succeed.
	release()
	_, release2, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	release2()
}

func TestClientPool_AcquireHonorsContext(t *testing.T) {
	pool, err := ghAdapter.NewClientPool("test-token", "", 1, 5*time.Second)
	require.NoError(t, err)

	_, release, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err = pool.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientPool_ReleaseIsIdempotent(t *testing.T) {
	pool, err := ghAdapter.NewClientPool("test-token", "", 1, 30*time.Millisecond)
	require.NoError(t, err)

	_, release, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	release()
	release()

	// Double release must not grow the pool beyond its size: one acquire
	// succeeds, a second still times out.
	_, releaseAgain, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	defer releaseAgain()

	_, _, err = pool.Acquire(context.Background())
	assert.ErrorIs(t, err, model.ErrPoolTimeout)
}
