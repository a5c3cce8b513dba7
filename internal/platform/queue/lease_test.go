package queue

import (
	"context"
	"testing"
	"time"
	"vjbot/internal/common"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLease(t *testing.T, ttl time.Duration) (*SubmissionLease, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewSubmissionLease(rdb, ttl), mr
}

func TestLeaseSerializesPerUser(t *testing.T) {
	lease, _ := newTestLease(t, time.Minute)
	ctx := context.Background()

	token, err := lease.Acquire(ctx, "u1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = lease.Acquire(ctx, "u1")
	require.ErrorIs(t, err, common.ErrBusy)

	require.NoError(t, lease.Release(ctx, "u1", token))

	_, err = lease.Acquire(ctx, "u1")
	require.NoError(t, err)
}

func TestLeaseDoesNotBlockOtherUsers(t *testing.T) {
	lease, _ := newTestLease(t, time.Minute)
	ctx := context.Background()

	_, err := lease.Acquire(ctx, "u1")
	require.NoError(t, err)

	_, err = lease.Acquire(ctx, "u2")
	require.NoError(t, err)
}

func TestLeaseReleaseRequiresMatchingToken(t *testing.T) {
	lease, _ := newTestLease(t, time.Minute)
	ctx := context.Background()

	token, err := lease.Acquire(ctx, "u1")
	require.NoError(t, err)

	// A stale holder must not free a lease it no longer owns.
	require.NoError(t, lease.Release(ctx, "u1", "someone-elses-token"))
	_, err = lease.Acquire(ctx, "u1")
	require.ErrorIs(t, err, common.ErrBusy)

	require.NoError(t, lease.Release(ctx, "u1", token))
	_, err = lease.Acquire(ctx, "u1")
	require.NoError(t, err)
}

func TestLeaseExpiresAfterTTL(t *testing.T) {
	lease, mr := newTestLease(t, 30*time.Second)
	ctx := context.Background()

	_, err := lease.Acquire(ctx, "u1")
	require.NoError(t, err)

	mr.FastForward(31 * time.Second)

	_, err = lease.Acquire(ctx, "u1")
	require.NoError(t, err)
}
