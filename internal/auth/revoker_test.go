package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenRevokerCutoffMonotonic(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTokenRevoker(time.Hour)
	first := time.Now().UTC().Add(-time.Minute)
	second := time.Now().UTC()

	got, err := r.RevokedAfter(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	require.NoError(t, r.RevokePrincipal(ctx, 1, first))
	require.NoError(t, r.RevokePrincipal(ctx, 1, first.Add(-time.Minute)))
	got, err = r.RevokedAfter(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(first), "older cutoff must not replace a newer one")

	require.NoError(t, r.RevokePrincipal(ctx, 1, second))
	got, err = r.RevokedAfter(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(second))

	other, err := r.RevokedAfter(ctx, 2)
	require.NoError(t, err)
	assert.True(t, other.IsZero())
}

func TestMemoryTokenRevokerExpires(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTokenRevoker(time.Millisecond)

	require.NoError(t, r.RevokePrincipal(ctx, 1, time.Now()))
	time.Sleep(5 * time.Millisecond)

	got, err := r.RevokedAfter(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func newRedisRevoker(t *testing.T, ttl time.Duration) (*RedisTokenRevoker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTokenRevoker(client, ttl), mr
}

func TestRedisTokenRevokerCutoffMonotonic(t *testing.T) {
	ctx := context.Background()
	r, _ := newRedisRevoker(t, time.Hour)
	require.NoError(t, r.Ping(ctx))

	first := time.UnixMilli(time.Now().Add(-time.Minute).UnixMilli()).UTC()
	second := time.UnixMilli(time.Now().UnixMilli()).UTC()

	got, err := r.RevokedAfter(ctx, 9)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	require.NoError(t, r.RevokePrincipal(ctx, 9, first))
	require.NoError(t, r.RevokePrincipal(ctx, 9, first.Add(-time.Minute)))
	got, err = r.RevokedAfter(ctx, 9)
	require.NoError(t, err)
	assert.True(t, got.Equal(first), "got %v want %v", got, first)

	require.NoError(t, r.RevokePrincipal(ctx, 9, second))
	got, err = r.RevokedAfter(ctx, 9)
	require.NoError(t, err)
	assert.True(t, got.Equal(second), "got %v want %v", got, second)
}

func TestRedisTokenRevokerExpires(t *testing.T) {
	ctx := context.Background()
	r, mr := newRedisRevoker(t, time.Minute)

	require.NoError(t, r.RevokePrincipal(ctx, 3, time.Now()))
	assert.True(t, mr.Exists(revocationKey(3)))

	mr.FastForward(2 * time.Minute)

	got, err := r.RevokedAfter(ctx, 3)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestRedisTokenRevokerUnavailable(t *testing.T) {
	ctx := context.Background()
	r, mr := newRedisRevoker(t, time.Minute)
	mr.Close()

	_, err := r.RevokedAfter(ctx, 1)
	assert.Error(t, err)
}
