package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisRevoker(t *testing.T) {
	mr, client := setupRedis(t)
	r := NewRedisRevoker(client, zap.NewNop())
	defer r.Close()
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "abc", time.Hour))
	assert.True(t, mr.Exists("token:revoked:abc"))

	revoked, err = r.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, err = r.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevoker_ExpiredTokenIsNotStored(t *testing.T) {
	mr, client := setupRedis(t)
	r := NewRedisRevoker(client, zap.NewNop())

	require.NoError(t, r.Revoke(context.Background(), "old", 0))
	assert.False(t, mr.Exists("token:revoked:old"))
}

func TestRedisRevoker_ConnectionError(t *testing.T) {
	mr, client := setupRedis(t)
	r := NewRedisRevoker(client, zap.NewNop())
	mr.Close()

	_, err := r.IsRevoked(context.Background(), "abc")
	assert.Error(t, err)
}

func TestMemoryRevoker(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	r := NewMemoryRevoker(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "abc", time.Minute))
	revoked, err := r.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsRevoked(ctx, "other")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(time.Minute)
	revoked, err = r.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, r.revoked)
}

func TestMemoryRevoker_RevokeSweepsExpired(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	r := NewMemoryRevoker(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "short", time.Minute))
	require.NoError(t, r.Revoke(ctx, "long", time.Hour))

	now = now.Add(2 * time.Minute)
	require.NoError(t, r.Revoke(ctx, "fresh", time.Minute))

	assert.Len(t, r.revoked, 2)
	assert.NotContains(t, r.revoked, "short")
	assert.Contains(t, r.revoked, "long")
	assert.Contains(t, r.revoked, "fresh")
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	r, err := New(ctx, "", zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryRevoker{}, r)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	r, err = New(ctx, "redis://"+mr.Addr()+"/0", zap.NewNop())
	require.NoError(t, err)
	defer r.Close()
	assert.IsType(t, &RedisRevoker{}, r)

	_, err = New(ctx, "not a url", zap.NewNop())
	assert.Error(t, err)
}
