package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTransport struct {
	raw   any
	err   error
	calls int
}

func (f *fakeTransport) Name() string { return "fake" }

func (f *fakeTransport) Fetch(ctx context.Context, tenantID string) (any, error) {
	f.calls++
	return f.raw, f.err
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisCache(client, time.Minute)
}

func TestServiceFetchDecodes(t *testing.T) {
	transport := &fakeTransport{raw: payload}
	svc := NewService(transport, nil, zap.NewNop())

	snapshot, err := svc.Fetch(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 5, snapshot.TotalAppointments)
}

func TestServiceFetchFailureLeavesSnapshotUnset(t *testing.T) {
	transport := &fakeTransport{err: errors.New("connection refused")}
	svc := NewService(transport, nil, zap.NewNop())

	snapshot, err := svc.Fetch(context.Background(), "tenant-1")
	assert.Error(t, err)
	assert.Nil(t, snapshot)

	transport.err = nil
	transport.raw = nil
	snapshot, err = svc.Fetch(context.Background(), "tenant-1")
	assert.ErrorIs(t, err, ErrEmptyPayload)
	assert.Nil(t, snapshot)
}

func TestServiceUsesCache(t *testing.T) {
	mr, cache := setupTestRedis(t)
	transport := &fakeTransport{raw: payload}
	svc := NewService(transport, cache, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Fetch(ctx, "tenant-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists(cacheKey("tenant-1")))

	second, err := svc.Fetch(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, transport.calls)

	svc.Invalidate(ctx, "tenant-1")
	assert.False(t, mr.Exists(cacheKey("tenant-1")))

	_, err = svc.Fetch(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 2, transport.calls)
}

func TestServiceCacheExpires(t *testing.T) {
	mr, cache := setupTestRedis(t)
	transport := &fakeTransport{raw: payload}
	svc := NewService(transport, cache, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Fetch(ctx, "tenant-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = svc.Fetch(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 2, transport.calls)
}

func TestServiceSurvivesCacheOutage(t *testing.T) {
	mr, cache := setupTestRedis(t)
	transport := &fakeTransport{raw: payload}
	svc := NewService(transport, cache, zap.NewNop())

	mr.Close()

	snapshot, err := svc.Fetch(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 7, snapshot.TotalMessages)
}

func TestZero(t *testing.T) {
	z := Zero()
	assert.Equal(t, 0, z.TotalInteractions)
	assert.True(t, z.TotalRevenue.IsZero())
	assert.NotNil(t, z.PerDay)
}
