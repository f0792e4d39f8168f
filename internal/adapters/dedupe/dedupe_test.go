package dedupe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	keys   map[string]time.Duration
	setErr error
	delErr error
}

func newFakeStore() *fakeStore { return &fakeStore{keys: map[string]time.Duration{}} }

func (f *fakeStore) SetNX(_ context.Context, key string, _ any, ttl time.Duration) *redis.BoolCmd {
	if f.setErr != nil {
		return redis.NewBoolResult(false, f.setErr)
	}
	if _, ok := f.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.delErr != nil {
		return redis.NewIntResult(0, f.delErr)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			delete(f.keys, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisGuard_MarksOnceWithTTL(t *testing.T) {
	st := newFakeStore()
	g := NewRedisGuard(st, time.Hour)
	ctx := context.Background()

	dup, err := g.CheckAndMark(ctx, "wamid.1")
	require.NoError(t, err)
	assert.False(t, dup)
	assert.Equal(t, time.Hour, st.keys[keyPrefix+"wamid.1"])

	dup, err = g.CheckAndMark(ctx, "wamid.1")
	require.NoError(t, err)
	assert.True(t, dup)

	require.NoError(t, g.Delete(ctx, "wamid.1"))
	dup, err = g.CheckAndMark(ctx, "wamid.1")
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestRedisGuard_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("conn refused")

	_, err := NewRedisGuard(newFakeStore(), time.Hour).CheckAndMark(ctx, "")
	require.ErrorIs(t, err, ErrEmptyID)

	st := newFakeStore()
	st.setErr = boom
	_, err = NewRedisGuard(st, time.Hour).CheckAndMark(ctx, "x")
	require.ErrorIs(t, err, boom)

	st = newFakeStore()
	st.delErr = boom
	require.ErrorIs(t, NewRedisGuard(st, time.Hour).Delete(ctx, "x"), boom)
}

func TestOpenRedis_BadURL(t *testing.T) {
	_, err := OpenRedis(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestMemoryGuard_ExpiresAfterTTL(t *testing.T) {
	g := NewMemoryGuard(time.Minute)
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }
	ctx := context.Background()

	dup, err := g.CheckAndMark(ctx, "a")
	require.NoError(t, err)
	assert.False(t, dup)

	now = now.Add(30 * time.Second)
	dup, _ = g.CheckAndMark(ctx, "a")
	assert.True(t, dup)

	now = now.Add(31 * time.Second)
	dup, _ = g.CheckAndMark(ctx, "a")
	assert.False(t, dup, "mark should expire")
	assert.Len(t, g.seen, 1)
}

func TestMemoryGuard_DeleteAndEmptyID(t *testing.T) {
	g := NewMemoryGuard(0)
	ctx := context.Background()

	_, err := g.CheckAndMark(ctx, "")
	require.ErrorIs(t, err, ErrEmptyID)

	dup, _ := g.CheckAndMark(ctx, "a")
	assert.False(t, dup)
	dup, _ = g.CheckAndMark(ctx, "a")
	assert.True(t, dup)

	require.NoError(t, g.Delete(ctx, "a"))
	dup, _ = g.CheckAndMark(ctx, "a")
	assert.False(t, dup)
}
