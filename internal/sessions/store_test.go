package sessions

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "sessions/abc", Key("abc"))
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	store := NewRedisStore(rc)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tok", 42, DefaultTTL))

	t.Run("entry layout", func(t *testing.T) {
		value, err := mr.Get("sessions/tok")
		require.NoError(t, err)
		assert.Equal(t, "42", value)
		assert.Equal(t, DefaultTTL, mr.TTL("sessions/tok"))
	})

	t.Run("get", func(t *testing.T) {
		userID, err := store.Get(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, int64(42), userID)
	})

	t.Run("miss", func(t *testing.T) {
		_, err := store.Get(ctx, "unknown")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("expiry", func(t *testing.T) {
		mr.FastForward(DefaultTTL + time.Second)

		_, err := store.Get(ctx, "tok")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("corrupt value", func(t *testing.T) {
		require.NoError(t, mr.Set("sessions/bad", "not-a-number"))

		_, err := store.Get(ctx, "bad")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rc.Close() })
	store := NewRedisStore(rc)

	mr.Close()

	err := store.Set(context.Background(), "tok", 1, DefaultTTL)
	require.Error(t, err)

	_, err = store.Get(context.Background(), "tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rc, err := DialRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	_ = rc.Close()

	_, err = DialRedis(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	now := time.Date(2025, 10, 18, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(10, DefaultTTL)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tok", 7, DefaultTTL))

	userID, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)

	_, err = store.Get(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)

	now = now.Add(DefaultTTL - time.Second)
	_, err = store.Get(ctx, "tok")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, store.Len())
}

func TestMemoryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	store := NewMemoryStore(2, DefaultTTL)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", 1, DefaultTTL))
	require.NoError(t, store.Set(ctx, "b", 2, DefaultTTL))
	require.NoError(t, store.Set(ctx, "c", 3, DefaultTTL))

	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	userID, err := store.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, int64(3), userID)
}

func TestMemoryStore_UnboundedKeepsSessionsUntilExpiry(t *testing.T) {
	ctx := context.Background()

	for _, size := range []int{0, -1} {
		store := NewMemoryStore(size, DefaultTTL)
		for i := 0; i < 5000; i++ {
			require.NoError(t, store.Set(ctx, fmt.Sprintf("tok%d", i), int64(i), DefaultTTL))
		}

		userID, err := store.Get(ctx, "tok0")
		require.NoError(t, err, "size %d", size)
		assert.Equal(t, int64(0), userID)
		assert.Equal(t, 5000, store.Len())
	}
}

func TestMemoryStore_LogsEarlyEviction(t *testing.T) {
	hook := test.NewGlobal()
	t.Cleanup(hook.Reset)

	store := NewMemoryStore(1, DefaultTTL)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "a", 1, DefaultTTL))
	require.NoError(t, store.Set(ctx, "b", 2, DefaultTTL))

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, int64(1), hook.LastEntry().Data["user_id"])
}

func TestStoresSatisfyInterface(t *testing.T) {
	var _ Store = (*RedisStore)(nil)
	var _ Store = (*MemoryStore)(nil)
}
