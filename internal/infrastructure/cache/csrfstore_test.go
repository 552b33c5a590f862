package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumishop/shopadmin/internal/application/csrf"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client
}

func TestRedisCSRFStore_PutGet(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisCSRFStore(client)
	ctx := context.Background()

	entry := csrf.Entry{
		Token:     "abc123",
		ExpiresAt: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Put(ctx, "sess-1", entry, 2*time.Hour))

	assert.True(t, mr.Exists("csrf:session:sess-1"))
	assert.Equal(t, 2*time.Hour, mr.TTL("csrf:session:sess-1"))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "abc123", got.Token)
	assert.True(t, entry.ExpiresAt.Equal(got.ExpiresAt))
}

func TestRedisCSRFStore_GetMissing(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisCSRFStore(client)

	got, err := store.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCSRFStore_ExpiresWithTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisCSRFStore(client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sess-1", csrf.Entry{Token: "t", ExpiresAt: time.Now().Add(time.Minute)}, time.Minute))
	mr.FastForward(time.Minute + time.Second)

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCSRFStore_Delete(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisCSRFStore(client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sess-1", csrf.Entry{Token: "t"}, time.Minute))
	require.NoError(t, store.Delete(ctx, "sess-1"))
	assert.False(t, mr.Exists("csrf:session:sess-1"))
}

func TestRedisCSRFStore_CorruptValue(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisCSRFStore(client)

	require.NoError(t, mr.Set("csrf:session:sess-1", "not-json"))

	_, err := store.Get(context.Background(), "sess-1")
	assert.Error(t, err)
}

func TestMemoryCSRFStore(t *testing.T) {
	store := NewMemoryCSRFStore()
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sess-1", csrf.Entry{Token: "t1"}, time.Minute))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t1", got.Token)

	now = now.Add(time.Minute)
	got, err = store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Put(ctx, "sess-2", csrf.Entry{Token: "t2"}, 0))
	require.NoError(t, store.Delete(ctx, "sess-2"))
	got, err = store.Get(ctx, "sess-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}
