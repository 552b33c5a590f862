package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStateStore_SingleUse(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisStateStore(client, "", 0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "st-1", StateInfo{CodeVerifier: "verifier", RedirectTo: "/admin"}))

	info, err := store.VerifyAndGet(ctx, "st-1")
	require.NoError(t, err)
	assert.Equal(t, "verifier", info.CodeVerifier)
	assert.Equal(t, "/admin", info.RedirectTo)
	assert.False(t, info.CreatedAt.IsZero())

	_, err = store.VerifyAndGet(ctx, "st-1")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestRedisStateStore_Expiry(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStateStore(client, "test:state:", time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "st-2", StateInfo{CodeVerifier: "v"}))
	assert.True(t, mr.Exists("test:state:st-2"))

	mr.FastForward(2 * time.Minute)

	_, err := store.VerifyAndGet(ctx, "st-2")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestRedisStateStore_RejectsEmpty(t *testing.T) {
	_, client := setupTestRedis(t)
	store := NewRedisStateStore(client, "", 0)
	ctx := context.Background()

	assert.Error(t, store.Set(ctx, "", StateInfo{CodeVerifier: "v"}))
	assert.Error(t, store.Set(ctx, "st", StateInfo{}))

	_, err := store.VerifyAndGet(ctx, "")
	assert.ErrorIs(t, err, ErrStateNotFound)
}
