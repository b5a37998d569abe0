package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, 5*time.Minute), mr
}

func TestRedisStore_PutGetDelete(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	entry := Entry{Code: "482913", ExpiresAt: time.Now().Add(5 * time.Minute).UTC()}
	require.NoError(t, store.Put(ctx, "alice@example.com", entry))

	got, ok, err := store.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.Code, got.Code)
	assert.WithinDuration(t, entry.ExpiresAt, got.ExpiresAt, time.Second)

	require.NoError(t, store.Delete(ctx, "alice@example.com"))

	_, ok, err = store.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_GetMissing(t *testing.T) {
	store, _ := setupRedisStore(t)

	_, ok, err := store.Get(context.Background(), "missing@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_HygieneTTL(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	entry := Entry{Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)}
	require.NoError(t, store.Put(ctx, "bob@example.com", entry))

	// the redis key outlives the entry slightly, then disappears on its own
	mr.FastForward(5 * time.Minute)
	_, ok, err := store.Get(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, ok, "entry should survive until the hygiene TTL")

	mr.FastForward(2 * time.Minute)
	_, ok, err = store.Get(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLedgerOnRedisStore(t *testing.T) {
	store, _ := setupRedisStore(t)
	ledger := NewLedger(store, 5*time.Minute)
	ctx := context.Background()

	code, err := ledger.Issue(ctx, "carol@example.com")
	require.NoError(t, err)

	ok, err := ledger.Consume(ctx, "carol@example.com", code)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.Consume(ctx, "carol@example.com", code)
	require.NoError(t, err)
	assert.False(t, ok, "code must be single-use")
}
