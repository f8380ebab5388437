package redisx

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ariefcatur/go-catalog/internal/catalog"
	"github.com/ariefcatur/go-catalog/internal/catalog/catalogtest"
	"github.com/ariefcatur/go-catalog/internal/memstore"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCachedStoreContract(t *testing.T) {
	mr, rdb := setupTestRedis(t)
	suite.Run(t, &catalogtest.StoreSuite{
		NewStore: func() catalog.Store {
			mr.FlushAll()
			return NewCachedStore(memstore.New(), rdb, time.Minute, zerolog.Nop())
		},
	})
}

func TestCachedStoreServesFromCache(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupTestRedis(t)
	inner := memstore.New()
	cs := NewCachedStore(inner, rdb, time.Minute, zerolog.Nop())

	created, err := cs.Create(ctx, catalog.SampleProducts()[0])
	require.NoError(t, err)

	_, ok, err := cs.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists(productKey(created.ID)))
	assert.Equal(t, time.Minute, mr.TTL(productKey(created.ID)))

	// change the inner store behind the cache's back
	name := "changed"
	_, _, err = inner.Update(ctx, created.ID, catalog.ProductPatch{Name: &name})
	require.NoError(t, err)

	got, ok, err := cs.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.Name, got.Name)
}

func TestCachedStoreInvalidatesOnWrite(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupTestRedis(t)
	cs := NewCachedStore(memstore.New(), rdb, time.Minute, zerolog.Nop())

	created, err := cs.Create(ctx, catalog.SampleProducts()[0])
	require.NoError(t, err)
	_, err = cs.List(ctx)
	require.NoError(t, err)
	_, _, err = cs.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(KeyProductsAll))

	name := "renamed"
	updated, ok, err := cs.Update(ctx, created.ID, catalog.ProductPatch{Name: &name})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, name, updated.Name)
	assert.False(t, mr.Exists(KeyProductsAll))
	assert.False(t, mr.Exists(productKey(created.ID)))

	list, err := cs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, name, list[0].Name)

	ok, err = cs.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, mr.Exists(KeyProductsAll))

	list, err = cs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCachedStoreDoesNotCacheMisses(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupTestRedis(t)
	cs := NewCachedStore(memstore.New(), rdb, time.Minute, zerolog.Nop())

	_, ok, err := cs.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists(productKey("missing")))
}

func TestCachedStoreDegradesWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	// nothing listens here
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })
	cs := NewCachedStore(memstore.New(), rdb, time.Minute, zerolog.Nop())

	created, err := cs.Create(ctx, catalog.SampleProducts()[0])
	require.NoError(t, err)

	got, ok, err := cs.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.ID, got.ID)

	list, err := cs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestClaim(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupTestRedis(t)
	key := "dedup:test:evt-1"

	first, err := Claim(ctx, rdb, key, TTLDedup)
	require.NoError(t, err)
	assert.True(t, first)
	assert.Equal(t, TTLDedup, mr.TTL(key))

	second, err := Claim(ctx, rdb, key, TTLDedup)
	require.NoError(t, err)
	assert.False(t, second)
}

func TestFlushDropsEntriesFromEarlierProcess(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupTestRedis(t)

	// an earlier process cached a product list against its own store
	old := NewCachedStore(memstore.New(), rdb, time.Minute, zerolog.Nop())
	stale, err := old.Create(ctx, catalog.SampleProducts()[0])
	require.NoError(t, err)
	_, err = old.List(ctx)
	require.NoError(t, err)
	_, _, err = old.Get(ctx, stale.ID)
	require.NoError(t, err)
	require.NoError(t, mr.Set("unrelated", "keep"))

	fresh := NewCachedStore(memstore.New(), rdb, time.Minute, zerolog.Nop())
	require.NoError(t, fresh.Flush(ctx))
	assert.False(t, mr.Exists(KeyProductsAll))
	assert.False(t, mr.Exists(productKey(stale.ID)))
	assert.True(t, mr.Exists("unrelated"))

	n, err := catalog.Seed(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	list, err := fresh.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for _, p := range list {
		assert.NotEqual(t, stale.ID, p.ID)
	}
}
