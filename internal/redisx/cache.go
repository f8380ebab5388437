package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ariefcatur/go-catalog/internal/catalog"
)

// CachedStore is a cache-aside decorator over any catalog.Store. Reads are
// served from Redis when present; successful writes drop the affected keys.
// Redis failures are logged and the inner store answers instead.
type CachedStore struct {
	inner catalog.Store
	rdb   *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

var _ catalog.Store = (*CachedStore)(nil)

func NewCachedStore(inner catalog.Store, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = TTLProductCache
	}
	return &CachedStore{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

func productKey(id string) string { return fmt.Sprintf(KeyProduct, id) }

func (c *CachedStore) List(ctx context.Context) ([]catalog.Product, error) {
	var cached []catalog.Product
	if c.load(ctx, KeyProductsAll, &cached) {
		return cached, nil
	}
	out, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	c.save(ctx, KeyProductsAll, out)
	return out, nil
}

func (c *CachedStore) Get(ctx context.Context, id string) (catalog.Product, bool, error) {
	var cached catalog.Product
	if c.load(ctx, productKey(id), &cached) {
		return cached, true, nil
	}
	p, ok, err := c.inner.Get(ctx, id)
	if err != nil || !ok {
		return p, ok, err
	}
	c.save(ctx, productKey(id), p)
	return p, true, nil
}

func (c *CachedStore) Create(ctx context.Context, in catalog.NewProduct) (catalog.Product, error) {
	p, err := c.inner.Create(ctx, in)
	if err != nil {
		return p, err
	}
	c.invalidate(ctx, KeyProductsAll)
	return p, nil
}

func (c *CachedStore) Update(ctx context.Context, id string, patch catalog.ProductPatch) (catalog.Product, bool, error) {
	p, ok, err := c.inner.Update(ctx, id, patch)
	if err != nil || !ok {
		return p, ok, err
	}
	c.invalidate(ctx, KeyProductsAll, productKey(id))
	return p, true, nil
}

func (c *CachedStore) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := c.inner.Delete(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	c.invalidate(ctx, KeyProductsAll, productKey(id))
	return true, nil
}

func (c *CachedStore) load(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache entry undecodable")
		return false
	}
	return true
}

func (c *CachedStore) save(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (c *CachedStore) invalidate(ctx context.Context, keys ...string) {
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidate failed")
	}
}

// Flush drops every product cache entry. The API calls it at startup so a
// previous process's entries are not served against a fresh store.
func (c *CachedStore) Flush(ctx context.Context) error {
	keys := []string{KeyProductsAll}
	iter := c.rdb.Scan(ctx, 0, fmt.Sprintf(KeyProduct, "*"), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan product keys: %w", err)
	}
	return c.rdb.Del(ctx, keys...).Err()
}
