package stockwatch

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-catalog/internal/catalog"
	kafkax "github.com/ariefcatur/go-catalog/internal/kafka"
	"github.com/ariefcatur/go-catalog/internal/redisx"
)

func newService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return &Service{Redis: rdb, Threshold: 5, ServiceName: "stockwatch", Log: zerolog.Nop()}, mr
}

// isLow reads through go-redis, which treats a missing set as empty.
func isLow(t *testing.T, s *Service, id string) bool {
	t.Helper()
	ok, err := s.Redis.SIsMember(context.Background(), redisx.KeyLowStock, id).Result()
	require.NoError(t, err)
	return ok
}

func productEvent(t *testing.T, eventType, id string, stock int) (kafkago.Message, catalog.Envelope) {
	t.Helper()
	var payload any = catalog.Product{ID: id, Name: "Mouse", Price: decimal.NewFromInt(10), StockQuantity: stock}
	if eventType == catalog.EventProductDeleted {
		payload = catalog.ProductDeletedPayload{ID: id}
	}
	env, err := catalog.NewEnvelope(eventType, "catalog-api", "", id, payload)
	require.NoError(t, err)
	return kafkago.Message{Key: catalog.PartitionKey(id), Value: kafkax.MustMarshal(env)}, env
}

func TestLowStockLifecycle(t *testing.T) {
	ctx := context.Background()
	s, mr := newService(t)

	m, _ := productEvent(t, catalog.EventProductCreated, "p-1", 3)
	require.NoError(t, s.HandleProductChanged(ctx, m))
	ids, err := s.LowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p-1"}, ids)

	m, _ = productEvent(t, catalog.EventProductUpdated, "p-1", 6)
	require.NoError(t, s.HandleProductChanged(ctx, m))
	ids, err = s.LowStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	m, _ = productEvent(t, catalog.EventProductUpdated, "p-1", 5)
	require.NoError(t, s.HandleProductChanged(ctx, m))
	assert.True(t, isLow(t, s, "p-1"))

	m, _ = productEvent(t, catalog.EventProductDeleted, "p-1", 0)
	require.NoError(t, s.HandleProductChanged(ctx, m))
	assert.False(t, isLow(t, s, "p-1"))
	assert.False(t, mr.Exists(redisx.KeyLowStock))
}

func TestDuplicateEventProcessedOnce(t *testing.T) {
	ctx := context.Background()
	s, mr := newService(t)

	m, env := productEvent(t, catalog.EventProductCreated, "p-2", 1)
	require.NoError(t, s.HandleProductChanged(ctx, m))
	assert.True(t, mr.Exists("dedup:stockwatch:"+env.EventID))

	// remove the flag; a redelivered copy must not restore it
	_, err := mr.SRem(redisx.KeyLowStock, "p-2")
	require.NoError(t, err)
	require.NoError(t, s.HandleProductChanged(ctx, m))
	assert.False(t, isLow(t, s, "p-2"))
}

func TestIgnoresUnknownAndBrokenEvents(t *testing.T) {
	ctx := context.Background()
	s, mr := newService(t)

	env, err := catalog.NewEnvelope("PriceChanged", "x", "", "p-3", map[string]int{"stock": 0})
	require.NoError(t, err)
	require.NoError(t, s.HandleProductChanged(ctx, kafkago.Message{Value: kafkax.MustMarshal(env)}))
	require.NoError(t, s.HandleProductChanged(ctx, kafkago.Message{Value: []byte("not json")}))

	assert.False(t, mr.Exists(redisx.KeyLowStock))
	assert.Empty(t, mr.Keys())
}

func TestBadPayloadReleasesDedupClaim(t *testing.T) {
	ctx := context.Background()
	s, mr := newService(t)

	env, err := catalog.NewEnvelope(catalog.EventProductUpdated, "x", "", "p-4", "not a product")
	require.NoError(t, err)
	err = s.HandleProductChanged(ctx, kafkago.Message{Value: kafkax.MustMarshal(env)})
	assert.Error(t, err)
	assert.False(t, mr.Exists("dedup:stockwatch:"+env.EventID))
}
