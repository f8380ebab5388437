// Package stockwatch consumes product events and keeps a Redis set of
// products whose stock is at or below a threshold.
package stockwatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-catalog/internal/catalog"
	kafkax "github.com/ariefcatur/go-catalog/internal/kafka"
	"github.com/ariefcatur/go-catalog/internal/redisx"
)

type Service struct {
	Redis       *redis.Client
	Threshold   int
	ServiceName string
	Log         zerolog.Logger
}

// HandleProductChanged: dipasang sebagai handler consumer.
func (s *Service) HandleProductChanged(ctx context.Context, m kafkago.Message) error {
	// 1) decode envelope
	var env catalog.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// pesan rusak tidak akan pernah sukses, jangan diulang
		s.Log.Error().Err(err).Int64("offset", m.Offset).Msg("undecodable event skipped")
		return nil
	}
	switch env.EventType {
	case catalog.EventProductCreated, catalog.EventProductUpdated, catalog.EventProductDeleted:
	default:
		return nil // ignore
	}

	// 2) dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	first, err := redisx.Claim(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return fmt.Errorf("dedup %s: %w", env.EventID, err)
	}
	if !first {
		return nil
	}

	if err := s.apply(ctx, env); err != nil {
		// lepas klaim supaya redelivery bisa diproses ulang
		_ = s.Redis.Del(ctx, dkey).Err()
		return err
	}
	return nil
}

func (s *Service) apply(ctx context.Context, env catalog.Envelope) error {
	if env.EventType == catalog.EventProductDeleted {
		p, err := kafkax.UnwrapPayload[catalog.ProductDeletedPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.Redis.SRem(ctx, redisx.KeyLowStock, p.ID).Err()
	}

	p, err := kafkax.UnwrapPayload[catalog.Product](env.Payload)
	if err != nil {
		return err
	}
	if p.StockQuantity > s.Threshold {
		return s.Redis.SRem(ctx, redisx.KeyLowStock, p.ID).Err()
	}
	if err := s.Redis.SAdd(ctx, redisx.KeyLowStock, p.ID).Err(); err != nil {
		return err
	}
	s.Log.Warn().
		Str("product_id", p.ID).
		Str("name", p.Name).
		Int("stock", p.StockQuantity).
		Int("threshold", s.Threshold).
		Str("trace_id", env.TraceID).
		Msg("low stock")
	return nil
}

// LowStock lists the product ids currently flagged.
func (s *Service) LowStock(ctx context.Context) ([]string, error) {
	return s.Redis.SMembers(ctx, redisx.KeyLowStock).Result()
}
