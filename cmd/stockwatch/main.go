package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-catalog/internal/catalog"
	"github.com/ariefcatur/go-catalog/internal/config"
	kafkax "github.com/ariefcatur/go-catalog/internal/kafka"
	"github.com/ariefcatur/go-catalog/internal/logging"
	"github.com/ariefcatur/go-catalog/internal/redisx"
	"github.com/ariefcatur/go-catalog/internal/stockwatch"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		l := logging.New("info", false, "stockwatch")
		l.Fatal().Err(err).Msg("config")
	}
	name := cfg.ServiceName + "-stockwatch"
	log := logging.New(cfg.LogLevel, cfg.LogPretty, name)

	if !cfg.EventsEnabled() || !cfg.CacheEnabled() {
		log.Fatal().Msg("stockwatch needs KAFKA_BROKERS and REDIS_ADDR")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("redis")
	}

	// Service
	svc := &stockwatch.Service{
		Redis:       rdb,
		Threshold:   cfg.LowStockThreshold,
		ServiceName: name,
		Log:         log,
	}

	// Consumer
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.StockwatchGroup, catalog.TopicProductChanged, cfg.StockwatchWorkers, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info().
			Str("group", cfg.StockwatchGroup).
			Str("topic", catalog.TopicProductChanged).
			Int("workers", cfg.StockwatchWorkers).
			Int("threshold", cfg.LowStockThreshold).
			Msg("stockwatch consumer started")
		if err := cons.Start(ctx, svc.HandleProductChanged); err != nil {
			log.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down consumer...")
	cancel()
	<-done
}
