package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ariefcatur/go-catalog/internal/catalog"
	"github.com/ariefcatur/go-catalog/internal/config"
	"github.com/ariefcatur/go-catalog/internal/httpx"
	kafkax "github.com/ariefcatur/go-catalog/internal/kafka"
	"github.com/ariefcatur/go-catalog/internal/logging"
	"github.com/ariefcatur/go-catalog/internal/memstore"
	"github.com/ariefcatur/go-catalog/internal/mongostore"
	"github.com/ariefcatur/go-catalog/internal/postgres"
	"github.com/ariefcatur/go-catalog/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		l := logging.New("info", false, "catalog-api")
		l.Fatal().Err(err).Msg("config")
	}
	log := logging.New(cfg.LogLevel, cfg.LogPretty, cfg.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store (tanpa storage tidak ada fungsi apa pun -> exit)
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("store connect")
	}
	defer closeStore()

	// Redis cache (optional)
	if cfg.CacheEnabled() {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, cache will degrade to store")
		}
		cached := redisx.NewCachedStore(store, rdb, cfg.CacheTTL, log)
		if err := cached.Flush(ctx); err != nil {
			log.Warn().Err(err).Msg("cache flush failed")
		}
		store = cached
	}

	// seed lewat store yang dipakai handler
	if cfg.SeedOnStart {
		n, err := catalog.Seed(ctx, store)
		if err != nil {
			log.Error().Err(err).Msg("seed failed")
		} else if n > 0 {
			log.Info().Int("products", n).Msg("seeded sample products")
		}
	}

	// Kafka producer (optional)
	var events httpx.EventPublisher
	var prod *kafkax.Producer
	if cfg.EventsEnabled() {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, catalog.TopicProductChanged, 1024, log)
		prod.Start(ctx)
		events = prod
	}

	router := httpx.NewRouter(log)
	ph := &httpx.ProductsHandler{
		Store:   store,
		Events:  events,
		Service: cfg.ServiceName,
		Log:     log,
		Debug:   cfg.Debug,
		Backend: cfg.StoreBackend,
	}
	ph.Register(router)
	if cfg.StaticDir != "" {
		httpx.MountStatic(router, cfg.StaticDir)
	}

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	// graceful shutdown
	go func() {
		log.Info().
			Str("addr", cfg.HTTPAddr).
			Str("backend", cfg.StoreBackend).
			Bool("cache", cfg.CacheEnabled()).
			Bool("events", cfg.EventsEnabled()).
			Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if prod != nil {
		prod.Close()      // flush & close writer
		prod.WaitClosed() // drain
	}
}

// openStore connects the configured backend and returns its cleanup func.
func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (catalog.Store, func(), error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := postgres.Connect(connectCtx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info().Msg("postgres connected, schema migrated")
		return &postgres.Store{DB: pool}, pool.Close, nil

	case config.BackendMongo:
		client, err := mongostore.Connect(connectCtx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		s := mongostore.New(client.Database(cfg.MongoDatabase))
		if err := s.EnsureIndexes(connectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo index creation failed")
		}
		log.Info().Str("database", cfg.MongoDatabase).Msg("mongo connected")
		return s, func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		log.Info().Msg("using in-memory store")
		return memstore.New(), func() {}, nil
	}
}
