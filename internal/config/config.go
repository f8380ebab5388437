package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

type Config struct {
	HTTPAddr      string        `mapstructure:"HTTP_ADDR"`
	StoreBackend  string        `mapstructure:"STORE_BACKEND"`
	PostgresDSN   string        `mapstructure:"POSTGRES_DSN"`
	MongoURI      string        `mapstructure:"MONGODB_URI"`
	MongoDatabase string        `mapstructure:"MONGODB_DATABASE"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`
	KafkaBrokers  []string      `mapstructure:"-"`
	ServiceName   string        `mapstructure:"SERVICE_NAME"`
	StaticDir     string        `mapstructure:"STATIC_DIR"`
	SeedOnStart   bool          `mapstructure:"SEED_ON_START"`
	Debug         bool          `mapstructure:"DEBUG"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	LogPretty     bool          `mapstructure:"LOG_PRETTY"`

	LowStockThreshold int    `mapstructure:"LOW_STOCK_THRESHOLD"`
	StockwatchGroup   string `mapstructure:"STOCKWATCH_GROUP"`
	StockwatchWorkers int    `mapstructure:"STOCKWATCH_WORKERS"`
}

var defaults = map[string]any{
	"HTTP_ADDR":           ":5000",
	"STORE_BACKEND":       BackendMemory,
	"POSTGRES_DSN":        "",
	"MONGODB_URI":         "",
	"MONGODB_DATABASE":    "catalog",
	"REDIS_ADDR":          "",
	"CACHE_TTL":           time.Hour,
	"KAFKA_BROKERS":       "",
	"SERVICE_NAME":        "catalog-api",
	"STATIC_DIR":          "",
	"SEED_ON_START":       true,
	"DEBUG":               false,
	"LOG_LEVEL":           "info",
	"LOG_PRETTY":          false,
	"LOW_STOCK_THRESHOLD": 5,
	"STOCKWATCH_GROUP":    "catalog-stockwatch",
	"STOCKWATCH_WORKERS":  4,
}

// Load reads the process environment. Call godotenv before it when a .env
// file should be honoured.
func Load() (Config, error) {
	v := viper.New()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.KafkaBrokers = splitCSV(v.GetString("KAFKA_BROKERS"))
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for store backend %q", c.StoreBackend)
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required for store backend %q", c.StoreBackend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.StockwatchWorkers <= 0 {
		return fmt.Errorf("STOCKWATCH_WORKERS must be positive, got %d", c.StockwatchWorkers)
	}
	return nil
}

// CacheEnabled reports whether a Redis address was configured.
func (c Config) CacheEnabled() bool { return c.RedisAddr != "" }

// EventsEnabled reports whether Kafka brokers were configured.
func (c Config) EventsEnabled() bool { return len(c.KafkaBrokers) > 0 }

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
