package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config selects and tunes the question cache.
type Config struct {
	Backend    string        `mapstructure:"backend" json:"backend" validate:"omitempty,oneof=memory sqlite redis none"`
	TTL        time.Duration `mapstructure:"ttl" json:"ttl" validate:"gte=0"`
	MaxEntries int           `mapstructure:"max_entries" json:"max_entries" validate:"gte=0"`
	Redis      RedisConfig   `mapstructure:"redis" json:"redis"`
}

// RedisConfig locates the Redis server for the redis backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" json:"addr"`
	Password string `mapstructure:"password" json:"-"`
	DB       int    `mapstructure:"db" json:"db" validate:"gte=0"`
	Prefix   string `mapstructure:"prefix" json:"prefix"`
}

// DefaultConfig keeps question sets in memory for an hour.
func DefaultConfig() Config {
	return Config{
		Backend:    BackendMemory,
		TTL:        time.Hour,
		MaxEntries: DefaultMaxEntries,
		Redis:      RedisConfig{Addr: "localhost:6379", Prefix: DefaultRedisPrefix},
	}
}

// Deps carries what New cannot build itself.
type Deps struct {
	// SQLite is the persistent backend used by the sqlite backend.
	SQLite Backend

	// Version stamps stored entries; see Compatible.
	Version string

	// Log receives warnings about degraded backends.
	Log *logrus.Entry
}

// New builds the configured cache. The returned close function releases
// any connection the cache opened and is never nil. An unreachable Redis
// is not an error: New logs a warning and caches in memory instead.
func New(ctx context.Context, cfg Config, deps Deps) (QuestionCache, func() error, error) {
	noop := func() error { return nil }
	log := deps.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	memory := NewMemory(cfg.TTL, cfg.MaxEntries)
	versioned := func(b Backend) *Versioned {
		return NewVersioned(b, deps.Version, WithTTL(cfg.TTL))
	}

	switch cfg.Backend {
	case "", BackendMemory:
		return versioned(memory), noop, nil
	case BackendNone:
		return Nop{}, noop, nil
	case BackendSQLite:
		if deps.SQLite == nil {
			return nil, noop, fmt.Errorf("cache: sqlite backend requires a store")
		}
		return versioned(NewTiered(memory, deps.SQLite)), noop, nil
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			log.WithError(err).WithField("addr", cfg.Redis.Addr).
				Warn("redis unreachable; caching question sets in memory")
			return versioned(memory), noop, nil
		}
		back := NewRedis(client, cfg.Redis.Prefix, cfg.TTL, log)
		return versioned(NewTiered(memory, back)), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("cache: unknown backend %q", cfg.Backend)
	}
}
