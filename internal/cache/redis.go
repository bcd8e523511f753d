package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultRedisPrefix namespaces question-set keys in a shared Redis.
const DefaultRedisPrefix = "mathgenius:qs:"

// Redis is a Backend storing JSON entries in Redis with a TTL. It is best
// effort: server errors are logged and read as misses, and failed writes
// are dropped.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *logrus.Entry
}

// NewRedis creates a Redis backend. A ttl of zero stores keys without expiry.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration, log *logrus.Entry) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl, log: log}
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) Load(ctx context.Context, key string) (*Entry, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.log.WithError(err).WithField("key", key).Warn("redis get failed; treating as a miss")
		return nil, nil
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		r.log.WithError(err).WithField("key", key).Warn("discarding undecodable cache entry")
		return nil, nil
	}
	return &e, nil
}

func (r *Redis) Store(ctx context.Context, key string, e *Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		r.log.WithError(err).WithField("key", key).Warn("redis set failed; entry not cached")
	}
	return nil
}
