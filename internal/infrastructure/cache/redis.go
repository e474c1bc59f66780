package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"disability-jobs/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/ternarybob/arbor"
)

const (
	KeyFacets   = "jobs:facets"
	KeySyncLock = "sync:lock"

	defaultTTL = 10 * time.Minute
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is an optional shared cache. Every method degrades to a no-op when
// the server is disabled or unreachable.
type Redis struct {
	client *redis.Client
	logger arbor.ILogger

	warnedUnavailable atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger arbor.ILogger) *Redis {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	if !cfg.Enabled {
		logger.Info().Msg("redis disabled, shared cache bypassed")
		return &Redis{logger: logger}
	}

	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, bypassing cache")
		_ = client.Close()
		return &Redis{logger: logger}
	}

	return NewRedisWithClient(client, logger)
}

func NewRedisWithClient(client *redis.Client, logger arbor.ILogger) *Redis {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	return &Redis{client: client, logger: logger}
}

func (r *Redis) Available() bool {
	return r != nil && r.client != nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn().Err(err).Msg("redis error, bypassing cache")
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.Available() {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.Available() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.Available() {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if !r.Available() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// AcquireLock reports acquired=true when the lock is taken or when redis is
// not in use, so callers fall back to their local guard.
func (r *Redis) AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	if !r.Available() {
		return true, nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return false, err
	}
	return ok, nil
}

// ReleaseLock deletes the lock only if it still holds token.
func (r *Redis) ReleaseLock(ctx context.Context, key, token string) error {
	if !r.Available() {
		return nil
	}
	if err := releaseScript.Run(ctx, r.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}
