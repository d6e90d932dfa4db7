package lock

import (
	"context"
	"errors"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/config"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "lock:"

// RedisLocker grants leases shared by every server instance using the same
// redis. A lease expires after TTL even if never released.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
	logger *zap.Logger
}

// NewRedisLocker creates a redis backed locker
func NewRedisLocker(rdb redis.UniversalClient, cfg config.LockConfig, logger *zap.Logger) *RedisLocker {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = 50 * time.Millisecond
	}
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(delay), cfg.RetryCount),
		logger: logger.Named("redis_lock"),
	}
}

// Obtain takes key, retrying per the configured strategy
func (r *RedisLocker) Obtain(ctx context.Context, key string) (shared.Lease, error) {
	l, err := r.client.Obtain(ctx, keyPrefix+key, r.ttl, &redislock.Options{RetryStrategy: r.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, shared.Newf(shared.ErrConcurrencyConflict, "lock %s is held by another request", key)
	}
	if err != nil {
		return nil, err
	}
	return &redisLease{lock: l, logger: r.logger}, nil
}

type redisLease struct {
	lock   *redislock.Lock
	logger *zap.Logger
}

// Release gives the lock back. A lease that already expired is logged, not
// reported, since the protected section has completed either way.
func (rl *redisLease) Release(ctx context.Context) error {
	err := rl.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		rl.logger.Warn("lock expired before release", zap.String("key", rl.lock.Key()))
		return nil
	}
	return err
}

// New picks the redis locker when the backend is redis and a client is
// available, and the local locker otherwise
func New(cfg config.LockConfig, rdb redis.UniversalClient, logger *zap.Logger) shared.Locker {
	if cfg.Backend == "redis" && rdb != nil {
		return NewRedisLocker(rdb, cfg, logger)
	}
	if cfg.Backend == "redis" {
		logger.Warn("redis lock backend requested without a redis client, using local locks")
	}
	return NewLocalLocker()
}

var _ shared.Locker = (*RedisLocker)(nil)
