package notify

import (
	"context"
	"encoding/json"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisRelay publishes messages on a redis channel so that every server
// instance, including this one, broadcasts them to its own subscribers
type RedisRelay struct {
	rdb     redis.UniversalClient
	channel string
	hub     *Hub
	logger  *zap.Logger
}

// NewRedisRelay creates a relay in front of hub
func NewRedisRelay(rdb redis.UniversalClient, channel string, hub *Hub, logger *zap.Logger) *RedisRelay {
	return &RedisRelay{rdb: rdb, channel: channel, hub: hub, logger: logger.Named("notify_relay")}
}

// Publish sends msg through redis, broadcasting locally when redis is unavailable
func (r *RedisRelay) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := r.rdb.Publish(ctx, r.channel, payload).Err(); err != nil {
		logger.L(ctx).Warn("redis publish failed, broadcasting locally",
			zap.String("channel", r.channel),
			zap.Error(err),
		)
		r.hub.broadcast(ctx, payload)
	}
	return nil
}

// Run forwards channel messages to the hub until ctx is done
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	r.logger.Info("relay subscribed", zap.String("channel", r.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg Message
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				r.logger.Warn("discarding malformed relay message", zap.Error(err))
				continue
			}
			r.hub.broadcast(ctx, []byte(m.Payload))
		}
	}
}

var _ Publisher = (*RedisRelay)(nil)
