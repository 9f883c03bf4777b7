package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LocalPublisher is the in-process side the forwarder delivers into.
type LocalPublisher interface {
	Publish(ctx context.Context, event domain.BadgeUnlockedEvent)
}

// RedisEventBus fans badge events out to every API instance over a redis
// pub/sub channel. Each instance runs StartForwarder to feed its local bus,
// so a grant made by the poller on one node reaches an SSE client on another.
type RedisEventBus struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisEventBus(client redis.UniversalClient, channel string) *RedisEventBus {
	return &RedisEventBus{client: client, channel: channel}
}

// Publish is best effort: failures are logged, never returned.
func (b *RedisEventBus) Publish(ctx context.Context, event domain.BadgeUnlockedEvent) {
	raw, err := json.Marshal(event)
	if err != nil {
		logger.Get().Error("Failed to encode badge event", zap.Error(err))
		return
	}
	if err := b.client.Publish(ctx, b.channel, raw).Err(); err != nil {
		logger.Get().Warn("Failed to publish badge event to redis",
			zap.String("channel", b.channel),
			zap.String("user_id", event.UserID),
			zap.Error(err))
	}
}

// StartForwarder subscribes and forwards every decoded event to local until
// ctx is cancelled.
func (b *RedisEventBus) StartForwarder(ctx context.Context, local LocalPublisher) error {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe %s: %w", b.channel, err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				event, err := decodeEvent(m.Payload)
				if err != nil {
					logger.Get().Warn("Bad badge event payload", zap.Error(err))
					continue
				}
				local.Publish(ctx, event)
			}
		}
	}()
	return nil
}

func decodeEvent(payload string) (domain.BadgeUnlockedEvent, error) {
	var event domain.BadgeUnlockedEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return event, err
	}
	if event.UserID == "" || event.ID == "" {
		return event, fmt.Errorf("badge event missing user or badge id")
	}
	return event, nil
}
