// Package pubsub carries cross-instance events over Redis Pub/Sub.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils/logutil"
)

const policyReloadChannel = "shopadmin:permission:reload"

// PolicyReloadEvent announces that one instance reloaded its permission policies.
type PolicyReloadEvent struct {
	Source    string `json:"source"`
	Timestamp int64  `json:"timestamp"`
}

type PolicyEventHandler func(ctx context.Context, event PolicyReloadEvent)

// RedisPolicyEventBus publishes and receives policy reload events so every instance
// reloads its casbin policies after an admin triggers a reload on one of them.
type RedisPolicyEventBus struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

func NewRedisPolicyEventBus(client *redis.Client, logger logger.Interface) *RedisPolicyEventBus {
	return &RedisPolicyEventBus{
		client:  client,
		channel: policyReloadChannel,
		logger:  logger,
	}
}

func (b *RedisPolicyEventBus) PublishReload(ctx context.Context, source string) error {
	data, err := json.Marshal(PolicyReloadEvent{Source: source, Timestamp: time.Now().Unix()})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish policy reload event", "source", source, "error", err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("policy reload event published", "source", source)
	return nil
}

// Subscribe blocks until ctx is done, calling handler for every event. ready, when not
// nil, is closed once the subscription is confirmed.
func (b *RedisPolicyEventBus) Subscribe(ctx context.Context, handler PolicyEventHandler, ready chan<- struct{}) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}
	b.logger.Infow("subscribed to policy reload events", "channel", b.channel)
	if ready != nil {
		close(ready)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("policy event subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("policy event channel closed")
				return nil
			}

			var event PolicyReloadEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal policy event", "payload", logutil.TruncateForLog(msg.Payload, 256), "error", err)
				continue
			}

			// Reloads are serialized by the enforcer, so handling inline keeps order.
			handler(ctx, event)
		}
	}
}
