package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Publisher requests immediate delivery of a notification outside the outbox
// path. Purely a latency optimization: the outbox remains the durable source
// of truth, so publish failures are logged by the caller and never retried
// here.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
}

// RedisPublisher pushes notifications onto a redis channel consumed by the
// external mailer.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher builds the publisher.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// Publish serializes the notification and publishes it.
func (p *RedisPublisher) Publish(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}
