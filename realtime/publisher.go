// Package realtime publishes notification events to per-user redis channels.
// Subscribers (the web front-end's push gateway) live outside this service.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix = "notifications:user:"
	eventUpdate   = "update"
)

// Envelope is the message written to a user channel.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// UserChannel returns the channel a user's notifications are published on.
func UserChannel(userID string) string {
	return channelPrefix + userID
}

type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, userID string, payload any) error {
	data, err := json.Marshal(Envelope{Event: eventUpdate, Data: payload})
	if err != nil {
		return fmt.Errorf("encode realtime payload: %w", err)
	}
	if err := p.client.Publish(ctx, UserChannel(userID), data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", UserChannel(userID), err)
	}
	return nil
}

// NoopPublisher is used when redis is disabled; clients fall back to polling.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
