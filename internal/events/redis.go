package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher publishes each event on a pub/sub channel and keeps the newest ones in
// a capped list at "<channel>:recent".
type RedisPublisher struct {
	client     *redis.Client
	channel    string
	recentSize int
}

func NewRedisPublisher(client *redis.Client, channel string, recentSize int) *RedisPublisher {
	return &RedisPublisher{
		client:     client,
		channel:    channel,
		recentSize: recentSize,
	}
}

func (p *RedisPublisher) recentKey() string {
	return p.channel + ":recent"
}

func (p *RedisPublisher) Publish(ctx context.Context, event RosterEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal roster event: %w", err)
	}

	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Publish(ctx, p.channel, payload)
		if p.recentSize > 0 {
			pipe.LPush(ctx, p.recentKey(), payload)
			pipe.LTrim(ctx, p.recentKey(), 0, int64(p.recentSize-1))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis publish %s: %w", event.ID, err)
	}
	return nil
}

// Recent returns up to limit events, newest first. Entries that fail to decode are skipped.
func (p *RedisPublisher) Recent(ctx context.Context, limit int) ([]RosterEvent, error) {
	if limit <= 0 {
		return []RosterEvent{}, nil
	}

	raw, err := p.client.LRange(ctx, p.recentKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange %s: %w", p.recentKey(), err)
	}

	out := make([]RosterEvent, 0, len(raw))
	for _, item := range raw {
		var event RosterEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			continue
		}
		out = append(out, event)
	}
	return out, nil
}
