package notify

import (
	"context"
	"fmt"

	"dispatch/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// RedisConfig selects the server and the pub/sub channel.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// Redis publishes events on a pub/sub channel. Subscribers that are not
// connected miss them; the board reloads on reconnect.
type Redis struct {
	client  *goredis.Client
	channel string
}

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client, channel: cfg.Channel}, nil
}

func (r *Redis) Notify(ctx context.Context, event ports.OrderEvent) error {
	payload, err := encode(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.Type, err)
	}
	if err = r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", r.channel, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
