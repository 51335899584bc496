package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saravana-agencies/billing-sync/internal/config"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// RedisPubSub carries table change events between clients over redis
// pub/sub, one channel per table. It is both the Publisher the gateway
// writes to and the Subscriber the live update coordinator reads from.
type RedisPubSub struct {
	client        *redis.Client
	ownsClient    bool
	channelPrefix string
	logger        *zap.Logger
}

// NewRedisPubSub connects a new redis client from config.
func NewRedisPubSub(cfg *config.RedisConfig, logger *zap.Logger) (*RedisPubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisPubSub{
		client:        client,
		ownsClient:    true,
		channelPrefix: cfg.ChannelPrefix,
		logger:        logger,
	}, nil
}

// NewRedisPubSubWithClient wraps an existing client. The caller retains
// ownership and is responsible for closing it.
func NewRedisPubSubWithClient(client *redis.Client, channelPrefix string, logger *zap.Logger) *RedisPubSub {
	return &RedisPubSub{
		client:        client,
		channelPrefix: channelPrefix,
		logger:        logger,
	}
}

func (p *RedisPubSub) channel(table string) string {
	return p.channelPrefix + ":" + table
}

// Publish sends a change event to the table's channel.
func (p *RedisPubSub) Publish(ctx context.Context, event ChangeEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixNano()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel(event.Table), data).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	p.logger.Debug("published change event",
		zap.String("table", event.Table),
		zap.String("action", string(event.Action)))

	return nil
}

// Subscribe listens on the table's channel and invokes fn for each
// event. fn runs on its own goroutine and is recover-guarded. Delivery
// ends when stop is called, ctx is done, or the connection drops; there
// is no resubscribe on drop.
func (p *RedisPubSub) Subscribe(ctx context.Context, table string, fn func(ChangeEvent)) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)

	pubsub := p.client.Subscribe(subCtx, p.channel(table))
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s changes: %w", table, err)
	}

	p.logger.Info("subscribed to table changes", zap.String("table", table))

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				p.logger.Info("change subscription stopped", zap.String("table", table))
				return
			case msg, ok := <-ch:
				if !ok {
					p.logger.Warn("change subscription channel closed", zap.String("table", table))
					return
				}

				var event ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					p.logger.Error("failed to unmarshal change event",
						zap.String("payload", msg.Payload),
						zap.Error(err))
					continue
				}

				go func(e ChangeEvent) {
					defer func() {
						if r := recover(); r != nil {
							p.logger.Error("panic in change event callback",
								zap.String("table", table),
								zap.Any("panic", r))
						}
					}()
					fn(e)
				}(event)
			}
		}
	}()

	return cancel, nil
}

// Close releases the redis client when this instance owns it.
func (p *RedisPubSub) Close() error {
	if p.ownsClient {
		return p.client.Close()
	}
	return nil
}

var (
	_ Publisher  = (*RedisPubSub)(nil)
	_ Subscriber = (*RedisPubSub)(nil)
)
