package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/classtrack/classtrack/internal/models"
)

const messageChannel = "classtrack:messages"

// RedisBridge fans stored messages out across server instances over redis
// pub/sub. Each instance tags published frames with its own id and ignores
// them on the way back in, so a message is broadcast locally exactly once.
type RedisBridge struct {
	client     *redis.Client
	instanceID string
	logger     *zap.Logger
}

type bridgeFrame struct {
	Origin  string         `json:"origin"`
	Message models.Message `json:"message"`
}

// NewRedisBridge connects to redis and verifies the connection. instanceID
// must be unique per process; a random UUID is fine.
func NewRedisBridge(ctx context.Context, redisURL, instanceID string, logger *zap.Logger) (*RedisBridge, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisBridge{
		client:     client,
		instanceID: instanceID,
		logger:     logger,
	}, nil
}

func (b *RedisBridge) Publish(ctx context.Context, msg *models.Message) error {
	raw, err := json.Marshal(bridgeFrame{Origin: b.instanceID, Message: *msg})
	if err != nil {
		return fmt.Errorf("marshal bridge frame: %w", err)
	}
	if err := b.client.Publish(ctx, messageChannel, raw).Err(); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// Subscribe relays remote-origin messages into the local hub until ctx is
// cancelled. Run it in its own goroutine alongside hub.Run.
func (b *RedisBridge) Subscribe(ctx context.Context, hub *Hub) {
	sub := b.client.Subscribe(ctx, messageChannel)
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
			b.relay([]byte(m.Payload), hub)
		}
	}
}

// relay hands one received frame to the local hub. Frames this instance
// published come back on the channel too; the origin tag filters them out
// so a message is never re-broadcast where it was first delivered.
func (b *RedisBridge) relay(payload []byte, hub *Hub) {
	var frame bridgeFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		b.logger.Warn("malformed bridge frame", zap.Error(err))
		return
	}
	if frame.Origin == b.instanceID {
		return
	}
	hub.Broadcast(&frame.Message)
}

func (b *RedisBridge) Close() error {
	return b.client.Close()
}
