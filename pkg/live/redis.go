package live

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const channelPrefix = "live:"

// RedisChannel publishes live events on live:{userId} so that every process
// relaying the pattern can reach the browsers connected to it.
type RedisChannel struct {
	client *redis.Client
}

func NewRedisChannel(client *redis.Client) *RedisChannel {
	return &RedisChannel{client: client}
}

func (r *RedisChannel) Broadcast(ctx context.Context, userID, event string, payload any) error {
	ev, err := NewEvent(event, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, channelPrefix+userID, data).Err(); err != nil {
		return fmt.Errorf("publish live event: %w", err)
	}
	return nil
}

// Relay feeds every event published on live:* into hub until ctx is done.
func (r *RedisChannel) Relay(ctx context.Context, hub *Hub) error {
	l := logger("relay")

	pubsub := r.client.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe live events: %w", err)
	}
	l.Info("Relaying live events from redis")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				l.Warn("Dropped malformed live event", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			hub.Deliver(strings.TrimPrefix(msg.Channel, channelPrefix), ev)
		}
	}
}
