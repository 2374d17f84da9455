package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"plaza-go/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisNotifier 基于 Redis Pub/Sub 的变更通知
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// Publish 发布变更事件
func (n *RedisNotifier) Publish(ctx context.Context, channel string, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := n.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe 订阅频道，返回事件通道与取消函数
// 消费过慢时丢弃事件：订阅方的重查语义只关心"变过"，不关心变了几次。
func (n *RedisNotifier) Subscribe(ctx context.Context, channel string) (<-chan Event, func()) {
	sub := n.client.Subscribe(ctx, channel)
	out := make(chan Event, 16)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Warn("Dropping malformed change event",
					zap.String("channel", channel),
					zap.Error(err),
				)
				continue
			}
			select {
			case out <- ev:
			default:
				logger.Warn("Subscriber too slow, dropping change event",
					zap.String("channel", channel),
				)
			}
		}
	}()

	cancel := func() {
		if err := sub.Close(); err != nil {
			logger.Warn("Failed to close redis subscription",
				zap.String("channel", channel),
				zap.Error(err),
			)
		}
	}
	return out, cancel
}
