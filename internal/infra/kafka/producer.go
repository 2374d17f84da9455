package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"plaza-go/internal/config"
	"plaza-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var producer *kafka.Writer

// CommentEvent 评论生命周期消息体
// worker 据此按实际行数对账帖子的评论计数。
type CommentEvent struct {
	Type      string `json:"type"` // created / edited / deleted
	CommentID int64  `json:"comment_id"`
	PostID    int64  `json:"post_id"`
	ParentID  *int64 `json:"parent_id,omitempty"`
}

// InitProducer 初始化 Kafka 生产者
func InitProducer(cfg *config.KafkaConfig) error {
	producer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
	)

	return nil
}

// SendCommentEvent 发送评论生命周期事件
// 同一帖子的事件按 post 作为 key，保证单帖内的顺序。
func SendCommentEvent(ctx context.Context, topic string, ev *CommentEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal comment event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(fmt.Sprintf("post-%d", ev.PostID)),
		Value: payload,
	}

	if err := producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send comment event: %w", err)
	}

	return nil
}

// SendRaw 发送原始消息到指定 topic
func SendRaw(ctx context.Context, topic, key string, value []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	}

	if err := producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send kafka message: %w", err)
	}
	return nil
}

// CloseProducer 关闭生产者
func CloseProducer() error {
	if producer == nil {
		return nil
	}
	logger.Info("Kafka producer closed")
	return producer.Close()
}
