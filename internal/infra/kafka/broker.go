package kafka

import (
	"context"

	"plaza-go/internal/notify"
	"plaza-go/internal/thread"
)

// ThreadBroker 把线程核心的变更事件投递到 Kafka
type ThreadBroker struct {
	topic string
}

func NewThreadBroker(topic string) *ThreadBroker {
	return &ThreadBroker{topic: topic}
}

var _ thread.Broker = (*ThreadBroker)(nil)

func (b *ThreadBroker) Publish(ctx context.Context, ev notify.Event) error {
	return SendCommentEvent(ctx, b.topic, &CommentEvent{
		Type:      string(ev.Kind),
		CommentID: ev.CommentID,
		PostID:    ev.PostID,
		ParentID:  ev.ParentID,
	})
}
