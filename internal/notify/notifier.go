package notify

import (
	"context"
	"fmt"
)

// EventKind 变更事件类型
type EventKind string

const (
	EventCreated EventKind = "created"
	EventEdited  EventKind = "edited"
	EventDeleted EventKind = "deleted"
	EventMeta    EventKind = "meta"
)

// Event 结果集变更通知
// 通知只表示"某个过滤结果集可能变了"，订阅方收到后自行重查，
// 不携带行数据，避免推送端与查询端的数据口径不一致。
type Event struct {
	Kind      EventKind `json:"kind"`
	PostID    int64     `json:"post_id"`
	CommentID int64     `json:"comment_id,omitempty"`
	ParentID  *int64    `json:"parent_id,omitempty"`
}

// Notifier 变更通知的发布/订阅抽象
// 订阅返回事件通道与取消函数，取消后通道关闭，不会再泄漏监听器。
type Notifier interface {
	Publish(ctx context.Context, channel string, ev Event) error
	Subscribe(ctx context.Context, channel string) (<-chan Event, func())
}

// CommentChannel 某帖子评论变更的通知频道
func CommentChannel(postID int64) string {
	return fmt.Sprintf("thread:comments:%d", postID)
}

// MetaChannel 某帖子聚合字段（评论数、开关）变更的通知频道
func MetaChannel(postID int64) string {
	return fmt.Sprintf("thread:meta:%d", postID)
}
