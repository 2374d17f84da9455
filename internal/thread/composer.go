package thread

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"plaza-go/internal/model"
	"plaza-go/internal/notify"
	"plaza-go/pkg/logger"

	"go.uber.org/zap"
)

// Composer 发表新评论的写入口
// 写边界上强制两层嵌套：回复目标必须存在、属于同一帖子、且自身是根评论。
type Composer struct {
	store    Store
	notifier notify.Notifier
	broker   Broker
}

func NewComposer(store Store, notifier notify.Notifier, broker Broker) *Composer {
	return &Composer{store: store, notifier: notifier, broker: broker}
}

// Submit 校验并落库一条新评论
// 校验失败不触达存储；成功后由直播订阅把新评论带回各视图，
// 这里不做本地乐观插入。
func (cp *Composer) Submit(ctx context.Context, actor Identity, sub Submission) (*model.Comment, error) {
	if !actor.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	text, err := normalizeText(sub.Text)
	if err != nil {
		return nil, err
	}

	meta, err := cp.store.PostMeta(ctx, sub.PostID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post meta: %w", err)
	}
	if !meta.CommentsEnabled {
		return nil, ErrCommentsDisabled
	}

	if sub.ParentID != nil {
		parent, err := cp.store.GetComment(ctx, *sub.ParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("load parent comment: %w", err)
		}
		if parent.PostID != sub.PostID {
			return nil, ErrPostMismatch
		}
		if !parent.IsRoot() {
			return nil, ErrReplyDepth
		}
	}

	comment := &model.Comment{
		PostID:       sub.PostID,
		ParentID:     sub.ParentID,
		AuthorID:     actor.ID,
		AuthorHandle: actor.Handle,
		AuthorAvatar: actor.Avatar,
		Text:         text,
		ImageURL:     sub.ImageURL,
	}
	if err := cp.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	announce(ctx, cp.notifier, cp.broker, notify.EventCreated, comment)
	return comment, nil
}

// normalizeText 修剪并按字符数截断正文，空文本拒绝
// 截断后再修剪一次，保证落库值恒等于自身的 trim。
func normalizeText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrEmptyText
	}
	if runes := []rune(text); len(runes) > model.MaxCommentTextLength {
		text = strings.TrimSpace(string(runes[:model.MaxCommentTextLength]))
	}
	return text, nil
}

// announce 写成功后的变更广播：Redis 供直播流刷新，Kafka 供 worker 对账
// 两者都是尽力而为，广播失败不回滚已持久化的写。
func announce(ctx context.Context, notifier notify.Notifier, broker Broker, kind notify.EventKind, c *model.Comment) {
	ev := notify.Event{
		Kind:      kind,
		PostID:    c.PostID,
		CommentID: c.ID,
		ParentID:  c.ParentID,
	}
	if err := notifier.Publish(ctx, notify.CommentChannel(c.PostID), ev); err != nil {
		logger.Warn("Failed to publish change event",
			zap.Int64("post_id", c.PostID),
			zap.Int64("comment_id", c.ID),
			zap.Error(err),
		)
	}
	if broker == nil {
		return
	}
	if err := broker.Publish(ctx, ev); err != nil {
		logger.Warn("Failed to enqueue comment event",
			zap.Int64("post_id", c.PostID),
			zap.Int64("comment_id", c.ID),
			zap.Error(err),
		)
	}
}
