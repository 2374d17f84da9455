package thread

import (
	"context"
	"fmt"

	"plaza-go/internal/model"
	"plaza-go/internal/notify"
)

// Mutator 既有评论的编辑与删除，仅作者本人可操作
// 非乐观写：结果由直播订阅带回视图。并发的编辑/删除在存储层后写覆盖。
type Mutator struct {
	store    Store
	notifier notify.Notifier
	broker   Broker
}

func NewMutator(store Store, notifier notify.Notifier, broker Broker) *Mutator {
	return &Mutator{store: store, notifier: notifier, broker: broker}
}

// Edit 改写评论正文并打上编辑标记
// 空文本拒绝且不触达存储；他人评论返回 ErrNoPermission。
func (m *Mutator) Edit(ctx context.Context, actor Identity, commentID int64, rawText string) (*model.Comment, error) {
	if !actor.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	text, err := normalizeText(rawText)
	if err != nil {
		return nil, err
	}

	current, err := m.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if current.AuthorID != actor.ID {
		return nil, ErrNoPermission
	}

	updated, err := m.store.UpdateCommentText(ctx, commentID, text)
	if err != nil {
		// 并发删除时原样返回 ErrNotFound，调用方据此丢掉本地陈旧条目
		return nil, err
	}

	announce(ctx, m.notifier, m.broker, notify.EventEdited, updated)
	return updated, nil
}

// Delete 删除评论；根评论连同其全部回复在同一事务内级联删除，
// 不留孤儿回复。
func (m *Mutator) Delete(ctx context.Context, actor Identity, commentID int64) error {
	if !actor.Authenticated() {
		return ErrNotAuthenticated
	}

	current, err := m.store.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if current.AuthorID != actor.ID {
		return ErrNoPermission
	}

	if err := m.store.DeleteCommentTree(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	announce(ctx, m.notifier, m.broker, notify.EventDeleted, current)
	return nil
}
