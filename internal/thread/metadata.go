package thread

import (
	"context"
	"sync"

	"plaza-go/internal/notify"
	"plaza-go/pkg/logger"

	"go.uber.org/zap"
)

// MetadataWatcher 帖子聚合字段（评论数、评论开关）的直播订阅
// 首次推送前以及帖子不存在时停留在安全默认值：计数 0、评论开放。
type MetadataWatcher struct {
	store    Store
	notifier notify.Notifier
	postID   int64

	mu      sync.Mutex
	meta    PostMeta
	updates chan PostMeta
	cancel  context.CancelFunc
	closed  bool
}

// WatchMetadata 打开对某帖子聚合字段的订阅
func WatchMetadata(ctx context.Context, store Store, notifier notify.Notifier, postID int64) *MetadataWatcher {
	w := &MetadataWatcher{
		store:    store,
		notifier: notifier,
		postID:   postID,
		meta:     PostMeta{PostID: postID, CommentsEnabled: true},
		updates:  make(chan PostMeta, 1),
	}
	subCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	events, unsub := notifier.Subscribe(subCtx, notify.MetaChannel(postID))
	go w.pump(subCtx, events, unsub)
	return w
}

func (w *MetadataWatcher) pump(ctx context.Context, events <-chan notify.Event, unsub func()) {
	defer unsub()

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			w.refresh(ctx)
		}
	}
}

// refresh 读取失败时保持当前值（订阅失败降级到默认值是可接受的）
func (w *MetadataWatcher) refresh(ctx context.Context) {
	meta, err := w.store.PostMeta(ctx, w.postID)
	if err != nil {
		if ctx.Err() == nil {
			logger.Debug("Post meta refresh failed",
				zap.Int64("post_id", w.postID),
				zap.Error(err),
			)
		}
		return
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.meta = *meta
	select {
	case w.updates <- w.meta:
	default:
		select {
		case <-w.updates:
		default:
		}
		select {
		case w.updates <- w.meta:
		default:
		}
	}
	w.mu.Unlock()
}

// Current 最近一次读到的聚合字段
func (w *MetadataWatcher) Current() PostMeta {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.meta
}

// Updates 最新值通道（只保留最近一份）
func (w *MetadataWatcher) Updates() <-chan PostMeta {
	return w.updates
}

// Close 取消订阅，幂等
func (w *MetadataWatcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.updates)
	w.mu.Unlock()

	w.cancel()
}
