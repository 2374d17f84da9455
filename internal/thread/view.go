package thread

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"plaza-go/internal/notify"
)

// ThreadView 一个打开的线程视图：一条元数据订阅 + 一条根评论流 +
// 零到多条回复流（以根评论 ID 为键持有订阅句柄）。
// 所有订阅共享视图的生命周期，Close 后没有订阅会存活。
type ThreadView struct {
	store    Store
	notifier notify.Notifier
	postID   int64
	pageSize int

	ctx    context.Context
	cancel context.CancelFunc

	meta  *MetadataWatcher
	roots *Feed

	mu      sync.Mutex
	replies map[int64]*Feed
	closed  bool
	events  chan struct{}
}

// OpenThread 打开帖子的线程视图
func OpenThread(ctx context.Context, store Store, notifier notify.Notifier, postID int64, sort SortMode, pageSize int) *ThreadView {
	vctx, cancel := context.WithCancel(ctx)
	v := &ThreadView{
		store:    store,
		notifier: notifier,
		postID:   postID,
		pageSize: pageSize,
		ctx:      vctx,
		cancel:   cancel,
		replies:  make(map[int64]*Feed),
		events:   make(chan struct{}, 1),
	}
	v.meta = WatchMetadata(vctx, store, notifier, postID)
	v.roots = newRootFeed(vctx, store, notifier, postID, sort, pageSize)
	go v.forwardMeta()
	go v.forwardFeed(v.roots)
	return v
}

// PostID 视图挂载的帖子
func (v *ThreadView) PostID() int64 {
	return v.postID
}

// Snapshot 三个读模型的当前快照
func (v *ThreadView) Snapshot() ThreadSnapshot {
	v.mu.Lock()
	replies := make(map[int64]Snapshot, len(v.replies))
	for id, f := range v.replies {
		replies[id] = f.Snapshot()
	}
	v.mu.Unlock()

	return ThreadSnapshot{
		Meta:    v.meta.Current(),
		Roots:   v.roots.Snapshot(),
		Replies: replies,
	}
}

// SetSort 切换根评论排序（重置根评论流）
func (v *ThreadView) SetSort(sort SortMode) {
	v.roots.SetSort(sort)
}

// LoadMore 根评论流取下一页
func (v *ThreadView) LoadMore(ctx context.Context) error {
	return v.roots.LoadMore(ctx)
}

// Expand 展开某根评论的回复流
// 已展开则保持原订阅不动：任一时刻每个根评论至多一条回复订阅。
func (v *ThreadView) Expand(ctx context.Context, rootID int64) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	if _, ok := v.replies[rootID]; ok {
		v.mu.Unlock()
		return nil
	}
	v.mu.Unlock()

	c, err := v.store.GetComment(ctx, rootID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load root comment: %w", err)
	}
	if c.PostID != v.postID {
		return ErrPostMismatch
	}
	if !c.IsRoot() {
		return ErrReplyDepth
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrViewClosed
	}
	if _, ok := v.replies[rootID]; ok {
		return nil
	}
	f := newReplyFeed(v.ctx, v.store, v.notifier, v.postID, rootID, v.pageSize)
	v.replies[rootID] = f
	go v.forwardFeed(f)
	return nil
}

// Collapse 折叠回复流：关闭订阅并丢弃已加载状态，再次展开从头开始
func (v *ThreadView) Collapse(rootID int64) {
	v.mu.Lock()
	f, ok := v.replies[rootID]
	if ok {
		delete(v.replies, rootID)
	}
	v.mu.Unlock()

	if ok {
		f.Close()
		v.touch()
	}
}

// LoadMoreReplies 已展开回复流取下一页
func (v *ThreadView) LoadMoreReplies(ctx context.Context, rootID int64) error {
	v.mu.Lock()
	f, ok := v.replies[rootID]
	v.mu.Unlock()
	if !ok {
		return ErrNotExpanded
	}
	return f.LoadMore(ctx)
}

// Updates 任一子模型更新时收到通知（合并为最新一条）
func (v *ThreadView) Updates() <-chan struct{} {
	return v.events
}

// Done 视图生命周期结束信号
func (v *ThreadView) Done() <-chan struct{} {
	return v.ctx.Done()
}

// Close 关闭视图及其全部订阅，幂等
func (v *ThreadView) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	feeds := make([]*Feed, 0, len(v.replies))
	for _, f := range v.replies {
		feeds = append(feeds, f)
	}
	v.replies = make(map[int64]*Feed)
	v.mu.Unlock()

	v.cancel()
	v.roots.Close()
	v.meta.Close()
	for _, f := range feeds {
		f.Close()
	}
}

func (v *ThreadView) forwardMeta() {
	for range v.meta.Updates() {
		v.touch()
	}
}

func (v *ThreadView) forwardFeed(f *Feed) {
	for range f.Updates() {
		v.touch()
	}
}

// touch 事件通道永不关闭，靠 Done 结束消费方
func (v *ThreadView) touch() {
	select {
	case v.events <- struct{}{}:
	default:
	}
}
