package thread

import (
	"context"
	"fmt"
	"sync"

	"plaza-go/internal/model"
	"plaza-go/internal/notify"
	"plaza-go/pkg/logger"

	"go.uber.org/zap"
)

// Feed 一条直播评论流：首页跟随变更通知实时刷新，
// LoadMore 取到的后续页是一次性快照，不再更新。
// parentID 为空时是某帖子的根评论流（可切换排序），
// 否则是某根评论的回复流（恒为最早在前）。
type Feed struct {
	store    Store
	notifier notify.Notifier
	ctx      context.Context
	postID   int64
	parentID *int64
	pageSize int

	mu      sync.Mutex
	sort    SortMode
	live    []model.Comment // 直播首页
	tail    []model.Comment // LoadMore 追加的静态页
	cursor  *Cursor
	hasMore bool
	loading bool
	gen     uint64 // 排序切换/关闭时自增，用来作废飞行中的响应
	cancel  context.CancelFunc
	updates chan Snapshot
	closed  bool
}

func newRootFeed(ctx context.Context, store Store, notifier notify.Notifier, postID int64, sort SortMode, pageSize int) *Feed {
	return newFeed(ctx, store, notifier, postID, nil, sort, pageSize)
}

func newReplyFeed(ctx context.Context, store Store, notifier notify.Notifier, postID, parentID int64, pageSize int) *Feed {
	return newFeed(ctx, store, notifier, postID, &parentID, SortOldest, pageSize)
}

func newFeed(ctx context.Context, store Store, notifier notify.Notifier, postID int64, parentID *int64, sort SortMode, pageSize int) *Feed {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	f := &Feed{
		store:    store,
		notifier: notifier,
		ctx:      ctx,
		postID:   postID,
		parentID: parentID,
		pageSize: pageSize,
		sort:     sort,
		updates:  make(chan Snapshot, 1),
	}
	f.mu.Lock()
	f.openLocked()
	f.mu.Unlock()
	return f
}

// openLocked 建立订阅并启动事件泵，调用方须持有 f.mu
func (f *Feed) openLocked() {
	subCtx, cancel := context.WithCancel(f.ctx)
	f.cancel = cancel
	gen := f.gen
	events, unsub := f.notifier.Subscribe(subCtx, notify.CommentChannel(f.postID))
	go f.pump(subCtx, gen, events, unsub)
}

func (f *Feed) pump(ctx context.Context, gen uint64, events <-chan notify.Event, unsub func()) {
	defer unsub()

	f.refresh(ctx, gen)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !f.relevant(ev) {
				continue
			}
			f.refresh(ctx, gen)
		}
	}
}

// relevant 过滤与本流无关的事件
func (f *Feed) relevant(ev notify.Event) bool {
	if ev.Kind == notify.EventMeta {
		return false
	}
	if f.parentID == nil {
		return ev.ParentID == nil
	}
	return ev.ParentID != nil && *ev.ParentID == *f.parentID
}

// refresh 重查直播首页并与已加载列表合并
func (f *Feed) refresh(ctx context.Context, gen uint64) {
	f.mu.Lock()
	sort := f.sort
	f.mu.Unlock()

	page, err := f.queryPage(ctx, sort, nil)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		// 维持上一份快照，等下一次变更通知再试
		logger.Warn("Live page refresh failed",
			zap.Int64("post_id", f.postID),
			zap.Error(err),
		)
		return
	}

	f.mu.Lock()
	if f.closed || gen != f.gen {
		f.mu.Unlock()
		return
	}

	// 合并规则：被新首页从底部挤出的旧条目保留（并入静态尾部），
	// 排在新首页键范围之内却消失的条目视为已删除，丢弃。
	if len(page) == f.pageSize && len(f.live) > 0 {
		boundary := page[len(page)-1]
		present := make(map[int64]struct{}, len(page))
		for _, c := range page {
			present[c.ID] = struct{}{}
		}
		displaced := make([]model.Comment, 0)
		for _, c := range f.live {
			if _, ok := present[c.ID]; ok {
				continue
			}
			if sortsBefore(boundary, c, sort) {
				displaced = append(displaced, c)
			}
		}
		if len(displaced) > 0 {
			f.tail = append(displaced, f.tail...)
		}
	}
	f.live = page

	// 游标只在首次装载时落位，之后由 LoadMore 前移；
	// 插入发生后游标仍指向插入前的末条，由此产生的跳读/重读是已声明的取舍。
	if f.cursor == nil && len(page) > 0 {
		last := page[len(page)-1]
		f.cursor = &Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
		f.hasMore = len(page) == f.pageSize
	}
	f.emitLocked()
	f.mu.Unlock()
}

// LoadMore 一次性读取下一页并追加
// 已有请求在飞行中、或没有更多数据时为 no-op。
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.closed || f.loading || !f.hasMore || f.cursor == nil {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	gen := f.gen
	cur := *f.cursor
	sort := f.sort
	f.emitLocked()
	f.mu.Unlock()

	page, err := f.queryPage(ctx, sort, &cur)

	f.mu.Lock()
	if f.closed || gen != f.gen {
		// 排序已切换或视图已销毁，迟到的结果直接丢弃
		f.mu.Unlock()
		return nil
	}
	f.loading = false
	if err != nil {
		f.emitLocked()
		f.mu.Unlock()
		return fmt.Errorf("load more: %w", err)
	}
	if len(page) > 0 {
		f.tail = append(f.tail, page...)
		last := page[len(page)-1]
		f.cursor = &Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	f.hasMore = len(page) == f.pageSize
	f.emitLocked()
	f.mu.Unlock()
	return nil
}

// SetSort 切换根评论排序：关闭旧订阅、清空已加载状态、重新订阅
// 回复流不支持切换；相同排序为 no-op。
func (f *Feed) SetSort(sort SortMode) {
	f.mu.Lock()
	if f.closed || f.parentID != nil || sort == f.sort {
		f.mu.Unlock()
		return
	}
	f.sort = sort
	f.gen++
	f.live = nil
	f.tail = nil
	f.cursor = nil
	f.hasMore = false
	f.loading = false
	cancel := f.cancel
	f.openLocked()
	f.emitLocked()
	f.mu.Unlock()

	cancel()
}

// Snapshot 当前状态的只读快照
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Updates 最新快照通道（只保留最近一份）
func (f *Feed) Updates() <-chan Snapshot {
	return f.updates
}

// Close 取消订阅并关闭快照通道，幂等
func (f *Feed) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.gen++
	cancel := f.cancel
	close(f.updates)
	f.mu.Unlock()

	cancel()
}

func (f *Feed) queryPage(ctx context.Context, sort SortMode, after *Cursor) ([]model.Comment, error) {
	if f.parentID != nil {
		return f.store.ReplyPage(ctx, *f.parentID, f.pageSize, after)
	}
	return f.store.RootPage(ctx, f.postID, sort, f.pageSize, after)
}

func (f *Feed) snapshotLocked() Snapshot {
	items := make([]model.Comment, 0, len(f.live)+len(f.tail))
	seen := make(map[int64]struct{}, len(f.live)+len(f.tail))
	for _, c := range f.live {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		items = append(items, c)
	}
	for _, c := range f.tail {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		items = append(items, c)
	}
	return Snapshot{Items: items, HasMore: f.hasMore, Loading: f.loading}
}

// emitLocked 向快照通道推送最新状态，只保留最近一份，调用方须持有 f.mu
func (f *Feed) emitLocked() {
	if f.closed {
		return
	}
	snap := f.snapshotLocked()
	select {
	case f.updates <- snap:
	default:
		select {
		case <-f.updates:
		default:
		}
		select {
		case f.updates <- snap:
		default:
		}
	}
}

// sortsBefore a 是否排在 b 之前（created_at 为主键，id 兜底去重）
func sortsBefore(a, b model.Comment, sort SortMode) bool {
	if sort == SortNewest {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
