package thread

import (
	"context"
	"testing"
	"time"

	"plaza-go/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootFeedInitialLoad(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	for i := 0; i < 3; i++ {
		store.seed(1, nil, "评论")
	}
	notifier := notify.NewMemoryNotifier()

	f := newRootFeed(context.Background(), store, notifier, 1, SortNewest, 10)
	defer f.Close()

	eventually(t, func() bool {
		return len(f.Snapshot().Items) == 3
	})

	snap := f.Snapshot()
	assert.Equal(t, []int64{3, 2, 1}, ids(snap.Items), "最新在前")
	assert.False(t, snap.HasMore)
	assert.False(t, snap.Loading)
}

func TestRootFeedLiveInsert(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	store.seed(1, nil, "旧评论")
	notifier := notify.NewMemoryNotifier()

	f := newRootFeed(context.Background(), store, notifier, 1, SortNewest, 10)
	defer f.Close()

	eventually(t, func() bool { return len(f.Snapshot().Items) == 1 })

	// 新评论落库后广播变更，首页应自动刷新
	c := store.seed(1, nil, "新评论")
	err := notifier.Publish(context.Background(), notify.CommentChannel(1),
		notify.Event{Kind: notify.EventCreated, PostID: 1, CommentID: c.ID})
	require.NoError(t, err)

	eventually(t, func() bool {
		items := f.Snapshot().Items
		return len(items) == 2 && items[0].ID == c.ID
	})
}

func TestRootFeedIgnoresReplyEvents(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	root := store.seed(1, nil, "根评论")
	notifier := notify.NewMemoryNotifier()

	f := newRootFeed(context.Background(), store, notifier, 1, SortNewest, 10)
	defer f.Close()

	eventually(t, func() bool { return len(f.Snapshot().Items) == 1 })

	// 回复事件不应触发根评论流刷新出新条目
	reply := store.seed(1, ptr(root.ID), "回复")
	err := notifier.Publish(context.Background(), notify.CommentChannel(1),
		notify.Event{Kind: notify.EventCreated, PostID: 1, CommentID: reply.ID, ParentID: ptr(root.ID)})
	require.NoError(t, err)

	// 给事件泵一点时间，再确认根评论流没变
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []int64{root.ID}, ids(f.Snapshot().Items))
}

func TestRootFeedLoadMore(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	for i := 0; i < 5; i++ {
		store.seed(1, nil, "评论")
	}
	notifier := notify.NewMemoryNotifier()

	f := newRootFeed(context.Background(), store, notifier, 1, SortNewest, 2)
	defer f.Close()

	eventually(t, func() bool { return len(f.Snapshot().Items) == 2 })
	require.True(t, f.Snapshot().HasMore)

	require.NoError(t, f.LoadMore(context.Background()))
	snap := f.Snapshot()
	assert.Equal(t, []int64{5, 4, 3, 2}, ids(snap.Items))
	assert.True(t, snap.HasMore)

	require.NoError(t, f.LoadMore(context.Background()))
	snap = f.Snapshot()
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, ids(snap.Items))
	assert.False(t, snap.HasMore)

	// 没有更多数据时为 no-op
	require.NoError(t, f.LoadMore(context.Background()))
	assert.Len(t, f.Snapshot().Items, 5)
}

func TestRootFeedDisplacedItemsRetained(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	for i := 0; i < 3; i++ {
		store.seed(1, nil, "评论")
	}
	notifier := notify.NewMemoryNotifier()

	// 首页正好装满
	f := newRootFeed(context.Background(), store, notifier, 1, SortNewest, 3)
	defer f.Close()

	eventually(t, func() bool { return len(f.Snapshot().Items) == 3 })

	f.mu.Lock()
	cursorBefore := *f.cursor
	f.mu.Unlock()

	// 新评论把最老的一条挤出首页，被挤出的条目应保留在列表末尾
	c := store.seed(1, nil, "新评论")
	err := notifier.Publish(context.Background(), notify.CommentChannel(1),
		notify.Event{Kind: notify.EventCreated, PostID: 1, CommentID: c.ID})
	require.NoError(t, err)

	eventually(t, func() bool { return len(f.Snapshot().Items) == 4 })
	assert.Equal(t, []int64{4, 3, 2, 1}, ids(f.Snapshot().Items))

	// 游标不随刷新移动，仍指向插入前的末条
	f.mu.Lock()
	cursorAfter := *f.cursor
	f.mu.Unlock()
	assert.Equal(t, cursorBefore, cursorAfter)
}

func TestRootFeedDeletedItemDropped(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	c1 := store.seed(1, nil, "将被删除")
	store.seed(1, nil, "保留")
	notifier := notify.NewMemoryNotifier()

	f := newRootFeed(context.Background(), store, notifier, 1, SortNewest, 10)
	defer f.Close()

	eventually(t, func() bool { return len(f.Snapshot().Items) == 2 })

	store.remove(c1.ID)
	err := notifier.Publish(context.Background(), notify.CommentChannel(1),
		notify.Event{Kind: notify.EventDeleted, PostID: 1, CommentID: c1.ID})
	require.NoError(t, err)

	eventually(t, func() bool { return len(f.Snapshot().Items) == 1 })
	assert.NotContains(t, ids(f.Snapshot().Items), c1.ID)
}

func TestSetSortResetsFeed(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	for i := 0; i < 3; i++ {
		store.seed(1, nil, "评论")
	}
	notifier := notify.NewMemoryNotifier()

	f := newRootFeed(context.Background(), store, notifier, 1, SortNewest, 10)
	defer f.Close()

	eventually(t, func() bool { return len(f.Snapshot().Items) == 3 })
	require.Equal(t, []int64{3, 2, 1}, ids(f.Snapshot().Items))

	f.SetSort(SortOldest)
	eventually(t, func() bool {
		items := f.Snapshot().Items
		return len(items) == 3 && items[0].ID == 1
	})
	assert.Equal(t, []int64{1, 2, 3}, ids(f.Snapshot().Items))

	// 来回切换结果确定
	f.SetSort(SortNewest)
	eventually(t, func() bool {
		items := f.Snapshot().Items
		return len(items) == 3 && items[0].ID == 3
	})
	assert.Equal(t, []int64{3, 2, 1}, ids(f.Snapshot().Items))
}

func TestReplyFeedFixedOrder(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	root := store.seed(1, nil, "根评论")
	for i := 0; i < 3; i++ {
		store.seed(1, ptr(root.ID), "回复")
	}
	notifier := notify.NewMemoryNotifier()

	f := newReplyFeed(context.Background(), store, notifier, 1, root.ID, 10)
	defer f.Close()

	eventually(t, func() bool { return len(f.Snapshot().Items) == 3 })
	assert.Equal(t, []int64{2, 3, 4}, ids(f.Snapshot().Items), "回复恒为最早在前")

	// 回复流不支持切换排序
	f.SetSort(SortNewest)
	assert.Equal(t, []int64{2, 3, 4}, ids(f.Snapshot().Items))
}

func TestFeedCloseIdempotent(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	notifier := notify.NewMemoryNotifier()

	f := newRootFeed(context.Background(), store, notifier, 1, SortNewest, 10)
	f.Close()
	f.Close()

	// 关闭后的操作不报错也不生效
	require.NoError(t, f.LoadMore(context.Background()))
	f.SetSort(SortOldest)

	// 通道已关闭，残留的缓冲快照排空后循环会退出
	for range f.Updates() {
	}
}
