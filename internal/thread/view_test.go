package thread

import (
	"context"
	"testing"

	"plaza-go/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewExpandCollapse(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	root := store.seed(1, nil, "根评论")
	store.seed(1, ptr(root.ID), "回复一")
	store.seed(1, ptr(root.ID), "回复二")
	notifier := notify.NewMemoryNotifier()

	v := OpenThread(context.Background(), store, notifier, 1, SortNewest, 10)
	defer v.Close()

	eventually(t, func() bool { return len(v.Snapshot().Roots.Items) == 1 })

	require.NoError(t, v.Expand(context.Background(), root.ID))
	eventually(t, func() bool {
		return len(v.Snapshot().Replies[root.ID].Items) == 2
	})
	assert.Equal(t, []int64{2, 3}, ids(v.Snapshot().Replies[root.ID].Items), "回复最早在前")

	// 重复展开幂等，不重建订阅
	require.NoError(t, v.Expand(context.Background(), root.ID))
	assert.Len(t, v.Snapshot().Replies, 1)

	// 折叠后丢弃已加载状态
	v.Collapse(root.ID)
	assert.Empty(t, v.Snapshot().Replies)

	// 再次展开从头加载
	require.NoError(t, v.Expand(context.Background(), root.ID))
	eventually(t, func() bool {
		return len(v.Snapshot().Replies[root.ID].Items) == 2
	})
}

func TestViewExpandValidation(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	store.addPost(2, true)
	root := store.seed(1, nil, "根评论")
	reply := store.seed(1, ptr(root.ID), "回复")
	other := store.seed(2, nil, "别的帖子")
	notifier := notify.NewMemoryNotifier()

	v := OpenThread(context.Background(), store, notifier, 1, SortNewest, 10)
	defer v.Close()

	assert.ErrorIs(t, v.Expand(context.Background(), 999), ErrNotFound)
	assert.ErrorIs(t, v.Expand(context.Background(), other.ID), ErrPostMismatch)
	assert.ErrorIs(t, v.Expand(context.Background(), reply.ID), ErrReplyDepth)

	// 未展开就翻页
	assert.ErrorIs(t, v.LoadMoreReplies(context.Background(), root.ID), ErrNotExpanded)
}

func TestViewLoadMoreReplies(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	root := store.seed(1, nil, "根评论")
	for i := 0; i < 5; i++ {
		store.seed(1, ptr(root.ID), "回复")
	}
	notifier := notify.NewMemoryNotifier()

	v := OpenThread(context.Background(), store, notifier, 1, SortNewest, 2)
	defer v.Close()

	require.NoError(t, v.Expand(context.Background(), root.ID))
	eventually(t, func() bool {
		return len(v.Snapshot().Replies[root.ID].Items) == 2
	})
	require.True(t, v.Snapshot().Replies[root.ID].HasMore)

	require.NoError(t, v.LoadMoreReplies(context.Background(), root.ID))
	assert.Equal(t, []int64{2, 3, 4, 5}, ids(v.Snapshot().Replies[root.ID].Items))
}

func TestViewMetaUpdates(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	notifier := notify.NewMemoryNotifier()

	v := OpenThread(context.Background(), store, notifier, 1, SortNewest, 10)
	defer v.Close()

	eventually(t, func() bool { return v.Snapshot().Meta.PostID == 1 })
	assert.True(t, v.Snapshot().Meta.CommentsEnabled)

	// worker 对账后通过元数据频道广播新计数
	store.setCommentCount(1, 42)
	err := notifier.Publish(context.Background(), notify.MetaChannel(1),
		notify.Event{Kind: notify.EventMeta, PostID: 1})
	require.NoError(t, err)

	eventually(t, func() bool { return v.Snapshot().Meta.CommentCount == 42 })
}

func TestViewSortDoesNotTouchReplies(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	root := store.seed(1, nil, "根一")
	store.seed(1, nil, "根二")
	store.seed(1, ptr(root.ID), "回复")
	notifier := notify.NewMemoryNotifier()

	v := OpenThread(context.Background(), store, notifier, 1, SortNewest, 10)
	defer v.Close()

	require.NoError(t, v.Expand(context.Background(), root.ID))
	eventually(t, func() bool {
		return len(v.Snapshot().Replies[root.ID].Items) == 1
	})

	v.SetSort(SortOldest)
	eventually(t, func() bool {
		roots := v.Snapshot().Roots.Items
		return len(roots) == 2 && roots[0].ID == root.ID
	})

	// 已展开的回复流保持原样
	assert.Len(t, v.Snapshot().Replies[root.ID].Items, 1)
}

func TestViewClose(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	root := store.seed(1, nil, "根评论")
	notifier := notify.NewMemoryNotifier()

	v := OpenThread(context.Background(), store, notifier, 1, SortNewest, 10)
	require.NoError(t, v.Expand(context.Background(), root.ID))

	v.Close()
	v.Close()

	assert.ErrorIs(t, v.Expand(context.Background(), root.ID), ErrViewClosed)

	select {
	case <-v.Done():
	default:
		t.Fatal("关闭后 Done 应已就绪")
	}
}
