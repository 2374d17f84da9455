package thread

import (
	"context"
	"testing"
	"time"

	"plaza-go/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataWatcherDefaults(t *testing.T) {
	store := newFakeStore()
	notifier := notify.NewMemoryNotifier()

	// 帖子不存在时停留在安全默认值
	w := WatchMetadata(context.Background(), store, notifier, 404)
	defer w.Close()

	meta := w.Current()
	assert.Equal(t, int64(404), meta.PostID)
	assert.Zero(t, meta.CommentCount)
	assert.True(t, meta.CommentsEnabled)
}

func TestMetadataWatcherRefresh(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	notifier := notify.NewMemoryNotifier()

	w := WatchMetadata(context.Background(), store, notifier, 1)
	defer w.Close()

	eventually(t, func() bool { return w.Current().PostID == 1 })

	store.setCommentCount(1, 9)
	err := notifier.Publish(context.Background(), notify.MetaChannel(1),
		notify.Event{Kind: notify.EventMeta, PostID: 1})
	require.NoError(t, err)

	eventually(t, func() bool { return w.Current().CommentCount == 9 })
}

func TestMetadataWatcherKeepsLastGood(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	store.setCommentCount(1, 5)
	notifier := notify.NewMemoryNotifier()

	w := WatchMetadata(context.Background(), store, notifier, 1)
	defer w.Close()

	eventually(t, func() bool { return w.Current().CommentCount == 5 })

	// 帖子被删后读取失败，维持上一份值
	store.mu.Lock()
	delete(store.posts, 1)
	store.mu.Unlock()

	err := notifier.Publish(context.Background(), notify.MetaChannel(1),
		notify.Event{Kind: notify.EventMeta, PostID: 1})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(5), w.Current().CommentCount)
}
