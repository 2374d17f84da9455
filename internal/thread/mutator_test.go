package thread

import (
	"context"
	"testing"

	"plaza-go/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutatorEdit(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	notifier := notify.NewMemoryNotifier()
	broker := &collector{}
	cp := NewComposer(store, notifier, broker)
	m := NewMutator(store, notifier, broker)
	ctx := context.Background()

	c, err := cp.Submit(ctx, testIdentity(7), Submission{PostID: 1, Text: "原始内容"})
	require.NoError(t, err)

	updated, err := m.Edit(ctx, testIdentity(7), c.ID, "  修改后的内容  ")
	require.NoError(t, err)
	assert.Equal(t, "修改后的内容", updated.Text)
	assert.True(t, updated.Edited)
	require.NotNil(t, updated.EditedAt)

	events := broker.all()
	require.Len(t, events, 2)
	assert.Equal(t, notify.EventEdited, events[1].Kind)
}

func TestMutatorEditValidation(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	c := store.seed(1, nil, "别人的评论")
	notifier := notify.NewMemoryNotifier()
	m := NewMutator(store, notifier, nil)
	ctx := context.Background()

	t.Run("anonymous rejected", func(t *testing.T) {
		_, err := m.Edit(ctx, Anonymous, c.ID, "内容")
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("blank text rejected", func(t *testing.T) {
		_, err := m.Edit(ctx, testIdentity(1), c.ID, "   ")
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("not author", func(t *testing.T) {
		_, err := m.Edit(ctx, testIdentity(99), c.ID, "改别人的")
		assert.ErrorIs(t, err, ErrNoPermission)
	})

	t.Run("comment gone", func(t *testing.T) {
		_, err := m.Edit(ctx, testIdentity(1), 999, "内容")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMutatorDeleteRootCascades(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	root := store.seed(1, nil, "根评论")
	store.seed(1, ptr(root.ID), "回复一")
	store.seed(1, ptr(root.ID), "回复二")
	other := store.seed(1, nil, "无关根评论")
	notifier := notify.NewMemoryNotifier()
	broker := &collector{}
	m := NewMutator(store, notifier, broker)
	ctx := context.Background()

	require.NoError(t, m.Delete(ctx, testIdentity(1), root.ID))

	// 根评论连同回复一起删除，无关评论保留
	_, err := store.GetComment(ctx, root.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	replies, err := store.ReplyPage(ctx, root.ID, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, replies)
	_, err = store.GetComment(ctx, other.ID)
	assert.NoError(t, err)

	events := broker.all()
	require.Len(t, events, 1)
	assert.Equal(t, notify.EventDeleted, events[0].Kind)
	assert.Equal(t, root.ID, events[0].CommentID)
}

func TestMutatorDeleteReply(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	root := store.seed(1, nil, "根评论")
	reply := store.seed(1, ptr(root.ID), "回复")
	notifier := notify.NewMemoryNotifier()
	m := NewMutator(store, notifier, nil)
	ctx := context.Background()

	require.NoError(t, m.Delete(ctx, testIdentity(1), reply.ID))

	_, err := store.GetComment(ctx, reply.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetComment(ctx, root.ID)
	assert.NoError(t, err, "父评论不受影响")
}

func TestMutatorDeleteValidation(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	c := store.seed(1, nil, "评论")
	notifier := notify.NewMemoryNotifier()
	m := NewMutator(store, notifier, nil)
	ctx := context.Background()

	assert.ErrorIs(t, m.Delete(ctx, Anonymous, c.ID), ErrNotAuthenticated)
	assert.ErrorIs(t, m.Delete(ctx, testIdentity(99), c.ID), ErrNoPermission)
	assert.ErrorIs(t, m.Delete(ctx, testIdentity(1), 999), ErrNotFound)
}
