package thread

import (
	"context"
	"strings"
	"testing"

	"plaza-go/internal/model"
	"plaza-go/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdentity(id int64) Identity {
	handle := "测试用户"
	return Identity{ID: id, Handle: &handle}
}

func TestComposerSubmitRoot(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	notifier := notify.NewMemoryNotifier()
	broker := &collector{}
	cp := NewComposer(store, notifier, broker)

	c, err := cp.Submit(context.Background(), testIdentity(7), Submission{
		PostID: 1,
		Text:   "  你好，世界  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "你好，世界", c.Text, "正文落库前应修剪空白")
	assert.Equal(t, int64(7), c.AuthorID)
	assert.Nil(t, c.ParentID)
	assert.NotZero(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	// 创建事件进了下游队列
	events := broker.all()
	require.Len(t, events, 1)
	assert.Equal(t, notify.EventCreated, events[0].Kind)
	assert.Equal(t, c.ID, events[0].CommentID)
}

func TestComposerSubmitReply(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	root := store.seed(1, nil, "根评论")
	notifier := notify.NewMemoryNotifier()
	cp := NewComposer(store, notifier, nil)

	c, err := cp.Submit(context.Background(), testIdentity(7), Submission{
		PostID:   1,
		ParentID: ptr(root.ID),
		Text:     "回复内容",
	})
	require.NoError(t, err)
	require.NotNil(t, c.ParentID)
	assert.Equal(t, root.ID, *c.ParentID)
}

func TestComposerValidation(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, true)
	store.addPost(2, true)
	store.addPost(3, false)
	root := store.seed(1, nil, "根评论")
	reply := store.seed(1, ptr(root.ID), "回复")
	notifier := notify.NewMemoryNotifier()
	cp := NewComposer(store, notifier, nil)
	ctx := context.Background()

	t.Run("anonymous rejected", func(t *testing.T) {
		_, err := cp.Submit(ctx, Anonymous, Submission{PostID: 1, Text: "内容"})
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("blank text rejected", func(t *testing.T) {
		_, err := cp.Submit(ctx, testIdentity(7), Submission{PostID: 1, Text: "   \n\t "})
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("post not found", func(t *testing.T) {
		_, err := cp.Submit(ctx, testIdentity(7), Submission{PostID: 999, Text: "内容"})
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("comments disabled", func(t *testing.T) {
		_, err := cp.Submit(ctx, testIdentity(7), Submission{PostID: 3, Text: "内容"})
		assert.ErrorIs(t, err, ErrCommentsDisabled)
	})

	t.Run("parent not found", func(t *testing.T) {
		_, err := cp.Submit(ctx, testIdentity(7), Submission{PostID: 1, ParentID: ptr(int64(999)), Text: "内容"})
		assert.ErrorIs(t, err, ErrParentNotFound)
	})

	t.Run("parent belongs to other post", func(t *testing.T) {
		_, err := cp.Submit(ctx, testIdentity(7), Submission{PostID: 2, ParentID: ptr(root.ID), Text: "内容"})
		assert.ErrorIs(t, err, ErrPostMismatch)
	})

	t.Run("reply to reply rejected", func(t *testing.T) {
		_, err := cp.Submit(ctx, testIdentity(7), Submission{PostID: 1, ParentID: ptr(reply.ID), Text: "内容"})
		assert.ErrorIs(t, err, ErrReplyDepth)
	})
}

func TestNormalizeTextTruncation(t *testing.T) {
	// 超长正文按字符数截断，截断后再修剪一次
	long := strings.Repeat("字", model.MaxCommentTextLength) + "  多出来的部分"
	got, err := normalizeText(long)
	require.NoError(t, err)
	assert.Equal(t, model.MaxCommentTextLength, len([]rune(got)))
	assert.Equal(t, got, strings.TrimSpace(got))

	// 截断边界落在空白上时不留尾随空白
	padded := strings.Repeat("a", model.MaxCommentTextLength-1) + " b"
	got, err = normalizeText(padded)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", model.MaxCommentTextLength-1), got)
}

func TestComposerFailedValidationDoesNotWrite(t *testing.T) {
	store := newFakeStore()
	store.addPost(1, false)
	notifier := notify.NewMemoryNotifier()
	broker := &collector{}
	cp := NewComposer(store, notifier, broker)

	_, err := cp.Submit(context.Background(), testIdentity(7), Submission{PostID: 1, Text: "内容"})
	require.ErrorIs(t, err, ErrCommentsDisabled)

	page, err := store.RootPage(context.Background(), 1, SortNewest, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, page, "校验失败不触达存储")
	assert.Empty(t, broker.all(), "校验失败不广播")
}
