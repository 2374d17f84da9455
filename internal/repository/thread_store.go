package repository

import (
	"context"

	"plaza-go/internal/model"
	"plaza-go/internal/thread"
)

// ThreadStore 把评论仓库与帖子仓库拼成线程核心需要的 Store
type ThreadStore struct {
	comments *CommentRepository
	posts    *PostRepository
}

func NewThreadStore(comments *CommentRepository, posts *PostRepository) *ThreadStore {
	return &ThreadStore{comments: comments, posts: posts}
}

var _ thread.Store = (*ThreadStore)(nil)

func (s *ThreadStore) PostMeta(ctx context.Context, postID int64) (*thread.PostMeta, error) {
	return s.posts.Meta(ctx, postID)
}

func (s *ThreadStore) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	return s.comments.GetByID(ctx, id)
}

func (s *ThreadStore) RootPage(ctx context.Context, postID int64, sort thread.SortMode, limit int, after *thread.Cursor) ([]model.Comment, error) {
	return s.comments.RootPage(ctx, postID, sort, limit, after)
}

func (s *ThreadStore) ReplyPage(ctx context.Context, parentID int64, limit int, after *thread.Cursor) ([]model.Comment, error) {
	return s.comments.ReplyPage(ctx, parentID, limit, after)
}

func (s *ThreadStore) CreateComment(ctx context.Context, c *model.Comment) error {
	return s.comments.Create(ctx, c)
}

func (s *ThreadStore) UpdateCommentText(ctx context.Context, id int64, text string) (*model.Comment, error) {
	return s.comments.UpdateText(ctx, id, text)
}

func (s *ThreadStore) DeleteCommentTree(ctx context.Context, id int64) error {
	return s.comments.DeleteTree(ctx, id)
}
