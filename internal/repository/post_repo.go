package repository

import (
	"context"
	"errors"

	"plaza-go/internal/model"
	"plaza-go/internal/thread"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// GetByID 根据 ID 获取帖子
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, thread.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create 创建帖子
func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// List 帖子列表（分页、按类型筛选）
func (r *PostRepository) List(ctx context.Context, skip, limit int, kind *string) ([]model.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Post{})
	if kind != nil && *kind != "" {
		query = query.Where("kind = ?", *kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Meta 帖子上与评论线程相关的聚合字段
func (r *PostRepository) Meta(ctx context.Context, id int64) (*thread.PostMeta, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Select("id", "comment_count", "comments_enabled").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, thread.ErrNotFound
		}
		return nil, err
	}
	return &thread.PostMeta{
		PostID:          post.ID,
		CommentCount:    post.CommentCount,
		CommentsEnabled: post.CommentsEnabled,
	}, nil
}

// SetCommentsEnabled 开关评论（仅帖子作者）
func (r *PostRepository) SetCommentsEnabled(ctx context.Context, postID, authorID int64, enabled bool) error {
	result := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ? AND author_id = ?", postID, authorID).
		Update("comments_enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return thread.ErrNotFound
	}
	return nil
}

// SetCommentCount 回填评论计数（worker 按实际行数对账后写入）
func (r *PostRepository) SetCommentCount(ctx context.Context, postID, count int64) error {
	result := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postID).
		UpdateColumn("comment_count", count)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return thread.ErrNotFound
	}
	return nil
}
