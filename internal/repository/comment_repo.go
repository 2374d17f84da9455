package repository

import (
	"context"
	"errors"
	"time"

	"plaza-go/internal/model"
	"plaza-go/internal/thread"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// GetByID 根据 ID 获取评论
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, thread.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// Create 创建评论，created_at 由存储侧赋值
func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// UpdateText 改写正文并打上编辑标记（编辑时间由存储侧赋值）
func (r *CommentRepository) UpdateText(ctx context.Context, id int64, text string) (*model.Comment, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"text":      text,
			"edited":    true,
			"edited_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, thread.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// DeleteTree 删除评论；根评论的全部回复在同一事务内一并删除
func (r *CommentRepository) DeleteTree(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Comment{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return thread.ErrNotFound
		}
		return nil
	})
}

// RootPage 某帖子根评论的一页（键集分页）
func (r *CommentRepository) RootPage(ctx context.Context, postID int64, sort thread.SortMode, limit int, after *thread.Cursor) ([]model.Comment, error) {
	query := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ? AND parent_id IS NULL", postID)

	if after != nil {
		if sort == thread.SortNewest {
			query = query.Where("(created_at, id) < (?, ?)", after.CreatedAt, after.ID)
		} else {
			query = query.Where("(created_at, id) > (?, ?)", after.CreatedAt, after.ID)
		}
	}

	order := "created_at DESC, id DESC"
	if sort == thread.SortOldest {
		order = "created_at ASC, id ASC"
	}

	var comments []model.Comment
	if err := query.Order(order).Limit(limit).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// ReplyPage 某根评论回复的一页，恒为最早在前
func (r *CommentRepository) ReplyPage(ctx context.Context, parentID int64, limit int, after *thread.Cursor) ([]model.Comment, error) {
	query := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("parent_id = ?", parentID)

	if after != nil {
		query = query.Where("(created_at, id) > (?, ?)", after.CreatedAt, after.ID)
	}

	var comments []model.Comment
	err := query.Order("created_at ASC, id ASC").Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByPost 某帖子的实际评论行数（含回复），worker 对账用
func (r *CommentRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// CountReplies 某根评论的回复数
func (r *CommentRepository) CountReplies(ctx context.Context, parentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("parent_id = ?", parentID).Count(&count).Error
	return count, err
}

// SearchByPost 正文模糊检索（ES 不可用时的降级路径）
func (r *CommentRepository) SearchByPost(ctx context.Context, postID int64, keyword string, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ? AND text ILIKE ?", postID, "%"+keyword+"%").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// GetByIDs 批量查询评论，保持入参顺序交给调用方处理
func (r *CommentRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var comments []model.Comment
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&comments).Error
	return comments, err
}
