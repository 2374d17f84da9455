package dto

import (
	"time"

	"plaza-go/internal/model"
	"plaza-go/internal/thread"
)

// CommentCreateRequest 发表评论请求
type CommentCreateRequest struct {
	Text     string  `json:"text" binding:"required,min=1,max=400"`
	ParentID *int64  `json:"parent_id"`
	ImageURL *string `json:"image_url" binding:"omitempty,max=500"`
}

// CommentUpdateRequest 编辑评论请求
type CommentUpdateRequest struct {
	Text string `json:"text" binding:"required,min=1,max=400"`
}

// CommentSearchRequest 评论检索请求
type CommentSearchRequest struct {
	PostID int64  `form:"post_id" binding:"required"`
	Query  string `form:"q" binding:"required,min=1,max=200"`
}

// CommentInfo 评论信息
type CommentInfo struct {
	ID           int64      `json:"id"`
	PostID       int64      `json:"post_id"`
	ParentID     *int64     `json:"parent_id"`
	AuthorID     int64      `json:"author_id"`
	AuthorHandle *string    `json:"author_handle"`
	AuthorAvatar *string    `json:"author_avatar"`
	Text         string     `json:"text"`
	ImageURL     *string    `json:"image_url,omitempty"`
	Edited       bool       `json:"edited"`
	EditedAt     *time.Time `json:"edited_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CommentPageData 一次性分页读取的响应
type CommentPageData struct {
	Comments   []CommentInfo `json:"comments"`
	NextCursor *string       `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}

// CommentListData 检索等平铺列表的响应
type CommentListData struct {
	Comments []CommentInfo `json:"comments"`
	Total    int           `json:"total"`
}

// ToCommentInfo 模型转响应
func ToCommentInfo(c *model.Comment) CommentInfo {
	return CommentInfo{
		ID:           c.ID,
		PostID:       c.PostID,
		ParentID:     c.ParentID,
		AuthorID:     c.AuthorID,
		AuthorHandle: c.AuthorHandle,
		AuthorAvatar: c.AuthorAvatar,
		Text:         c.Text,
		ImageURL:     c.ImageURL,
		Edited:       c.Edited,
		EditedAt:     c.EditedAt,
		CreatedAt:    c.CreatedAt,
	}
}

// ToCommentInfos 批量模型转响应
func ToCommentInfos(comments []model.Comment) []CommentInfo {
	infos := make([]CommentInfo, 0, len(comments))
	for i := range comments {
		infos = append(infos, ToCommentInfo(&comments[i]))
	}
	return infos
}

// FeedData 单个评论流的响应
type FeedData struct {
	Comments []CommentInfo `json:"comments"`
	HasMore  bool          `json:"has_more"`
	Loading  bool          `json:"loading"`
}

// ThreadMetaData 线程元数据的响应
type ThreadMetaData struct {
	PostID          int64 `json:"post_id"`
	CommentCount    int64 `json:"comment_count"`
	CommentsEnabled bool  `json:"comments_enabled"`
}

// ThreadSnapshotData 线程视图快照的响应（SSE 载荷）
// Replies 的键是根评论 ID 的十进制字符串。
type ThreadSnapshotData struct {
	Meta    ThreadMetaData      `json:"meta"`
	Roots   FeedData            `json:"roots"`
	Replies map[string]FeedData `json:"replies"`
}

// ToFeedData 快照转响应
func ToFeedData(s thread.Snapshot) FeedData {
	return FeedData{
		Comments: ToCommentInfos(s.Items),
		HasMore:  s.HasMore,
		Loading:  s.Loading,
	}
}
