package dto

import "time"

// PostCreateRequest 发帖请求
type PostCreateRequest struct {
	Title string `json:"title" binding:"required,min=1,max=200"`
	Body  string `json:"body" binding:"max=20000"`
	Kind  string `json:"kind" binding:"omitempty,oneof=event discussion listing"`
}

// PostCommentsToggleRequest 评论开关请求
type PostCommentsToggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// PostInfo 帖子信息
type PostInfo struct {
	ID              int64     `json:"id"`
	AuthorID        int64     `json:"author_id"`
	Title           string    `json:"title"`
	Body            string    `json:"body"`
	Kind            string    `json:"kind"`
	CommentCount    int64     `json:"comment_count"`
	CommentsEnabled bool      `json:"comments_enabled"`
	CreatedAt       time.Time `json:"created_at"`
}

// PostListData 帖子列表数据
type PostListData struct {
	Posts    []PostInfo `json:"posts"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}
