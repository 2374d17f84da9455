package model

import "time"

// 帖子类型
const (
	PostKindEvent      = "event"      // 活动
	PostKindDiscussion = "discussion" // 讨论
	PostKindListing    = "listing"    // 商品帖
)

// Post 内容帖模型，评论线程的挂载点
type Post struct {
	ID              int64     `gorm:"primaryKey;autoIncrement;comment:帖子标识" json:"id"`
	AuthorID        int64     `gorm:"not null;index:idx_posts_author_id;comment:发帖用户ID" json:"author_id"`
	Title           string    `gorm:"size:200;not null;comment:帖子标题" json:"title"`
	Body            string    `gorm:"type:text;comment:帖子正文" json:"body"`
	Kind            string    `gorm:"size:20;not null;default:'discussion';index:idx_posts_kind;comment:帖子类型" json:"kind"`
	CommentCount    int64     `gorm:"not null;default:0;comment:评论数（由 worker 按实际行数回填）" json:"comment_count"`
	CommentsEnabled bool      `gorm:"not null;default:true;comment:是否开放评论" json:"comments_enabled"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index:idx_posts_created_at;comment:创建时间" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Author   User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}
