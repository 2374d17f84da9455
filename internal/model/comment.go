package model

import "time"

// MaxCommentTextLength 评论正文长度上限（字符数）
const MaxCommentTextLength = 400

// Comment 评论模型
// ParentID 为空表示根评论，否则指向所属根评论。嵌套深度固定为两层，
// 由写入口在落库前校验，不依赖调用方自觉。
type Comment struct {
	ID           int64      `gorm:"primaryKey;autoIncrement;comment:评论ID" json:"id"`
	PostID       int64      `gorm:"not null;index:idx_comments_post_id;index:idx_composite_post_parent_created,priority:1;comment:所属帖子ID" json:"post_id"`
	ParentID     *int64     `gorm:"index:idx_comments_parent_id;index:idx_composite_post_parent_created,priority:2;comment:父评论ID" json:"parent_id"`
	AuthorID     int64      `gorm:"not null;index:idx_comments_author_id;comment:评论用户ID" json:"author_id"`
	AuthorHandle *string    `gorm:"size:255;comment:作者昵称快照" json:"author_handle"`
	AuthorAvatar *string    `gorm:"size:500;comment:作者头像快照" json:"author_avatar"`
	Text         string     `gorm:"size:400;not null;comment:评论内容" json:"text"`
	ImageURL     *string    `gorm:"size:500;comment:图片附件地址" json:"image_url"`
	Edited       bool       `gorm:"not null;default:false;comment:是否编辑过" json:"edited"`
	EditedAt     *time.Time `gorm:"comment:编辑时间" json:"edited_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index:idx_comments_created_at;index:idx_composite_post_parent_created,priority:3;comment:评论时间" json:"created_at"`

	// 关联关系
	Author  User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Post    Post      `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Parent  *Comment  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Replies []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

// IsRoot 是否为根评论
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}
