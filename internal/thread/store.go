package thread

import (
	"context"
	"time"

	"plaza-go/internal/model"
	"plaza-go/internal/notify"
)

// SortMode 根评论排序方式
type SortMode string

const (
	SortNewest SortMode = "newest" // 最新在前
	SortOldest SortMode = "oldest" // 最早在前
)

// ParseSortMode 解析排序参数，非法值回退到最新在前
func ParseSortMode(s string) (SortMode, bool) {
	switch SortMode(s) {
	case SortNewest, SortOldest:
		return SortMode(s), true
	case "":
		return SortNewest, true
	}
	return SortNewest, false
}

// DefaultPageSize 每页评论数
const DefaultPageSize = 30

// Cursor 键集分页游标：最后一条已加载评论的排序键
// 只在 LoadMore 时前移，直播页刷新不会改写它。
type Cursor struct {
	CreatedAt time.Time
	ID        int64
}

// PostMeta 帖子上与评论线程相关的聚合字段
type PostMeta struct {
	PostID          int64
	CommentCount    int64
	CommentsEnabled bool
}

// Submission 一次发表请求：ParentID 为空发根评论，否则回复指定根评论
type Submission struct {
	PostID   int64
	ParentID *int64
	Text     string
	ImageURL *string
}

// Store 评论核心对文档存储的最小依赖
// 实现方须把"记录不存在"翻译成 ErrNotFound，其余错误原样包装返回。
type Store interface {
	PostMeta(ctx context.Context, postID int64) (*PostMeta, error)
	GetComment(ctx context.Context, id int64) (*model.Comment, error)

	// RootPage 某帖子根评论的一页，after 为空取首页
	RootPage(ctx context.Context, postID int64, sort SortMode, limit int, after *Cursor) ([]model.Comment, error)
	// ReplyPage 某根评论回复的一页，恒为最早在前
	ReplyPage(ctx context.Context, parentID int64, limit int, after *Cursor) ([]model.Comment, error)

	CreateComment(ctx context.Context, c *model.Comment) error
	// UpdateCommentText 改写正文并打上编辑标记，编辑时间由存储侧赋值
	UpdateCommentText(ctx context.Context, id int64, text string) (*model.Comment, error)
	// DeleteCommentTree 删除评论；根评论连同其回复在同一事务内删除
	DeleteCommentTree(ctx context.Context, id int64) error
}

// Broker 评论生命周期事件的下游投递（Kafka），允许为 nil
type Broker interface {
	Publish(ctx context.Context, ev notify.Event) error
}

// Snapshot 单个评论流的只读快照
type Snapshot struct {
	Items   []model.Comment
	HasMore bool
	Loading bool
}

// ThreadSnapshot 整个线程视图的只读快照
type ThreadSnapshot struct {
	Meta    PostMeta
	Roots   Snapshot
	Replies map[int64]Snapshot
}
