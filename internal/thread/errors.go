package thread

import "errors"

// 线程核心的错误分类：校验错误在任何存储调用之前拒绝，
// 权限与不存在错误作为显式结果返回给调用方，不做静默吞掉。
var (
	ErrNotFound         = errors.New("评论不存在")
	ErrPostNotFound     = errors.New("帖子不存在")
	ErrParentNotFound   = errors.New("父评论不存在")
	ErrNoPermission     = errors.New("没有权限操作该评论")
	ErrNotAuthenticated = errors.New("请先登录")
	ErrCommentsDisabled = errors.New("该帖子已关闭评论")
	ErrEmptyText        = errors.New("评论内容不能为空")
	ErrPostMismatch     = errors.New("父评论不属于该帖子")
	ErrReplyDepth       = errors.New("不能回复一条回复")
	ErrViewClosed       = errors.New("线程视图已关闭")
	ErrNotExpanded      = errors.New("该评论的回复列表未展开")
)
