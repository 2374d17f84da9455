package handler

import (
	"context"
	"errors"
	"io"
	"strconv"

	"plaza-go/internal/api/dto"
	"plaza-go/internal/api/response"
	"plaza-go/internal/config"
	"plaza-go/internal/notify"
	"plaza-go/internal/service"
	"plaza-go/internal/thread"
	"plaza-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ThreadHandler 直播线程视图的会话接口
// 客户端先开视图拿到 view_id，再用 SSE 订阅快照流，
// 排序/翻页/展开等操作通过独立请求作用到同一个视图上。
type ThreadHandler struct {
	registry    *thread.Registry
	store       thread.Store
	notifier    notify.Notifier
	postService *service.PostService
}

func NewThreadHandler(
	registry *thread.Registry,
	store thread.Store,
	notifier notify.Notifier,
	postService *service.PostService,
) *ThreadHandler {
	return &ThreadHandler{
		registry:    registry,
		store:       store,
		notifier:    notifier,
		postService: postService,
	}
}

// OpenView 打开线程视图
// @Summary 打开线程视图
// @Description 为某帖子建立直播评论视图，返回后续操作引用的视图 ID
// @Tags 线程
// @Accept json
// @Produce json
// @Param request body dto.ThreadViewOpenRequest true "帖子ID与初始排序"
// @Success 201 {object} response.Response{data=dto.ThreadViewData} "打开成功"
// @Failure 404 {object} response.ErrorResponse "帖子不存在"
// @Router /thread-views [post]
func (h *ThreadHandler) OpenView(c *gin.Context) {
	var req dto.ThreadViewOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}
	sort, ok := thread.ParseSortMode(req.Sort)
	if !ok {
		response.BadRequest(c, "无效的排序方式")
		return
	}
	postID := req.PostID

	// 先确认帖子存在，不给不存在的帖子挂订阅
	if _, err := h.postService.Get(c.Request.Context(), postID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		logger.Error("Open thread view failed", zap.Error(err), zap.Int64("post_id", postID))
		response.InternalError(c, "打开视图失败")
		return
	}

	// 视图生命周期独立于本次 HTTP 请求，由 Registry 的 TTL 管理
	view := thread.OpenThread(context.Background(), h.store, h.notifier, postID, sort, config.GetThread().PageSize)
	viewID := h.registry.Add(view)

	response.Created(c, "视图已打开", dto.ThreadViewData{ViewID: viewID, PostID: postID})
}

// Stream SSE 快照流
// @Summary 订阅线程视图快照
// @Description SSE 流。连接即推当前快照，之后任何子模型变化都会推送合并后的最新快照
// @Tags 线程
// @Produce text/event-stream
// @Param id path string true "视图ID"
// @Success 200 {string} string "SSE 事件流"
// @Failure 404 {object} response.ErrorResponse "视图不存在或已过期"
// @Router /thread-views/{id}/stream [get]
func (h *ThreadHandler) Stream(c *gin.Context) {
	view, ok := h.registry.Get(c.Param("id"))
	if !ok {
		response.NotFound(c, "视图不存在或已过期")
		return
	}

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// 先推一帧当前快照，客户端不用等第一次变更
	c.SSEvent("snapshot", snapshotToData(view.Snapshot()))
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case <-view.Done():
			return false
		case <-view.Updates():
			c.SSEvent("snapshot", snapshotToData(view.Snapshot()))
			return true
		}
	})
}

// SetSort 切换根评论排序
// @Summary 切换根评论排序
// @Description 重置根评论流并按新排序重新加载首页；已展开的回复流不受影响
// @Tags 线程
// @Accept json
// @Produce json
// @Param id path string true "视图ID"
// @Param request body dto.ThreadSortRequest true "排序方式"
// @Success 200 {object} response.Response "设置成功"
// @Failure 404 {object} response.ErrorResponse "视图不存在或已过期"
// @Router /thread-views/{id}/sort [post]
func (h *ThreadHandler) SetSort(c *gin.Context) {
	view, ok := h.registry.Get(c.Param("id"))
	if !ok {
		response.NotFound(c, "视图不存在或已过期")
		return
	}

	var req dto.ThreadSortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}
	sort, _ := thread.ParseSortMode(req.Sort)

	view.SetSort(sort)
	response.OK(c, "设置成功", nil)
}

// LoadMore 根评论流翻页
// @Summary 根评论流翻页
// @Description 在当前游标之后追加一页根评论，结果通过快照流推送
// @Tags 线程
// @Produce json
// @Param id path string true "视图ID"
// @Success 200 {object} response.Response "已触发加载"
// @Failure 404 {object} response.ErrorResponse "视图不存在或已过期"
// @Router /thread-views/{id}/load-more [post]
func (h *ThreadHandler) LoadMore(c *gin.Context) {
	view, ok := h.registry.Get(c.Param("id"))
	if !ok {
		response.NotFound(c, "视图不存在或已过期")
		return
	}

	if err := view.LoadMore(c.Request.Context()); err != nil {
		h.writeViewError(c, err)
		return
	}
	response.OK(c, "已触发加载", nil)
}

// Expand 展开回复流
// @Summary 展开某根评论的回复
// @Description 为该根评论建立回复订阅（幂等），回复通过快照流推送
// @Tags 线程
// @Produce json
// @Param id path string true "视图ID"
// @Param comment_id path int true "根评论ID"
// @Success 200 {object} response.Response "已展开"
// @Failure 400 {object} response.ErrorResponse "目标不是本帖的根评论"
// @Failure 404 {object} response.ErrorResponse "视图或评论不存在"
// @Router /thread-views/{id}/comments/{comment_id}/expand [post]
func (h *ThreadHandler) Expand(c *gin.Context) {
	view, ok := h.registry.Get(c.Param("id"))
	if !ok {
		response.NotFound(c, "视图不存在或已过期")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的评论ID")
		return
	}

	if err := view.Expand(c.Request.Context(), commentID); err != nil {
		h.writeViewError(c, err)
		return
	}
	response.OK(c, "已展开", nil)
}

// Collapse 折叠回复流
// @Summary 折叠某根评论的回复
// @Description 关闭该根评论的回复订阅并丢弃已加载内容，再次展开从头开始
// @Tags 线程
// @Produce json
// @Param id path string true "视图ID"
// @Param comment_id path int true "根评论ID"
// @Success 200 {object} response.Response "已折叠"
// @Failure 404 {object} response.ErrorResponse "视图不存在或已过期"
// @Router /thread-views/{id}/comments/{comment_id}/collapse [post]
func (h *ThreadHandler) Collapse(c *gin.Context) {
	view, ok := h.registry.Get(c.Param("id"))
	if !ok {
		response.NotFound(c, "视图不存在或已过期")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的评论ID")
		return
	}

	view.Collapse(commentID)
	response.OK(c, "已折叠", nil)
}

// LoadMoreReplies 回复流翻页
// @Summary 某根评论的回复翻页
// @Tags 线程
// @Produce json
// @Param id path string true "视图ID"
// @Param comment_id path int true "根评论ID"
// @Success 200 {object} response.Response "已触发加载"
// @Failure 404 {object} response.ErrorResponse "视图不存在或回复流未展开"
// @Router /thread-views/{id}/comments/{comment_id}/load-more [post]
func (h *ThreadHandler) LoadMoreReplies(c *gin.Context) {
	view, ok := h.registry.Get(c.Param("id"))
	if !ok {
		response.NotFound(c, "视图不存在或已过期")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的评论ID")
		return
	}

	if err := view.LoadMoreReplies(c.Request.Context(), commentID); err != nil {
		h.writeViewError(c, err)
		return
	}
	response.OK(c, "已触发加载", nil)
}

// CloseView 关闭线程视图
// @Summary 关闭线程视图
// @Description 注销视图并释放其全部订阅
// @Tags 线程
// @Produce json
// @Param id path string true "视图ID"
// @Success 200 {object} response.Response "已关闭"
// @Failure 404 {object} response.ErrorResponse "视图不存在或已过期"
// @Router /thread-views/{id} [delete]
func (h *ThreadHandler) CloseView(c *gin.Context) {
	if !h.registry.Remove(c.Param("id")) {
		response.NotFound(c, "视图不存在或已过期")
		return
	}
	response.OK(c, "已关闭", nil)
}

func (h *ThreadHandler) writeViewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, thread.ErrViewClosed), errors.Is(err, thread.ErrNotExpanded), errors.Is(err, thread.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, thread.ErrPostMismatch), errors.Is(err, thread.ErrReplyDepth):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("Thread view operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}

func snapshotToData(s thread.ThreadSnapshot) dto.ThreadSnapshotData {
	replies := make(map[string]dto.FeedData, len(s.Replies))
	for rootID, snap := range s.Replies {
		replies[strconv.FormatInt(rootID, 10)] = dto.ToFeedData(snap)
	}
	return dto.ThreadSnapshotData{
		Meta: dto.ThreadMetaData{
			PostID:          s.Meta.PostID,
			CommentCount:    s.Meta.CommentCount,
			CommentsEnabled: s.Meta.CommentsEnabled,
		},
		Roots:   dto.ToFeedData(s.Roots),
		Replies: replies,
	}
}
