package handler

import (
	"errors"
	"strconv"

	"plaza-go/internal/api/dto"
	"plaza-go/internal/api/middleware"
	"plaza-go/internal/api/response"
	"plaza-go/internal/service"
	"plaza-go/internal/thread"
	"plaza-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	composer      *thread.Composer
	mutator       *thread.Mutator
	store         thread.Store
	authService   *service.AuthService
	searchService *service.SearchService
}

func NewCommentHandler(
	composer *thread.Composer,
	mutator *thread.Mutator,
	store thread.Store,
	authService *service.AuthService,
	searchService *service.SearchService,
) *CommentHandler {
	return &CommentHandler{
		composer:      composer,
		mutator:       mutator,
		store:         store,
		authService:   authService,
		searchService: searchService,
	}
}

// Create 发表评论
// @Summary 发表评论
// @Description 在帖子下发表根评论，或回复某条根评论（最多两层）
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post_id path int true "帖子ID"
// @Param request body dto.CommentCreateRequest true "评论内容"
// @Success 201 {object} response.Response{data=dto.CommentInfo} "发表成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Failure 403 {object} response.ErrorResponse "该帖子已关闭评论"
// @Failure 404 {object} response.ErrorResponse "帖子或父评论不存在"
// @Router /comments/{post_id} [post]
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "请先登录")
		return
	}

	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的帖子ID")
		return
	}

	var req dto.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	actor := h.authService.IdentityOf(c.Request.Context(), userID)
	comment, err := h.composer.Submit(c.Request.Context(), actor, thread.Submission{
		PostID:   postID,
		ParentID: req.ParentID,
		Text:     req.Text,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.writeThreadError(c, err, "发表评论失败")
		return
	}

	// 检索索引尽力而为，失败不影响评论主链路
	if err := h.searchService.IndexComment(comment); err != nil {
		logger.Warn("Index comment failed", zap.Int64("comment_id", comment.ID), zap.Error(err))
	}

	response.Created(c, "发表成功", dto.ToCommentInfo(comment))
}

// Update 编辑评论
// @Summary 编辑评论
// @Description 作者本人改写评论正文，评论会带上"已编辑"标记
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论ID"
// @Param request body dto.CommentUpdateRequest true "新正文"
// @Success 200 {object} response.Response{data=dto.CommentInfo} "编辑成功"
// @Failure 403 {object} response.ErrorResponse "只能编辑自己的评论"
// @Failure 404 {object} response.ErrorResponse "评论不存在"
// @Router /comments/{id} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "请先登录")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的评论ID")
		return
	}

	var req dto.CommentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	actor := h.authService.IdentityOf(c.Request.Context(), userID)
	comment, err := h.mutator.Edit(c.Request.Context(), actor, commentID, req.Text)
	if err != nil {
		h.writeThreadError(c, err, "编辑评论失败")
		return
	}

	if err := h.searchService.IndexComment(comment); err != nil {
		logger.Warn("Index comment failed", zap.Int64("comment_id", comment.ID), zap.Error(err))
	}

	response.OK(c, "编辑成功", dto.ToCommentInfo(comment))
}

// Delete 删除评论
// @Summary 删除评论
// @Description 作者本人删除评论；删除根评论会连同其全部回复一并删除
// @Tags 评论
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "只能删除自己的评论"
// @Failure 404 {object} response.ErrorResponse "评论不存在"
// @Router /comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "请先登录")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的评论ID")
		return
	}

	actor := h.authService.IdentityOf(c.Request.Context(), userID)
	if err := h.mutator.Delete(c.Request.Context(), actor, commentID); err != nil {
		h.writeThreadError(c, err, "删除评论失败")
		return
	}

	if err := h.searchService.RemoveComment(commentID); err != nil {
		logger.Warn("Remove comment from index failed", zap.Int64("comment_id", commentID), zap.Error(err))
	}

	response.OK(c, "删除成功", nil)
}

// Page 一次性分页读取评论
// @Summary 分页读取评论
// @Description 不走直播订阅的一次性读取。cursor 为上一页返回的不透明游标，
// @Description 带 parent_id 时读取该根评论的回复（恒为最早在前）。
// @Tags 评论
// @Produce json
// @Param post_id path int true "帖子ID"
// @Param sort query string false "根评论排序（newest/oldest），默认 newest"
// @Param cursor query string false "分页游标，空取首页"
// @Param parent_id query int false "根评论ID，读取其回复"
// @Success 200 {object} response.Response{data=dto.CommentPageData} "获取成功"
// @Failure 400 {object} response.ErrorResponse "游标或参数无效"
// @Router /comments/post/{post_id} [get]
func (h *CommentHandler) Page(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的帖子ID")
		return
	}

	sort, ok := thread.ParseSortMode(c.Query("sort"))
	if !ok {
		response.BadRequest(c, "无效的排序方式")
		return
	}

	after, err := dto.DecodeCursor(c.Query("cursor"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	limit := thread.DefaultPageSize
	ctx := c.Request.Context()

	var comments []dto.CommentInfo
	if parentParam := c.Query("parent_id"); parentParam != "" {
		parentID, perr := strconv.ParseInt(parentParam, 10, 64)
		if perr != nil {
			response.BadRequest(c, "无效的父评论ID")
			return
		}
		// 多取一条判断是否还有下一页
		rows, qerr := h.store.ReplyPage(ctx, parentID, limit+1, after)
		if qerr != nil {
			logger.Error("Load reply page failed", zap.Error(qerr), zap.Int64("parent_id", parentID))
			response.InternalError(c, "获取评论失败")
			return
		}
		comments = dto.ToCommentInfos(rows)
	} else {
		rows, qerr := h.store.RootPage(ctx, postID, sort, limit+1, after)
		if qerr != nil {
			logger.Error("Load root page failed", zap.Error(qerr), zap.Int64("post_id", postID))
			response.InternalError(c, "获取评论失败")
			return
		}
		comments = dto.ToCommentInfos(rows)
	}

	hasMore := len(comments) > limit
	if hasMore {
		comments = comments[:limit]
	}

	data := dto.CommentPageData{Comments: comments, HasMore: hasMore}
	if hasMore && len(comments) > 0 {
		last := comments[len(comments)-1]
		cursor := dto.EncodeCursor(thread.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		data.NextCursor = &cursor
	}

	response.OK(c, "获取成功", data)
}

// Search 帖内评论检索
// @Summary 帖内评论检索
// @Description 按关键词检索某帖子下的评论（ES 优先，失败降级到数据库模糊匹配）
// @Tags 评论
// @Produce json
// @Param post_id query int true "帖子ID"
// @Param q query string true "关键词"
// @Success 200 {object} response.Response{data=dto.CommentListData} "检索成功"
// @Router /comments/search [get]
func (h *CommentHandler) Search(c *gin.Context) {
	var req dto.CommentSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	comments, err := h.searchService.SearchComments(c.Request.Context(), &req)
	if err != nil {
		logger.Error("Search comments failed", zap.Error(err), zap.Int64("post_id", req.PostID))
		response.InternalError(c, "检索失败，请稍后重试")
		return
	}

	infos := dto.ToCommentInfos(comments)
	response.OK(c, "检索成功", dto.CommentListData{Comments: infos, Total: len(infos)})
}

// writeThreadError 把评论核心的哨兵错误映射成 HTTP 响应
func (h *CommentHandler) writeThreadError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, thread.ErrNotAuthenticated):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, thread.ErrEmptyText):
		response.BadRequest(c, err.Error())
	case errors.Is(err, thread.ErrPostMismatch), errors.Is(err, thread.ErrReplyDepth):
		response.BadRequest(c, err.Error())
	case errors.Is(err, thread.ErrCommentsDisabled):
		response.Forbidden(c, err.Error())
	case errors.Is(err, thread.ErrNoPermission):
		response.Forbidden(c, err.Error())
	case errors.Is(err, thread.ErrPostNotFound), errors.Is(err, thread.ErrParentNotFound), errors.Is(err, thread.ErrNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Comment operation failed", zap.Error(err))
		response.InternalError(c, fallback)
	}
}
