package handler

import (
	"errors"
	"strconv"

	"plaza-go/internal/api/dto"
	"plaza-go/internal/api/middleware"
	"plaza-go/internal/api/response"
	"plaza-go/internal/model"
	"plaza-go/internal/service"
	"plaza-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// Create 发帖
// @Summary 发帖
// @Description 发布新帖子（活动/讨论/商品帖）
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PostCreateRequest true "帖子内容"
// @Success 201 {object} response.Response{data=dto.PostInfo} "发布成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "请先登录")
		return
	}

	var req dto.PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	post, err := h.postService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPostKind) {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Error("Create post failed", zap.Error(err), zap.Int64("user_id", userID))
		response.InternalError(c, "发布失败，请稍后重试")
		return
	}

	response.Created(c, "发布成功", toPostInfo(post))
}

// Get 查看帖子
// @Summary 查看帖子
// @Tags 帖子
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response{data=dto.PostInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "帖子不存在"
// @Router /posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的帖子ID")
		return
	}

	post, err := h.postService.Get(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		logger.Error("Get post failed", zap.Error(err), zap.Int64("post_id", postID))
		response.InternalError(c, "获取帖子失败")
		return
	}

	response.OK(c, "获取成功", toPostInfo(post))
}

// List 帖子列表
// @Summary 帖子列表
// @Tags 帖子
// @Produce json
// @Param page query int false "页码，默认1"
// @Param page_size query int false "每页数量，默认20"
// @Param kind query string false "按类型过滤（event/discussion/listing）"
// @Success 200 {object} response.Response{data=dto.PostListData} "获取成功"
// @Router /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var kind *string
	if k := c.Query("kind"); k != "" {
		kind = &k
	}

	posts, total, err := h.postService.List(c.Request.Context(), page, pageSize, kind)
	if err != nil {
		logger.Error("List posts failed", zap.Error(err))
		response.InternalError(c, "获取帖子列表失败")
		return
	}

	infos := make([]dto.PostInfo, 0, len(posts))
	for i := range posts {
		infos = append(infos, *toPostInfo(&posts[i]))
	}

	response.OK(c, "获取成功", dto.PostListData{
		Posts:    infos,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// ToggleComments 开关帖子评论
// @Summary 开关帖子评论
// @Description 帖子作者打开或关闭评论，变更会实时推给已打开的线程视图
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Param request body dto.PostCommentsToggleRequest true "开关状态"
// @Success 200 {object} response.Response "设置成功"
// @Failure 403 {object} response.ErrorResponse "没有权限"
// @Failure 404 {object} response.ErrorResponse "帖子不存在"
// @Router /posts/{id}/comments-enabled [put]
func (h *PostHandler) ToggleComments(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "请先登录")
		return
	}

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的帖子ID")
		return
	}

	var req dto.PostCommentsToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	if err := h.postService.SetCommentsEnabled(c.Request.Context(), postID, userID, *req.Enabled); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrPostNoPermission):
			response.Forbidden(c, err.Error())
		default:
			logger.Error("Toggle comments failed", zap.Error(err), zap.Int64("post_id", postID))
			response.InternalError(c, "设置失败，请稍后重试")
		}
		return
	}

	response.OK(c, "设置成功", nil)
}

func toPostInfo(p *model.Post) *dto.PostInfo {
	return &dto.PostInfo{
		ID:              p.ID,
		AuthorID:        p.AuthorID,
		Title:           p.Title,
		Body:            p.Body,
		Kind:            p.Kind,
		CommentCount:    p.CommentCount,
		CommentsEnabled: p.CommentsEnabled,
		CreatedAt:       p.CreatedAt,
	}
}
