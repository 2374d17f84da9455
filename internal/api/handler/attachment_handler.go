package handler

import (
	"fmt"
	"path"
	"strings"
	"time"

	"plaza-go/internal/api/dto"
	"plaza-go/internal/api/response"
	"plaza-go/internal/config"
	infraMinio "plaza-go/internal/infra/minio"
	"plaza-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const presignExpiry = 10 * time.Minute

// 评论附件只收图片
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type AttachmentHandler struct{}

func NewAttachmentHandler() *AttachmentHandler {
	return &AttachmentHandler{}
}

// Presign 签发评论图片直传地址
// @Summary 签发评论图片直传地址
// @Description 返回对象存储的预签名上传地址和上传后的公开访问地址，
// @Description 客户端用 PUT 直传后把 image_url 带进发评论请求
// @Tags 附件
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AttachmentPresignRequest true "文件名"
// @Success 200 {object} response.Response{data=dto.AttachmentPresignData} "签发成功"
// @Failure 400 {object} response.ErrorResponse "不支持的文件类型"
// @Router /attachments/presign [post]
func (h *AttachmentHandler) Presign(c *gin.Context) {
	var req dto.AttachmentPresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	ext := strings.ToLower(path.Ext(req.FileName))
	if !allowedImageExts[ext] {
		response.BadRequest(c, "不支持的文件类型，仅支持图片")
		return
	}

	// 对象名用 UUID，避免客户端文件名冲突或注入路径
	object := fmt.Sprintf("comments/%s%s", uuid.NewString(), ext)

	uploadURL, err := infraMinio.PresignedPutURL(c.Request.Context(), infraMinio.CommentImageBucket, object, presignExpiry)
	if err != nil {
		logger.Error("Presign upload url failed", zap.Error(err), zap.String("object", object))
		response.InternalError(c, "签发上传地址失败")
		return
	}

	response.OK(c, "签发成功", dto.AttachmentPresignData{
		UploadURL: uploadURL,
		ImageURL:  infraMinio.PublicURL(config.GetMinIO(), infraMinio.CommentImageBucket, object),
		ExpiresIn: int(presignExpiry.Seconds()),
	})
}
