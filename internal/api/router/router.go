package router

import (
	"plaza-go/internal/api/handler"
	"plaza-go/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Setup 注册所有业务路由
func Setup(
	r *gin.Engine,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
	threadHandler *handler.ThreadHandler,
	commentHandler *handler.CommentHandler,
	attachmentHandler *handler.AttachmentHandler,
) {
	v1 := r.Group("/api/v1")

	// --- 认证模块 ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		authRequired := auth.Group("", middleware.AuthRequired())
		{
			authRequired.GET("/me", authHandler.Me)
		}
	}

	// --- 帖子模块 ---
	posts := v1.Group("/posts")
	{
		// 公开接口（不需要登录）
		posts.GET("", postHandler.List)
		posts.GET("/:id", postHandler.Get)

		postsAuth := posts.Group("", middleware.AuthRequired())
		{
			postsAuth.POST("", postHandler.Create)
			postsAuth.PUT("/:id/comments-enabled", postHandler.ToggleComments)
		}
	}

	// --- 线程视图模块（直播评论流，匿名可读） ---
	views := v1.Group("/thread-views")
	{
		views.POST("", threadHandler.OpenView)
		views.GET("/:id/stream", threadHandler.Stream)
		views.POST("/:id/sort", threadHandler.SetSort)
		views.POST("/:id/load-more", threadHandler.LoadMore)
		views.POST("/:id/comments/:comment_id/expand", threadHandler.Expand)
		views.POST("/:id/comments/:comment_id/collapse", threadHandler.Collapse)
		views.POST("/:id/comments/:comment_id/load-more", threadHandler.LoadMoreReplies)
		views.DELETE("/:id", threadHandler.CloseView)
	}

	// --- 评论模块 ---
	comments := v1.Group("/comments")
	{
		// 读接口匿名可用
		comments.GET("/post/:post_id", commentHandler.Page)
		comments.GET("/search", commentHandler.Search)

		commentsAuth := comments.Group("", middleware.AuthRequired())
		{
			commentsAuth.POST("/:post_id", commentHandler.Create)
			commentsAuth.PUT("/:id", commentHandler.Update)
			commentsAuth.DELETE("/:id", commentHandler.Delete)
		}
	}

	// --- 附件模块 ---
	attachments := v1.Group("/attachments", middleware.AuthRequired())
	{
		attachments.POST("/presign", attachmentHandler.Presign)
	}
}
