package dto

// ThreadViewOpenRequest 打开线程视图请求
type ThreadViewOpenRequest struct {
	PostID int64  `json:"post_id" binding:"required"`
	Sort   string `json:"sort" binding:"omitempty,oneof=newest oldest"`
}

// ThreadViewData 打开线程视图响应
type ThreadViewData struct {
	ViewID string `json:"view_id"`
	PostID int64  `json:"post_id"`
}

// ThreadSortRequest 切换排序请求
type ThreadSortRequest struct {
	Sort string `json:"sort" binding:"required,oneof=newest oldest"`
}

// AttachmentPresignRequest 附件直传签名请求
type AttachmentPresignRequest struct {
	FileName string `json:"file_name" binding:"required,min=1,max=255"`
}

// AttachmentPresignData 附件直传签名响应
type AttachmentPresignData struct {
	UploadURL string `json:"upload_url"`
	ImageURL  string `json:"image_url"`
	ExpiresIn int    `json:"expires_in"`
}
