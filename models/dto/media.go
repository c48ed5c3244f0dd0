package dto

import (
	"io"

	"github.com/Xushengqwer/actor_hub/models/enums"
)

// MediaListQuery 媒体列表过滤
type MediaListQuery struct {
	MediaType string `form:"media_type" binding:"omitempty,oneof=avatar photo video"`
}

// UploadFile 传给媒体服务的单个上传文件
type UploadFile struct {
	FileName string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// UploadRequest 一次上传请求
type UploadRequest struct {
	ActorID     string
	Kind        enums.MediaType
	Files       []UploadFile
	Description *string // 相册 / 分类
}
