package vo

import "time"

type MediaVO struct {
	ID            uint      `json:"id"`
	ActorID       string    `json:"actor_id"`
	MediaType     string    `json:"media_type"`
	FileName      string    `json:"file_name"`
	FilePath      string    `json:"file_path"`
	FileSize      int64     `json:"file_size"`
	MimeType      string    `json:"mime_type"`
	ThumbnailPath *string   `json:"thumbnail_path"`
	Description   *string   `json:"description"`
	UploadedBy    uint      `json:"uploaded_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// ActorMediaVO 按类型分组的演员媒体
type ActorMediaVO struct {
	ActorID string     `json:"actor_id"`
	Avatar  *MediaVO   `json:"avatar"`
	Photos  []*MediaVO `json:"photos"`
	Videos  []*MediaVO `json:"videos"`
}

// UploadFailureVO 批量上传中单个文件的失败原因
type UploadFailureVO struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

// UploadResultVO 批量上传结果，只要有一个文件成功即视为请求成功
type UploadResultVO struct {
	Uploaded []*MediaVO        `json:"uploaded"`
	Failed   []UploadFailureVO `json:"failed"`
}
