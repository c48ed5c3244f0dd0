package entities

import (
	"time"

	"github.com/Xushengqwer/actor_hub/models/enums"
)

// ActorMedia 演员的头像、照片与视频
type ActorMedia struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	ActorID   string          `gorm:"type:varchar(20);not null;index"`
	MediaType enums.MediaType `gorm:"type:varchar(10);not null;index"`

	FileName      string  `gorm:"type:varchar(255);not null"`
	FilePath      string  `gorm:"type:varchar(500);not null"` // 公开访问 URL
	FileSize      int64   `gorm:"not null"`
	MimeType      string  `gorm:"type:varchar(100)"`
	ThumbnailPath *string `gorm:"type:varchar(500)"`

	// 相册 / 分类，例如 "写真"、"剧照"
	Description *string `gorm:"type:varchar(255)"`

	BucketName          string  `gorm:"type:varchar(100)"`
	ObjectName          string  `gorm:"type:varchar(500)"`
	ThumbnailObjectName *string `gorm:"type:varchar(500)"`

	UploadedBy uint
	CreatedAt  time.Time `gorm:"type:datetime;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"type:datetime;autoUpdateTime"`
}

func (ActorMedia) TableName() string { return "actor_media" }
