package dependencies

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/Xushengqwer/actor_hub/config"
	"github.com/Xushengqwer/actor_hub/core"
)

//go:generate mockgen -destination=mocks/storage_mock.go -package=mocks github.com/Xushengqwer/actor_hub/dependencies ObjectStorage

// ObjectStorage 媒体文件使用的对象存储
type ObjectStorage interface {
	// UploadFile 从 io.Reader 上传文件，并返回其公开可访问的 URL
	UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error)
	// DeleteObject 删除一个对象，对象不存在不视为错误
	DeleteObject(ctx context.Context, objectKey string) error
	// Bucket 当前使用的存储桶名称
	Bucket() string
}

// InitObjectStorage 根据配置选择 COS 或 MinIO 后端
func InitObjectStorage(cfg *config.StorageConfig, logger *core.ZapLogger) (ObjectStorage, error) {
	switch strings.ToLower(cfg.Backend) {
	case "cos":
		return InitCOS(&cfg.COS, logger)
	case "minio", "":
		return InitMinIO(&cfg.MinIO, logger)
	default:
		return nil, fmt.Errorf("不支持的对象存储后端: %s", cfg.Backend)
	}
}

// buildPublicObjectURL 在公共访问基础 URL 后拼接对象键
func buildPublicObjectURL(base *url.URL, objectKey string) string {
	basePath := base.Path
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	finalURL := *base
	finalURL.Path = basePath + strings.TrimPrefix(objectKey, "/")
	return finalURL.String()
}
