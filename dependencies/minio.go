package dependencies

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/Xushengqwer/actor_hub/config"
	"github.com/Xushengqwer/actor_hub/core"
)

// publicReadPolicy 允许匿名读取桶内对象
const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

type minioStorage struct {
	client     *minio.Client
	bucket     string
	publicBase *url.URL
	logger     *core.ZapLogger
}

// InitMinIO 初始化 MinIO 客户端。存储桶不存在时自动创建并设置为公有读。
func InitMinIO(cfg *config.MinIOConfig, logger *core.ZapLogger) (ObjectStorage, error) {
	if cfg.Endpoint == "" || cfg.BucketName == "" {
		return nil, fmt.Errorf("MinIO 配置不完整，缺少 endpoint 或 bucket_name")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 MinIO 客户端失败: %w", err)
	}

	external := cfg.ExternalBaseURL
	if external == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		external = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}
	publicBase, err := url.Parse(external)
	if err != nil {
		return nil, fmt.Errorf("解析 MinIO 对外访问地址 '%s' 失败: %w", external, err)
	}
	// 对外 URL 形如 {external}/{bucket}/{object}
	publicBase = publicBase.JoinPath(cfg.BucketName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("检查 MinIO 存储桶失败: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("创建 MinIO 存储桶 '%s' 失败: %w", cfg.BucketName, err)
		}
		logger.Info("已创建 MinIO 存储桶", zap.String("bucket", cfg.BucketName))
	}
	if err := client.SetBucketPolicy(ctx, cfg.BucketName, fmt.Sprintf(publicReadPolicy, cfg.BucketName)); err != nil {
		return nil, fmt.Errorf("设置 MinIO 存储桶公有读策略失败: %w", err)
	}

	logger.Info("MinIO 客户端初始化成功",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.BucketName),
		zap.String("publicBase", publicBase.String()),
	)
	return &minioStorage{
		client:     client,
		bucket:     cfg.BucketName,
		publicBase: publicBase,
		logger:     logger,
	}, nil
}

func (m *minioStorage) Bucket() string {
	return m.bucket
}

func (m *minioStorage) UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("上传文件 '%s' 到 MinIO 失败: %w", objectKey, err)
	}
	publicURL := buildPublicObjectURL(m.publicBase, objectKey)
	m.logger.Debug("MinIO 文件上传成功", zap.String("objectKey", objectKey), zap.String("url", publicURL))
	return publicURL, nil
}

func (m *minioStorage) DeleteObject(ctx context.Context, objectKey string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("从 MinIO 删除对象 '%s' 失败: %w", objectKey, err)
	}
	return nil
}
