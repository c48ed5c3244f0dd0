package dependencies

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tencentyun/cos-go-sdk-v5"
	"go.uber.org/zap"

	"github.com/Xushengqwer/actor_hub/config"
	"github.com/Xushengqwer/actor_hub/core"
)

type cosStorage struct {
	client              *cos.Client
	publicAccessURLBase *url.URL // 拼接对象公开访问 URL 的基础部分
	bucket              string
	logger              *core.ZapLogger
}

// InitCOS 初始化腾讯云 COS 客户端
func InitCOS(cfg *config.COSConfig, logger *core.ZapLogger) (ObjectStorage, error) {
	if cfg.SecretID == "" || cfg.SecretKey == "" || cfg.BucketName == "" || cfg.AppID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("COS 配置不完整，缺少关键字段 (SecretID, SecretKey, BucketName, AppID, Region)")
	}

	bucketURLStr := fmt.Sprintf("https://%s-%s.cos.%s.myqcloud.com", cfg.BucketName, cfg.AppID, cfg.Region)
	bucketURL, err := url.Parse(bucketURLStr)
	if err != nil {
		return nil, fmt.Errorf("解析 COS 存储桶 URL '%s' 失败: %w", bucketURLStr, err)
	}

	// 配置了 CDN 或自定义域名时用它拼接公开 URL，否则公有读桶直接使用桶地址
	publicBase := bucketURL
	if cfg.BaseURL != "" {
		publicBase, err = url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("解析 COS 公共访问 BaseURL '%s' 失败: %w", cfg.BaseURL, err)
		}
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: bucketURL}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	logger.Info("COS 客户端初始化成功",
		zap.String("bucket", cfg.BucketName),
		zap.String("region", cfg.Region),
		zap.String("publicBase", publicBase.String()),
	)
	return &cosStorage{
		client:              client,
		publicAccessURLBase: publicBase,
		bucket:              cfg.BucketName,
		logger:              logger,
	}, nil
}

func (c *cosStorage) Bucket() string {
	return c.bucket
}

func (c *cosStorage) UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error) {
	opts := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:   contentType,
			ContentLength: size,
		},
	}

	resp, err := c.client.Object.Put(ctx, objectKey, reader, opts)
	if err != nil {
		return "", fmt.Errorf("上传文件 '%s' 到 COS 失败: %w", objectKey, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("COS 文件上传失败，状态码: %d, 响应: %s", resp.StatusCode, string(msg))
	}

	publicURL := buildPublicObjectURL(c.publicAccessURLBase, objectKey)
	c.logger.Debug("COS 文件上传成功", zap.String("objectKey", objectKey), zap.String("url", publicURL))
	return publicURL, nil
}

func (c *cosStorage) DeleteObject(ctx context.Context, objectKey string) error {
	resp, err := c.client.Object.Delete(ctx, objectKey)
	if err != nil {
		return fmt.Errorf("从 COS 删除对象 '%s' 失败: %w", objectKey, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("COS 对象删除失败，状态码: %d, 响应: %s", resp.StatusCode, string(msg))
	}
	return nil
}
