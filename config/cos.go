package config

// COSConfig 定义腾讯云对象存储 (COS) 的相关配置
type COSConfig struct {
	SecretID   string `mapstructure:"secret_id" yaml:"secret_id"`     // COS 的 SecretId
	SecretKey  string `mapstructure:"secret_key" yaml:"secret_key"`   // COS 的 SecretKey
	BucketName string `mapstructure:"bucket_name" yaml:"bucket_name"` // 存储桶名称（例如 actor-media）
	AppID      string `mapstructure:"app_id" yaml:"app_id"`           // 存储桶的 APPID (数字部分)
	Region     string `mapstructure:"region" yaml:"region"`           // 存储桶所属地域 (例如 ap-guangzhou)
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`       // 可选：存储桶的访问基础 URL (例如 https://media.example.com)
}

// MinIOConfig 定义自建 MinIO 对象存储的配置
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint" yaml:"endpoint"`                 // 内网访问地址，例如 minio:9000
	AccessKey       string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey       string `mapstructure:"secret_key" yaml:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl" yaml:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name" yaml:"bucket_name"`
	Region          string `mapstructure:"region" yaml:"region"`
	ExternalBaseURL string `mapstructure:"external_base_url" yaml:"external_base_url"` // 对外访问地址，例如 http://localhost:9000
}

// StorageConfig 选择媒体文件使用的对象存储后端
type StorageConfig struct {
	Backend string      `mapstructure:"backend" yaml:"backend"` // cos 或 minio
	COS     COSConfig   `mapstructure:"cos" yaml:"cos"`
	MinIO   MinIOConfig `mapstructure:"minio" yaml:"minio"`
}
