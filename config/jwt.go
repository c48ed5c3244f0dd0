package config

// JWTConfig 定义JWT认证功能的相关配置，包含密钥、签发者等信息，用于生成和验证访问令牌。
type JWTConfig struct {
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"` // 用于签名Access Token的密钥
	Issuer    string `mapstructure:"issuer" yaml:"issuer"`         // JWT的签发者
	// ExpireMinutes 访问令牌有效期（分钟），为 0 时使用 constants.AccessTokenTTL
	ExpireMinutes int `mapstructure:"expire_minutes" yaml:"expire_minutes"`
}
