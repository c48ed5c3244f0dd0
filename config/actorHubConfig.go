package config

type ActorHubConfig struct {
	ZapConfig       ZapConfig       `mapstructure:"zapConfig" json:"zapConfig" yaml:"zapConfig"`
	GormLogConfig   GormLogConfig   `mapstructure:"gormLogConfig" json:"gormLogConfig" yaml:"gormLogConfig"`
	ServerConfig    ServerConfig    `mapstructure:"serverConfig" json:"serverConfig" yaml:"serverConfig"`
	TracerConfig    TracerConfig    `mapstructure:"tracerConfig" json:"tracerConfig" yaml:"tracerConfig"`
	JWTConfig       JWTConfig       `mapstructure:"jwtConfig" json:"jwtConfig" yaml:"jwtConfig"`
	MySQLConfig     MySQLConfig     `mapstructure:"mySQLConfig" json:"mySQLConfig" yaml:"mySQLConfig"`
	RedisConfig     RedisConfig     `mapstructure:"redisConfig" json:"redisConfig" yaml:"redisConfig"`
	StorageConfig   StorageConfig   `mapstructure:"storageConfig" json:"storageConfig" yaml:"storageConfig"`
	MediaConfig     MediaConfig     `mapstructure:"mediaConfig" json:"mediaConfig" yaml:"mediaConfig"`
	CORSConfig      CORSConfig      `mapstructure:"corsConfig" json:"corsConfig" yaml:"corsConfig"`
	RateLimitConfig RateLimitConfig `mapstructure:"rateLimitConfig" json:"rateLimitConfig" yaml:"rateLimitConfig"`
	BootstrapAdmin  BootstrapAdmin  `mapstructure:"bootstrapAdmin" json:"bootstrapAdmin" yaml:"bootstrapAdmin"`
}

// BootstrapAdmin 启动时没有活跃管理员则用这些信息创建一个，Username 为空表示不创建
type BootstrapAdmin struct {
	Username string `mapstructure:"username" json:"username" yaml:"username"`
	Password string `mapstructure:"password" json:"password" yaml:"password"`
	Phone    string `mapstructure:"phone" json:"phone" yaml:"phone"`
	Email    string `mapstructure:"email" json:"email" yaml:"email"`
}
