package config

// MySQLConfig 定义MySQL连接的相关配置
type MySQLConfig struct {
	DSN             string `mapstructure:"dsn" yaml:"dsn"`                             // 例如 "root:password@tcp(host:port)/actor_hub?charset=utf8mb4&parseTime=True&loc=Local"
	MaxOpenConn     int    `mapstructure:"max_open_conn" yaml:"max_open_conn"`         // 最大打开连接数
	MaxIdleConn     int    `mapstructure:"max_idle_conn" yaml:"max_idle_conn"`         // 最大空闲连接数
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"` // 连接最大存活时间 (分钟)，0 表示 60
	AutoMigrate     bool   `mapstructure:"auto_migrate" yaml:"auto_migrate"`           // 启动时是否执行 AutoMigrate
}
