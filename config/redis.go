package config

import (
	"fmt"
	"time"
)

// RedisConfig Redis 连接配置，用于令牌黑名单与登录失败计数
type RedisConfig struct {
	Address  string `mapstructure:"address" yaml:"address"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`

	// 超时为 0 时使用 go-redis 的默认值
	DialTimeout  time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	PoolSize     int `mapstructure:"pool_size" yaml:"pool_size"` // 为 0 时取 10
	MinIdleConns int `mapstructure:"min_idle_conns" yaml:"min_idle_conns"`
}

// Addr 返回 host:port 形式的地址
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}
