package constants

import (
	"time"
)

const (
	// AccessTokenTTL 访问令牌（Access Token）的默认有效期，配置 jwtConfig.expire_minutes 可覆盖
	AccessTokenTTL = 24 * time.Hour

	// BlacklistKeyPrefix 注销令牌黑名单的 Redis 键前缀
	BlacklistKeyPrefix = "actor_hub:blacklist"

	// LoginAttemptKeyPrefix 登录失败计数的 Redis 键前缀
	LoginAttemptKeyPrefix = "actor_hub:login_attempt"

	// MaxLoginAttempts 窗口期内允许的连续登录失败次数
	MaxLoginAttempts = 5

	// LoginAttemptWindow 登录失败计数窗口
	LoginAttemptWindow = 15 * time.Minute
)
