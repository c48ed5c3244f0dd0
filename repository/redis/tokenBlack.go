package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Xushengqwer/actor_hub/constants"
)

// TokenBlackRepo 定义了基于 JTI (JWT ID) 的令牌黑名单仓库接口。
// - 退出登录时把令牌的 JTI 加入黑名单，受保护的路由据此拒绝已注销的令牌。
type TokenBlackRepo interface {
	// AddJtiToBlacklist 将 JTI 加入黑名单，ttl 应等于令牌的剩余有效时间。
	// - ttl 不为正数时令牌已经过期，直接跳过。
	AddJtiToBlacklist(ctx context.Context, jti string, ttl time.Duration) error

	// IsJtiBlacklisted 检查 JTI 是否在黑名单中。
	IsJtiBlacklisted(ctx context.Context, jti string) (bool, error)
}

type tokenBlackRepo struct {
	client *redis.Client
}

// NewTokenBlacklistRepo 创建一个新的 tokenBlackRepo 实例。
func NewTokenBlacklistRepo(client *redis.Client) TokenBlackRepo {
	return &tokenBlackRepo{client: client}
}

// buildBlacklistKey 示例: "actor_hub:blacklist:jti:xxxxxxxx-xxxx-..."
func (r *tokenBlackRepo) buildBlacklistKey(jti string) string {
	return constants.BlacklistKeyPrefix + ":jti:" + jti
}

func (r *tokenBlackRepo) AddJtiToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.buildBlacklistKey(jti), "blacklisted", ttl).Err(); err != nil {
		return fmt.Errorf("tokenBlackRepo.AddJtiToBlacklist: 将 JTI 加入黑名单失败 (JTI: %s): %w", jti, err)
	}
	return nil
}

func (r *tokenBlackRepo) IsJtiBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.buildBlacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("tokenBlackRepo.IsJtiBlacklisted: 检查 JTI 黑名单失败 (JTI: %s): %w", jti, err)
	}
	return exists == 1, nil
}
