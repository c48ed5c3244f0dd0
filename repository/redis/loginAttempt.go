package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Xushengqwer/actor_hub/constants"
)

// LoginAttemptRepo 按用户名记录登录失败次数，计数窗口从第一次失败开始计算。
type LoginAttemptRepo interface {
	// RecordFailure 失败次数加一并返回当前次数，计数没有过期时间时设置窗口。
	RecordFailure(ctx context.Context, username string, window time.Duration) (int64, error)

	// GetFailures 返回窗口内的失败次数，不存在时返回 0。
	GetFailures(ctx context.Context, username string) (int64, error)

	// Reset 登录成功后清除计数。
	Reset(ctx context.Context, username string) error
}

type loginAttemptRepo struct {
	client *redis.Client
}

// NewLoginAttemptRepo 创建一个新的 loginAttemptRepo 实例。
func NewLoginAttemptRepo(client *redis.Client) LoginAttemptRepo {
	return &loginAttemptRepo{client: client}
}

func (r *loginAttemptRepo) buildKey(username string) string {
	return constants.LoginAttemptKeyPrefix + ":" + username
}

func (r *loginAttemptRepo) RecordFailure(ctx context.Context, username string, window time.Duration) (int64, error) {
	key := r.buildKey(username)
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("loginAttemptRepo.RecordFailure: 记录登录失败次数失败 (Username: %s): %w", username, err)
	}

	// 首次失败或上次设置过期时间失败时计数没有 TTL，补设窗口
	if ttl.Val() < 0 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("loginAttemptRepo.RecordFailure: 设置计数过期时间失败 (Username: %s): %w", username, err)
		}
	}
	return incr.Val(), nil
}

func (r *loginAttemptRepo) GetFailures(ctx context.Context, username string) (int64, error) {
	count, err := r.client.Get(ctx, r.buildKey(username)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("loginAttemptRepo.GetFailures: 查询登录失败次数失败 (Username: %s): %w", username, err)
	}
	return count, nil
}

func (r *loginAttemptRepo) Reset(ctx context.Context, username string) error {
	if err := r.client.Del(ctx, r.buildKey(username)).Err(); err != nil {
		return fmt.Errorf("loginAttemptRepo.Reset: 清除登录失败次数失败 (Username: %s): %w", username, err)
	}
	return nil
}
