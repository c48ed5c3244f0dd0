package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/constants"
	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/dependencies"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/repository/mysql"
	"github.com/Xushengqwer/actor_hub/repository/redis"
	"github.com/Xushengqwer/actor_hub/utils"
)

const (
	msgBadCredentials  = "用户名或密码错误"
	msgUserDisabled    = "用户已被禁用"
	msgTooManyAttempts = "登录失败次数过多，请稍后再试"
	msgInvalidToken    = "无效的访问令牌"
	msgTokenRevoked    = "令牌已失效，请重新登录"
)

// AuthService 负责账户凭证：密码登录、访问令牌校验与注销。
type AuthService interface {
	// Login 校验用户名和密码并签发访问令牌。
	// - 同一用户名在窗口期内连续失败达到上限后直接拒绝。
	Login(ctx context.Context, req *dto.LoginDTO) (*vo.LoginVO, error)

	// Authenticate 校验访问令牌并加载对应账户，供鉴权中间件使用。
	// - 令牌无效、已注销或账户不存在返回 Unauthorized；账户非活跃返回 Forbidden。
	Authenticate(ctx context.Context, token string) (*entities.User, *dependencies.CustomClaims, error)

	// Me 返回当前账户信息（含权限）。
	Me(ctx context.Context, userID uint) (*vo.UserVO, error)

	// Logout 将令牌的 JTI 加入黑名单直到其自然过期。
	Logout(ctx context.Context, claims *dependencies.CustomClaims) error
}

type authService struct {
	userRepo    mysql.UserRepository
	blacklist   redis.TokenBlackRepo
	attemptRepo redis.LoginAttemptRepo
	jwtUtil     dependencies.JWTTokenInterface
	db          *gorm.DB
	logger      *core.ZapLogger
}

// NewAuthService 创建一个新的 authService 实例。
func NewAuthService(
	userRepo mysql.UserRepository,
	blacklist redis.TokenBlackRepo,
	attemptRepo redis.LoginAttemptRepo,
	jwtUtil dependencies.JWTTokenInterface,
	db *gorm.DB,
	logger *core.ZapLogger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		blacklist:   blacklist,
		attemptRepo: attemptRepo,
		jwtUtil:     jwtUtil,
		db:          db,
		logger:      logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginDTO) (*vo.LoginVO, error) {
	const operation = "AuthService.Login"

	// 1. 登录失败次数检查；Redis 不可用时不阻断登录
	failures, err := s.attemptRepo.GetFailures(ctx, req.Username)
	if err != nil {
		s.logger.Warn("查询登录失败次数出错，跳过限制", zap.String("operation", operation), zap.Error(err))
	} else if failures >= constants.MaxLoginAttempts {
		s.logger.Warn("登录失败次数超限", zap.String("operation", operation), zap.String("username", req.Username))
		return nil, commonerrors.NewTooManyRequests(msgTooManyAttempts)
	}

	// 2. 校验用户名和密码，用户不存在与密码错误返回相同提示
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.recordFailure(ctx, req.Username)
			return nil, commonerrors.NewUnauthorized(msgBadCredentials)
		}
		s.logger.Error("查询用户失败", zap.String("operation", operation), zap.String("username", req.Username), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}
	if err := utils.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.recordFailure(ctx, req.Username)
		return nil, commonerrors.NewUnauthorized(msgBadCredentials)
	}

	// 3. 账户状态
	if user.Status != enums.UserStatusActive {
		s.logger.Warn("非活跃账户尝试登录", zap.String("operation", operation), zap.Uint("userID", user.ID), zap.String("status", string(user.Status)))
		return nil, commonerrors.NewForbidden(msgUserDisabled)
	}

	if err := s.attemptRepo.Reset(ctx, req.Username); err != nil {
		s.logger.Warn("清除登录失败次数出错", zap.String("operation", operation), zap.Error(err))
	}

	// 4. 签发令牌
	token, expiresAt, err := s.jwtUtil.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("签发访问令牌失败", zap.String("operation", operation), zap.Uint("userID", user.ID), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}

	s.logger.Info("用户登录成功", zap.String("operation", operation), zap.Uint("userID", user.ID), zap.String("role", string(user.Role)))
	return &vo.LoginVO{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		User:        vo.NewUserVO(user),
	}, nil
}

// recordFailure 记录一次登录失败，Redis 出错只记日志
func (s *authService) recordFailure(ctx context.Context, username string) {
	const operation = "AuthService.recordFailure"
	count, err := s.attemptRepo.RecordFailure(ctx, username, constants.LoginAttemptWindow)
	if err != nil {
		s.logger.Warn("记录登录失败次数出错", zap.String("operation", operation), zap.Error(err))
		return
	}
	s.logger.Info("登录失败", zap.String("operation", operation), zap.String("username", username), zap.Int64("failures", count))
}

func (s *authService) Authenticate(ctx context.Context, token string) (*entities.User, *dependencies.CustomClaims, error) {
	const operation = "AuthService.Authenticate"

	claims, err := s.jwtUtil.ParseAccessToken(token)
	if err != nil {
		s.logger.Debug("访问令牌校验失败", zap.String("operation", operation), zap.Error(err))
		return nil, nil, commonerrors.NewUnauthorized(msgInvalidToken)
	}

	revoked, err := s.blacklist.IsJtiBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("检查令牌黑名单失败", zap.String("operation", operation), zap.Error(err))
		return nil, nil, commonerrors.NewInternal(err)
	}
	if revoked {
		return nil, nil, commonerrors.NewUnauthorized(msgTokenRevoked)
	}

	user, err := s.userRepo.GetUserByID(ctx, s.db, claims.UserID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, nil, commonerrors.NewUnauthorized(msgInvalidToken)
		}
		s.logger.Error("加载令牌对应的用户失败", zap.String("operation", operation), zap.Uint("userID", claims.UserID), zap.Error(err))
		return nil, nil, commonerrors.NewInternal(err)
	}
	if user.Status != enums.UserStatusActive {
		return nil, nil, commonerrors.NewForbidden(msgUserDisabled)
	}
	return user, claims, nil
}

func (s *authService) Me(ctx context.Context, userID uint) (*vo.UserVO, error) {
	const operation = "AuthService.Me"
	user, err := s.userRepo.GetUserByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, commonerrors.NewNotFound("用户不存在")
		}
		s.logger.Error("查询当前用户失败", zap.String("operation", operation), zap.Uint("userID", userID), zap.Error(err))
		return nil, commonerrors.NewInternal(err)
	}
	return vo.NewUserVO(user), nil
}

func (s *authService) Logout(ctx context.Context, claims *dependencies.CustomClaims) error {
	const operation = "AuthService.Logout"
	if claims == nil || claims.ExpiresAt == nil {
		return commonerrors.NewUnauthorized(msgInvalidToken)
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.AddJtiToBlacklist(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("注销令牌失败", zap.String("operation", operation), zap.Uint("userID", claims.UserID), zap.Error(err))
		return commonerrors.NewInternal(err)
	}
	s.logger.Info("用户已注销", zap.String("operation", operation), zap.Uint("userID", claims.UserID))
	return nil
}
