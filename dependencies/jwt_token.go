package dependencies

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Xushengqwer/actor_hub/config"
	"github.com/Xushengqwer/actor_hub/constants"
	"github.com/Xushengqwer/actor_hub/models/enums"
)

//go:generate mockgen -destination=mocks/jwt_mock.go -package=mocks github.com/Xushengqwer/actor_hub/dependencies JWTTokenInterface

// JWTTokenInterface 定义访问令牌的签发与解析
type JWTTokenInterface interface {
	// GenerateAccessToken 签发访问令牌，返回令牌及其过期时间
	GenerateAccessToken(userID uint, username string, role enums.UserRole) (string, time.Time, error)

	// ParseAccessToken 解析并校验访问令牌（签名、过期时间、签发者）
	ParseAccessToken(tokenString string) (*CustomClaims, error)
}

// CustomClaims 访问令牌中携带的声明
type CustomClaims struct {
	UserID   uint           `json:"user_id"`
	Username string         `json:"username"`
	Role     enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// JWTUtility 基于 HS256 的实现
type JWTUtility struct {
	cfg *config.JWTConfig
	ttl time.Duration
}

func NewJWTUtility(cfg *config.JWTConfig) JWTTokenInterface {
	ttl := constants.AccessTokenTTL
	if cfg.ExpireMinutes > 0 {
		ttl = time.Duration(cfg.ExpireMinutes) * time.Minute
	}
	return &JWTUtility{cfg: cfg, ttl: ttl}
}

func (ju *JWTUtility) GenerateAccessToken(userID uint, username string, role enums.UserRole) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ju.ttl)

	claims := &CustomClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ju.cfg.Issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(), // JTI，注销时加入黑名单
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(ju.cfg.SecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("签名令牌失败: %w", err)
	}
	return signed, expiresAt, nil
}

func (ju *JWTUtility) ParseAccessToken(tokenString string) (*CustomClaims, error) {
	parser := jwt.NewParser(
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(ju.cfg.Issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	token, err := parser.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("签名算法不匹配: %v", token.Header["alg"])
		}
		return []byte(ju.cfg.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("无效的JWT声明")
	}
	return claims, nil
}
