package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/constants"
	"github.com/Xushengqwer/actor_hub/dependencies"
	"github.com/Xushengqwer/actor_hub/models/entities"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/response"
	"github.com/Xushengqwer/actor_hub/service/auth"
	"github.com/Xushengqwer/actor_hub/service/guard"
)

const (
	msgMissingToken  = "未提供访问令牌"
	msgLoginRequired = "请先登录"
	msgRoleForbidden = "当前角色无权访问此接口"
)

// AuthMiddleware 校验 Authorization: Bearer <token>，通过后把账户和令牌声明写入 gin.Context。
func AuthMiddleware(authService auth.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			response.RespondAppError(c, commonerrors.NewUnauthorized(msgMissingToken))
			return
		}

		user, claims, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.RespondAppError(c, err)
			return
		}

		c.Set(constants.ContextUserKey, user)
		c.Set(constants.ContextClaimsKey, claims)
		c.Next()
	}
}

// RequireRoles 只允许指定角色访问，必须放在 AuthMiddleware 之后。
func RequireRoles(roles ...enums.UserRole) gin.HandlerFunc {
	allowed := make(map[enums.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.RespondAppError(c, commonerrors.NewUnauthorized(msgLoginRequired))
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			response.RespondAppError(c, commonerrors.NewForbidden(msgRoleForbidden))
			return
		}
		c.Next()
	}
}

// ExtractToken 从请求头中取出 Bearer 令牌
func ExtractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentUser 返回 AuthMiddleware 写入的账户
func CurrentUser(c *gin.Context) (*entities.User, bool) {
	v, exists := c.Get(constants.ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*entities.User)
	return user, ok && user != nil
}

// CurrentClaims 返回 AuthMiddleware 写入的令牌声明
func CurrentClaims(c *gin.Context) (*dependencies.CustomClaims, bool) {
	v, exists := c.Get(constants.ContextClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*dependencies.CustomClaims)
	return claims, ok && claims != nil
}

// CallerFrom 把当前账户转换为权限判断使用的调用者
func CallerFrom(c *gin.Context) (guard.Caller, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		return guard.Caller{}, false
	}
	return guard.Caller{UserID: user.ID, Role: user.Role}, true
}
