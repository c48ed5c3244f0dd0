package controller

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/actor_hub/commonerrors"
	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/middleware"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/vo"
	"github.com/Xushengqwer/actor_hub/response"
	"github.com/Xushengqwer/actor_hub/service/auth"
)

// AuthController 处理登录、当前用户与注销请求。
type AuthController struct {
	authService auth.AuthService
	logger      *core.ZapLogger
}

// NewAuthController 创建一个新的 AuthController 实例。
func NewAuthController(authService auth.AuthService, logger *core.ZapLogger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

// LoginHandler 表单登录，兼容 OAuth2 password 流程的客户端。
// @Summary 用户登录 (表单)
// @Description 使用用户名和密码登录，返回 Bearer 访问令牌。连续失败次数过多时暂时拒绝登录。
// @Tags 认证 (Auth)
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "用户名"
// @Param password formData string true "密码"
// @Success 200 {object} docs.SwaggerAPILoginResponse "登录成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "请求参数无效"
// @Failure 401 {object} docs.SwaggerAPIErrorResponseString "用户名或密码错误"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "用户已被禁用"
// @Failure 429 {object} docs.SwaggerAPIErrorResponseString "登录失败次数过多"
// @Router /api/v1/system/auth/login [post]
func (ctrl *AuthController) LoginHandler(c *gin.Context) {
	const operation = "AuthController.LoginHandler"
	var req dto.LoginDTO
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	ctrl.login(c, operation, &req)
}

// LoginJSONHandler JSON 登录。
// @Summary 用户登录 (JSON)
// @Description 与表单登录相同，请求体为 JSON。
// @Tags 认证 (Auth)
// @Accept json
// @Produce json
// @Param body body dto.LoginDTO true "登录凭证"
// @Success 200 {object} docs.SwaggerAPILoginResponse "登录成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "请求参数无效"
// @Failure 401 {object} docs.SwaggerAPIErrorResponseString "用户名或密码错误"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "用户已被禁用"
// @Failure 429 {object} docs.SwaggerAPIErrorResponseString "登录失败次数过多"
// @Router /api/v1/system/auth/login/json [post]
func (ctrl *AuthController) LoginJSONHandler(c *gin.Context) {
	const operation = "AuthController.LoginJSONHandler"
	var req dto.LoginDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	ctrl.login(c, operation, &req)
}

func (ctrl *AuthController) login(c *gin.Context, operation string, req *dto.LoginDTO) {
	res, err := ctrl.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	ctrl.logger.Info("用户登录成功", zap.String("operation", operation), zap.Uint("userID", res.User.ID))
	response.RespondSuccess(c, res, "登录成功")
}

// MeHandler 返回当前登录账户。
// @Summary 获取当前用户
// @Tags 认证 (Auth)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} docs.SwaggerAPIUserVOResponse "当前用户信息"
// @Failure 401 {object} docs.SwaggerAPIErrorResponseString "未认证"
// @Router /api/v1/system/auth/me [get]
func (ctrl *AuthController) MeHandler(c *gin.Context) {
	caller, ok := callerOrAbort(c)
	if !ok {
		return
	}
	user, err := ctrl.authService.Me(c.Request.Context(), caller.UserID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondSuccess(c, user)
}

// LogoutHandler 注销当前令牌。
// @Summary 注销
// @Description 将当前访问令牌加入黑名单，直到其自然过期。
// @Tags 认证 (Auth)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} docs.SwaggerAPIEmptyResponse "注销成功"
// @Failure 401 {object} docs.SwaggerAPIErrorResponseString "未认证"
// @Router /api/v1/system/auth/logout [post]
func (ctrl *AuthController) LogoutHandler(c *gin.Context) {
	const operation = "AuthController.LogoutHandler"
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.RespondAppError(c, commonerrors.NewUnauthorized("用户未认证"))
		return
	}
	if err := ctrl.authService.Logout(c.Request.Context(), claims); err != nil {
		response.RespondAppError(c, err)
		return
	}
	ctrl.logger.Info("用户已注销", zap.String("operation", operation), zap.Uint("userID", claims.UserID))
	response.RespondSuccess(c, vo.Empty{}, "注销成功")
}

// RegisterRoutes 注册认证相关路由，登录接口无需令牌。
func (ctrl *AuthController) RegisterRoutes(group *gin.RouterGroup, authMW gin.HandlerFunc) {
	authRoutes := group.Group("/system/auth")
	{
		authRoutes.POST("/login", ctrl.LoginHandler)
		authRoutes.POST("/login/json", ctrl.LoginJSONHandler)
		authRoutes.GET("/me", authMW, ctrl.MeHandler)
		authRoutes.POST("/logout", authMW, ctrl.LogoutHandler)
	}
}
