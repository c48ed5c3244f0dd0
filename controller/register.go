package controller

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/middleware"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/models/enums"
	"github.com/Xushengqwer/actor_hub/response"
	"github.com/Xushengqwer/actor_hub/service/register"
)

// RegisterController 处理演员自助注册与管理员创建员工账号。
type RegisterController struct {
	registerService register.RegisterService
	logger          *core.ZapLogger
}

// NewRegisterController 创建一个新的 RegisterController 实例。
func NewRegisterController(registerService register.RegisterService, logger *core.ZapLogger) *RegisterController {
	return &RegisterController{registerService: registerService, logger: logger}
}

// RegisterPerformerHandler 演员凭经纪人邀请码注册。
// @Summary 演员注册
// @Description 使用经纪人发放的 6 位邀请码注册演员账号，同时创建空的演员档案。
// @Tags 注册 (Register)
// @Accept json
// @Produce json
// @Param body body dto.RegisterPerformerDTO true "注册信息"
// @Success 200 {object} docs.SwaggerAPIRegisterVOResponse "注册成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "参数无效、邀请码无效或用户名/手机号已存在"
// @Failure 500 {object} docs.SwaggerAPIErrorResponseString "系统内部错误"
// @Router /api/v1/system/register/performer [post]
func (ctrl *RegisterController) RegisterPerformerHandler(c *gin.Context) {
	const operation = "RegisterController.RegisterPerformerHandler"
	var req dto.RegisterPerformerDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.registerService.RegisterPerformer(c.Request.Context(), &req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	ctrl.logger.Info("演员注册成功", zap.String("operation", operation), zap.Uint("userID", res.User.ID), zap.String("actorID", res.ActorID))
	response.RespondSuccess(c, res, "注册成功")
}

// RegisterManagerHandler 管理员创建经纪人账号。
// @Summary 创建经纪人账号 (管理员)
// @Tags 注册 (Register)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegisterStaffDTO true "账号信息"
// @Success 200 {object} docs.SwaggerAPIRegisterVOResponse "创建成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "参数无效或用户名/手机号已存在"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "非管理员"
// @Router /api/v1/system/register/manager [post]
func (ctrl *RegisterController) RegisterManagerHandler(c *gin.Context) {
	ctrl.registerStaff(c, "RegisterController.RegisterManagerHandler", enums.RoleManager)
}

// RegisterAdminHandler 管理员创建管理员账号。
// @Summary 创建管理员账号 (管理员)
// @Tags 注册 (Register)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegisterStaffDTO true "账号信息"
// @Success 200 {object} docs.SwaggerAPIRegisterVOResponse "创建成功"
// @Failure 400 {object} docs.SwaggerAPIErrorResponseString "参数无效或用户名/手机号已存在"
// @Failure 403 {object} docs.SwaggerAPIErrorResponseString "非管理员"
// @Router /api/v1/system/register/admin [post]
func (ctrl *RegisterController) RegisterAdminHandler(c *gin.Context) {
	ctrl.registerStaff(c, "RegisterController.RegisterAdminHandler", enums.RoleAdmin)
}

func (ctrl *RegisterController) registerStaff(c *gin.Context, operation string, role enums.UserRole) {
	var req dto.RegisterStaffDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, ctrl.logger, operation, err)
		return
	}
	res, err := ctrl.registerService.RegisterStaff(c.Request.Context(), &req, role)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	ctrl.logger.Info("员工账号创建成功", zap.String("operation", operation), zap.Uint("userID", res.User.ID), zap.String("role", string(role)))
	response.RespondSuccess(c, res, "创建成功")
}

// RegisterRoutes 演员注册公开；创建员工账号仅限管理员。
func (ctrl *RegisterController) RegisterRoutes(group *gin.RouterGroup, authMW gin.HandlerFunc) {
	routes := group.Group("/system/register")
	{
		routes.POST("/performer", ctrl.RegisterPerformerHandler)

		adminOnly := routes.Group("", authMW, middleware.RequireRoles(enums.RoleAdmin))
		adminOnly.POST("/manager", ctrl.RegisterManagerHandler)
		adminOnly.POST("/admin", ctrl.RegisterAdminHandler)
	}
}
